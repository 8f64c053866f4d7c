package commands

import (
	"fmt"

	"github.com/academia-dev/academia/internal/cli/userconfig"
	"github.com/academia-dev/academia/internal/models"
)

// resolveServerURL returns the server the CLI should talk to.
// This is common logic used by most commands.
func resolveServerURL() (string, error) {
	serverURL, err := userconfig.GetServerURL()
	if err != nil {
		return "", fmt.Errorf("failed to load user config: %w", err)
	}
	return serverURL, nil
}

// roleName renders a role id for terminal output
func roleName(rolID int) string {
	switch rolID {
	case models.RoleSupervisor:
		return "Supervisor"
	case models.RoleAdmin:
		return "Administrador"
	case models.RoleUser:
		return "Usuario"
	default:
		return fmt.Sprintf("Rol %d", rolID)
	}
}
