package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/academia-dev/academia/internal/cli/userconfig"
)

// NewServerCmd creates the server configuration command
func NewServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [url]",
		Short: "Show or set the Academia server URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				serverURL, err := userconfig.GetServerURL()
				if err != nil {
					return err
				}
				fmt.Printf("Servidor: %s\n", serverURL)
				return nil
			}

			if err := userconfig.SetServerURL(args[0]); err != nil {
				return fmt.Errorf("failed to save server URL: %w", err)
			}
			fmt.Printf("Servidor configurado: %s\n", args[0])
			return nil
		},
	}
}
