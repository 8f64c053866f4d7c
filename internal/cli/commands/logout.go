package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/academia-dev/academia/internal/cli/auth"
)

type logoutOptions struct {
	store     auth.TokenStore
	out       io.Writer
	serverURL string
}

// LogoutOption customizes runLogout, mainly for tests
type LogoutOption func(*logoutOptions)

func WithLogoutStore(s auth.TokenStore) LogoutOption {
	return func(o *logoutOptions) { o.store = s }
}

func WithLogoutOutput(w io.Writer) LogoutOption {
	return func(o *logoutOptions) { o.out = w }
}

func WithLogoutServerURL(serverURL string) LogoutOption {
	return func(o *logoutOptions) { o.serverURL = serverURL }
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout(opts ...LogoutOption) error {
	o := &logoutOptions{
		store: auth.Default,
		out:   os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.serverURL == "" {
		serverURL, err := resolveServerURL()
		if err != nil {
			return err
		}
		o.serverURL = serverURL
	}

	if err := o.store.DeleteToken(o.serverURL); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	fmt.Fprintln(o.out, "Sesión cerrada.")
	return nil
}
