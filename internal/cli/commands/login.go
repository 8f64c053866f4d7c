package commands

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/academia-dev/academia/internal/apiclient"
	"github.com/academia-dev/academia/internal/cli/auth"
)

// loginClient is the API surface the login command needs
type loginClient interface {
	Login(username, password string) (*apiclient.LoginResult, error)
	Me(token string) (*apiclient.Perfil, error)
}

type loginOptions struct {
	client    loginClient
	store     auth.TokenStore
	out       io.Writer
	serverURL string
	email     string
	password  string
}

// LoginOption customizes runLogin, mainly for tests
type LoginOption func(*loginOptions)

func WithLoginClient(c loginClient) LoginOption {
	return func(o *loginOptions) { o.client = c }
}

func WithLoginStore(s auth.TokenStore) LoginOption {
	return func(o *loginOptions) { o.store = s }
}

func WithLoginOutput(w io.Writer) LoginOption {
	return func(o *loginOptions) { o.out = w }
}

func WithLoginServerURL(serverURL string) LoginOption {
	return func(o *loginOptions) { o.serverURL = serverURL }
}

func WithLoginCredentials(email, password string) LoginOption {
	return func(o *loginOptions) {
		o.email = email
		o.password = password
	}
}

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with an Academia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(WithLoginCredentials(email, password))
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set ACADEMIA_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set ACADEMIA_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(opts ...LoginOption) error {
	o := &loginOptions{
		store: auth.Default,
		out:   os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	// Check for environment variables (useful for CI/CD)
	if o.email == "" {
		o.email = os.Getenv("ACADEMIA_EMAIL")
	}
	if o.password == "" {
		o.password = os.Getenv("ACADEMIA_PASSWORD")
	}

	if o.email == "" {
		return fmt.Errorf("email is required (use --email flag or ACADEMIA_EMAIL env var)")
	}

	if o.serverURL == "" {
		serverURL, err := resolveServerURL()
		if err != nil {
			return err
		}
		o.serverURL = serverURL
	}
	if o.client == nil {
		o.client = apiclient.New(o.serverURL)
	}

	// Prompt for password if not provided via flag or env var
	if o.password == "" {
		// Check if stdin is a terminal (not piped)
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Fprint(o.out, "Contraseña: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			o.password = string(bytePassword)
			fmt.Fprintln(o.out) // New line after password input
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or ACADEMIA_PASSWORD env var)")
		}
	}

	fmt.Fprintf(o.out, "Iniciando sesión en %s...\n", o.serverURL)

	result, err := o.client.Login(o.email, o.password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := o.store.SaveToken(o.serverURL, result.AccessToken); err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	fmt.Fprintln(o.out, "✓ Sesión iniciada")
	if perfil, err := o.client.Me(result.AccessToken); err == nil {
		fmt.Fprintf(o.out, "  Usuario: %s (%s)\n", perfil.Nombre, perfil.Email)
		fmt.Fprintf(o.out, "  Rol: %s\n", roleName(perfil.RolValue()))
	}

	return nil
}
