package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/academia-dev/academia/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "academia",
	Short: "Academia - course enrollment from the terminal",
	Long: `Academia CLI - Browse the course catalog and manage your enrollments.

Authenticate once with 'academia login'; the session token is stored in
the OS keychain and reused by every command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("academia version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewCursosCmd())
	rootCmd.AddCommand(commands.NewMisCursosCmd())
	rootCmd.AddCommand(commands.NewInscribirseCmd())
	rootCmd.AddCommand(commands.NewServerCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
