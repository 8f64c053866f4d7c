package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/academia-dev/academia/internal/apiclient"
	"github.com/academia-dev/academia/internal/cli/auth"
)

// enrollClient is the API surface the enroll command needs
type enrollClient interface {
	Inscribirse(cursoID int, token string) (*apiclient.EnrollResult, error)
}

type enrollOptions struct {
	client    enrollClient
	store     auth.TokenStore
	out       io.Writer
	serverURL string
}

// EnrollOption customizes runInscribirse, mainly for tests
type EnrollOption func(*enrollOptions)

func WithEnrollClient(c enrollClient) EnrollOption {
	return func(o *enrollOptions) { o.client = c }
}

func WithEnrollStore(s auth.TokenStore) EnrollOption {
	return func(o *enrollOptions) { o.store = s }
}

func WithEnrollOutput(w io.Writer) EnrollOption {
	return func(o *enrollOptions) { o.out = w }
}

func WithEnrollServerURL(serverURL string) EnrollOption {
	return func(o *enrollOptions) { o.serverURL = serverURL }
}

// NewInscribirseCmd creates the enroll command
func NewInscribirseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inscribirse <curso-id>",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cursoID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid course id %q", args[0])
			}
			return runInscribirse(cursoID)
		},
	}
}

func runInscribirse(cursoID int, opts ...EnrollOption) error {
	o := &enrollOptions{
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
	if o.client == nil {
		o.client = apiclient.New(o.serverURL)
	}

	token, err := o.store.LoadToken(o.serverURL)
	if err != nil {
		return err
	}

	result, err := o.client.Inscribirse(cursoID, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "✓ %s\n", result.Message)
	return nil
}
