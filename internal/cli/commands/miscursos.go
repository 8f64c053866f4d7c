package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/academia-dev/academia/internal/apiclient"
	"github.com/academia-dev/academia/internal/cli/auth"
)

// enrollmentClient is the API surface the enrollment listing needs
type enrollmentClient interface {
	MisCursos(token string) ([]apiclient.Curso, error)
}

type misCursosOptions struct {
	client    enrollmentClient
	store     auth.TokenStore
	out       io.Writer
	serverURL string
}

// MisCursosOption customizes runMisCursos, mainly for tests
type MisCursosOption func(*misCursosOptions)

func WithMisCursosClient(c enrollmentClient) MisCursosOption {
	return func(o *misCursosOptions) { o.client = c }
}

func WithMisCursosStore(s auth.TokenStore) MisCursosOption {
	return func(o *misCursosOptions) { o.store = s }
}

func WithMisCursosOutput(w io.Writer) MisCursosOption {
	return func(o *misCursosOptions) { o.out = w }
}

func WithMisCursosServerURL(serverURL string) MisCursosOption {
	return func(o *misCursosOptions) { o.serverURL = serverURL }
}

// NewMisCursosCmd creates the enrollment listing command
func NewMisCursosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mis-cursos",
		Short: "List the courses you are enrolled in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMisCursos()
		},
	}
}

func runMisCursos(opts ...MisCursosOption) error {
	o := &misCursosOptions{
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

	cursos, err := o.client.MisCursos(token)
	if err != nil {
		return err
	}

	if len(cursos) == 0 {
		fmt.Fprintln(o.out, "Aún no estás inscrito en ningún curso.")
		fmt.Fprintln(o.out, "\nInscríbete con: academia inscribirse <curso-id>")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tDURACIÓN")
	fmt.Fprintln(w, "──\t──────\t────────")

	for _, curso := range cursos {
		fmt.Fprintf(w, "%d\t%s\t%s\n", curso.ID, curso.Nombre, curso.Duracion)
	}

	w.Flush()

	return nil
}
