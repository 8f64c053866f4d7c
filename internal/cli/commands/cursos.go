package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/academia-dev/academia/internal/apiclient"
)

// catalogClient is the API surface the course listing needs
type catalogClient interface {
	Cursos(token string) ([]apiclient.Curso, error)
}

type cursosOptions struct {
	client    catalogClient
	out       io.Writer
	serverURL string
}

// CursosOption customizes runCursos, mainly for tests
type CursosOption func(*cursosOptions)

func WithCursosClient(c catalogClient) CursosOption {
	return func(o *cursosOptions) { o.client = c }
}

func WithCursosOutput(w io.Writer) CursosOption {
	return func(o *cursosOptions) { o.out = w }
}

func WithCursosServerURL(serverURL string) CursosOption {
	return func(o *cursosOptions) { o.serverURL = serverURL }
}

// NewCursosCmd creates the catalog listing command
func NewCursosCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "cursos",
		Aliases: []string{"ls"},
		Short:   "List the course catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCursos()
		},
	}
}

func runCursos(opts ...CursosOption) error {
	o := &cursosOptions{
		out: os.Stdout,
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

	// The catalog is public, no token needed
	cursos, err := o.client.Cursos("")
	if err != nil {
		return err
	}

	if len(cursos) == 0 {
		fmt.Fprintln(o.out, "No hay cursos disponibles.")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tDURACIÓN\tINSCRITOS\tESTADO")
	fmt.Fprintln(w, "──\t──────\t────────\t─────────\t──────")

	for _, curso := range cursos {
		estado := "Activo"
		if !curso.Activo {
			estado = "Inactivo"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			curso.ID,
			curso.Nombre,
			curso.Duracion,
			curso.Inscritos,
			estado,
		)
	}

	w.Flush()

	return nil
}
