package web

import (
	"github.com/rs/zerolog"

	"github.com/academia-dev/academia/internal/apiclient"
)

// APIClient is the slice of the REST client the web frontend needs.
// Calls carry the visitor's own token, so the frontend never holds
// credentials of its own.
type APIClient interface {
	Login(username, password string) (*apiclient.LoginResult, error)
	Me(token string) (*apiclient.Perfil, error)
	Cursos(token string) ([]apiclient.Curso, error)
	Curso(id int, token string) (*apiclient.Curso, error)
	Participantes(cursoID int, token string) ([]apiclient.Participante, error)
	Inscribirse(cursoID int, token string) (*apiclient.EnrollResult, error)
	MisCursos(token string) ([]apiclient.Curso, error)
}

// Handlers serves the HTML frontend on top of the REST API
type Handlers struct {
	api    APIClient
	logger zerolog.Logger
}

func New(api APIClient, logger zerolog.Logger) *Handlers {
	return &Handlers{
		api:    api,
		logger: logger.With().Str("component", "web").Logger(),
	}
}
