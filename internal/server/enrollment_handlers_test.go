package server

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/academia-dev/academia/internal/models"
)

func loginToken(t *testing.T, srv *Server, email, password string) string {
	t.Helper()

	w := loginForm(srv, email, password)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestInscribirse(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "ana@example.com", "secreta123", models.RoleUser)
	token := loginToken(t, srv, "ana@example.com", "secreta123")

	w := doRequest(srv, http.MethodPost, "/usuarios/inscribirse/1", token, nil, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message       string `json:"message"`
		InscripcionID int    `json:"inscripcion_id"`
		Curso         struct {
			ID     int    `json:"id"`
			Nombre string `json:"nombre"`
		} `json:"curso"`
	}
	decodeJSON(t, w, &resp)
	require.Equal(t, "Inscripción exitosa", resp.Message)
	require.NotZero(t, resp.InscripcionID)
	require.Equal(t, 1, resp.Curso.ID)
}

func TestInscribirse_Duplicate(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "ana@example.com", "secreta123", models.RoleUser)
	token := loginToken(t, srv, "ana@example.com", "secreta123")

	w := doRequest(srv, http.MethodPost, "/usuarios/inscribirse/1", token, nil, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(srv, http.MethodPost, "/usuarios/inscribirse/1", token, nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	decodeJSON(t, w, &body)
	require.Equal(t, "Ya estás inscrito en este curso", body["detail"])
}

func TestInscribirse_CursoInactivo(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "ana@example.com", "secreta123", models.RoleUser)
	token := loginToken(t, srv, "ana@example.com", "secreta123")

	curso := models.Curso{
		Nombre:      "Curso cerrado",
		Descripcion: "Ya no se imparte",
		Duracion:    "4 semanas",
		Activo:      false,
	}
	require.NoError(t, srv.db.Create(&curso).Error)

	w := doRequest(srv, http.MethodPost, "/usuarios/inscribirse/"+strconv.Itoa(curso.ID), token, nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	decodeJSON(t, w, &body)
	require.Equal(t, "Este curso no está disponible actualmente", body["detail"])
}

func TestInscribirse_CursoInexistente(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "ana@example.com", "secreta123", models.RoleUser)
	token := loginToken(t, srv, "ana@example.com", "secreta123")

	w := doRequest(srv, http.MethodPost, "/usuarios/inscribirse/9999", token, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	decodeJSON(t, w, &body)
	require.Equal(t, "Curso no encontrado", body["detail"])
}

func TestMisCursos(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "ana@example.com", "secreta123", models.RoleUser)
	token := loginToken(t, srv, "ana@example.com", "secreta123")

	w := doRequest(srv, http.MethodGet, "/usuarios/mis-cursos", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())

	doRequest(srv, http.MethodPost, "/usuarios/inscribirse/2", token, nil, "")

	w = doRequest(srv, http.MethodGet, "/usuarios/mis-cursos", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var cursos []models.Curso
	decodeJSON(t, w, &cursos)
	require.Len(t, cursos, 1)
	require.Equal(t, 2, cursos[0].ID)
	require.EqualValues(t, 1, cursos[0].Inscritos)
}

func TestCancelarInscripcion(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "ana@example.com", "secreta123", models.RoleUser)
	token := loginToken(t, srv, "ana@example.com", "secreta123")

	doRequest(srv, http.MethodPost, "/usuarios/inscribirse/1", token, nil, "")

	w := doRequest(srv, http.MethodDelete, "/usuarios/cursos/1/inscripcion", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	decodeJSON(t, w, &body)
	require.Equal(t, "Inscripción cancelada correctamente", body["message"])

	// Cancelling again reports the missing enrollment
	w = doRequest(srv, http.MethodDelete, "/usuarios/cursos/1/inscripcion", token, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompletarCurso(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "ana@example.com", "secreta123", models.RoleUser)
	token := loginToken(t, srv, "ana@example.com", "secreta123")

	doRequest(srv, http.MethodPost, "/usuarios/inscribirse/1", token, nil, "")

	w := doRequest(srv, http.MethodPut, "/usuarios/cursos/1/completar", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var inscripcion models.Inscripcion
	require.NoError(t, srv.db.Where("id_curso = ?", 1).First(&inscripcion).Error)
	require.True(t, inscripcion.Completado)
}
