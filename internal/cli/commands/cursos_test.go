package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/academia-dev/academia/internal/apiclient"
)

// mockCatalogClient simulates the API for catalog tests
type mockCatalogClient struct {
	cursos     []apiclient.Curso
	shouldFail bool
	errorMsg   string
}

func (m *mockCatalogClient) Cursos(token string) ([]apiclient.Curso, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	return m.cursos, nil
}

func TestCursosCommand(t *testing.T) {
	mockAPI := &mockCatalogClient{cursos: []apiclient.Curso{
		{ID: 1, Nombre: "Introducción a Python", Duracion: "6 semanas", Activo: true, Inscritos: 12},
		{ID: 2, Nombre: "Go para Backend", Duracion: "8 semanas", Activo: false, Inscritos: 3},
	}}
	var output bytes.Buffer

	err := runCursos(
		WithCursosClient(mockAPI),
		WithCursosOutput(&output),
		WithCursosServerURL("http://academia.test"),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	outputStr := output.String()
	if !strings.Contains(outputStr, "Introducción a Python") {
		t.Errorf("expected the first course in the table, got: %s", outputStr)
	}
	if !strings.Contains(outputStr, "Inactivo") {
		t.Errorf("expected the inactive state to be rendered, got: %s", outputStr)
	}
}

func TestCursosCommand_EmptyCatalog(t *testing.T) {
	var output bytes.Buffer

	err := runCursos(
		WithCursosClient(&mockCatalogClient{}),
		WithCursosOutput(&output),
		WithCursosServerURL("http://academia.test"),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if !strings.Contains(output.String(), "No hay cursos disponibles.") {
		t.Errorf("expected the empty-catalog message, got: %s", output.String())
	}
}

func TestCursosCommand_APIFailure(t *testing.T) {
	err := runCursos(
		WithCursosClient(&mockCatalogClient{shouldFail: true, errorMsg: "connection refused"}),
		WithCursosOutput(&bytes.Buffer{}),
		WithCursosServerURL("http://academia.test"),
	)
	if err == nil {
		t.Fatal("expected an error when the API fails")
	}
}

// mockEnrollClient simulates the API for enrollment tests
type mockEnrollClient struct {
	result     *apiclient.EnrollResult
	shouldFail bool
	errorMsg   string
}

func (m *mockEnrollClient) Inscribirse(cursoID int, token string) (*apiclient.EnrollResult, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	return m.result, nil
}

func TestInscribirseCommand(t *testing.T) {
	store := newMockTokenStore()
	store.tokens["http://academia.test"] = "tok"
	var output bytes.Buffer

	err := runInscribirse(3,
		WithEnrollClient(&mockEnrollClient{result: &apiclient.EnrollResult{Message: "Inscripción exitosa"}}),
		WithEnrollStore(store),
		WithEnrollOutput(&output),
		WithEnrollServerURL("http://academia.test"),
	)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if !strings.Contains(output.String(), "Inscripción exitosa") {
		t.Errorf("expected the backend message, got: %s", output.String())
	}
}

func TestInscribirseCommand_NotAuthenticated(t *testing.T) {
	store := newMockTokenStore()
	store.loadErr = errors.New("not authenticated. Please run 'academia login' first")

	err := runInscribirse(3,
		WithEnrollClient(&mockEnrollClient{}),
		WithEnrollStore(store),
		WithEnrollOutput(&bytes.Buffer{}),
		WithEnrollServerURL("http://academia.test"),
	)
	if err == nil {
		t.Fatal("expected an error without a stored token")
	}
	if !strings.Contains(err.Error(), "not authenticated") {
		t.Errorf("expected the authentication error, got: %v", err)
	}
}
