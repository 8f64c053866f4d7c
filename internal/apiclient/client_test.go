package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin_SendsFormEncodedCredentials(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form encoding, got %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("username") != "ana@example.com" || r.PostForm.Get("password") != "secreta123" {
			t.Errorf("unexpected credentials: %v", r.PostForm)
		}

		fmt.Fprint(w, `{"access_token":"tok","token_type":"bearer","id_rol":2,"usuario":{"id":1,"email":"ana@example.com","nombre":"Ana","id_rol":2}}`)
	}))
	defer backend.Close()

	client := New(backend.URL)
	result, err := client.Login("ana@example.com", "secreta123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if result.AccessToken != "tok" {
		t.Errorf("expected token tok, got %s", result.AccessToken)
	}
	if result.RolID == nil || *result.RolID != 2 {
		t.Error("expected top-level role 2")
	}
	if result.Usuario == nil || result.Usuario.Email != "ana@example.com" {
		t.Error("expected the nested user envelope")
	}
}

func TestDo_DecodesDetailIntoStatusError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"Ya estás inscrito en este curso"}`)
	}))
	defer backend.Close()

	client := New(backend.URL)
	_, err := client.Inscribirse(1, "tok")
	if err == nil {
		t.Fatal("expected an error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected a StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", statusErr.StatusCode)
	}
	if statusErr.Detail != "Ya estás inscrito en este curso" {
		t.Errorf("unexpected detail: %s", statusErr.Detail)
	}
}

func TestDo_TokenHandling(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer backend.Close()

	client := New(backend.URL)

	if _, err := client.Cursos(""); err != nil {
		t.Fatalf("Cursos failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("anonymous calls must not send an Authorization header, got %q", gotAuth)
	}

	if _, err := client.MisCursos("tok"); err != nil {
		t.Fatalf("MisCursos failed: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
}

func TestMe(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usuarios/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":1,"nombre":"Ana","apellidos":"García","email":"ana@example.com","id_rol":3}`)
	}))
	defer backend.Close()

	perfil, err := New(backend.URL).Me("tok")
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if perfil.Email != "ana@example.com" {
		t.Errorf("unexpected profile: %+v", perfil)
	}
	if perfil.RolValue() != 3 {
		t.Errorf("expected role 3, got %d", perfil.RolValue())
	}
}

func TestRolValue_NilSafety(t *testing.T) {
	var p *Perfil
	if p.RolValue() != 0 {
		t.Error("nil profile should report role 0")
	}
	if (&Perfil{}).RolValue() != 0 {
		t.Error("missing role should report 0")
	}
}
