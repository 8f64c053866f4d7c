// Package apiclient is a typed HTTP client for the Academia REST API.
// The web frontend and the CLI both drive the API through it, always
// with the caller's bearer token.
package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client represents an HTTP client for the Academia API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// StatusError is returned for non-2xx responses. Detail carries the
// backend's user-facing message when the body had one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("request failed (status %d)", e.StatusCode)
}

// Perfil is the /usuarios/me response
type Perfil struct {
	ID        int    `json:"id"`
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	Email     string `json:"email"`
	Tipo      string `json:"tipo"`
	RolID     *int   `json:"id_rol"`
	Imagen    string `json:"imagen_perfil"`
}

// RolValue returns the role id, or zero when the profile carries none
func (p *Perfil) RolValue() int {
	if p == nil || p.RolID == nil {
		return 0
	}
	return *p.RolID
}

// LoginResult is the /auth/login response. The role may arrive at the
// top level, nested in the user envelope, or not at all.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	RolID       *int   `json:"id_rol"`
	Usuario     *struct {
		ID     int    `json:"id"`
		Email  string `json:"email"`
		Nombre string `json:"nombre"`
		RolID  *int   `json:"id_rol"`
	} `json:"usuario"`
}

// Curso is a catalog entry
type Curso struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Duracion    string `json:"duracion"`
	Activo      bool   `json:"activo"`
	Imagen      string `json:"imagen"`
	Destacado   bool   `json:"destacado"`
	Nuevo       bool   `json:"nuevo"`
	Inscritos   int64  `json:"inscritos"`
}

// Participante is a roster entry
type Participante struct {
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos"`
	Email     string `json:"email"`
}

// EnrollResult is the enrollment confirmation envelope
type EnrollResult struct {
	Message       string `json:"message"`
	InscripcionID int    `json:"inscripcion_id"`
}

// do issues the request and decodes the response into out (when out is
// non-nil). Non-2xx responses become a *StatusError carrying the
// backend detail.
func (c *Client) do(method, path, token string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Detail string `json:"detail"`
		}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &envelope)
		return &StatusError{StatusCode: resp.StatusCode, Detail: envelope.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login exchanges form-encoded credentials for a bearer token
func (c *Client) Login(username, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var result LoginResult
	err := c.do(http.MethodPost, "/auth/login", "", strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Me fetches the profile of the token's owner
func (c *Client) Me(token string) (*Perfil, error) {
	var perfil Perfil
	if err := c.do(http.MethodGet, "/usuarios/me", token, nil, "", &perfil); err != nil {
		return nil, err
	}
	return &perfil, nil
}

// Cursos lists the catalog. Token is optional (anonymous browsing).
func (c *Client) Cursos(token string) ([]Curso, error) {
	var cursos []Curso
	if err := c.do(http.MethodGet, "/cursos", token, nil, "", &cursos); err != nil {
		return nil, err
	}
	return cursos, nil
}

// Curso fetches one course
func (c *Client) Curso(id int, token string) (*Curso, error) {
	var curso Curso
	if err := c.do(http.MethodGet, fmt.Sprintf("/cursos/%d", id), token, nil, "", &curso); err != nil {
		return nil, err
	}
	return &curso, nil
}

// Participantes lists the roster of a course. Token is optional.
func (c *Client) Participantes(cursoID int, token string) ([]Participante, error) {
	var participantes []Participante
	if err := c.do(http.MethodGet, fmt.Sprintf("/cursos/%d/participantes", cursoID), token, nil, "", &participantes); err != nil {
		return nil, err
	}
	return participantes, nil
}

// Inscribirse enrolls the token's owner in a course
func (c *Client) Inscribirse(cursoID int, token string) (*EnrollResult, error) {
	var result EnrollResult
	if err := c.do(http.MethodPost, fmt.Sprintf("/usuarios/inscribirse/%d", cursoID), token, nil, "application/json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MisCursos lists the courses the token's owner is enrolled in
func (c *Client) MisCursos(token string) ([]Curso, error) {
	var cursos []Curso
	if err := c.do(http.MethodGet, "/usuarios/mis-cursos", token, nil, "", &cursos); err != nil {
		return nil, err
	}
	return cursos, nil
}
