package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academia-dev/academia/internal/apiclient"
	"github.com/academia-dev/academia/internal/models"
)

const (
	msgCredenciales  = "Credenciales incorrectas."
	msgErrorConexion = "Error de conexión."
	msgSesionCerrada = "Has cerrado sesión correctamente."
)

// loginPage renders the login form. A visitor who already holds a
// valid session is sent straight to their role's home instead.
func (h *Handlers) loginPage(c *gin.Context) {
	// The page does its own token handling, so the shared guard is
	// skipped here.
	if _, ok := h.Guard(c, RoutePublic, GuardOptions{Skip: true}); !ok {
		return
	}

	store := NewSessionStore(c)
	if token, ok := store.Token(); ok {
		perfil, err := h.api.Me(token)
		if err == nil {
			store.SetRolID(perfil.RolValue())
			c.Redirect(http.StatusSeeOther, homeForRole(perfil.RolValue()))
			return
		}
		store.Clear()
	}

	h.render(c, http.StatusOK, "login", gin.H{
		"Title":    "Iniciar sesión",
		"Username": "",
		"Next":     c.Query("next"),
	})
}

// loginSubmit authenticates against the backend and routes the visitor
// to the landing page matching their role.
func (h *Handlers) loginSubmit(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	remember := c.PostForm("remember") == "on"

	result, err := h.api.Login(username, password)
	if err != nil {
		h.render(c, http.StatusOK, "login", gin.H{
			"Title":    "Iniciar sesión",
			"Error":    loginErrorMessage(err),
			"Username": username,
			"Next":     c.PostForm("next"),
		})
		return
	}

	store := NewSessionStore(c)
	store.SetToken(result.AccessToken)
	store.SetRemember(remember)

	rolID, ok := h.resolveRole(result)
	if !ok {
		// Role unknown: fall back to the public landing rather than
		// guessing at a privileged page.
		h.logger.Warn().Str("username", username).Msg("login succeeded but role could not be resolved")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	store.SetRolID(rolID)
	c.Redirect(http.StatusSeeOther, homeForRole(rolID))
}

// resolveRole finds the role id in the login response, checking the
// top-level field first, then the nested user envelope, and finally
// asking the backend for the profile.
func (h *Handlers) resolveRole(result *apiclient.LoginResult) (int, bool) {
	if result.RolID != nil {
		return *result.RolID, true
	}
	if result.Usuario != nil && result.Usuario.RolID != nil {
		return *result.Usuario.RolID, true
	}
	perfil, err := h.api.Me(result.AccessToken)
	if err != nil {
		h.logger.Warn().Err(err).Msg("profile lookup after login failed")
		return 0, false
	}
	if perfil.RolID == nil {
		return 0, false
	}
	return *perfil.RolID, true
}

func loginErrorMessage(err error) string {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Detail != "" {
			return statusErr.Detail
		}
		return msgCredenciales
	}
	return msgErrorConexion
}

// homeForRole maps a role id to its landing route. Unknown roles land
// on the public page.
func homeForRole(rolID int) string {
	switch rolID {
	case models.RoleSupervisor:
		return "/super"
	case models.RoleAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// logoutSubmit drops the session and returns to the public landing
func (h *Handlers) logoutSubmit(c *gin.Context) {
	NewSessionStore(c).Clear()
	Notify(c, FlashSuccess, msgSesionCerrada)
	c.Redirect(http.StatusSeeOther, "/")
}
