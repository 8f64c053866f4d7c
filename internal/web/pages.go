package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminPage is the course-management view for admins and supervisors
func (h *Handlers) adminPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RouteAdmin, GuardOptions{})
	if !ok {
		return
	}
	token, _ := NewSessionStore(c).Token()
	cursos, err := h.api.Cursos(token)
	if err != nil {
		h.logger.Error().Err(err).Msg("course list fetch failed")
	}
	h.render(c, http.StatusOK, "admin", gin.H{
		"Title":  "Panel de administración",
		"Perfil": perfil,
		"Cursos": cursos,
	})
}

// superPage is the supervisor-only view
func (h *Handlers) superPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RouteSuper, GuardOptions{})
	if !ok {
		return
	}
	token, _ := NewSessionStore(c).Token()
	cursos, err := h.api.Cursos(token)
	if err != nil {
		h.logger.Error().Err(err).Msg("course list fetch failed")
	}
	h.render(c, http.StatusOK, "super", gin.H{
		"Title":  "Panel de supervisión",
		"Perfil": perfil,
		"Cursos": cursos,
	})
}

// panelPage is the signed-in home for regular users
func (h *Handlers) panelPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RouteAuthed, GuardOptions{})
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "panel", gin.H{
		"Title":  "Mi panel",
		"Perfil": perfil,
	})
}

// authCheckPage resolves the session and forwards to the matching home.
// It exists as a stable entry point for links that should land wherever
// the visitor belongs.
func (h *Handlers) authCheckPage(c *gin.Context) {
	store := NewSessionStore(c)
	token, ok := store.Token()
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	perfil, err := h.api.Me(token)
	if err != nil {
		store.Clear()
		Notify(c, FlashError, msgSesionInvalida)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	store.SetRolID(perfil.RolValue())
	c.Redirect(http.StatusSeeOther, homeForRole(perfil.RolValue()))
}

// dashboardPage summarizes the visitor's enrollments
func (h *Handlers) dashboardPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RouteAuthed, GuardOptions{})
	if !ok {
		return
	}
	token, _ := NewSessionStore(c).Token()
	cursos, err := h.api.MisCursos(token)
	if err != nil {
		h.logger.Error().Err(err).Msg("enrolled course fetch failed")
	}
	h.render(c, http.StatusOK, "dashboard", gin.H{
		"Title":  "Dashboard",
		"Perfil": perfil,
		"Cursos": cursos,
	})
}

// perfilPage shows the visitor's profile
func (h *Handlers) perfilPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RouteAuthed, GuardOptions{})
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "perfil", gin.H{
		"Title":  "Mi perfil",
		"Perfil": perfil,
	})
}

// misCursosPage lists the visitor's enrollments
func (h *Handlers) misCursosPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RouteAuthed, GuardOptions{})
	if !ok {
		return
	}
	token, _ := NewSessionStore(c).Token()
	cursos, err := h.api.MisCursos(token)
	data := gin.H{
		"Title":  "Mis cursos",
		"Perfil": perfil,
	}
	switch {
	case err != nil:
		h.logger.Error().Err(err).Msg("enrolled course fetch failed")
		data["ErrorMsg"] = msgCursosError
	case len(cursos) == 0:
		data["EmptyMsg"] = "Aún no estás inscrito en ningún curso."
	default:
		data["Cursos"] = cursos
	}
	h.render(c, http.StatusOK, "mis_cursos", data)
}

// configuracionPage shows account settings
func (h *Handlers) configuracionPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RouteAuthed, GuardOptions{})
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "configuracion", gin.H{
		"Title":    "Configuración",
		"Perfil":   perfil,
		"Remember": NewSessionStore(c).Remember(),
	})
}

// suscripcionSubmit handles the newsletter form on the landing page
func (h *Handlers) suscripcionSubmit(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		Notify(c, FlashError, "Introduce un email válido")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	Notify(c, FlashSuccess, fmt.Sprintf("Gracias por suscribirte con %s! Te contactaremos pronto.", email))
	c.Redirect(http.StatusSeeOther, "/")
}
