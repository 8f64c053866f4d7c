package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/academia-dev/academia/internal/apiclient"
)

const (
	featuredLimit   = 6
	descripcionMax  = 100
	msgInscritoOK   = "¡Te has inscrito correctamente al curso!"
	msgInscribirErr = "Error al inscribirse al curso"
	msgCursosVacio  = "No hay cursos destacados disponibles en este momento."
	msgCursosError  = "Error al cargar los cursos. Inténtalo de nuevo más tarde."
	msgRosterError  = "Error al obtener los usuarios"
	msgRosterVacio  = "No hay usuarios inscritos en este curso."
)

// landingPage renders the featured catalog. Load failures degrade to an
// inline message so the rest of the page still works.
func (h *Handlers) landingPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RoutePublic, GuardOptions{})
	if !ok {
		return
	}

	token, _ := NewSessionStore(c).Token()
	cursos, err := h.api.Cursos(token)
	data := gin.H{
		"Title":  "Academia",
		"Perfil": perfil,
	}
	switch {
	case err != nil:
		h.logger.Error().Err(err).Msg("course catalog fetch failed")
		data["ErrorMsg"] = msgCursosError
	case len(cursos) == 0:
		data["EmptyMsg"] = msgCursosVacio
	default:
		if len(cursos) > featuredLimit {
			cursos = cursos[:featuredLimit]
		}
		data["Cursos"] = cursos
	}
	h.render(c, http.StatusOK, "index", data)
}

// cursoPage shows a single course with its enrollment action
func (h *Handlers) cursoPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RoutePublic, GuardOptions{})
	if !ok {
		return
	}
	cursoID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	token, _ := NewSessionStore(c).Token()
	curso, err := h.api.Curso(cursoID, token)
	if err != nil {
		Notify(c, FlashError, "Curso no encontrado")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.render(c, http.StatusOK, "curso", gin.H{
		"Title":  curso.Nombre,
		"Perfil": perfil,
		"Curso":  curso,
	})
}

// enrollSubmit enrolls the visitor in a course. Anonymous visitors are
// sent to login first; the backend is not called without a token.
func (h *Handlers) enrollSubmit(c *gin.Context) {
	cursoID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	store := NewSessionStore(c)
	token, ok := store.Token()
	if !ok {
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/login?next=/curso/%d", cursoID))
		return
	}

	back := c.Request.Referer()
	if back == "" {
		back = fmt.Sprintf("/curso/%d", cursoID)
	}

	_, err = h.api.Inscribirse(cursoID, token)
	if err != nil {
		var statusErr *apiclient.StatusError
		switch {
		case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized:
			store.Clear()
			Notify(c, FlashError, msgSesionInvalida)
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/login?next=/curso/%d", cursoID))
			return
		case errors.As(err, &statusErr) && statusErr.Detail != "":
			Notify(c, FlashError, statusErr.Detail)
		default:
			h.logger.Error().Err(err).Int("curso_id", cursoID).Msg("enrollment request failed")
			Notify(c, FlashError, msgInscribirErr)
		}
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	Notify(c, FlashSuccess, msgInscritoOK)
	c.Redirect(http.StatusSeeOther, back)
}

// rosterPage lists the participants of a course
func (h *Handlers) rosterPage(c *gin.Context) {
	perfil, ok := h.Guard(c, RoutePublic, GuardOptions{})
	if !ok {
		return
	}
	cursoID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	token, _ := NewSessionStore(c).Token()
	data := gin.H{
		"Perfil":  perfil,
		"CursoID": cursoID,
	}

	curso, err := h.api.Curso(cursoID, token)
	if err != nil {
		Notify(c, FlashError, "Curso no encontrado")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	data["Curso"] = curso

	participantes, err := h.api.Participantes(cursoID, token)
	switch {
	case err != nil:
		h.logger.Error().Err(err).Int("curso_id", cursoID).Msg("participant list fetch failed")
		data["ErrorMsg"] = msgRosterError
		data["Title"] = fmt.Sprintf("Usuarios inscritos en %s", curso.Nombre)
	case len(participantes) == 0:
		data["EmptyMsg"] = msgRosterVacio
		data["Title"] = fmt.Sprintf("Usuarios inscritos en %s (0)", curso.Nombre)
	default:
		data["Participantes"] = participantes
		data["Title"] = fmt.Sprintf("Usuarios inscritos en %s (%d)", curso.Nombre, len(participantes))
	}
	h.render(c, http.StatusOK, "participantes", data)
}
