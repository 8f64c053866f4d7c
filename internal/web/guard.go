package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academia-dev/academia/internal/apiclient"
	"github.com/academia-dev/academia/internal/models"
)

// RouteClass declares who may see a page.
type RouteClass int

const (
	// RoutePublic renders for everyone; a session just personalizes it.
	RoutePublic RouteClass = iota
	// RouteAuthed requires any valid session.
	RouteAuthed
	// RouteAdmin requires the admin or supervisor role.
	RouteAdmin
	// RouteSuper requires the supervisor role.
	RouteSuper
)

// GuardOptions tweaks a single guard run.
type GuardOptions struct {
	// Skip bypasses the session check entirely; pages that implement
	// their own session handling set it.
	Skip bool
}

const (
	msgSesionInvalida = "Sesión inválida. Por favor inicia sesión nuevamente."
	msgSinPermisos    = "No tienes permisos para acceder a esta página"
	msgDebesIniciar   = "Debes iniciar sesión para acceder a esta página"
)

// Guard runs the per-page session check. It returns the visitor's
// profile (nil for anonymous visitors on public pages) and whether the
// handler should keep rendering; when it returns false the response
// has already been written.
//
// A stored token is never trusted on its own: every page load
// revalidates it against the backend, and a stale token is cleared so
// it cannot redirect-loop the visitor.
func (h *Handlers) Guard(c *gin.Context, class RouteClass, opts GuardOptions) (*apiclient.Perfil, bool) {
	if opts.Skip {
		return nil, true
	}

	store := NewSessionStore(c)
	token, ok := store.Token()
	if !ok {
		if class == RoutePublic {
			return nil, true
		}
		Notify(c, FlashError, msgDebesIniciar)
		c.Redirect(http.StatusSeeOther, "/login?next="+c.Request.URL.Path)
		return nil, false
	}

	perfil, err := h.api.Me(token)
	if err != nil {
		store.Clear()
		if class == RoutePublic {
			return nil, true
		}
		Notify(c, FlashError, msgSesionInvalida)
		c.Redirect(http.StatusSeeOther, "/login?next="+c.Request.URL.Path)
		return nil, false
	}
	store.SetRolID(perfil.RolValue())

	if !roleAllowed(class, perfil.RolValue()) {
		Notify(c, FlashError, msgSinPermisos)
		c.Redirect(http.StatusSeeOther, "/")
		return nil, false
	}
	return perfil, true
}

func roleAllowed(class RouteClass, rolID int) bool {
	switch class {
	case RouteAdmin:
		return rolID == models.RoleSupervisor || rolID == models.RoleAdmin
	case RouteSuper:
		return rolID == models.RoleSupervisor
	default:
		return true
	}
}
