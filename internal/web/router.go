package web

import (
	"embed"
	"html/template"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// templateFuncs are the helpers available to every page template
var templateFuncs = template.FuncMap{
	"truncar": Truncar,
	"inicial": Inicial,
}

// Truncar shortens a course description for card rendering. Longer
// texts are cut at the limit and get a trailing ellipsis; shorter ones
// pass through untouched.
func Truncar(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Inicial returns the uppercased first letter of a name, used for
// avatar placeholders
func Inicial(name string) string {
	name = strings.TrimSpace(name)
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// Register mounts every page route on the router. Pages are reachable
// both at their clean path and at the legacy .html alias.
func (h *Handlers) Register(router *gin.Engine) {
	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	for _, path := range []string{"/", "/index.html", "/inicio", "/inicio.html"} {
		router.GET(path, h.landingPage)
	}

	router.GET("/login", h.loginPage)
	router.GET("/login.html", h.loginPage)
	router.POST("/login", h.loginSubmit)
	router.POST("/logout", h.logoutSubmit)

	router.GET("/admin", h.adminPage)
	router.GET("/admin.html", h.adminPage)
	router.GET("/super", h.superPage)
	router.GET("/super.html", h.superPage)

	router.GET("/panel", h.panelPage)
	router.GET("/auth-check", h.authCheckPage)
	router.GET("/dashboard", h.dashboardPage)
	router.GET("/dashboard.html", h.dashboardPage)
	router.GET("/perfil", h.perfilPage)
	router.GET("/mis-cursos", h.misCursosPage)
	router.GET("/mis-cursos.html", h.misCursosPage)
	router.GET("/configuracion", h.configuracionPage)

	router.GET("/curso/:id", h.cursoPage)
	router.GET("/curso/:id/participantes", h.rosterPage)
	router.POST("/curso/:id/inscribirse", h.enrollSubmit)

	router.POST("/suscripcion", h.suscripcionSubmit)
}

// render draws a page, attaching any pending flash message
func (h *Handlers) render(c *gin.Context, status int, name string, data gin.H) {
	if flash, ok := PopFlash(c); ok {
		data["Flash"] = flash
	}
	c.HTML(status, name, data)
}
