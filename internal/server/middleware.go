package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/auth"
	"github.com/academia-dev/academia/internal/models"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

// GetSessionData returns the authenticated session for the request
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

// extractToken looks for a bearer token in, by priority: the
// Authorization header, the access_token cookie, the token query
// parameter. Browser pages and API clients share the same endpoints, so
// all three sources are honored.
func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		if t := strings.TrimPrefix(h, bearerPrefix); t != "" {
			return t
		}
	}

	if t, err := c.Cookie("access_token"); err == nil && t != "" {
		return t
	}

	return c.Query("token")
}

func respondWithDetail(c *gin.Context, log zerolog.Logger, statusCode int, err error, detail string) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(detail)
	c.JSON(statusCode, gin.H{"detail": detail})
	c.Abort()
}

// AuthRequired validates the bearer token and loads the user it names
func AuthRequired(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrMissingToken, "No se pudo validar el token")
			return
		}

		email, err := auth.ValidateToken(token)
		if err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrInvalidToken, "No se pudo validar el token")
			return
		}

		var user models.Usuario
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrUserNotFound, "No se pudo validar el token")
			return
		}

		setSession(c, &auth.SessionData{
			UserID: user.ID,
			Email:  user.Email,
			RolID:  user.RolValue(),
		})

		c.Next()
	}
}

// RoleRequired ensures the authenticated user holds one of the allowed
// roles. Must run after AuthRequired.
func RoleRequired(log zerolog.Logger, allowed ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			respondWithDetail(c, log, http.StatusUnauthorized, ErrMissingToken, "No se pudo validar el token")
			return
		}

		if !sessionData.HasRole(allowed...) {
			respondWithDetail(c, log, http.StatusForbidden, errors.New("role not allowed"),
				"No tienes permisos para acceder a este recurso")
			return
		}

		c.Next()
	}
}
