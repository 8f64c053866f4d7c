package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/auth"
	"github.com/academia-dev/academia/internal/models"
)

// LoginRequest represents a login request. The endpoint accepts
// form-encoded credentials (OAuth2 password-flow field names).
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// UsuarioResumen is the compact user envelope returned with tokens
type UsuarioResumen struct {
	ID     int    `json:"id"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
	RolID  *int   `json:"id_rol"`
}

// LoginResponse represents a successful credential exchange
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	RolID       *int           `json:"id_rol"`
	Usuario     UsuarioResumen `json:"usuario"`
}

// RegisterRequest represents a self-service registration
type RegisterRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Apellidos string `json:"apellidos" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

func resumen(user *models.Usuario) UsuarioResumen {
	return UsuarioResumen{
		ID:     user.ID,
		Email:  user.Email,
		Nombre: user.Nombre,
		Tipo:   user.Tipo,
		RolID:  user.RolID,
	}
}

// @Summary Login
// @Description Exchange form-encoded credentials for a bearer token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Credenciales incorrectas"})
		return
	}

	var user models.Usuario
	if err := s.db.Where("email = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Credenciales incorrectas"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Credenciales incorrectas"})
		return
	}

	if !user.Habilitado {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Credenciales incorrectas"})
		return
	}

	token, err := auth.GenerateToken(user.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User logged in")

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		RolID:       user.RolID,
		Usuario:     resumen(&user),
	})
}

// @Summary Register
// @Description Create a regular user account and return a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// Self-registered accounts are always regular users
	user, created := s.createUsuario(c, req.Nombre, req.Apellidos, req.Email, req.Password, "usuario", models.RoleUser)
	if !created {
		return
	}

	token, err := auth.GenerateToken(user.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Usuario registrado correctamente",
		"access_token": token,
		"token_type":   "bearer",
		"id_rol":       user.RolID,
		"usuario":      resumen(user),
	})
}

// createUsuario inserts a new account, handling the duplicate-email
// check shared by every registration endpoint. Writes the error
// response itself and returns created=false on failure.
func (s *Server) createUsuario(c *gin.Context, nombre, apellidos, email, password, tipo string, rolID int) (*models.Usuario, bool) {
	var existing models.Usuario
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "El email ya está registrado"})
		return nil, false
	} else if err != gorm.ErrRecordNotFound {
		s.logger.Error().Err(err).Msg("Failed to check existing email")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return nil, false
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return nil, false
	}

	user := models.Usuario{
		Tipo:         tipo,
		Nombre:       nombre,
		Apellidos:    apellidos,
		Email:        email,
		PasswordHash: hash,
		Habilitado:   true,
		RolID:        &rolID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return nil, false
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Int("id_rol", rolID).Msg("User created")
	return &user, true
}
