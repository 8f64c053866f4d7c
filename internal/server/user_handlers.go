package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/auth"
	"github.com/academia-dev/academia/internal/models"
)

// UsuarioCreateRequest registers an account through /usuarios. The
// historical default role for this endpoint is administrator; the
// public /auth/register endpoint always assigns the regular role.
type UsuarioCreateRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Apellidos string `json:"apellidos" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Tipo      string `json:"tipo"`
	RolID     *int   `json:"id_rol"`
}

// UsuarioUpdateRequest is a partial profile update
type UsuarioUpdateRequest struct {
	Nombre     *string `json:"nombre"`
	Apellidos  *string `json:"apellidos"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password"`
	Tipo       *string `json:"tipo"`
	Habilitado *bool   `json:"habilitado"`
	RolID      *int    `json:"id_rol"`
}

// RolUpdateRequest changes a user's role
type RolUpdateRequest struct {
	RolID int `json:"id_rol" binding:"required"`
}

// @Summary Register user
// @Tags usuarios
// @Accept json
// @Produce json
// @Param request body UsuarioCreateRequest true "User"
// @Success 200 {object} models.Usuario
// @Failure 400 {object} map[string]interface{}
// @Router /usuarios [post]
func (s *Server) registrarUsuario(c *gin.Context) {
	var req UsuarioCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	tipo := req.Tipo
	if tipo == "" {
		tipo = "administrador"
	}
	rolID := models.RoleAdmin
	if req.RolID != nil {
		rolID = *req.RolID
	}

	user, created := s.createUsuario(c, req.Nombre, req.Apellidos, req.Email, req.Password, tipo, rolID)
	if !created {
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Register administrator
// @Tags usuarios
// @Accept json
// @Produce json
// @Param request body UsuarioCreateRequest true "User"
// @Success 200 {object} models.Usuario
// @Failure 400 {object} map[string]interface{}
// @Router /usuarios/admin [post]
func (s *Server) registrarAdmin(c *gin.Context) {
	var req UsuarioCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, created := s.createUsuario(c, req.Nombre, req.Apellidos, req.Email, req.Password, "administrador", models.RoleAdmin)
	if !created {
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Current user profile
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Usuario
// @Failure 401 {object} map[string]interface{}
// @Router /usuarios/me [get]
func (s *Server) getMe(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No se pudo validar el token"})
		return
	}

	var user models.Usuario
	if err := s.db.Preload("Rol").First(&user, sessionData.UserID).Error; err != nil {
		s.logger.Error().Err(err).Int("user_id", sessionData.UserID).Msg("Failed to load profile")
		c.JSON(http.StatusNotFound, gin.H{"detail": "Usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// applyUsuarioUpdate mutates the user row with the non-nil fields of
// the request, re-hashing a changed password and enforcing email
// uniqueness. Writes the error response itself on failure.
func (s *Server) applyUsuarioUpdate(c *gin.Context, user *models.Usuario, req *UsuarioUpdateRequest) bool {
	if req.Email != nil && *req.Email != user.Email {
		var existing models.Usuario
		if err := s.db.Where("email = ?", *req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "El email ya está registrado por otro usuario"})
			return false
		} else if err != gorm.ErrRecordNotFound {
			s.logger.Error().Err(err).Msg("Failed to check existing email")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
			return false
		}
		user.Email = *req.Email
	}

	if req.Nombre != nil {
		user.Nombre = *req.Nombre
	}
	if req.Apellidos != nil {
		user.Apellidos = *req.Apellidos
	}
	if req.Tipo != nil {
		user.Tipo = *req.Tipo
	}
	if req.Habilitado != nil {
		user.Habilitado = *req.Habilitado
	}
	if req.RolID != nil {
		user.RolID = req.RolID
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
			return false
		}
		user.PasswordHash = hash
	}

	if err := s.db.Save(user).Error; err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return false
	}

	return true
}

// @Summary Update own profile
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UsuarioUpdateRequest true "Fields to update"
// @Success 200 {object} models.Usuario
// @Router /usuarios/me [put]
func (s *Server) updateMe(c *gin.Context) {
	var req UsuarioUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	sessionData, _ := GetSessionData(c)

	var user models.Usuario
	if err := s.db.First(&user, sessionData.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Usuario no encontrado"})
		return
	}

	if !s.applyUsuarioUpdate(c, &user, &req) {
		return
	}

	var updated models.Usuario
	if err := s.db.Preload("Rol").First(&updated, user.ID).Error; err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to reload user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary List all users
// @Description Supervisors only
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Usuario
// @Router /usuarios [get]
func (s *Server) listUsuarios(c *gin.Context) {
	var usuarios []models.Usuario
	if err := s.db.Preload("Rol").Order("id").Find(&usuarios).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, usuarios)
}

// @Summary List regular users
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Usuario
// @Router /usuarios/solo-usuarios [get]
func (s *Server) listUsuariosNormales(c *gin.Context) {
	var usuarios []models.Usuario
	if err := s.db.Where("id_rol = ?", models.RoleUser).Order("id").Find(&usuarios).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list regular users")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, usuarios)
}

func (s *Server) findUsuarioParam(c *gin.Context) (*models.Usuario, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Usuario no encontrado"})
		return nil, false
	}

	var user models.Usuario
	if err := s.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Usuario no encontrado"})
			return nil, false
		}
		s.logger.Error().Err(err).Int("user_id", id).Msg("Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return nil, false
	}

	return &user, true
}

// @Summary Update user by ID
// @Description Supervisors only
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UsuarioUpdateRequest true "Fields to update"
// @Success 200 {object} models.Usuario
// @Router /usuarios/{id} [put]
func (s *Server) updateUsuario(c *gin.Context) {
	var req UsuarioUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, ok := s.findUsuarioParam(c)
	if !ok {
		return
	}

	if !s.applyUsuarioUpdate(c, user, &req) {
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Change user role
// @Description Supervisors only
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body RolUpdateRequest true "Role"
// @Success 200 {object} models.Usuario
// @Router /usuarios/{id}/rol [put]
func (s *Server) updateUsuarioRol(c *gin.Context) {
	var req RolUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, ok := s.findUsuarioParam(c)
	if !ok {
		return
	}

	user.RolID = &req.RolID
	if err := s.db.Save(user).Error; err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Failed to update role")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().Int("user_id", user.ID).Int("id_rol", req.RolID).Int("changed_by", sessionData.UserID).Msg("User role changed")

	c.JSON(http.StatusOK, user)
}
