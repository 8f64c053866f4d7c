package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/models"
)

// CursoRequest represents course create/update bodies
type CursoRequest struct {
	Nombre      string `json:"nombre" binding:"required"`
	Descripcion string `json:"descripcion" binding:"required"`
	Duracion    string `json:"duracion" binding:"required"`
	Activo      *bool  `json:"activo"`
	Imagen      string `json:"imagen"`
	Destacado   bool   `json:"destacado"`
	Nuevo       bool   `json:"nuevo"`
}

// EstadoRequest toggles course availability
type EstadoRequest struct {
	Activo bool `json:"activo"`
}

// ParticipanteOut is the roster entry shape
type ParticipanteOut struct {
	ID        int    `json:"id"`
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos,omitempty"`
	Email     string `json:"email"`
}

// normalizeDuracion appends the " semanas" unit when the caller sent a
// bare number
func normalizeDuracion(d string) string {
	if !strings.HasSuffix(d, " semanas") {
		return fmt.Sprintf("%s semanas", d)
	}
	return d
}

func (s *Server) findCurso(c *gin.Context, param string) (*models.Curso, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Curso no encontrado"})
		return nil, false
	}

	var curso models.Curso
	if err := s.db.First(&curso, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Curso no encontrado"})
			return nil, false
		}
		s.logger.Error().Err(err).Int("curso_id", id).Msg("Failed to load course")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return nil, false
	}

	return &curso, true
}

// @Summary List courses
// @Tags cursos
// @Produce json
// @Success 200 {array} models.Curso
// @Router /cursos [get]
func (s *Server) listCursos(c *gin.Context) {
	var cursos []models.Curso
	if err := s.db.Order("id").Find(&cursos).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list courses")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	if err := models.CountInscritos(s.db, cursos); err != nil {
		s.logger.Error().Err(err).Msg("Failed to count enrollments")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, cursos)
}

// @Summary Get course
// @Tags cursos
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Curso
// @Failure 404 {object} map[string]interface{}
// @Router /cursos/{id} [get]
func (s *Server) getCurso(c *gin.Context) {
	curso, ok := s.findCurso(c, "id")
	if !ok {
		return
	}

	if err := s.db.Model(&models.Inscripcion{}).Where("id_curso = ?", curso.ID).Count(&curso.Inscritos).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count enrollments")
	}

	c.JSON(http.StatusOK, curso)
}

// @Summary Create course
// @Description Supervisors and administrators only
// @Tags cursos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CursoRequest true "Course"
// @Success 201 {object} models.Curso
// @Router /cursos [post]
func (s *Server) createCurso(c *gin.Context) {
	var req CursoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	curso := models.Curso{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Duracion:    normalizeDuracion(req.Duracion),
		Activo:      activo,
		Imagen:      req.Imagen,
		Destacado:   req.Destacado,
		Nuevo:       req.Nuevo,
	}
	if err := s.db.Create(&curso).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create course")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().Int("curso_id", curso.ID).Int("created_by", sessionData.UserID).Msg("Course created")

	c.JSON(http.StatusCreated, curso)
}

// @Summary Update course
// @Tags cursos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body CursoRequest true "Course"
// @Success 200 {object} models.Curso
// @Failure 404 {object} map[string]interface{}
// @Router /cursos/{id} [put]
func (s *Server) updateCurso(c *gin.Context) {
	var req CursoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	curso, ok := s.findCurso(c, "id")
	if !ok {
		return
	}

	curso.Nombre = req.Nombre
	curso.Descripcion = req.Descripcion
	curso.Duracion = normalizeDuracion(req.Duracion)
	if req.Activo != nil {
		curso.Activo = *req.Activo
	}
	curso.Imagen = req.Imagen
	curso.Destacado = req.Destacado
	curso.Nuevo = req.Nuevo

	if err := s.db.Save(curso).Error; err != nil {
		s.logger.Error().Err(err).Int("curso_id", curso.ID).Msg("Failed to update course")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, curso)
}

// @Summary Delete course
// @Tags cursos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /cursos/{id} [delete]
func (s *Server) deleteCurso(c *gin.Context) {
	curso, ok := s.findCurso(c, "id")
	if !ok {
		return
	}

	if err := s.db.Delete(curso).Error; err != nil {
		s.logger.Error().Err(err).Int("curso_id", curso.ID).Msg("Failed to delete course")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Curso eliminado correctamente"})
}

// @Summary Toggle course availability
// @Tags cursos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body EstadoRequest true "State"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /cursos/{id}/estado [put]
func (s *Server) setCursoEstado(c *gin.Context) {
	var req EstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	curso, ok := s.findCurso(c, "id")
	if !ok {
		return
	}

	curso.Activo = req.Activo
	if err := s.db.Save(curso).Error; err != nil {
		s.logger.Error().Err(err).Int("curso_id", curso.ID).Msg("Failed to update course state")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	estado := "desactivado"
	if curso.Activo {
		estado = "activado"
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Curso %s correctamente", estado)})
}

// @Summary List course participants
// @Tags cursos
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} ParticipanteOut
// @Failure 404 {object} map[string]interface{}
// @Router /cursos/{id}/participantes [get]
func (s *Server) listParticipantes(c *gin.Context) {
	curso, ok := s.findCurso(c, "id")
	if !ok {
		return
	}

	var usuarios []models.Usuario
	err := s.db.
		Joins("JOIN inscripciones ON inscripciones.id_usuario = usuarios.id").
		Where("inscripciones.id_curso = ?", curso.ID).
		Order("inscripciones.fecha_inscripcion").
		Find(&usuarios).Error
	if err != nil {
		s.logger.Error().Err(err).Int("curso_id", curso.ID).Msg("Failed to list participants")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	out := make([]ParticipanteOut, len(usuarios))
	for i, u := range usuarios {
		out[i] = ParticipanteOut{
			ID:        u.ID,
			Nombre:    u.Nombre,
			Apellidos: u.Apellidos,
			Email:     u.Email,
		}
	}

	c.JSON(http.StatusOK, out)
}
