package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/models"
	"github.com/academia-dev/academia/internal/tasks"
)

// @Summary Enroll in a course
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param cursoId path int true "Course ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /usuarios/inscribirse/{cursoId} [post]
func (s *Server) inscribirse(c *gin.Context) {
	curso, ok := s.findCurso(c, "cursoId")
	if !ok {
		return
	}

	if !curso.Activo {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Este curso no está disponible actualmente"})
		return
	}

	sessionData, _ := GetSessionData(c)

	var existing models.Inscripcion
	err := s.db.Where("id_usuario = ? AND id_curso = ?", sessionData.UserID, curso.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Ya estás inscrito en este curso"})
		return
	}
	if err != gorm.ErrRecordNotFound {
		s.logger.Error().Err(err).Msg("Failed to check enrollment")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	inscripcion := models.Inscripcion{
		UsuarioID: sessionData.UserID,
		CursoID:   curso.ID,
	}
	if err := s.db.Create(&inscripcion).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create enrollment")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	s.logger.Info().Int("user_id", sessionData.UserID).Int("curso_id", curso.ID).Msg("User enrolled")

	// Confirmation email is best effort: enrollment succeeds even when
	// the queue is unavailable
	s.enqueueConfirmation(inscripcion.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Inscripción exitosa",
		"inscripcion_id": inscripcion.ID,
		"curso": gin.H{
			"id":     curso.ID,
			"nombre": curso.Nombre,
		},
	})
}

func (s *Server) enqueueConfirmation(inscripcionID int) {
	if s.asynqClient == nil {
		return
	}

	task, err := tasks.NewEnrollmentConfirmationTask(inscripcionID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build confirmation task")
		return
	}
	if _, err := s.asynqClient.Enqueue(task); err != nil {
		s.logger.Warn().Err(err).Int("inscripcion_id", inscripcionID).Msg("Failed to enqueue confirmation email")
	}
}

// @Summary My courses
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Curso
// @Router /usuarios/mis-cursos [get]
func (s *Server) misCursos(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	cursos := []models.Curso{}
	err := s.db.
		Joins("JOIN inscripciones ON inscripciones.id_curso = cursos.id").
		Where("inscripciones.id_usuario = ?", sessionData.UserID).
		Order("inscripciones.fecha_inscripcion").
		Find(&cursos).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list enrolled courses")
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

// @Summary My enrollments
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Inscripcion
// @Router /usuarios/mis-inscripciones [get]
func (s *Server) misInscripciones(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	inscripciones := []models.Inscripcion{}
	if err := s.db.Where("id_usuario = ?", sessionData.UserID).Order("id").Find(&inscripciones).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list enrollments")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, inscripciones)
}

// findOwnInscripcion loads the caller's enrollment for the course in
// the URL, responding 404 when the user is not enrolled
func (s *Server) findOwnInscripcion(c *gin.Context) (*models.Inscripcion, bool) {
	cursoID, err := strconv.Atoi(c.Param("cursoId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No estás inscrito en este curso"})
		return nil, false
	}

	sessionData, _ := GetSessionData(c)

	var inscripcion models.Inscripcion
	err = s.db.Where("id_usuario = ? AND id_curso = ?", sessionData.UserID, cursoID).First(&inscripcion).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "No estás inscrito en este curso"})
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to load enrollment")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return nil, false
	}

	return &inscripcion, true
}

// @Summary Mark course completed
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param cursoId path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /usuarios/cursos/{cursoId}/completar [put]
func (s *Server) completarCurso(c *gin.Context) {
	inscripcion, ok := s.findOwnInscripcion(c)
	if !ok {
		return
	}

	inscripcion.Completado = true
	if err := s.db.Save(inscripcion).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to mark course completed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Curso marcado como completado", "curso_id": inscripcion.CursoID})
}

// @Summary Cancel enrollment
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param cursoId path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /usuarios/cursos/{cursoId}/inscripcion [delete]
func (s *Server) cancelarInscripcion(c *gin.Context) {
	inscripcion, ok := s.findOwnInscripcion(c)
	if !ok {
		return
	}

	if err := s.db.Delete(inscripcion).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to cancel enrollment")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inscripción cancelada correctamente", "curso_id": inscripcion.CursoID})
}
