package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/mailer"
	"github.com/academia-dev/academia/internal/models"
	"github.com/academia-dev/academia/internal/tasks"
)

// maxSendAttempts bounds outbox delivery retries before a message is
// parked as failed
const maxSendAttempts = 5

// HandleEnrollmentConfirmation records a confirmation email in the
// outbox and tries a first delivery. Delivery failures do not fail the
// task: the outbox scheduler owns retries, so the row just stays
// pending.
func HandleEnrollmentConfirmation(ctx context.Context, t *asynq.Task, db *gorm.DB, m mailer.Mailer, logger zerolog.Logger) error {
	payload, err := tasks.ParseEnrollmentPayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	var inscripcion models.Inscripcion
	if err := db.First(&inscripcion, payload.InscripcionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Enrollment cancelled before the worker got to it
			logger.Warn().Int("inscripcion_id", payload.InscripcionID).Msg("enrollment no longer exists, skipping confirmation")
			return nil
		}
		return fmt.Errorf("failed to load enrollment: %w", err)
	}

	var usuario models.Usuario
	if err := db.First(&usuario, inscripcion.UsuarioID).Error; err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	var curso models.Curso
	if err := db.First(&curso, inscripcion.CursoID).Error; err != nil {
		return fmt.Errorf("failed to load course: %w", err)
	}

	outbox := models.EmailOutbox{
		UsuarioID: usuario.ID,
		CursoID:   curso.ID,
		Recipient: usuario.Email,
		Subject:   fmt.Sprintf("Confirmación de inscripción: %s", curso.Nombre),
		Body:      confirmationBody(&usuario, &curso),
		Status:    models.OutboxPending,
	}
	if err := db.Create(&outbox).Error; err != nil {
		return fmt.Errorf("failed to create outbox entry: %w", err)
	}

	attemptSend(ctx, db, m, &outbox, logger)
	return nil
}

// HandleOutboxRetry re-attempts delivery of a single outbox entry
func HandleOutboxRetry(ctx context.Context, t *asynq.Task, db *gorm.DB, m mailer.Mailer, logger zerolog.Logger) error {
	payload, err := tasks.ParseOutboxPayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	var outbox models.EmailOutbox
	if err := db.First(&outbox, "id = ?", payload.OutboxID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("failed to load outbox entry: %w", err)
	}
	if outbox.Status != models.OutboxPending {
		return nil
	}

	attemptSend(ctx, db, m, &outbox, logger)
	return nil
}

// attemptSend performs one delivery attempt and updates the outbox
// bookkeeping
func attemptSend(ctx context.Context, db *gorm.DB, m mailer.Mailer, outbox *models.EmailOutbox, logger zerolog.Logger) {
	now := time.Now()
	outbox.Attempts++
	outbox.LastAttemptAt = &now

	if err := m.Send(ctx, outbox.Recipient, outbox.Subject, outbox.Body); err != nil {
		if outbox.Attempts >= maxSendAttempts {
			outbox.Status = models.OutboxFailed
			logger.Error().
				Err(err).
				Str("outbox_id", outbox.ID).
				Int("attempts", outbox.Attempts).
				Msg("giving up on confirmation email")
		} else {
			logger.Warn().
				Err(err).
				Str("outbox_id", outbox.ID).
				Int("attempts", outbox.Attempts).
				Msg("confirmation email delivery failed, will retry")
		}
	} else {
		outbox.Status = models.OutboxSent
		outbox.SentAt = &now
		logger.Info().
			Str("outbox_id", outbox.ID).
			Str("recipient", outbox.Recipient).
			Msg("confirmation email sent")
	}

	if err := db.Save(outbox).Error; err != nil {
		logger.Error().Err(err).Str("outbox_id", outbox.ID).Msg("failed to update outbox entry")
	}
}

func confirmationBody(usuario *models.Usuario, curso *models.Curso) string {
	return fmt.Sprintf(
		"<p>Hola %s,</p><p>Tu inscripción al curso <strong>%s</strong> se ha registrado correctamente.</p><p>Duración: %s</p><p>— Academia</p>",
		usuario.Nombre, curso.Nombre, curso.Duracion,
	)
}
