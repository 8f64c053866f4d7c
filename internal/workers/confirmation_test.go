package workers

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/models"
	"github.com/academia-dev/academia/internal/tasks"
)

// recordingMailer captures sends and optionally fails them
type recordingMailer struct {
	failWith error

	to      []string
	subject string
	body    string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, html string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.to = append(m.to, to)
	m.subject = subject
	m.body = html
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createEnrollment(t *testing.T, db *gorm.DB) *models.Inscripcion {
	t.Helper()

	rolID := models.RoleUser
	usuario := models.Usuario{
		Tipo:       "usuario",
		Nombre:     "Ana",
		Apellidos:  "García",
		Email:      "ana@example.com",
		Habilitado: true,
		RolID:      &rolID,
	}
	require.NoError(t, db.Create(&usuario).Error)

	curso := models.Curso{
		Nombre:      "Go para Backend",
		Descripcion: "Servicios HTTP con Go",
		Duracion:    "8 semanas",
		Activo:      true,
	}
	require.NoError(t, db.Create(&curso).Error)

	inscripcion := models.Inscripcion{UsuarioID: usuario.ID, CursoID: curso.ID}
	require.NoError(t, db.Create(&inscripcion).Error)
	return &inscripcion
}

func TestHandleEnrollmentConfirmation_SendsAndRecords(t *testing.T) {
	db := newTestDB(t)
	inscripcion := createEnrollment(t, db)
	mail := &recordingMailer{}

	task, err := tasks.NewEnrollmentConfirmationTask(inscripcion.ID)
	require.NoError(t, err)

	require.NoError(t, HandleEnrollmentConfirmation(context.Background(), task, db, mail, zerolog.Nop()))

	require.Equal(t, []string{"ana@example.com"}, mail.to)
	require.Contains(t, mail.subject, "Go para Backend")
	require.True(t, strings.Contains(mail.body, "Ana"))

	var outbox models.EmailOutbox
	require.NoError(t, db.First(&outbox).Error)
	require.Equal(t, models.OutboxSent, outbox.Status)
	require.Equal(t, 1, outbox.Attempts)
	require.NotNil(t, outbox.SentAt)
}

func TestHandleEnrollmentConfirmation_DeliveryFailureStaysPending(t *testing.T) {
	db := newTestDB(t)
	inscripcion := createEnrollment(t, db)
	mail := &recordingMailer{failWith: errors.New("rate limited")}

	task, err := tasks.NewEnrollmentConfirmationTask(inscripcion.ID)
	require.NoError(t, err)

	// The task itself succeeds; the outbox scheduler owns retries
	require.NoError(t, HandleEnrollmentConfirmation(context.Background(), task, db, mail, zerolog.Nop()))

	var outbox models.EmailOutbox
	require.NoError(t, db.First(&outbox).Error)
	require.Equal(t, models.OutboxPending, outbox.Status)
	require.Equal(t, 1, outbox.Attempts)
	require.Nil(t, outbox.SentAt)
}

func TestHandleEnrollmentConfirmation_MissingEnrollment(t *testing.T) {
	db := newTestDB(t)
	mail := &recordingMailer{}

	task, err := tasks.NewEnrollmentConfirmationTask(9999)
	require.NoError(t, err)

	require.NoError(t, HandleEnrollmentConfirmation(context.Background(), task, db, mail, zerolog.Nop()))

	var count int64
	require.NoError(t, db.Model(&models.EmailOutbox{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, mail.to)
}

func TestHandleOutboxRetry(t *testing.T) {
	db := newTestDB(t)
	inscripcion := createEnrollment(t, db)

	lastAttempt := time.Now().Add(-time.Hour)
	outbox := models.EmailOutbox{
		UsuarioID:     inscripcion.UsuarioID,
		CursoID:       inscripcion.CursoID,
		Recipient:     "ana@example.com",
		Subject:       "Confirmación de inscripción: Go para Backend",
		Body:          "<p>Hola</p>",
		Status:        models.OutboxPending,
		Attempts:      1,
		LastAttemptAt: &lastAttempt,
	}
	require.NoError(t, db.Create(&outbox).Error)

	mail := &recordingMailer{}
	task, err := tasks.NewOutboxRetryTask(outbox.ID)
	require.NoError(t, err)

	require.NoError(t, HandleOutboxRetry(context.Background(), task, db, mail, zerolog.Nop()))

	var updated models.EmailOutbox
	require.NoError(t, db.First(&updated, "id = ?", outbox.ID).Error)
	require.Equal(t, models.OutboxSent, updated.Status)
	require.Equal(t, 2, updated.Attempts)
	require.Equal(t, []string{"ana@example.com"}, mail.to)
}

func TestHandleOutboxRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	inscripcion := createEnrollment(t, db)

	outbox := models.EmailOutbox{
		UsuarioID: inscripcion.UsuarioID,
		CursoID:   inscripcion.CursoID,
		Recipient: "ana@example.com",
		Subject:   "Confirmación",
		Body:      "<p>Hola</p>",
		Status:    models.OutboxPending,
		Attempts:  maxSendAttempts - 1,
	}
	require.NoError(t, db.Create(&outbox).Error)

	mail := &recordingMailer{failWith: errors.New("still broken")}
	task, err := tasks.NewOutboxRetryTask(outbox.ID)
	require.NoError(t, err)

	require.NoError(t, HandleOutboxRetry(context.Background(), task, db, mail, zerolog.Nop()))

	var updated models.EmailOutbox
	require.NoError(t, db.First(&updated, "id = ?", outbox.ID).Error)
	require.Equal(t, models.OutboxFailed, updated.Status)
	require.Equal(t, maxSendAttempts, updated.Attempts)
}

func TestHandleOutboxRetry_SkipsSettledEntries(t *testing.T) {
	db := newTestDB(t)
	inscripcion := createEnrollment(t, db)

	sentAt := time.Now()
	outbox := models.EmailOutbox{
		UsuarioID: inscripcion.UsuarioID,
		CursoID:   inscripcion.CursoID,
		Recipient: "ana@example.com",
		Subject:   "Confirmación",
		Body:      "<p>Hola</p>",
		Status:    models.OutboxSent,
		Attempts:  1,
		SentAt:    &sentAt,
	}
	require.NoError(t, db.Create(&outbox).Error)

	mail := &recordingMailer{}
	task, err := tasks.NewOutboxRetryTask(outbox.ID)
	require.NoError(t, err)

	require.NoError(t, HandleOutboxRetry(context.Background(), task, db, mail, zerolog.Nop()))
	require.Empty(t, mail.to)
}

func TestBackoffFor(t *testing.T) {
	if backoffFor(1) != 2*time.Minute {
		t.Errorf("expected 2m for the first retry, got %v", backoffFor(1))
	}
	if backoffFor(3) != 8*time.Minute {
		t.Errorf("expected 8m for the third retry, got %v", backoffFor(3))
	}
	if backoffFor(20) != time.Hour {
		t.Errorf("backoff should cap at an hour, got %v", backoffFor(20))
	}
}
