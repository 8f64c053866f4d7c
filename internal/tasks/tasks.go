package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Enrollment confirmation email (enqueued by the API on successful
	// enrollment, consumed by the worker)
	TypeEnrollmentConfirmation = "enrollment:confirmation"

	// Outbox delivery retry for a previously failed email
	TypeOutboxRetry = "outbox:retry"
)

// EnrollmentPayload carries the enrollment to confirm
type EnrollmentPayload struct {
	InscripcionID int `json:"inscripcion_id"`
}

// OutboxPayload carries the outbox row to re-deliver
type OutboxPayload struct {
	OutboxID string `json:"outbox_id"`
}

// NewEnrollmentConfirmationTask creates a task to send an enrollment
// confirmation email
func NewEnrollmentConfirmationTask(inscripcionID int) (*asynq.Task, error) {
	payload, err := json.Marshal(EnrollmentPayload{InscripcionID: inscripcionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeEnrollmentConfirmation, payload), nil
}

// NewOutboxRetryTask creates a task to retry delivery of a failed outbox row
func NewOutboxRetryTask(outboxID string) (*asynq.Task, error) {
	payload, err := json.Marshal(OutboxPayload{OutboxID: outboxID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeOutboxRetry, payload), nil
}

// ParseEnrollmentPayload parses an enrollment payload from an Asynq task
func ParseEnrollmentPayload(task *asynq.Task) (EnrollmentPayload, error) {
	var payload EnrollmentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}

// ParseOutboxPayload parses an outbox payload from an Asynq task
func ParseOutboxPayload(task *asynq.Task) (OutboxPayload, error) {
	var payload OutboxPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
