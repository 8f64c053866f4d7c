package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Role IDs are part of the wire contract: clients receive id_rol and route on
// its value, so these are fixed small integers rather than generated keys.
const (
	RoleSupervisor = 1
	RoleAdmin      = 2
	RoleUser       = 3
)

// BaseModel provides common fields and auto-generated ULID for
// non-domain rows (config, outbox). Domain rows (users, courses,
// enrollments) keep integer autoincrement IDs: they travel in URLs and
// JSON bodies as numbers.
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Config represents the global configuration for the deployment.
// This is a singleton model (only one row should exist).
type Config struct {
	BaseModel
	// Auto-generated on first setup (64 hex chars)
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"`

	// Access token lifetime in minutes
	TokenTTLMinutes int `json:"token_ttl_minutes" gorm:"not null;default:60"`
}

// Rol classifies users: 1 supervisor, 2 administrador, 3 usuario.
type Rol struct {
	ID     int    `json:"id" gorm:"primaryKey"`
	Nombre string `json:"nombre" gorm:"type:varchar(50);not null;unique"`
}

func (Rol) TableName() string { return "roles" }

// Usuario represents a platform account
type Usuario struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Tipo         string    `json:"tipo" gorm:"type:varchar(50);not null"`
	Nombre       string    `json:"nombre" gorm:"type:varchar(100);not null"`
	Apellidos    string    `json:"apellidos" gorm:"type:varchar(100)"`
	Email        string    `json:"email" gorm:"type:varchar(100);unique;not null;index"`
	PasswordHash string    `json:"-" gorm:"column:password;type:varchar(255);not null"`
	Habilitado   bool      `json:"habilitado" gorm:"not null;default:true"`
	RolID        *int      `json:"id_rol" gorm:"column:id_rol"`
	CreatedAt    time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion;autoCreateTime"`
	UpdatedAt    time.Time `json:"fecha_modificacion" gorm:"column:fecha_modificacion;autoUpdateTime"`

	// Relationships
	Rol           *Rol          `json:"rol,omitempty" gorm:"foreignKey:RolID"`
	Inscripciones []Inscripcion `json:"-" gorm:"foreignKey:UsuarioID"`
}

func (Usuario) TableName() string { return "usuarios" }

// RolValue returns the role id, or 0 when none is assigned
func (u *Usuario) RolValue() int {
	if u.RolID == nil {
		return 0
	}
	return *u.RolID
}

// Curso represents a course offered on the platform
type Curso struct {
	ID          int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Nombre      string `json:"nombre" gorm:"type:varchar(100);not null"`
	Descripcion string `json:"descripcion" gorm:"type:text;not null"`
	Duracion    string `json:"duracion" gorm:"type:varchar(50);not null"`
	Activo      bool   `json:"activo" gorm:"not null;default:true"`
	Imagen      string `json:"imagen,omitempty"`
	Destacado   bool   `json:"destacado" gorm:"not null;default:false"`
	Nuevo       bool   `json:"nuevo" gorm:"not null;default:false"`

	// Computed at query time, not persisted
	Inscritos int64 `json:"inscritos" gorm:"-"`

	// Relationships
	Inscripciones []Inscripcion `json:"-" gorm:"foreignKey:CursoID"`
}

func (Curso) TableName() string { return "cursos" }

// Inscripcion links a user to a course. One row per (user, course).
type Inscripcion struct {
	ID               int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UsuarioID        int       `json:"id_usuario" gorm:"column:id_usuario;not null;uniqueIndex:idx_usuario_curso"`
	CursoID          int       `json:"id_curso" gorm:"column:id_curso;not null;uniqueIndex:idx_usuario_curso"`
	FechaInscripcion time.Time `json:"fecha_inscripcion" gorm:"column:fecha_inscripcion;autoCreateTime"`
	Completado       bool      `json:"completado" gorm:"not null;default:false"`

	// Relationships
	Usuario *Usuario `json:"usuario,omitempty" gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
	Curso   *Curso   `json:"curso,omitempty" gorm:"foreignKey:CursoID;constraint:OnDelete:CASCADE"`
}

func (Inscripcion) TableName() string { return "inscripciones" }

// Outbox statuses
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// EmailOutbox records an enrollment confirmation email and its delivery
// state. Failed rows are retried by the worker's scheduler with backoff.
type EmailOutbox struct {
	BaseModel
	UsuarioID     int        `json:"id_usuario" gorm:"column:id_usuario;not null"`
	CursoID       int        `json:"id_curso" gorm:"column:id_curso;not null"`
	Recipient     string     `json:"recipient" gorm:"not null"`
	Subject       string     `json:"subject" gorm:"not null"`
	Body          string     `json:"body" gorm:"type:text;not null"`
	Status        string     `json:"status" gorm:"not null;default:pending;index"`
	Attempts      int        `json:"attempts" gorm:"not null;default:0"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
	SentAt        *time.Time `json:"sent_at"`
}

func (EmailOutbox) TableName() string { return "email_outbox" }

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	all := []interface{}{
		&Config{}, &Rol{}, &Usuario{}, &Curso{}, &Inscripcion{}, &EmailOutbox{},
	}
	return db.AutoMigrate(all...)
}

// CountInscritos fills the Inscritos counter for each course in place
func CountInscritos(db *gorm.DB, cursos []Curso) error {
	for i := range cursos {
		var n int64
		if err := db.Model(&Inscripcion{}).Where("id_curso = ?", cursos[i].ID).Count(&n).Error; err != nil {
			return err
		}
		cursos[i].Inscritos = n
	}
	return nil
}
