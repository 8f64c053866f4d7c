package seed

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestApply(t *testing.T) {
	db := newTestDB(t)

	if err := Apply(db, zerolog.Nop()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	var roles []models.Rol
	if err := db.Order("id").Find(&roles).Error; err != nil {
		t.Fatalf("failed to load roles: %v", err)
	}
	if len(roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(roles))
	}
	want := map[int]string{1: "supervisor", 2: "administrador", 3: "usuario"}
	for _, rol := range roles {
		if want[rol.ID] != rol.Nombre {
			t.Errorf("role %d: expected %q, got %q", rol.ID, want[rol.ID], rol.Nombre)
		}
	}

	var cursos []models.Curso
	if err := db.Find(&cursos).Error; err != nil {
		t.Fatalf("failed to load courses: %v", err)
	}
	if len(cursos) == 0 {
		t.Fatal("expected starter courses in an empty catalog")
	}
	for _, curso := range cursos {
		if !curso.Activo {
			t.Errorf("starter course %q should be active", curso.Nombre)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := Apply(db, zerolog.Nop()); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	var before int64
	db.Model(&models.Curso{}).Count(&before)

	if err := Apply(db, zerolog.Nop()); err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}

	var roleCount, cursoCount int64
	db.Model(&models.Rol{}).Count(&roleCount)
	db.Model(&models.Curso{}).Count(&cursoCount)

	if roleCount != 3 {
		t.Errorf("expected 3 roles after reseeding, got %d", roleCount)
	}
	if cursoCount != before {
		t.Errorf("reseeding must not duplicate courses: %d -> %d", before, cursoCount)
	}
}

func TestApply_KeepsExistingCatalog(t *testing.T) {
	db := newTestDB(t)

	custom := models.Curso{Nombre: "Curso propio", Descripcion: "x", Duracion: "2 semanas", Activo: true}
	if err := db.Create(&custom).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}

	if err := Apply(db, zerolog.Nop()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	var count int64
	db.Model(&models.Curso{}).Count(&count)
	if count != 1 {
		t.Errorf("a non-empty catalog must not be reseeded, got %d courses", count)
	}
}
