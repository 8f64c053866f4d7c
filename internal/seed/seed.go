package seed

import (
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Roles []struct {
		ID     int    `yaml:"id"`
		Nombre string `yaml:"nombre"`
	} `yaml:"roles"`
	Cursos []struct {
		Nombre      string `yaml:"nombre"`
		Descripcion string `yaml:"descripcion"`
		Duracion    string `yaml:"duracion"`
		Imagen      string `yaml:"imagen"`
		Destacado   bool   `yaml:"destacado"`
		Nuevo       bool   `yaml:"nuevo"`
	} `yaml:"cursos"`
}

// Apply inserts the seed data. Roles are upserted on every boot (the
// fixed role IDs are a wire contract); starter courses are only
// inserted into an empty catalog.
func Apply(db *gorm.DB, logger zerolog.Logger) error {
	var data seedFile
	if err := yaml.Unmarshal(seedYAML, &data); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, r := range data.Roles {
		rol := models.Rol{ID: r.ID, Nombre: r.Nombre}
		if err := db.Where(models.Rol{ID: r.ID}).FirstOrCreate(&rol).Error; err != nil {
			return fmt.Errorf("failed to seed role %d: %w", r.ID, err)
		}
	}

	var count int64
	if err := db.Model(&models.Curso{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count courses: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range data.Cursos {
		curso := models.Curso{
			Nombre:      c.Nombre,
			Descripcion: c.Descripcion,
			Duracion:    c.Duracion,
			Activo:      true,
			Imagen:      c.Imagen,
			Destacado:   c.Destacado,
			Nuevo:       c.Nuevo,
		}
		if err := db.Create(&curso).Error; err != nil {
			return fmt.Errorf("failed to seed course %q: %w", c.Nombre, err)
		}
	}

	logger.Info().Int("roles", len(data.Roles)).Int("cursos", len(data.Cursos)).Msg("Seed data applied")
	return nil
}
