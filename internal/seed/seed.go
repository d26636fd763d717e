// Package seed creates the default career and subject catalog
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/dcastellanos/uniportal/internal/app/models"
	"github.com/dcastellanos/uniportal/internal/app/repositories"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

type careerSeed struct {
	Nombre      string
	Codigo      string
	Icon        string
	Color       string
	Descripcion string
}

type subjectSeed struct {
	Nombre        string
	Codigo        string
	ProfessorName string
	Semestre      int
	Descripcion   string
}

var defaultCareers = []careerSeed{
	{"Ingeniería de Sistemas", "ING-SIS", "computer", "0xFFA8B820", "Carrera enfocada en el desarrollo de software y sistemas informáticos"},
	{"Administración de Empresas", "ADM-EMP", "business_center", "0xFFA8B820", "Formación integral en gestión empresarial y administrativa"},
	{"Derecho", "DER", "gavel", "0xFFA8B820", "Carrera de ciencias jurídicas y formación legal"},
	{"Contaduría Pública", "CON-PUB", "account_balance", "0xFF2E7D32", "Especialización en contabilidad, auditoría y finanzas"},
	{"Ingeniería Industrial", "ING-IND", "precision_manufacturing", "0xFFD32F2F", "Optimización de procesos productivos y gestión industrial"},
}

// Subjects for the Ingeniería de Sistemas career
var defaultSubjects = []subjectSeed{
	{"Fundamentos de Programación", "B101", "Dr. Roberto Silva", 1, "Introducción a los conceptos básicos de programación y algoritmos"},
	{"Estructuras de Datos", "B193", "Ing. Carlos Rodríguez", 2, "Estudio de estructuras de datos fundamentales: listas, pilas, colas, árboles"},
	{"Programación Orientada a Objetos", "B191", "Dr. Juan Pérez", 3, "Paradigma de programación orientada a objetos con Java y Python"},
	{"Bases de Datos", "B192", "Dra. María García", 4, "Diseño, implementación y gestión de bases de datos relacionales"},
	{"Desarrollo Web", "B194", "Ing. Ana Martínez", 5, "Desarrollo de aplicaciones web con HTML, CSS, JavaScript y frameworks modernos"},
	{"Ingeniería de Software", "B601", "Dr. Luis Fernández", 6, "Metodologías ágiles, arquitectura de software y gestión de proyectos"},
}

// CreateDefaultData creates the career catalog and the seed subjects if
// they don't exist yet. Seeding is idempotent: rows are matched by codigo.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	careerRepo := repositories.NewCareerRepository(dbPool)
	subjectRepo := repositories.NewSubjectRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (Careers/Subjects)...")
	var finalErr error

	for _, c := range defaultCareers {
		_, err := careerRepo.FindByCodigo(ctx, c.Codigo)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrCareerNotFound) {
			lgr.Error().Err(err).Str("codigo", c.Codigo).Msg("Error checking career")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		career := &models.Career{
			Nombre:      c.Nombre,
			Codigo:      c.Codigo,
			Icon:        c.Icon,
			Color:       c.Color,
			Descripcion: strPtr(c.Descripcion),
			Activo:      true,
		}
		if err := careerRepo.Create(ctx, career); err != nil {
			lgr.Error().Err(err).Str("codigo", c.Codigo).Msg("Error creating career")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("codigo", c.Codigo).Int64("careerID", career.ID).Msg("Career created")
	}

	// Subjects hang off the systems engineering career
	systems, err := careerRepo.FindByCodigo(ctx, "ING-SIS")
	if err != nil {
		lgr.Error().Err(err).Msg("Career ING-SIS not found, skipping subject seed")
		return errors.Join(finalErr, err)
	}

	for _, s := range defaultSubjects {
		_, err := subjectRepo.FindByCodigo(ctx, s.Codigo)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrSubjectNotFound) {
			lgr.Error().Err(err).Str("codigo", s.Codigo).Msg("Error checking subject")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		subject := &models.Subject{
			Nombre:        s.Nombre,
			Codigo:        s.Codigo,
			CareerID:      systems.ID,
			ProfessorName: s.ProfessorName,
			Semestre:      s.Semestre,
			Descripcion:   strPtr(s.Descripcion),
			Activo:        true,
		}
		if err := subjectRepo.Create(ctx, subject); err != nil {
			lgr.Error().Err(err).Str("codigo", s.Codigo).Msg("Error creating subject")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("codigo", s.Codigo).Int64("subjectID", subject.ID).Msg("Subject created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
