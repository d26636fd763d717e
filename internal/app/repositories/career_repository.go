package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcastellanos/uniportal/internal/app/models"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
	"github.com/dcastellanos/uniportal/internal/pkg/dberrors"
	"github.com/dcastellanos/uniportal/internal/pkg/logger"
)

// ICareerRepository defines career catalog and enrollment operations
type ICareerRepository interface {
	FindAllActive(ctx context.Context) ([]models.Career, error)
	FindByID(ctx context.Context, id int64) (*models.Career, error)
	FindByCodigo(ctx context.Context, codigo string) (*models.Career, error)
	Create(ctx context.Context, career *models.Career) error
	Enroll(ctx context.Context, studentID, careerID int64) error
	Unenroll(ctx context.Context, studentID, careerID int64) error
	ReplaceEnrollments(ctx context.Context, studentID int64, careerIDs []int64) error
}

var careerColumns = []string{
	"id", "nombre", "codigo", "icon", "color", "descripcion",
	"activo", "created_at", "updated_at",
}

// CareerRepository handles career database operations
type CareerRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCareerRepository creates a new CareerRepository
func NewCareerRepository(db *pgxpool.Pool) *CareerRepository {
	return &CareerRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCareer(row pgx.Row) (*models.Career, error) {
	career := &models.Career{}
	err := row.Scan(
		&career.ID, &career.Nombre, &career.Codigo, &career.Icon, &career.Color,
		&career.Descripcion, &career.Activo, &career.CreatedAt, &career.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCareerNotFound
		}
		return nil, fmt.Errorf("error scanning career: %w", err)
	}
	return career, nil
}

// FindAllActive returns all active careers ordered by name
func (r *CareerRepository) FindAllActive(ctx context.Context) ([]models.Career, error) {
	sql, args, err := r.sb.Select(careerColumns...).
		From("careers").
		Where(squirrel.Eq{"activo": true}).
		OrderBy("nombre ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find active careers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying active careers: %w", err)
	}
	defer rows.Close()

	var careers []models.Career
	for rows.Next() {
		career, err := scanCareer(rows)
		if err != nil {
			return nil, err
		}
		careers = append(careers, *career)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading careers: %w", err)
	}

	return careers, nil
}

// FindByID retrieves a career by ID
func (r *CareerRepository) FindByID(ctx context.Context, id int64) (*models.Career, error) {
	sql, args, err := r.sb.Select(careerColumns...).
		From("careers").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find career query: %w", err)
	}

	return scanCareer(r.db.QueryRow(ctx, sql, args...))
}

// FindByCodigo retrieves a career by its unique code
func (r *CareerRepository) FindByCodigo(ctx context.Context, codigo string) (*models.Career, error) {
	sql, args, err := r.sb.Select(careerColumns...).
		From("careers").
		Where(squirrel.Eq{"codigo": codigo}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find career query: %w", err)
	}

	return scanCareer(r.db.QueryRow(ctx, sql, args...))
}

// Create inserts a new career, used by the startup seed
func (r *CareerRepository) Create(ctx context.Context, career *models.Career) error {
	sql, args, err := r.sb.Insert("careers").
		Columns("nombre", "codigo", "icon", "color", "descripcion", "activo").
		Values(career.Nombre, career.Codigo, career.Icon, career.Color, career.Descripcion, career.Activo).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create career query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&career.ID, &career.CreatedAt, &career.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: career code %s", apperrors.ErrResourceAlreadyExists, career.Codigo)
		}
		logger.Error().Err(err).Str("codigo", career.Codigo).Msg("Error executing create career query")
		return fmt.Errorf("error creating career: %w", err)
	}

	return nil
}

// Enroll creates an enrollment record for the student in the career
func (r *CareerRepository) Enroll(ctx context.Context, studentID, careerID int64) error {
	sql, args, err := r.sb.Insert("student_careers").
		Columns("student_id", "career_id").
		Values(studentID, careerID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enroll query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateEnrollment
		}
		return fmt.Errorf("error enrolling student in career: %w", err)
	}

	return nil
}

// Unenroll removes the student's enrollment in the career
func (r *CareerRepository) Unenroll(ctx context.Context, studentID, careerID int64) error {
	sql, args, err := r.sb.Delete("student_careers").
		Where(squirrel.Eq{"student_id": studentID, "career_id": careerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unenroll query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error unenrolling student from career: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// ReplaceEnrollments swaps the student's enrollment set for the given
// careers in a single transaction.
func (r *CareerRepository) ReplaceEnrollments(ctx context.Context, studentID int64, careerIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin enrollment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	delSQL, delArgs, err := r.sb.Delete("student_careers").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear enrollments query: %w", err)
	}

	if _, err := tx.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing career enrollments: %w", err)
	}

	for _, careerID := range careerIDs {
		insSQL, insArgs, err := r.sb.Insert("student_careers").
			Columns("student_id", "career_id").
			Values(studentID, careerID).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build enrollment insert query: %w", err)
		}

		if _, err := tx.Exec(ctx, insSQL, insArgs...); err != nil {
			return fmt.Errorf("error inserting career enrollment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit enrollment transaction: %w", err)
	}

	return nil
}

var _ ICareerRepository = (*CareerRepository)(nil)
