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

// IStudentRepository defines the persistence boundary for student accounts.
// Every call either fully applies or fully fails; there are no partial
// field writes.
type IStudentRepository interface {
	FindByProviderID(ctx context.Context, provider, providerID string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	SetProfileComplete(ctx context.Context, id int64, complete bool) error
	GetCareerEnrollments(ctx context.Context, studentID int64) ([]models.CareerEnrollment, error)
	CountCareerEnrollments(ctx context.Context, studentID int64) (int, error)
}

var studentColumns = []string{
	"id", "email", "google_id", "microsoft_id", "nombre_completo",
	"profile_picture", "identificacion", "materias", "is_profile_complete",
	"created_at", "updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StudentRepository) scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(
		&student.ID, &student.Email, &student.GoogleID, &student.MicrosoftID,
		&student.FullName, &student.ProfilePicture, &student.Identificacion,
		&student.Materias, &student.IsProfileComplete,
		&student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error scanning student: %w", err)
	}
	return student, nil
}

// providerColumn maps a provider name to its id column
func providerColumn(provider string) (string, error) {
	switch provider {
	case "google":
		return "google_id", nil
	case "microsoft":
		return "microsoft_id", nil
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
}

// FindByProviderID retrieves a student by the given provider's subject id
func (r *StudentRepository) FindByProviderID(ctx context.Context, provider, providerID string) (*models.Student, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{column: providerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	return r.scanStudent(r.db.QueryRow(ctx, sql, args...))
}

// FindByEmail retrieves a student by email
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	return r.scanStudent(r.db.QueryRow(ctx, sql, args...))
}

// FindByID retrieves a student by ID
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	return r.scanStudent(r.db.QueryRow(ctx, sql, args...))
}

// Create inserts a new student and assigns the generated id. A unique
// violation (email or provider id raced by a concurrent login) surfaces as
// apperrors.ErrConflict so the caller can retry the lookup-merge path.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	materias := student.Materias
	if materias == nil {
		materias = []string{}
	}

	sql, args, err := r.sb.Insert("students").
		Columns("email", "google_id", "microsoft_id", "nombre_completo",
			"profile_picture", "identificacion", "materias", "is_profile_complete").
		Values(student.Email, student.GoogleID, student.MicrosoftID, student.FullName,
			student.ProfilePicture, student.Identificacion, materias, student.IsProfileComplete).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: student already exists", apperrors.ErrConflict)
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// Update persists all mutable student fields
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	materias := student.Materias
	if materias == nil {
		materias = []string{}
	}

	sql, args, err := r.sb.Update("students").
		Set("email", student.Email).
		Set("google_id", student.GoogleID).
		Set("microsoft_id", student.MicrosoftID).
		Set("nombre_completo", student.FullName).
		Set("profile_picture", student.ProfilePicture).
		Set("identificacion", student.Identificacion).
		Set("materias", materias).
		Set("is_profile_complete", student.IsProfileComplete).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": student.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: conflicting student fields", apperrors.ErrConflict)
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	return nil
}

// SetProfileComplete updates only the cached completeness flag
func (r *StudentRepository) SetProfileComplete(ctx context.Context, id int64, complete bool) error {
	sql, args, err := r.sb.Update("students").
		Set("is_profile_complete", complete).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set profile complete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile completeness: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// GetCareerEnrollments returns the student's career enrollments with the
// careers expanded, ordered by enrollment time.
func (r *StudentRepository) GetCareerEnrollments(ctx context.Context, studentID int64) ([]models.CareerEnrollment, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.nombre", "c.codigo", "c.icon", "c.color", "c.descripcion",
		"c.activo", "c.created_at", "c.updated_at", "sc.enrolled_at").
		From("student_careers sc").
		Join("careers c ON c.id = sc.career_id").
		Where(squirrel.Eq{"sc.student_id": studentID}).
		OrderBy("sc.enrolled_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build career enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying career enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.CareerEnrollment
	for rows.Next() {
		var enr models.CareerEnrollment
		err := rows.Scan(
			&enr.Career.ID, &enr.Career.Nombre, &enr.Career.Codigo,
			&enr.Career.Icon, &enr.Career.Color, &enr.Career.Descripcion,
			&enr.Career.Activo, &enr.Career.CreatedAt, &enr.Career.UpdatedAt,
			&enr.EnrolledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning career enrollment: %w", err)
		}
		enrollments = append(enrollments, enr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading career enrollments: %w", err)
	}

	return enrollments, nil
}

// CountCareerEnrollments returns the number of careers the student is
// enrolled in, used by the profile completeness recomputation.
func (r *StudentRepository) CountCareerEnrollments(ctx context.Context, studentID int64) (int, error) {
	sql, args, err := r.sb.Select("count(*)").
		From("student_careers").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count enrollments query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting career enrollments: %w", err)
	}

	return count, nil
}

var _ IStudentRepository = (*StudentRepository)(nil)
