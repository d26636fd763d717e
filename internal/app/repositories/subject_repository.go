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
)

// ISubjectRepository defines subject catalog and enrollment operations
type ISubjectRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	FindByCodigo(ctx context.Context, codigo string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Enroll(ctx context.Context, studentID, subjectID int64) error
	Unenroll(ctx context.Context, studentID, subjectID int64) error
}

var subjectColumns = []string{
	"id", "nombre", "codigo", "career_id", "professor_name", "semestre",
	"descripcion", "activo", "created_at", "updated_at",
}

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSubject(row pgx.Row) (*models.Subject, error) {
	subject := &models.Subject{}
	err := row.Scan(
		&subject.ID, &subject.Nombre, &subject.Codigo, &subject.CareerID,
		&subject.ProfessorName, &subject.Semestre, &subject.Descripcion,
		&subject.Activo, &subject.CreatedAt, &subject.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error scanning subject: %w", err)
	}
	return subject, nil
}

// FindByID retrieves a subject by ID
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	sql, args, err := r.sb.Select(subjectColumns...).
		From("subjects").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find subject query: %w", err)
	}

	return scanSubject(r.db.QueryRow(ctx, sql, args...))
}

// FindByCodigo retrieves a subject by its unique code
func (r *SubjectRepository) FindByCodigo(ctx context.Context, codigo string) (*models.Subject, error) {
	sql, args, err := r.sb.Select(subjectColumns...).
		From("subjects").
		Where(squirrel.Eq{"codigo": codigo}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find subject query: %w", err)
	}

	return scanSubject(r.db.QueryRow(ctx, sql, args...))
}

// Create inserts a new subject, used by the startup seed
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	sql, args, err := r.sb.Insert("subjects").
		Columns("nombre", "codigo", "career_id", "professor_name", "semestre", "descripcion", "activo").
		Values(subject.Nombre, subject.Codigo, subject.CareerID, subject.ProfessorName,
			subject.Semestre, subject.Descripcion, subject.Activo).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create subject query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: subject code %s", apperrors.ErrResourceAlreadyExists, subject.Codigo)
		}
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// Enroll creates an enrollment record for the student in the subject
func (r *SubjectRepository) Enroll(ctx context.Context, studentID, subjectID int64) error {
	sql, args, err := r.sb.Insert("student_subjects").
		Columns("student_id", "subject_id").
		Values(studentID, subjectID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build subject enroll query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateEnrollment
		}
		return fmt.Errorf("error enrolling student in subject: %w", err)
	}

	return nil
}

// Unenroll removes the student's enrollment in the subject
func (r *SubjectRepository) Unenroll(ctx context.Context, studentID, subjectID int64) error {
	sql, args, err := r.sb.Delete("student_subjects").
		Where(squirrel.Eq{"student_id": studentID, "subject_id": subjectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build subject unenroll query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error unenrolling student from subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

var _ ISubjectRepository = (*SubjectRepository)(nil)
