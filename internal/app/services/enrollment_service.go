package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dcastellanos/uniportal/internal/app/models"
	"github.com/dcastellanos/uniportal/internal/app/repositories"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
)

// EnrollmentService handles explicit career and subject enrollment
type EnrollmentService interface {
	EnrollCareer(ctx context.Context, studentID, careerID int64) error
	UnenrollCareer(ctx context.Context, studentID, careerID int64) error
	EnrollSubject(ctx context.Context, studentID, subjectID int64) error
	UnenrollSubject(ctx context.Context, studentID, subjectID int64) error
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	careerRepo  repositories.ICareerRepository
	subjectRepo repositories.ISubjectRepository
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	studentRepo repositories.IStudentRepository,
	careerRepo repositories.ICareerRepository,
	subjectRepo repositories.ISubjectRepository,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		studentRepo: studentRepo,
		careerRepo:  careerRepo,
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

// EnrollCareer enrolls the student in an active career and recomputes the
// profile completeness cache.
func (s *enrollmentServiceImpl) EnrollCareer(ctx context.Context, studentID, careerID int64) error {
	career, err := s.careerRepo.FindByID(ctx, careerID)
	if err != nil {
		return err
	}
	if !career.Activo {
		return apperrors.ErrCareerNotFound
	}

	if err := s.careerRepo.Enroll(ctx, studentID, careerID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("careerID", careerID).Msg("Student enrolled in career")

	return s.recomputeCompleteness(ctx, studentID)
}

// UnenrollCareer removes a career enrollment and recomputes completeness
func (s *enrollmentServiceImpl) UnenrollCareer(ctx context.Context, studentID, careerID int64) error {
	if err := s.careerRepo.Unenroll(ctx, studentID, careerID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("careerID", careerID).Msg("Student unenrolled from career")

	return s.recomputeCompleteness(ctx, studentID)
}

// EnrollSubject enrolls the student in an active subject. Subjects do not
// participate in profile completeness.
func (s *enrollmentServiceImpl) EnrollSubject(ctx context.Context, studentID, subjectID int64) error {
	subject, err := s.subjectRepo.FindByID(ctx, subjectID)
	if err != nil {
		return err
	}
	if !subject.Activo {
		return apperrors.ErrSubjectNotFound
	}

	if err := s.subjectRepo.Enroll(ctx, studentID, subjectID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("subjectID", subjectID).Msg("Student enrolled in subject")
	return nil
}

// UnenrollSubject removes a subject enrollment
func (s *enrollmentServiceImpl) UnenrollSubject(ctx context.Context, studentID, subjectID int64) error {
	if err := s.subjectRepo.Unenroll(ctx, studentID, subjectID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("subjectID", subjectID).Msg("Student unenrolled from subject")
	return nil
}

// recomputeCompleteness refreshes the cached flag after an enrollment change
func (s *enrollmentServiceImpl) recomputeCompleteness(ctx context.Context, studentID int64) error {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return err
	}

	count, err := s.studentRepo.CountCareerEnrollments(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to count career enrollments: %w", err)
	}

	complete := models.ProfileComplete(student.Identificacion, count)
	if complete == student.IsProfileComplete {
		return nil
	}

	if err := s.studentRepo.SetProfileComplete(ctx, studentID, complete); err != nil {
		return fmt.Errorf("failed to persist profile completeness: %w", err)
	}

	return nil
}
