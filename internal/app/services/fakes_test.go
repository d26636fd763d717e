package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dcastellanos/uniportal/internal/app/models"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
	"github.com/dcastellanos/uniportal/internal/pkg/identity"
)

// fakeVerifier returns canned claims for any token
type fakeVerifier struct {
	provider string
	claims   *identity.ProviderClaims
	err      error
}

func (v *fakeVerifier) Name() string { return v.provider }

func (v *fakeVerifier) Verify(_ context.Context, _ string) (*identity.ProviderClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

// fakeCareerRepo is an in-memory ICareerRepository. Enrollments are shared
// with fakeStudentRepo so the two views stay consistent.
type fakeCareerRepo struct {
	careers     []models.Career
	enrollments map[int64][]int64 // studentID -> careerIDs in order

	// enrollErr, when set, makes every Enroll fail
	enrollErr error
}

func newFakeCareerRepo(careers ...models.Career) *fakeCareerRepo {
	return &fakeCareerRepo{
		careers:     careers,
		enrollments: make(map[int64][]int64),
	}
}

func (r *fakeCareerRepo) FindAllActive(_ context.Context) ([]models.Career, error) {
	var active []models.Career
	for _, c := range r.careers {
		if c.Activo {
			active = append(active, c)
		}
	}
	return active, nil
}

func (r *fakeCareerRepo) FindByID(_ context.Context, id int64) (*models.Career, error) {
	for i := range r.careers {
		if r.careers[i].ID == id {
			career := r.careers[i]
			return &career, nil
		}
	}
	return nil, apperrors.ErrCareerNotFound
}

func (r *fakeCareerRepo) FindByCodigo(_ context.Context, codigo string) (*models.Career, error) {
	for i := range r.careers {
		if r.careers[i].Codigo == codigo {
			career := r.careers[i]
			return &career, nil
		}
	}
	return nil, apperrors.ErrCareerNotFound
}

func (r *fakeCareerRepo) Create(_ context.Context, career *models.Career) error {
	career.ID = int64(len(r.careers) + 1)
	r.careers = append(r.careers, *career)
	return nil
}

func (r *fakeCareerRepo) Enroll(_ context.Context, studentID, careerID int64) error {
	if r.enrollErr != nil {
		return r.enrollErr
	}
	for _, id := range r.enrollments[studentID] {
		if id == careerID {
			return apperrors.ErrDuplicateEnrollment
		}
	}
	r.enrollments[studentID] = append(r.enrollments[studentID], careerID)
	return nil
}

func (r *fakeCareerRepo) Unenroll(_ context.Context, studentID, careerID int64) error {
	ids := r.enrollments[studentID]
	for i, id := range ids {
		if id == careerID {
			r.enrollments[studentID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}

func (r *fakeCareerRepo) ReplaceEnrollments(_ context.Context, studentID int64, careerIDs []int64) error {
	r.enrollments[studentID] = append([]int64(nil), careerIDs...)
	return nil
}

// fakeStudentRepo is an in-memory IStudentRepository
type fakeStudentRepo struct {
	students   map[int64]*models.Student
	nextID     int64
	careerRepo *fakeCareerRepo

	// createHook runs before Create persists, letting tests inject a
	// concurrent-creation conflict
	createHook func() error

	setProfileCompleteCalls int
}

func newFakeStudentRepo(careerRepo *fakeCareerRepo) *fakeStudentRepo {
	return &fakeStudentRepo{
		students:   make(map[int64]*models.Student),
		careerRepo: careerRepo,
	}
}

func (r *fakeStudentRepo) insert(student *models.Student) *models.Student {
	r.nextID++
	student.ID = r.nextID
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	copy := *student
	r.students[student.ID] = &copy
	return student
}

func (r *fakeStudentRepo) FindByProviderID(_ context.Context, provider, providerID string) (*models.Student, error) {
	for _, s := range r.students {
		switch provider {
		case identity.ProviderGoogle:
			if s.GoogleID != nil && *s.GoogleID == providerID {
				copy := *s
				return &copy, nil
			}
		case identity.ProviderMicrosoft:
			if s.MicrosoftID != nil && *s.MicrosoftID == providerID {
				copy := *s
				return &copy, nil
			}
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, s := range r.students {
		if s.Email == email {
			copy := *s
			return &copy, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) FindByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	if r.createHook != nil {
		hook := r.createHook
		r.createHook = nil
		if err := hook(); err != nil {
			return err
		}
	}

	for _, s := range r.students {
		if s.Email == student.Email {
			return fmt.Errorf("%w: student already exists", apperrors.ErrConflict)
		}
	}

	r.insert(student)
	return nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	if _, ok := r.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	student.UpdatedAt = time.Now()
	copy := *student
	r.students[student.ID] = &copy
	return nil
}

func (r *fakeStudentRepo) SetProfileComplete(_ context.Context, id int64, complete bool) error {
	s, ok := r.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	r.setProfileCompleteCalls++
	s.IsProfileComplete = complete
	return nil
}

func (r *fakeStudentRepo) GetCareerEnrollments(ctx context.Context, studentID int64) ([]models.CareerEnrollment, error) {
	var enrollments []models.CareerEnrollment
	for _, careerID := range r.careerRepo.enrollments[studentID] {
		career, err := r.careerRepo.FindByID(ctx, careerID)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, models.CareerEnrollment{
			Career:     *career,
			EnrolledAt: time.Now(),
		})
	}
	return enrollments, nil
}

func (r *fakeStudentRepo) CountCareerEnrollments(_ context.Context, studentID int64) (int, error) {
	return len(r.careerRepo.enrollments[studentID]), nil
}

// fakeSubjectRepo is an in-memory ISubjectRepository
type fakeSubjectRepo struct {
	subjects    []models.Subject
	enrollments map[int64][]int64 // studentID -> subjectIDs
}

func newFakeSubjectRepo(subjects ...models.Subject) *fakeSubjectRepo {
	return &fakeSubjectRepo{
		subjects:    subjects,
		enrollments: make(map[int64][]int64),
	}
}

func (r *fakeSubjectRepo) FindByID(_ context.Context, id int64) (*models.Subject, error) {
	for i := range r.subjects {
		if r.subjects[i].ID == id {
			subject := r.subjects[i]
			return &subject, nil
		}
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (r *fakeSubjectRepo) FindByCodigo(_ context.Context, codigo string) (*models.Subject, error) {
	for i := range r.subjects {
		if r.subjects[i].Codigo == codigo {
			subject := r.subjects[i]
			return &subject, nil
		}
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (r *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	subject.ID = int64(len(r.subjects) + 1)
	r.subjects = append(r.subjects, *subject)
	return nil
}

func (r *fakeSubjectRepo) Enroll(_ context.Context, studentID, subjectID int64) error {
	for _, id := range r.enrollments[studentID] {
		if id == subjectID {
			return apperrors.ErrDuplicateEnrollment
		}
	}
	r.enrollments[studentID] = append(r.enrollments[studentID], subjectID)
	return nil
}

func (r *fakeSubjectRepo) Unenroll(_ context.Context, studentID, subjectID int64) error {
	ids := r.enrollments[studentID]
	for i, id := range ids {
		if id == subjectID {
			r.enrollments[studentID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}
