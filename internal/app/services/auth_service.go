package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dcastellanos/uniportal/internal/app/models"
	"github.com/dcastellanos/uniportal/internal/app/models/dto"
	"github.com/dcastellanos/uniportal/internal/app/repositories"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
	"github.com/dcastellanos/uniportal/internal/pkg/auth"
	"github.com/dcastellanos/uniportal/internal/pkg/helpers"
	"github.com/dcastellanos/uniportal/internal/pkg/identity"
)

// seededCareerCount is how many random careers a brand-new account gets
const seededCareerCount = 2

// AuthService reconciles verified provider claims against the student store
// and manages the authenticated profile.
type AuthService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*dto.LoginResponse, error)
	LoginWithMicrosoft(ctx context.Context, accessToken string) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context, studentID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, studentID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	studentRepo       repositories.IStudentRepository
	careerRepo        repositories.ICareerRepository
	googleVerifier    identity.Verifier
	microsoftVerifier identity.Verifier
	jwtService        *auth.JWTService
	logger            zerolog.Logger
}

// NewAuthService creates a new AuthService. Verifiers are explicit
// per-provider instances built at startup, not a global registry.
func NewAuthService(
	studentRepo repositories.IStudentRepository,
	careerRepo repositories.ICareerRepository,
	googleVerifier identity.Verifier,
	microsoftVerifier identity.Verifier,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		studentRepo:       studentRepo,
		careerRepo:        careerRepo,
		googleVerifier:    googleVerifier,
		microsoftVerifier: microsoftVerifier,
		jwtService:        jwtService,
		logger:            logger,
	}
}

// LoginWithGoogle validates a Google ID token and reconciles the account.
// Google requires a verified email claim.
func (s *authServiceImpl) LoginWithGoogle(ctx context.Context, idToken string) (*dto.LoginResponse, error) {
	claims, err := s.googleVerifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if !claims.EmailVerified {
		return nil, apperrors.ErrUnverifiedEmail
	}

	return s.reconcile(ctx, claims)
}

// LoginWithMicrosoft validates a Microsoft access token and reconciles the
// account. Tenant-issued tokens carry no separate email-verified assertion.
func (s *authServiceImpl) LoginWithMicrosoft(ctx context.Context, accessToken string) (*dto.LoginResponse, error) {
	claims, err := s.microsoftVerifier.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return s.reconcile(ctx, claims)
}

// reconcile maps verified claims to a create, link, or refresh outcome.
// The precedence is fixed: provider id first, then email, then creation.
// Email is the merge key; a student created under one provider who later
// logs in with another provider and the same email ends up as one linked
// record, never a duplicate.
func (s *authServiceImpl) reconcile(ctx context.Context, claims *identity.ProviderClaims) (*dto.LoginResponse, error) {
	if claims.Email == "" {
		return nil, apperrors.ErrMissingEmail
	}

	student, isNewUser, err := s.resolveStudent(ctx, claims)
	if err != nil {
		return nil, err
	}

	if isNewUser {
		s.seedRandomCareers(ctx, student.ID)
	}

	if err := s.refreshProfileComplete(ctx, student); err != nil {
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateToken(student.ID, student.Email, claims.ProviderID, student.IsProfileComplete)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session credential: %w", err)
	}

	student.Careers, err = s.studentRepo.GetCareerEnrollments(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load career enrollments: %w", err)
	}

	s.logger.Info().
		Int64("studentID", student.ID).
		Str("provider", claims.Provider).
		Bool("isNewUser", isNewUser).
		Msg("Provider login reconciled")

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      dto.NewUserResponse(student),
		IsNewUser: isNewUser,
	}, nil
}

// resolveStudent runs the lookup precedence and returns the affected
// student. The creation step can lose a race against a concurrent first
// login with the same email or provider id; the unique-constraint conflict
// from the repository triggers exactly one retry of the lookup-merge
// sequence instead of failing the login.
func (s *authServiceImpl) resolveStudent(ctx context.Context, claims *identity.ProviderClaims) (*models.Student, bool, error) {
	for attempt := 0; ; attempt++ {
		// Refresh path: account already linked to this provider
		student, err := s.studentRepo.FindByProviderID(ctx, claims.Provider, claims.ProviderID)
		if err == nil {
			s.applyClaimRefresh(student, claims)
			if err := s.studentRepo.Update(ctx, student); err != nil {
				return nil, false, fmt.Errorf("failed to refresh student: %w", err)
			}
			return student, false, nil
		}
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, false, err
		}

		// Link path: account exists under the same email, attach this provider
		student, err = s.studentRepo.FindByEmail(ctx, claims.Email)
		if err == nil {
			s.applyProviderLink(student, claims)
			s.applyClaimRefresh(student, claims)
			if err := s.studentRepo.Update(ctx, student); err != nil {
				return nil, false, fmt.Errorf("failed to link provider account: %w", err)
			}
			return student, false, nil
		}
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, false, err
		}

		// Creation path
		student = &models.Student{
			Email:             claims.Email,
			FullName:          claims.FullName,
			IsProfileComplete: false,
		}
		s.applyProviderLink(student, claims)
		student.ProfilePicture = helpers.StringPtrOrNil(claims.PictureURL)

		err = s.studentRepo.Create(ctx, student)
		if err == nil {
			return student, true, nil
		}
		if errors.Is(err, apperrors.ErrConflict) && attempt == 0 {
			s.logger.Warn().
				Str("provider", claims.Provider).
				Msg("Student creation lost a concurrent race, retrying lookup")
			continue
		}
		return nil, false, fmt.Errorf("failed to create student: %w", err)
	}
}

// applyClaimRefresh updates display fields from fresh provider claims.
// Provider-link fields are left untouched.
func (s *authServiceImpl) applyClaimRefresh(student *models.Student, claims *identity.ProviderClaims) {
	if claims.FullName != "" {
		student.FullName = claims.FullName
	}
	if claims.PictureURL != "" {
		student.ProfilePicture = helpers.StringPtrOrNil(claims.PictureURL)
	}
}

// applyProviderLink attaches the authenticated provider's subject id
func (s *authServiceImpl) applyProviderLink(student *models.Student, claims *identity.ProviderClaims) {
	providerID := claims.ProviderID
	switch claims.Provider {
	case identity.ProviderGoogle:
		student.GoogleID = &providerID
	case identity.ProviderMicrosoft:
		student.MicrosoftID = &providerID
	}
}

// seedRandomCareers enrolls a brand-new account in up to two random active
// careers. This is best effort: individual failures are logged and the
// account creation stands regardless.
func (s *authServiceImpl) seedRandomCareers(ctx context.Context, studentID int64) {
	careers, err := s.careerRepo.FindAllActive(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Could not load careers for seeding")
		return
	}
	if len(careers) == 0 {
		return
	}

	rand.Shuffle(len(careers), func(i, j int) {
		careers[i], careers[j] = careers[j], careers[i]
	})

	count := seededCareerCount
	if len(careers) < count {
		count = len(careers)
	}

	for _, career := range careers[:count] {
		if err := s.careerRepo.Enroll(ctx, studentID, career.ID); err != nil {
			s.logger.Warn().Err(err).
				Int64("studentID", studentID).
				Int64("careerID", career.ID).
				Msg("Could not seed career enrollment")
		}
	}
}

// refreshProfileComplete recomputes the derived completeness flag and
// persists it only when it differs from the stored value.
func (s *authServiceImpl) refreshProfileComplete(ctx context.Context, student *models.Student) error {
	count, err := s.studentRepo.CountCareerEnrollments(ctx, student.ID)
	if err != nil {
		return fmt.Errorf("failed to count career enrollments: %w", err)
	}

	complete := models.ProfileComplete(student.Identificacion, count)
	if complete == student.IsProfileComplete {
		return nil
	}

	if err := s.studentRepo.SetProfileComplete(ctx, student.ID, complete); err != nil {
		return fmt.Errorf("failed to persist profile completeness: %w", err)
	}
	student.IsProfileComplete = complete

	return nil
}

// GetProfile returns the sanitized view of the student
func (s *authServiceImpl) GetProfile(ctx context.Context, studentID int64) (*dto.UserResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	student.Careers, err = s.studentRepo.GetCareerEnrollments(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load career enrollments: %w", err)
	}

	return dto.NewUserResponse(student), nil
}

// UpdateProfile applies a partial update to identificacion, the career
// enrollment set, and the free-text subject list. At least one field must
// be present.
func (s *authServiceImpl) UpdateProfile(ctx context.Context, studentID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if req.IsEmpty() {
		return nil, apperrors.ErrEmptyUpdate
	}

	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if req.Identificacion != nil {
		if trimmed := strings.TrimSpace(*req.Identificacion); trimmed != "" {
			student.Identificacion = &trimmed
		}
	}

	if req.Materias != nil {
		student.Materias = cleanStringList(*req.Materias)
	}

	if req.Carreras != nil {
		careerIDs, err := s.resolveCareerCodes(ctx, cleanStringList(*req.Carreras))
		if err != nil {
			return nil, err
		}
		if err := s.careerRepo.ReplaceEnrollments(ctx, studentID, careerIDs); err != nil {
			return nil, fmt.Errorf("failed to replace career enrollments: %w", err)
		}
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := s.refreshProfileComplete(ctx, student); err != nil {
		return nil, err
	}

	student.Careers, err = s.studentRepo.GetCareerEnrollments(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load career enrollments: %w", err)
	}

	return dto.NewUserResponse(student), nil
}

// resolveCareerCodes maps career codes to ids, rejecting unknown or
// inactive careers.
func (s *authServiceImpl) resolveCareerCodes(ctx context.Context, codes []string) ([]int64, error) {
	ids := make([]int64, 0, len(codes))
	for _, code := range codes {
		career, err := s.careerRepo.FindByCodigo(ctx, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrCareerNotFound) {
				return nil, apperrors.NewCustomError(apperrors.ErrCareerNotFound, fmt.Sprintf("career %q not found", code))
			}
			return nil, err
		}
		if !career.Activo {
			return nil, apperrors.NewCustomError(apperrors.ErrCareerNotFound, fmt.Sprintf("career %q is inactive", code))
		}
		ids = append(ids, career.ID)
	}
	return ids, nil
}

// cleanStringList trims every entry and drops the empty ones
func cleanStringList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
