package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastellanos/uniportal/internal/app/models"
	"github.com/dcastellanos/uniportal/internal/app/models/dto"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
	"github.com/dcastellanos/uniportal/internal/pkg/auth"
	"github.com/dcastellanos/uniportal/internal/pkg/identity"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "uniportal.test",
	})
}

func testCareers() []models.Career {
	return []models.Career{
		{ID: 1, Nombre: "Ingeniería de Sistemas", Codigo: "ING-SIS", Activo: true},
		{ID: 2, Nombre: "Derecho", Codigo: "DER", Activo: true},
		{ID: 3, Nombre: "Contaduría Pública", Codigo: "CON-PUB", Activo: true},
		{ID: 4, Nombre: "Carrera Cerrada", Codigo: "OLD", Activo: false},
	}
}

func googleClaims() *identity.ProviderClaims {
	return &identity.ProviderClaims{
		Provider:      identity.ProviderGoogle,
		ProviderID:    "google-sub-1",
		Email:         "maria@uniportal.edu",
		EmailVerified: true,
		FullName:      "Maria Lopez",
		PictureURL:    "https://example.com/maria.png",
	}
}

func microsoftClaims() *identity.ProviderClaims {
	return &identity.ProviderClaims{
		Provider:      identity.ProviderMicrosoft,
		ProviderID:    "ms-sub-1",
		Email:         "maria@uniportal.edu",
		EmailVerified: true,
		FullName:      "Maria L.",
	}
}

type authFixture struct {
	studentRepo *fakeStudentRepo
	careerRepo  *fakeCareerRepo
	google      *fakeVerifier
	microsoft   *fakeVerifier
	service     AuthService
}

func newAuthFixture() *authFixture {
	careerRepo := newFakeCareerRepo(testCareers()...)
	studentRepo := newFakeStudentRepo(careerRepo)
	google := &fakeVerifier{provider: identity.ProviderGoogle, claims: googleClaims()}
	microsoft := &fakeVerifier{provider: identity.ProviderMicrosoft, claims: microsoftClaims()}

	service := NewAuthService(studentRepo, careerRepo, google, microsoft, testJWTService(), zerolog.Nop())
	return &authFixture{
		studentRepo: studentRepo,
		careerRepo:  careerRepo,
		google:      google,
		microsoft:   microsoft,
		service:     service,
	}
}

func TestLoginWithGoogle_CreatesNewStudent(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.service.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	assert.True(t, resp.IsNewUser)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)

	require.NotNil(t, resp.User)
	assert.Equal(t, "maria@uniportal.edu", resp.User.Email)
	assert.Equal(t, "Maria Lopez", resp.User.FullName)
	assert.True(t, resp.User.HasGoogleAccount)
	assert.False(t, resp.User.HasMicrosoftAccount)

	// Identification is still missing, so seeding alone never completes
	// the profile
	assert.False(t, resp.User.IsProfileComplete)
	assert.Len(t, resp.User.Careers, 2)
}

func TestLoginWithGoogle_SeedsDistinctActiveCareers(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.service.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for _, c := range resp.User.Careers {
		assert.False(t, seen[c.ID], "career seeded twice")
		assert.NotEqual(t, int64(4), c.ID, "inactive career seeded")
		seen[c.ID] = true
	}
}

func TestLoginWithGoogle_SeedingFailureDoesNotBlockCreation(t *testing.T) {
	f := newAuthFixture()
	f.careerRepo.enrollErr = errors.New("enrollment insert failed")

	resp, err := f.service.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	assert.True(t, resp.IsNewUser)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.Careers)
	assert.False(t, resp.User.IsProfileComplete)
	require.Len(t, f.studentRepo.students, 1)
}

func TestLoginWithGoogle_UnverifiedEmail(t *testing.T) {
	f := newAuthFixture()
	f.google.claims.EmailVerified = false

	_, err := f.service.LoginWithGoogle(context.Background(), "id-token")
	assert.ErrorIs(t, err, apperrors.ErrUnverifiedEmail)
	assert.Empty(t, f.studentRepo.students)
}

func TestLoginWithMicrosoft_MissingEmail(t *testing.T) {
	f := newAuthFixture()
	f.microsoft.claims.Email = ""

	_, err := f.service.LoginWithMicrosoft(context.Background(), "access-token")
	assert.ErrorIs(t, err, apperrors.ErrMissingEmail)
	assert.Empty(t, f.studentRepo.students)
}

func TestLoginWithGoogle_InvalidProviderToken(t *testing.T) {
	f := newAuthFixture()
	f.google.err = apperrors.ErrInvalidProviderToken

	_, err := f.service.LoginWithGoogle(context.Background(), "bad-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidProviderToken)
}

func TestLoginWithGoogle_RefreshesLinkedAccount(t *testing.T) {
	f := newAuthFixture()
	googleID := "google-sub-1"
	f.studentRepo.insert(&models.Student{
		Email:    "maria@uniportal.edu",
		GoogleID: &googleID,
		FullName: "Old Name",
	})

	resp, err := f.service.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	assert.False(t, resp.IsNewUser)
	assert.Equal(t, "Maria Lopez", resp.User.FullName)
	require.NotNil(t, resp.User.ProfilePicture)
	assert.Equal(t, "https://example.com/maria.png", *resp.User.ProfilePicture)
	assert.Len(t, f.studentRepo.students, 1)
	// Existing accounts never get seeded careers
	assert.Empty(t, resp.User.Careers)
}

func TestLoginWithMicrosoft_LinksByEmail(t *testing.T) {
	f := newAuthFixture()
	googleID := "google-sub-1"
	f.studentRepo.insert(&models.Student{
		Email:    "maria@uniportal.edu",
		GoogleID: &googleID,
		FullName: "Maria Lopez",
	})

	resp, err := f.service.LoginWithMicrosoft(context.Background(), "access-token")
	require.NoError(t, err)

	assert.False(t, resp.IsNewUser)
	assert.True(t, resp.User.HasGoogleAccount)
	assert.True(t, resp.User.HasMicrosoftAccount)
	assert.Len(t, f.studentRepo.students, 1, "linking must never duplicate the account")
}

func TestLoginWithGoogle_CreateConflictRetriesLookup(t *testing.T) {
	f := newAuthFixture()

	// Simulate a concurrent first login winning the insert race: the hook
	// stores the winner, then reports the unique violation.
	f.studentRepo.createHook = func() error {
		googleID := "google-sub-1"
		f.studentRepo.insert(&models.Student{
			Email:    "maria@uniportal.edu",
			GoogleID: &googleID,
			FullName: "Maria Lopez",
		})
		return apperrors.NewConflictError("student already exists")
	}

	resp, err := f.service.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	assert.False(t, resp.IsNewUser, "retry must merge into the winner, not create")
	assert.Len(t, f.studentRepo.students, 1)
}

func TestLogin_RecomputesProfileCompleteness(t *testing.T) {
	f := newAuthFixture()
	googleID := "google-sub-1"
	identificacion := "AB12345"
	student := f.studentRepo.insert(&models.Student{
		Email:          "maria@uniportal.edu",
		GoogleID:       &googleID,
		Identificacion: &identificacion,
	})
	require.NoError(t, f.careerRepo.Enroll(context.Background(), student.ID, 1))

	resp, err := f.service.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	assert.True(t, resp.User.IsProfileComplete)
	assert.Equal(t, 1, f.studentRepo.setProfileCompleteCalls)

	// A second login with unchanged state must not rewrite the flag
	_, err = f.service.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, 1, f.studentRepo.setProfileCompleteCalls)
}

func TestGetProfile_NotFound(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.GetProfile(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUpdateProfile_EmptyUpdate(t *testing.T) {
	f := newAuthFixture()
	f.studentRepo.insert(&models.Student{Email: "maria@uniportal.edu"})

	_, err := f.service.UpdateProfile(context.Background(), 1, &dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyUpdate)
}

func TestUpdateProfile_TrimsAndReplacesCareers(t *testing.T) {
	f := newAuthFixture()
	student := f.studentRepo.insert(&models.Student{Email: "maria@uniportal.edu"})
	require.NoError(t, f.careerRepo.Enroll(context.Background(), student.ID, 2))

	identificacion := "  AB12345  "
	carreras := []string{" ING-SIS ", "", "CON-PUB"}
	materias := []string{"  Cálculo I ", "   ", "Física"}

	resp, err := f.service.UpdateProfile(context.Background(), student.ID, &dto.UpdateProfileRequest{
		Identificacion: &identificacion,
		Carreras:       &carreras,
		Materias:       &materias,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Identificacion)
	assert.Equal(t, "AB12345", *resp.Identificacion)
	assert.Equal(t, []string{"Cálculo I", "Física"}, resp.Materias)

	codes := make([]string, 0, len(resp.Careers))
	for _, c := range resp.Careers {
		codes = append(codes, c.Codigo)
	}
	assert.ElementsMatch(t, []string{"ING-SIS", "CON-PUB"}, codes)

	assert.True(t, resp.IsProfileComplete)
}

func TestUpdateProfile_BlankIdentificacionDiscarded(t *testing.T) {
	f := newAuthFixture()
	identificacion := "AB12345"
	student := f.studentRepo.insert(&models.Student{
		Email:          "maria@uniportal.edu",
		Identificacion: &identificacion,
	})

	blank := "   "
	resp, err := f.service.UpdateProfile(context.Background(), student.ID, &dto.UpdateProfileRequest{
		Identificacion: &blank,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Identificacion)
	assert.Equal(t, "AB12345", *resp.Identificacion, "blank input must not erase the stored value")
}

func TestUpdateProfile_UnknownCareer(t *testing.T) {
	f := newAuthFixture()
	student := f.studentRepo.insert(&models.Student{Email: "maria@uniportal.edu"})

	carreras := []string{"NOPE"}
	_, err := f.service.UpdateProfile(context.Background(), student.ID, &dto.UpdateProfileRequest{
		Carreras: &carreras,
	})
	assert.ErrorIs(t, err, apperrors.ErrCareerNotFound)
}

func TestUpdateProfile_InactiveCareer(t *testing.T) {
	f := newAuthFixture()
	student := f.studentRepo.insert(&models.Student{Email: "maria@uniportal.edu"})

	carreras := []string{"OLD"}
	_, err := f.service.UpdateProfile(context.Background(), student.ID, &dto.UpdateProfileRequest{
		Carreras: &carreras,
	})
	assert.ErrorIs(t, err, apperrors.ErrCareerNotFound)
}
