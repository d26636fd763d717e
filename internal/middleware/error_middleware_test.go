package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastellanos/uniportal/internal/app/models/dto"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
)

func TestHandleAPIError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid provider token", apperrors.ErrInvalidProviderToken, 401, dto.ErrorCodeInvalidProviderToken},
		{"unverified email", apperrors.ErrUnverifiedEmail, 403, dto.ErrorCodeUnverifiedEmail},
		{"missing email", apperrors.ErrMissingEmail, 400, dto.ErrorCodeMissingEmail},
		{"expired token", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken},
		{"invalid token", apperrors.ErrTokenInvalid, 401, dto.ErrorCodeInvalidToken},
		{"empty update", apperrors.ErrEmptyUpdate, 400, dto.ErrorCodeEmptyUpdate},
		{"student not found", apperrors.ErrStudentNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"career not found", apperrors.ErrCareerNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"subject not found", apperrors.ErrSubjectNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"enrollment not found", apperrors.ErrEnrollmentNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"duplicate enrollment", apperrors.ErrDuplicateEnrollment, 409, dto.ErrorCodeResourceAlreadyExists},
		{"conflict", apperrors.ErrConflict, 409, dto.ErrorCodeResourceAlreadyExists},
		{"unknown error", assert.AnError, 500, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestHandleAPIError_CustomErrorMessageSurfaced(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrCareerNotFound, `career "NOPE" not found`))

	assert.Equal(t, 404, recorder.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, `career "NOPE" not found`, resp.Error.Details)
}
