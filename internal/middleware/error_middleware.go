package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dcastellanos/uniportal/internal/app/models/dto"
	"github.com/dcastellanos/uniportal/internal/pkg/apperrors"
)

// HandleAPIError maps application errors onto HTTP responses. Controllers
// funnel every service error through here so the status codes and error
// codes stay consistent across endpoints.
func HandleAPIError(c *gin.Context, err error) {
	detail := errorDetailFor(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		detail.ErrorDetail = detail.ErrorDetail.WithDetails(custom.Message)
	}

	c.JSON(detail.Status, dto.NewErrorResponse(detail.ErrorDetail))
}

type mappedError struct {
	Status      int
	ErrorDetail *dto.ErrorDetail
}

func errorDetailFor(err error) mappedError {
	switch {
	case errors.Is(err, apperrors.ErrInvalidProviderToken):
		return mappedError{401, dto.NewErrorDetail(dto.ErrorCodeInvalidProviderToken, "Provider token could not be verified")}
	case errors.Is(err, apperrors.ErrUnverifiedEmail):
		return mappedError{403, dto.NewErrorDetail(dto.ErrorCodeUnverifiedEmail, "Provider email is not verified")}
	case errors.Is(err, apperrors.ErrMissingEmail):
		return mappedError{400, dto.NewErrorDetail(dto.ErrorCodeMissingEmail, "Provider profile has no email address")}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return mappedError{401, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")}
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return mappedError{401, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")}
	case errors.Is(err, apperrors.ErrEmptyUpdate):
		return mappedError{400, dto.NewErrorDetail(dto.ErrorCodeEmptyUpdate, "At least one field must be provided")}
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return mappedError{400, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")}
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return mappedError{404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")}
	case errors.Is(err, apperrors.ErrCareerNotFound):
		return mappedError{404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Career not found")}
	case errors.Is(err, apperrors.ErrSubjectNotFound):
		return mappedError{404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Subject not found")}
	case errors.Is(err, apperrors.ErrEnrollmentNotFound):
		return mappedError{404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Enrollment not found")}
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return mappedError{404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")}
	case errors.Is(err, apperrors.ErrDuplicateEnrollment):
		return mappedError{409, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Student is already enrolled")}
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return mappedError{409, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already in use")}
	case errors.Is(err, apperrors.ErrResourceAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		return mappedError{409, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists")}
	default:
		return mappedError{500, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")}
	}
}
