package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dcastellanos/uniportal/internal/app/models/dto"
	"github.com/dcastellanos/uniportal/internal/app/services"
	"github.com/dcastellanos/uniportal/internal/middleware"
)

// EnrollmentController handles career and subject enrollment operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// EnrollCareer enrolls the authenticated student in a career
// @Summary Enroll in a career
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Career ID"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse} "Enrollment created"
// @Failure 404 {object} dto.ErrorResponse "Career not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /careers/{id}/enrollment [post]
func (c *EnrollmentController) EnrollCareer(ctx *gin.Context) {
	c.handleEnrollment(ctx, "career", func(studentID, resourceID int64) error {
		return c.enrollmentService.EnrollCareer(ctx.Request.Context(), studentID, resourceID)
	}, http.StatusCreated, "Enrolled in career")
}

// UnenrollCareer removes the authenticated student's career enrollment
// @Summary Leave a career
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Career ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Enrollment removed"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /careers/{id}/enrollment [delete]
func (c *EnrollmentController) UnenrollCareer(ctx *gin.Context) {
	c.handleEnrollment(ctx, "career", func(studentID, resourceID int64) error {
		return c.enrollmentService.UnenrollCareer(ctx.Request.Context(), studentID, resourceID)
	}, http.StatusOK, "Enrollment removed")
}

// EnrollSubject enrolls the authenticated student in a subject
// @Summary Enroll in a subject
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse} "Enrollment created"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /subjects/{id}/enrollment [post]
func (c *EnrollmentController) EnrollSubject(ctx *gin.Context) {
	c.handleEnrollment(ctx, "subject", func(studentID, resourceID int64) error {
		return c.enrollmentService.EnrollSubject(ctx.Request.Context(), studentID, resourceID)
	}, http.StatusCreated, "Enrolled in subject")
}

// UnenrollSubject removes the authenticated student's subject enrollment
// @Summary Leave a subject
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Enrollment removed"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /subjects/{id}/enrollment [delete]
func (c *EnrollmentController) UnenrollSubject(ctx *gin.Context) {
	c.handleEnrollment(ctx, "subject", func(studentID, resourceID int64) error {
		return c.enrollmentService.UnenrollSubject(ctx.Request.Context(), studentID, resourceID)
	}, http.StatusOK, "Enrollment removed")
}

func (c *EnrollmentController) handleEnrollment(ctx *gin.Context, resource string, op func(studentID, resourceID int64) error, successStatus int, successMessage string) {
	studentID, ok := middleware.StudentIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	resourceID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || resourceID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid id parameter")
		errorDetail = errorDetail.WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := op(studentID, resourceID); err != nil {
		c.logger.Warn().Err(err).
			Int64("studentID", studentID).
			Int64(resource+"ID", resourceID).
			Msg("Enrollment operation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(successStatus, dto.APIResponse{Data: dto.SuccessResponse{Message: successMessage}})
}
