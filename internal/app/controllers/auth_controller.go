// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dcastellanos/uniportal/internal/app/models/dto"
	"github.com/dcastellanos/uniportal/internal/app/services"
	"github.com/dcastellanos/uniportal/internal/middleware"
	"github.com/dcastellanos/uniportal/internal/pkg/auth"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, jwtService *auth.JWTService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// GoogleLogin handles sign-in with a Google ID token
// @Summary Sign in with Google
// @Description Verifies a Google ID token, reconciles the student account and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Session token and student profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or profile has no email"
// @Failure 401 {object} dto.ErrorResponse "Token could not be verified"
// @Failure 403 {object} dto.ErrorResponse "Provider email is not verified"
// @Router /auth/google [post]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid Google login payload")
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	loginResponse, err := c.authService.LoginWithGoogle(ctx.Request.Context(), req.IDToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Google login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("studentID", loginResponse.User.ID).
		Bool("isNewUser", loginResponse.IsNewUser).
		Msg("Google login succeeded")

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: loginResponse})
}

// MicrosoftLogin handles sign-in with a Microsoft access token
// @Summary Sign in with Microsoft
// @Description Verifies a Microsoft Graph access token, reconciles the student account and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MicrosoftLoginRequest true "Microsoft access token"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Session token and student profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or profile has no email"
// @Failure 401 {object} dto.ErrorResponse "Token could not be verified"
// @Router /auth/microsoft [post]
func (c *AuthController) MicrosoftLogin(ctx *gin.Context) {
	var req dto.MicrosoftLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid Microsoft login payload")
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	loginResponse, err := c.authService.LoginWithMicrosoft(ctx.Request.Context(), req.AccessToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Microsoft login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("studentID", loginResponse.User.ID).
		Bool("isNewUser", loginResponse.IsNewUser).
		Msg("Microsoft login succeeded")

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: loginResponse})
}

// GetProfile returns the authenticated student's profile
// @Summary Get own profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Student profile"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /auth/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	studentID, ok := middleware.StudentIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.authService.GetProfile(ctx.Request.Context(), studentID)
	if err != nil {
		c.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to load profile")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile})
}

// UpdateProfile applies a partial update to the authenticated student's profile
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or no fields provided"
// @Failure 404 {object} dto.ErrorResponse "Student or career not found"
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	studentID, ok := middleware.StudentIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid profile update payload")
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.authService.UpdateProfile(ctx.Request.Context(), studentID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Profile update failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentID", studentID).Msg("Profile updated")

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile})
}

// ValidateToken inspects a session token and returns its claims
// @Summary Validate a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ValidateTokenRequest true "Session token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenClaimsResponse} "Token claims"
// @Failure 401 {object} dto.ErrorResponse "Token expired or invalid"
// @Router /auth/validate-token [post]
func (c *AuthController) ValidateToken(ctx *gin.Context) {
	var req dto.ValidateTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	claims, err := c.jwtService.ValidateAndExtractClaims(req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.TokenClaimsResponse{
		StudentID:         claims.StudentID,
		Email:             claims.Email,
		ProviderID:        claims.ProviderID,
		IsProfileComplete: claims.IsProfileComplete,
		ExpiresAt:         claims.ExpiresAt.Unix(),
	}})
}

// Check echoes the identity claims of a valid session token
// @Summary Check session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionCheckResponse} "Session is valid"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /auth/check [get]
func (c *AuthController) Check(ctx *gin.Context) {
	studentID, ok := middleware.StudentIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SessionCheckResponse{
		StudentID:         studentID,
		Email:             ctx.GetString(middleware.ContextEmail),
		IsProfileComplete: ctx.GetBool(middleware.ContextIsProfileComplete),
	}})
}

// Logout ends the session. Tokens are stateless, so the server keeps no
// session record; clients discard the token on their side.
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Session closed"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if studentID, ok := middleware.StudentIDFromContext(ctx); ok {
		c.logger.Info().Int64("studentID", studentID).Msg("Student logged out")
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Session closed"}})
}
