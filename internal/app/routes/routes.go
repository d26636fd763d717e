package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dcastellanos/uniportal/internal/app/controllers"
	"github.com/dcastellanos/uniportal/internal/app/models/dto"
	"github.com/dcastellanos/uniportal/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	enrollmentController *controllers.EnrollmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/google", authController.GoogleLogin)
		auth.POST("/microsoft", authController.MicrosoftLogin)
		auth.POST("/validate-token", authController.ValidateToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/check", authController.Check)
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/profile", authController.GetProfile)
		authenticated.PUT("/auth/profile", authController.UpdateProfile)

		// Career enrollment
		careers := authenticated.Group("/careers")
		{
			careers.POST("/:id/enrollment", enrollmentController.EnrollCareer)
			careers.DELETE("/:id/enrollment", enrollmentController.UnenrollCareer)
		}

		// Subject enrollment requires a usable profile
		subjects := authenticated.Group("/subjects")
		subjects.Use(authMiddleware.ProfileCompleteRequired())
		{
			subjects.POST("/:id/enrollment", enrollmentController.EnrollSubject)
			subjects.DELETE("/:id/enrollment", enrollmentController.UnenrollSubject)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
