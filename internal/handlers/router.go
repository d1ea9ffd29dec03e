package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/auth"
	"github.com/SAP-F-2025/identity-service/internal/config"
	"github.com/SAP-F-2025/identity-service/internal/models"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	adminHandler   *AdminHandler
	authMiddleware *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	tokens *auth.TokenService,
	userRepo repositories.UserRepository,
	logger utils.Logger,
	cfg *config.Config,
) *HandlerManager {
	exposeDetails := !cfg.IsProduction()

	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger, exposeDetails),
		userHandler:    NewUserHandler(serviceManager.User(), logger, exposeDetails),
		adminHandler:   NewAdminHandler(serviceManager.User(), validator, logger, exposeDetails),
		authMiddleware: NewAuthMiddleware(tokens, userRepo),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes - registration and login are public
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.GET("/me", hm.authMiddleware.RequireAuth(), hm.authHandler.Me)
		}

		// User directory - all authenticated users
		users := v1.Group("/users")
		users.Use(hm.authMiddleware.RequireAuth())
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/search", hm.userHandler.SearchUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}

		// Admin routes - capability-gated per operation
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireAuth())
		{
			admin.PUT("/users/:id/admin-level", hm.authMiddleware.RequirePermission(models.CapManageAdmins), hm.adminHandler.SetAdminLevel)
			admin.PUT("/users/:id/active", hm.authMiddleware.RequirePermission(models.CapManageUsers), hm.adminHandler.SetActive)
			admin.PUT("/proctors/:id/students", hm.authMiddleware.RequirePermission(models.CapManageProctors), hm.adminHandler.AssignStudents)
			admin.GET("/users/export", hm.authMiddleware.RequirePermission(models.CapExportReports), hm.adminHandler.ExportUsers)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "identity-service",
		})
	})
}
