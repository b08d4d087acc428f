package auth

import (
	"github.com/gin-gonic/gin"

	"contract-admin-api/internal/audit"
	"contract-admin-api/internal/middlewares"
)

func RegisterRoutes(r *gin.Engine, authService *AuthService, auditService *audit.AuditService) {
	authController := &AuthController{AuthService: authService, AuditService: auditService}

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/login", authController.Login)
		userGroup.POST("/logout", authController.Logout)
		userGroup.GET("/me", authController.Me)
		userGroup.POST("/refresh", authController.Refresh)
		userGroup.POST("/send-otp", authController.SendOTP)
		userGroup.POST("/reset-password", authController.ResetPassword)
	}

	protected := r.Group("/api/user")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/all", authController.GetUsers)
		protected.POST("/verify-password", authController.VerifyPassword)
	}

	adminOnly := r.Group("/api/user")
	adminOnly.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(RoleAdmin))
	{
		adminOnly.POST("/signup", authController.SignUp)
		adminOnly.PUT("/role", authController.SetRole)
	}
}
