package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/controllers/user_controllers"
	middleware "github.com/joy095/gowafly/middlewares"
)

func RegisterUserRoutes(api *gin.RouterGroup, d Dependencies, authMW gin.HandlerFunc) {
	userController := user_controllers.NewUserController(d.Users, d.TokenTTL)

	// Public routes
	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", middleware.CombinedRateLimiter(d.Redis, "register", "10-2m", "30-60m"), userController.Register)
	authRoutes.POST("/login", middleware.CombinedRateLimiter(d.Redis, "login", "10-2m", "30-30m"), userController.Login)

	// Protected routes
	protected := api.Group("/users")
	protected.Use(authMW)
	{
		protected.GET("/profile", middleware.NewRateLimiter(d.Redis, "15-30s", "profile"), userController.GetMyProfile)
		protected.PUT("/profile", middleware.CombinedRateLimiter(d.Redis, "update-profile", "5-1m", "10-5m"), userController.UpdateProfile)
		protected.PUT("/password", middleware.CombinedRateLimiter(d.Redis, "change-password", "5-1m", "20-10m"), userController.ChangePassword)
	}
}
