package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/controllers/admin_controller"
	"github.com/joy095/gowafly/middlewares/auth"
)

func RegisterAdminRoutes(api *gin.RouterGroup, d Dependencies, authMW gin.HandlerFunc) {
	adminController := admin_controller.NewAdminController(d.Users, d.Bookings, d.Flights)

	admin := api.Group("/admin")
	admin.Use(authMW, auth.AdminMiddleware())
	{
		admin.GET("/stats", adminController.GetStats)

		admin.GET("/users", adminController.GetUsers)
		admin.GET("/users/:id", adminController.GetUser)
		admin.PUT("/users/:id", adminController.UpdateUser)
		admin.DELETE("/users/:id", adminController.DeleteUser)

		admin.GET("/bookings", adminController.GetBookings)
		admin.PUT("/bookings/:id", adminController.OverrideBookingStatus)
		admin.PUT("/bookings/:id/complete", adminController.CompleteBooking)
		admin.DELETE("/bookings/:id", adminController.DeleteBooking)

		admin.GET("/flights", adminController.GetFlights)
		admin.POST("/flights", adminController.CreateFlight)
		admin.PUT("/flights/:id", adminController.UpdateFlight)
		admin.DELETE("/flights/:id", adminController.DeleteFlight)
	}
}
