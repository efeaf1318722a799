package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/controllers/booking_controller"
	middleware "github.com/joy095/gowafly/middlewares"
)

// RegisterBookingRoutes registers all booking-related routes
func RegisterBookingRoutes(api *gin.RouterGroup, d Dependencies, authMW gin.HandlerFunc) {
	bookingController := booking_controller.NewBookingController(d.Bookings)

	bookings := api.Group("/bookings")
	bookings.GET("/reference/:ref", middleware.NewRateLimiter(d.Redis, "20-1m", "booking-reference"), bookingController.GetBookingByReference)

	protected := bookings.Group("")
	protected.Use(authMW)
	{
		protected.POST("", middleware.CombinedRateLimiter(d.Redis, "create-booking", "5-1m", "50-60m"), bookingController.CreateBooking)
		protected.GET("", bookingController.GetMyBookings)
		protected.GET("/:id", bookingController.GetBooking)
		protected.PUT("/:id/payment", middleware.NewRateLimiter(d.Redis, "10-1m", "pay-booking"), bookingController.PayBooking)
		protected.PUT("/:id/cancel", middleware.NewRateLimiter(d.Redis, "10-1m", "cancel-booking"), bookingController.CancelBooking)
	}
}
