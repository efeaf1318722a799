package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/controllers/flight_controller"
	middleware "github.com/joy095/gowafly/middlewares"
)

// RegisterFlightRoutes mounts the public flight endpoints. Provider backed routes are rate limited
// harder since every call spends provider quota.
func RegisterFlightRoutes(api *gin.RouterGroup, d Dependencies) {
	flightController := flight_controller.NewFlightController(d.Flights)

	flights := api.Group("/flights")
	flights.GET("/search", middleware.CombinedRateLimiter(d.Redis, "flight-search", "20-1m", "200-60m"), flightController.SearchFlights)
	flights.GET("/popular", flightController.GetPopularRoutes)
	flights.GET("/status/:flightNumber", middleware.NewRateLimiter(d.Redis, "20-1m", "flight-status"), flightController.GetFlightStatus)
	flights.POST("/quote", middleware.NewRateLimiter(d.Redis, "30-1m", "flight-quote"), flightController.QuotePrice)
	flights.GET("/:id", middleware.NewRateLimiter(d.Redis, "30-1m", "flight-details"), flightController.GetFlightDetails)
}
