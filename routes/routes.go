package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/controllers/user_controllers"
	"github.com/joy095/gowafly/metrics"
	"github.com/joy095/gowafly/middlewares/auth"
	"github.com/joy095/gowafly/middlewares/cors"
	requestlogger "github.com/joy095/gowafly/middlewares/logger"
	"github.com/joy095/gowafly/services/booking_service"
	"github.com/joy095/gowafly/services/flight_service"
	"github.com/joy095/gowafly/utils/validation"
	"github.com/redis/go-redis/v9"
)

// Dependencies is everything the HTTP layer needs. Redis and Metrics may be nil.
type Dependencies struct {
	Redis          *redis.Client
	Users          user_controllers.UserStore
	Flights        *flight_service.Service
	Bookings       *booking_service.Service
	Metrics        *metrics.Metrics
	TokenTTL       time.Duration
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and every route group mounted under /api.
func NewRouter(d Dependencies) *gin.Engine {
	validation.Setup()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestlogger.GinLogger())
	r.Use(cors.CorsMiddleware(d.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok from gowafly"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	authMW := auth.AuthMiddleware(d.Users)

	RegisterUserRoutes(api, d, authMW)
	RegisterFlightRoutes(api, d)
	RegisterBookingRoutes(api, d, authMW)
	RegisterAdminRoutes(api, d, authMW)
	return r
}
