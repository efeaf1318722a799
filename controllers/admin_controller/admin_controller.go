package admin_controller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/controllers/booking_controller"
	"github.com/joy095/gowafly/controllers/user_controllers"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/booking_models"
	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/models/user_models"
	"github.com/joy095/gowafly/services/booking_service"
	"github.com/joy095/gowafly/services/flight_service"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/validation"
)

// TrendMonths is how far back the dashboard booking trend reaches.
const TrendMonths = 6

// AdminController serves the /api/admin endpoints. Every route sits behind AdminMiddleware,
// and the services check the admin role again.
type AdminController struct {
	users    user_controllers.UserStore
	bookings *booking_service.Service
	flights  *flight_service.Service
	now      func() time.Time
}

func NewAdminController(users user_controllers.UserStore, bookings *booking_service.Service, flights *flight_service.Service) *AdminController {
	return &AdminController{users: users, bookings: bookings, flights: flights, now: time.Now}
}

func (ac *AdminController) actor(c *gin.Context) (utils.Actor, bool) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return utils.Actor{}, false
	}
	if !actor.IsAdmin() {
		utils.RespondError(c, utils.ErrForbidden)
		return utils.Actor{}, false
	}
	return actor, true
}

// trendStart is the first day of the month TrendMonths-1 months ago, so the trend covers
// the current month plus the five before it.
func trendStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()-TrendMonths+1, 1, 0, 0, 0, 0, time.UTC)
}

// GetStats returns the dashboard figures.
func (ac *AdminController) GetStats(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	totalUsers, err := ac.users.Count(ctx)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	stats, err := ac.bookings.Stats(ctx, actor, trendStart(ac.now()))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totalUsers":          totalUsers,
			"totalBookings":       stats.TotalBookings,
			"totalRevenue":        stats.TotalRevenue,
			"bookingStatusCounts": stats.StatusCounts,
			"recentBookings":      stats.Recent,
			"bookingTrends":       stats.Trends,
		},
	})
}

// ---- users ----

func (ac *AdminController) GetUsers(c *gin.Context) {
	if _, ok := ac.actor(c); !ok {
		return
	}
	users, err := ac.users.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

func (ac *AdminController) GetUser(c *gin.Context) {
	if _, ok := ac.actor(c); !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	user, err := ac.users.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

type updateUserRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
	Role        *string `json:"role" binding:"omitempty,oneof=user admin"`
}

func (r updateUserRequest) updates() map[string]any {
	updates := make(map[string]any)
	put := func(column string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	put("first_name", r.FirstName)
	put("last_name", r.LastName)
	put("phone_number", r.PhoneNumber)
	put("role", r.Role)
	if r.Email != nil && strings.TrimSpace(*r.Email) != "" {
		updates["email"] = user_models.NormalizeEmail(*r.Email)
	}
	return updates
}

// UpdateUser edits profile fields and the role of any user.
func (ac *AdminController) UpdateUser(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	user, err := ac.users.UpdateFields(c.Request.Context(), id, req.updates())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	logger.InfoLogger.Infof("Admin %s updated user %s", actor.ID, id)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// DeleteUser removes a user account. Admin accounts cannot be deleted.
func (ac *AdminController) DeleteUser(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := ac.users.GetByID(ctx, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if user.Role == utils.RoleAdmin {
		utils.RespondError(c, utils.Invalid("admin accounts cannot be deleted"))
		return
	}
	if err := ac.users.Delete(ctx, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	logger.InfoLogger.Infof("Admin %s deleted user %s", actor.ID, id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

// ---- bookings ----

// GetBookings lists all bookings, newest first. ?limit caps the result.
func (ac *AdminController) GetBookings(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondError(c, utils.Invalid("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	bookings, err := ac.bookings.ListAll(c.Request.Context(), actor, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bookings), "data": bookings})
}

type overrideRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// OverrideBookingStatus sets a booking's status directly, bypassing the lifecycle.
func (ac *AdminController) OverrideBookingStatus(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	booking, err := ac.bookings.Override(c.Request.Context(), actor, id, booking_models.BookingStatus(req.Status), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

// CompleteBooking marks a Paid booking as Completed.
func (ac *AdminController) CompleteBooking(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	booking, err := ac.bookings.Complete(c.Request.Context(), actor, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

func (ac *AdminController) DeleteBooking(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := ac.bookings.Delete(c.Request.Context(), actor, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking deleted successfully"})
}

// ---- flights ----

func (ac *AdminController) GetFlights(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	flights, err := ac.flights.List(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(flights), "data": flights})
}

// CreateFlight stores a manually entered flight.
func (ac *AdminController) CreateFlight(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	var f flight_models.Flight
	if err := c.ShouldBindJSON(&f); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	created, err := ac.flights.Create(c.Request.Context(), actor, &f)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

type updateFlightRequest struct {
	Status         string                       `json:"status"`
	SeatsAvailable *flight_models.SeatInventory `json:"seatsAvailable"`
}

// UpdateFlight changes status and seat inventory, the only mutable parts of a flight.
func (ac *AdminController) UpdateFlight(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	updated, err := ac.flights.UpdateStatus(c.Request.Context(), actor, id, flight_models.FlightStatus(req.Status), req.SeatsAvailable)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func (ac *AdminController) DeleteFlight(c *gin.Context) {
	actor, ok := ac.actor(c)
	if !ok {
		return
	}
	id, err := booking_controller.ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := ac.flights.Delete(c.Request.Context(), actor, id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Flight deleted successfully"})
}
