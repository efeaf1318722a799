package booking_controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/booking_models"
	"github.com/joy095/gowafly/services/booking_service"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/validation"
)

// BookingController exposes the booking lifecycle to authenticated users.
type BookingController struct {
	bookings *booking_service.Service
}

func NewBookingController(bookings *booking_service.Service) *BookingController {
	return &BookingController{bookings: bookings}
}

// ParseID reads a UUID path parameter.
func ParseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, utils.Invalid("%s must be a valid UUID", name)
	}
	return id, nil
}

// CreateBooking records a new booking in PendingPayment for the caller.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	logger.InfoLogger.Info("CreateBooking controller called")

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var in booking_service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	booking, err := bc.bookings.Create(c.Request.Context(), actor, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
}

// GetMyBookings lists the caller's bookings, newest first.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	bookings, err := bc.bookings.ListMine(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bookings), "data": bookings})
}

// GetBooking returns one booking to its owner or an admin.
func (bc *BookingController) GetBooking(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	id, err := ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	booking, err := bc.bookings.Get(c.Request.Context(), actor, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

// GetBookingByReference is the public lookup by six character reference.
func (bc *BookingController) GetBookingByReference(c *gin.Context) {
	booking, err := bc.bookings.GetByReference(c.Request.Context(), c.Param("ref"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
}

// PayBooking moves a PendingPayment booking to Paid.
func (bc *BookingController) PayBooking(c *gin.Context) {
	bc.lifecycle(c, bc.bookings.Pay, "Payment recorded")
}

// CancelBooking cancels a PendingPayment or Paid booking.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	bc.lifecycle(c, bc.bookings.Cancel, "Booking cancelled successfully")
}

type lifecycleFunc func(ctx context.Context, actor utils.Actor, id uuid.UUID) (*booking_models.Booking, error)

func (bc *BookingController) lifecycle(c *gin.Context, apply lifecycleFunc, message string) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	id, err := ParseID(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	booking, err := apply(c.Request.Context(), actor, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": booking})
}
