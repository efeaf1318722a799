package booking_models

import "github.com/joy095/gowafly/utils"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "PendingPayment"
	StatusPaid           BookingStatus = "Paid"
	StatusCancelled      BookingStatus = "Cancelled"
	StatusCompleted      BookingStatus = "Completed"
)

// validTransitions defines the regular edges of the booking lifecycle.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:           {StatusCancelled, StatusCompleted},
	StatusCancelled:      {},
	StatusCompleted:      {},
}

// AllStatuses lists every booking status in lifecycle order.
var AllStatuses = []BookingStatus{StatusPendingPayment, StatusPaid, StatusCancelled, StatusCompleted}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a regular transition from this status to the target exists.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further regular transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", utils.Invalid("invalid booking status: %s", s)
	}
	return status, nil
}
