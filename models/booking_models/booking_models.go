package booking_models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TripType string

const (
	TripOneWay    TripType = "OneWay"
	TripRoundTrip TripType = "RoundTrip"
)

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "CreditCard"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
	PaymentPromptPay    PaymentMethod = "PromptPay"
)

type PassengerType string

const (
	PassengerAdult  PassengerType = "Adult"
	PassengerChild  PassengerType = "Child"
	PassengerInfant PassengerType = "Infant"
)

type Title string

const (
	TitleMr     Title = "Mr"
	TitleMrs    Title = "Mrs"
	TitleMs     Title = "Ms"
	TitleMaster Title = "Master"
	TitleMiss   Title = "Miss"
)

func (t TripType) IsValid() bool { return t == TripOneWay || t == TripRoundTrip }

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCreditCard, PaymentBankTransfer, PaymentPromptPay:
		return true
	}
	return false
}

func (p PassengerType) IsValid() bool {
	switch p {
	case PassengerAdult, PassengerChild, PassengerInfant:
		return true
	}
	return false
}

func (t Title) IsValid() bool {
	switch t {
	case TitleMr, TitleMrs, TitleMs, TitleMaster, TitleMiss:
		return true
	}
	return false
}

type Passenger struct {
	Type           PassengerType `json:"type" validate:"required"`
	Title          Title         `json:"title" validate:"required"`
	FirstName      string        `json:"firstName" validate:"required"`
	LastName       string        `json:"lastName" validate:"required"`
	DateOfBirth    Date          `json:"dateOfBirth" validate:"required"`
	Nationality    string        `json:"nationality" validate:"required"`
	PassportNumber string        `json:"passportNumber,omitempty"`
	PassportExpiry Date          `json:"passportExpiry,omitzero"`
}

// FlightSnapshot is the copy of a leg's flight taken at booking time. Later changes to the
// flight record never alter it.
type FlightSnapshot struct {
	FlightNumber     string    `json:"flightNumber" validate:"required"`
	Airline          string    `json:"airline" validate:"required"`
	DepartureAirport string    `json:"departureAirport" validate:"required"`
	ArrivalAirport   string    `json:"arrivalAirport" validate:"required"`
	DepartureTime    time.Time `json:"departureTime" validate:"required"`
	ArrivalTime      time.Time `json:"arrivalTime" validate:"required"`
	FlightDuration   int       `json:"flightDuration"`
	ProviderFlightID string    `json:"providerFlightId,omitempty"`
}

type ContactDetails struct {
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// StatusOverride records the last admin override applied to a booking.
type StatusOverride struct {
	By             uuid.UUID     `json:"by"`
	PreviousStatus BookingStatus `json:"previousStatus"`
	Reason         string        `json:"reason,omitempty"`
	At             time.Time     `json:"at"`
}

type Booking struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user"`
	FlightDetails       FlightSnapshot  `json:"flightDetails"`
	ReturnFlightDetails *FlightSnapshot `json:"returnFlightDetails,omitempty"`
	Passengers          []Passenger     `json:"passengers"`
	ContactDetails      ContactDetails  `json:"contactDetails"`
	TripType            TripType        `json:"tripType"`
	Status              BookingStatus   `json:"status"`
	TotalPrice          float64         `json:"totalPrice"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod"`
	BookingReference    string          `json:"bookingReference"`
	Version             int             `json:"version"`
	LastOverride        *StatusOverride `json:"lastOverride,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// NewBooking creates a booking in the initial PendingPayment status.
func NewBooking(userID uuid.UUID, reference string) (*Booking, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	now := time.Now()
	return &Booking{
		ID:               id,
		UserID:           userID,
		Status:           StatusPendingPayment,
		BookingReference: reference,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
