package booking_service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joy095/gowafly/models/booking_models"
	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/utils"
)

// CreateInput is the checkout payload. Pointers distinguish absent from zero.
type CreateInput struct {
	FlightDetails       *booking_models.FlightSnapshot `json:"flightDetails" validate:"omitempty"`
	ReturnFlightDetails *booking_models.FlightSnapshot `json:"returnFlightDetails" validate:"omitempty"`
	Passengers          []booking_models.Passenger     `json:"passengers" validate:"dive"`
	ContactDetails      *booking_models.ContactDetails `json:"contactDetails" validate:"omitempty"`
	TripType            booking_models.TripType        `json:"tripType"`
	PaymentMethod       booking_models.PaymentMethod   `json:"paymentMethod"`
	TotalPrice          *float64                       `json:"totalPrice"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalize checks the input and fills derived fields (trip type, leg durations).
func (in *CreateInput) normalize() error {
	switch {
	case in.FlightDetails == nil:
		return utils.Missing("flightDetails")
	case len(in.Passengers) == 0:
		return utils.Missing("passengers")
	case in.ContactDetails == nil:
		return utils.Missing("contactDetails")
	case in.PaymentMethod == "":
		return utils.Missing("paymentMethod")
	case in.TotalPrice == nil:
		return utils.Missing("totalPrice")
	}

	if err := validate.Struct(in); err != nil {
		return fieldError(err)
	}

	if !in.PaymentMethod.IsValid() {
		return utils.Invalid("unknown payment method %q", in.PaymentMethod)
	}
	if *in.TotalPrice < 0 {
		return utils.Invalid("totalPrice must not be negative")
	}

	if in.TripType == "" {
		in.TripType = booking_models.TripOneWay
		if in.ReturnFlightDetails != nil {
			in.TripType = booking_models.TripRoundTrip
		}
	}
	switch in.TripType {
	case booking_models.TripOneWay:
		if in.ReturnFlightDetails != nil {
			return utils.Invalid("a one-way booking cannot carry returnFlightDetails")
		}
	case booking_models.TripRoundTrip:
		if in.ReturnFlightDetails == nil {
			return utils.Missing("returnFlightDetails")
		}
	default:
		return utils.Invalid("unknown trip type %q", in.TripType)
	}

	if err := fillDuration(in.FlightDetails); err != nil {
		return err
	}
	if in.ReturnFlightDetails != nil {
		if err := fillDuration(in.ReturnFlightDetails); err != nil {
			return err
		}
	}
	return validatePassengers(in.Passengers)
}

func (in *CreateInput) apply(b *booking_models.Booking) {
	b.FlightDetails = *in.FlightDetails
	b.ReturnFlightDetails = in.ReturnFlightDetails
	b.Passengers = in.Passengers
	b.ContactDetails = booking_models.ContactDetails{
		Email:       strings.ToLower(strings.TrimSpace(in.ContactDetails.Email)),
		PhoneNumber: strings.TrimSpace(in.ContactDetails.PhoneNumber),
	}
	b.TripType = in.TripType
	b.PaymentMethod = in.PaymentMethod
	b.TotalPrice = *in.TotalPrice
}

// fillDuration recomputes a leg's duration from its times.
func fillDuration(leg *booking_models.FlightSnapshot) error {
	minutes, err := flight_models.CalculateDuration(leg.DepartureTime, leg.ArrivalTime)
	if err != nil {
		return utils.Invalid("flight %s arrives before it departs", leg.FlightNumber)
	}
	leg.FlightDuration = minutes
	return nil
}

func validatePassengers(passengers []booking_models.Passenger) error {
	var adults, infants int
	for i, p := range passengers {
		if !p.Type.IsValid() {
			return utils.Invalid("passengers[%d]: unknown passenger type %q", i, p.Type)
		}
		if !p.Title.IsValid() {
			return utils.Invalid("passengers[%d]: unknown title %q", i, p.Title)
		}
		if !p.PassportExpiry.IsZero() && p.PassportExpiry.Before(p.DateOfBirth.Time) {
			return utils.Invalid("passengers[%d]: passport expires before date of birth", i)
		}
		switch p.Type {
		case booking_models.PassengerAdult:
			adults++
		case booking_models.PassengerInfant:
			infants++
		}
	}
	if adults < 1 || infants > adults {
		return utils.ErrInvalidPassengerComposition
	}
	return nil
}

// fieldError converts the first validator failure into the error taxonomy.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return utils.NewError(utils.KindInvalidInput, "invalid booking input", err)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if fe.Tag() == "required" {
		return utils.Missing(field)
	}
	return utils.Invalid("%s is not a valid %s", field, fe.Tag())
}
