package flight_models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/gowafly/utils"
)

// FlightStatus is the operational status of a flight.
type FlightStatus string

const (
	StatusScheduled FlightStatus = "Scheduled"
	StatusCancelled FlightStatus = "Cancelled"
	StatusDelayed   FlightStatus = "Delayed"
	StatusBoarding  FlightStatus = "Boarding"
	StatusDeparted  FlightStatus = "Departed"
	StatusEnRoute   FlightStatus = "EnRoute"
	StatusLanded    FlightStatus = "Landed"
	StatusDiverted  FlightStatus = "Diverted"
	StatusUnknown   FlightStatus = "Unknown"
)

var flightStatuses = map[FlightStatus]struct{}{
	StatusScheduled: {}, StatusCancelled: {}, StatusDelayed: {}, StatusBoarding: {}, StatusDeparted: {},
	StatusEnRoute: {}, StatusLanded: {}, StatusDiverted: {}, StatusUnknown: {},
}

func (s FlightStatus) IsValid() bool {
	_, ok := flightStatuses[s]
	return ok
}

// ParseFlightStatus converts a string to a FlightStatus, returning an error if invalid.
func ParseFlightStatus(s string) (FlightStatus, error) {
	status := FlightStatus(s)
	if !status.IsValid() {
		return "", utils.Invalid("invalid flight status: %s", s)
	}
	return status, nil
}

type Airline struct {
	Name     string `json:"name"`
	IATACode string `json:"iataCode"`
	Logo     string `json:"logo,omitempty"`
}

// Endpoint is the departure or arrival side of a flight.
type Endpoint struct {
	Airport       string     `json:"airport"`
	IATACode      string     `json:"iataCode"`
	Terminal      string     `json:"terminal"`
	Gate          string     `json:"gate"`
	ScheduledTime time.Time  `json:"scheduledTime"`
	EstimatedTime *time.Time `json:"estimatedTime,omitempty"`
	ActualTime    *time.Time `json:"actualTime,omitempty"`
	City          string     `json:"city"`
	Country       string     `json:"country"`
}

type Aircraft struct {
	Model        string `json:"model"`
	Registration string `json:"registration"`
}

// PriceTiers holds the per-passenger fare of each cabin. Economy is the base.
type PriceTiers struct {
	Economy    float64 `json:"economy"`
	Business   float64 `json:"business"`
	FirstClass float64 `json:"firstClass"`
}

type SeatInventory struct {
	Economy    int `json:"economy"`
	Business   int `json:"business"`
	FirstClass int `json:"firstClass"`
}

// DefaultSeats is the inventory given to flights that do not specify one.
var DefaultSeats = SeatInventory{Economy: 100, Business: 20, FirstClass: 10}

const (
	BusinessMultiplier = 2.5
	FirstMultiplier    = 4.0
)

// Flight is one scheduled flight, either transformed from provider data or entered by an admin.
type Flight struct {
	ID               uuid.UUID     `json:"id"`
	FlightNumber     string        `json:"flightNumber"`
	Airline          Airline       `json:"airline"`
	Departure        Endpoint      `json:"departure"`
	Arrival          Endpoint      `json:"arrival"`
	Status           FlightStatus  `json:"status"`
	Aircraft         Aircraft      `json:"aircraft"`
	Duration         int           `json:"duration"`
	Price            PriceTiers    `json:"price"`
	SeatsAvailable   SeatInventory `json:"seatsAvailable"`
	ProviderFlightID *string       `json:"providerFlightId,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// CalculateDuration returns whole minutes between departure and arrival, rounded half away from zero.
func CalculateDuration(departure, arrival time.Time) (int, error) {
	diff := arrival.Sub(departure)
	if diff < 0 {
		return 0, fmt.Errorf("arrival %s is before departure %s", arrival.Format(time.RFC3339), departure.Format(time.RFC3339))
	}
	return int(math.Round(float64(diff.Milliseconds()) / 60000)), nil
}

// SynthesizedPrices derives the business and first class fares from an economy fare.
func SynthesizedPrices(economy float64) PriceTiers {
	economy = math.Round(economy)
	return PriceTiers{
		Economy:    economy,
		Business:   math.Round(economy * BusinessMultiplier),
		FirstClass: math.Round(economy * FirstMultiplier),
	}
}

// Validate checks the invariants of a flight record and recomputes its duration.
func (f *Flight) Validate() error {
	if f.FlightNumber == "" {
		return utils.Missing("flightNumber")
	}
	if f.Departure.ScheduledTime.IsZero() || f.Arrival.ScheduledTime.IsZero() {
		return utils.Missing("departure and arrival scheduledTime")
	}
	duration, err := CalculateDuration(f.Departure.ScheduledTime, f.Arrival.ScheduledTime)
	if err != nil {
		return utils.NewError(utils.KindInvalidInput, "arrival must not be before departure", err)
	}
	f.Duration = duration
	if f.Status == "" {
		f.Status = StatusUnknown
	}
	if !f.Status.IsValid() {
		return utils.Invalid("invalid flight status: %s", f.Status)
	}
	if f.Price.Economy < 0 || f.Price.Business < 0 || f.Price.FirstClass < 0 {
		return utils.Invalid("prices must not be negative")
	}
	if f.SeatsAvailable.Economy < 0 || f.SeatsAvailable.Business < 0 || f.SeatsAvailable.FirstClass < 0 {
		return utils.Invalid("seat counts must not be negative")
	}
	return nil
}
