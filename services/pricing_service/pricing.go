// Package pricing_service computes booking totals from resolved flight records.
// It never talks to the provider, so identical inputs always give identical totals.
package pricing_service

import (
	"math"

	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/utils"
)

type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

// Fare multipliers per passenger type, applied to the cabin base fare.
const (
	AdultFactor  = 1.0
	ChildFactor  = 0.75
	InfantFactor = 0.10

	// FirstFromBusiness derives a first class fare when a flight has none.
	FirstFromBusiness = 1.6
)

func (c CabinClass) IsValid() bool {
	return c == CabinEconomy || c == CabinBusiness || c == CabinFirst
}

// ParseCabinClass defaults an empty value to economy.
func ParseCabinClass(s string) (CabinClass, error) {
	if s == "" {
		return CabinEconomy, nil
	}
	c := CabinClass(s)
	if !c.IsValid() {
		return "", utils.Invalid("unknown cabin class %q", s)
	}
	return c, nil
}

type PassengerCounts struct {
	Adults   int `json:"adults" form:"adults"`
	Children int `json:"children" form:"children"`
	Infants  int `json:"infants" form:"infants"`
}

// Validate enforces at least one adult and no more infants than adults.
func (p PassengerCounts) Validate() error {
	if p.Adults < 1 || p.Children < 0 || p.Infants < 0 || p.Infants > p.Adults {
		return utils.ErrInvalidPassengerComposition
	}
	return nil
}

// LegQuote is the price breakdown of one leg.
type LegQuote struct {
	FlightNumber string  `json:"flightNumber"`
	BaseFare     float64 `json:"baseFare"`
	AdultPrice   float64 `json:"adultPrice"`
	ChildPrice   float64 `json:"childPrice"`
	InfantPrice  float64 `json:"infantPrice"`
	Subtotal     float64 `json:"subtotal"`
}

type Quote struct {
	CabinClass CabinClass      `json:"cabinClass"`
	Passengers PassengerCounts `json:"passengers"`
	Legs       []LegQuote      `json:"legs"`
	Total      float64         `json:"total"`
}

// BaseFare returns the per-passenger fare of the cabin on a flight.
func BaseFare(f *flight_models.Flight, cabin CabinClass) float64 {
	switch cabin {
	case CabinBusiness:
		return f.Price.Business
	case CabinFirst:
		if f.Price.FirstClass > 0 {
			return f.Price.FirstClass
		}
		return f.Price.Business * FirstFromBusiness
	default:
		return f.Price.Economy
	}
}

// Calculate prices the outbound leg and, when ret is non-nil, the return leg.
func Calculate(outbound, ret *flight_models.Flight, cabin CabinClass, passengers PassengerCounts) (*Quote, error) {
	if outbound == nil {
		return nil, utils.Missing("outbound flight")
	}
	if !cabin.IsValid() {
		return nil, utils.Invalid("unknown cabin class %q", cabin)
	}
	if err := passengers.Validate(); err != nil {
		return nil, err
	}

	quote := &Quote{CabinClass: cabin, Passengers: passengers}
	for _, f := range []*flight_models.Flight{outbound, ret} {
		if f == nil {
			continue
		}
		leg := priceLeg(f, cabin, passengers)
		quote.Legs = append(quote.Legs, leg)
		quote.Total += leg.Subtotal
	}
	quote.Total = roundCents(quote.Total)
	return quote, nil
}

func priceLeg(f *flight_models.Flight, cabin CabinClass, p PassengerCounts) LegQuote {
	base := BaseFare(f, cabin)
	leg := LegQuote{
		FlightNumber: f.FlightNumber,
		BaseFare:     roundCents(base),
		AdultPrice:   roundCents(base * AdultFactor),
		ChildPrice:   roundCents(base * ChildFactor),
		InfantPrice:  roundCents(base * InfantFactor),
	}
	leg.Subtotal = roundCents(float64(p.Adults)*leg.AdultPrice +
		float64(p.Children)*leg.ChildPrice +
		float64(p.Infants)*leg.InfantPrice)
	return leg
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
