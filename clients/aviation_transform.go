package clients

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/utils"
)

// Placeholders substituted for descriptive fields the provider leaves empty.
const (
	UnknownAirline = "Unknown airline"
	UnknownAirport = "Unknown airport"
	UnknownCity    = "Unknown city"
	UnknownCountry = "Unknown country"
	UnknownCode    = "N/A"
)

// Economy fares assigned to provider flights fall in [MinEconomyPrice, MaxEconomyPrice].
const (
	MinEconomyPrice = 2000
	MaxEconomyPrice = 9999
)

const airlineLogoURL = "https://content.airhex.com/content/logos/airlines_%s_200_200_s.png"

// RawFlight is one entry of the provider's flights payload.
type RawFlight struct {
	FlightDate   string       `json:"flight_date"`
	FlightStatus string       `json:"flight_status"`
	Departure    RawEndpoint  `json:"departure"`
	Arrival      RawEndpoint  `json:"arrival"`
	Airline      RawAirline   `json:"airline"`
	Flight       RawFlightID  `json:"flight"`
	Aircraft     *RawAircraft `json:"aircraft"`
}

type RawEndpoint struct {
	Airport   string `json:"airport"`
	Timezone  string `json:"timezone"`
	IATA      string `json:"iata"`
	ICAO      string `json:"icao"`
	Terminal  string `json:"terminal"`
	Gate      string `json:"gate"`
	Delay     *int   `json:"delay"`
	Scheduled string `json:"scheduled"`
	Estimated string `json:"estimated"`
	Actual    string `json:"actual"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

type RawAirline struct {
	Name string `json:"name"`
	IATA string `json:"iata"`
	ICAO string `json:"icao"`
}

type RawFlightID struct {
	Number string `json:"number"`
	IATA   string `json:"iata"`
	ICAO   string `json:"icao"`
}

type RawAircraft struct {
	Registration string `json:"registration"`
	IATA         string `json:"iata"`
	ICAO         string `json:"icao"`
}

var providerStatuses = map[string]flight_models.FlightStatus{
	"scheduled": flight_models.StatusScheduled,
	"active":    flight_models.StatusEnRoute,
	"landed":    flight_models.StatusLanded,
	"cancelled": flight_models.StatusCancelled,
	"incident":  flight_models.StatusDiverted,
	"diverted":  flight_models.StatusDiverted,
	"delayed":   flight_models.StatusDelayed,
}

// MapFlightStatus translates a provider status. Unrecognised values map to Unknown.
func MapFlightStatus(providerStatus string) flight_models.FlightStatus {
	if status, ok := providerStatuses[strings.ToLower(strings.TrimSpace(providerStatus))]; ok {
		return status
	}
	return flight_models.StatusUnknown
}

// RandomEconomyPrice draws an economy fare for a provider flight.
func RandomEconomyPrice() float64 {
	return float64(MinEconomyPrice + rand.IntN(MaxEconomyPrice-MinEconomyPrice+1))
}

func flightNumber(raw RawFlight) string {
	if n := strings.TrimSpace(raw.Flight.IATA); n != "" {
		return n
	}
	return strings.TrimSpace(raw.Flight.Number)
}

// ProviderFlightID is the stable key of a provider flight: "<flight_date>_<flight number>".
func ProviderFlightID(raw RawFlight) string {
	return raw.FlightDate + "_" + flightNumber(raw)
}

// SplitProviderFlightID is the inverse of ProviderFlightID.
func SplitProviderFlightID(id string) (date, iata string, ok bool) {
	date, iata, found := strings.Cut(id, "_")
	if !found || date == "" || iata == "" {
		return "", "", false
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", "", false
	}
	return date, iata, true
}

// Transform converts a provider flight into a Flight record priced from the given economy fare.
// Only the flight number and the scheduled times are mandatory.
func Transform(raw RawFlight, economy float64) (*flight_models.Flight, error) {
	number := flightNumber(raw)
	if number == "" {
		return nil, utils.NewError(utils.KindMalformedProviderData, "provider flight has no flight number", nil)
	}

	departure, err := transformEndpoint(raw.Departure)
	if err != nil {
		return nil, utils.NewError(utils.KindMalformedProviderData, "invalid departure time for flight "+number, err)
	}
	arrival, err := transformEndpoint(raw.Arrival)
	if err != nil {
		return nil, utils.NewError(utils.KindMalformedProviderData, "invalid arrival time for flight "+number, err)
	}

	duration, err := flight_models.CalculateDuration(departure.ScheduledTime, arrival.ScheduledTime)
	if err != nil {
		return nil, utils.NewError(utils.KindMalformedProviderData, "flight "+number+" arrives before it departs", err)
	}

	airlineIATA := orDefault(raw.Airline.IATA, UnknownCode)
	logo := ""
	if raw.Airline.IATA != "" {
		logo = strings.Replace(airlineLogoURL, "%s", raw.Airline.IATA, 1)
	}

	providerID := ProviderFlightID(raw)
	flight := &flight_models.Flight{
		FlightNumber: number,
		Airline: flight_models.Airline{
			Name:     orDefault(raw.Airline.Name, UnknownAirline),
			IATACode: airlineIATA,
			Logo:     logo,
		},
		Departure:        departure,
		Arrival:          arrival,
		Status:           MapFlightStatus(raw.FlightStatus),
		Duration:         duration,
		Price:            flight_models.SynthesizedPrices(math.Round(economy)),
		SeatsAvailable:   flight_models.DefaultSeats,
		ProviderFlightID: &providerID,
	}
	if raw.Aircraft != nil {
		flight.Aircraft = flight_models.Aircraft{
			Model:        strings.TrimSpace(raw.Aircraft.ICAO),
			Registration: strings.TrimSpace(raw.Aircraft.Registration),
		}
	}
	return flight, nil
}

func transformEndpoint(raw RawEndpoint) (flight_models.Endpoint, error) {
	scheduled, err := parseProviderTime(raw.Scheduled)
	if err != nil {
		return flight_models.Endpoint{}, err
	}
	return flight_models.Endpoint{
		Airport:       orDefault(raw.Airport, UnknownAirport),
		IATACode:      orDefault(raw.IATA, UnknownCode),
		Terminal:      strings.TrimSpace(raw.Terminal),
		Gate:          strings.TrimSpace(raw.Gate),
		ScheduledTime: scheduled,
		EstimatedTime: optionalTime(raw.Estimated),
		ActualTime:    optionalTime(raw.Actual),
		City:          orDefault(raw.City, UnknownCity),
		Country:       orDefault(raw.Country, UnknownCountry),
	}, nil
}

// parseProviderTime accepts RFC 3339 timestamps as sent by the provider.
func parseProviderTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, utils.Missing("scheduled time")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func optionalTime(s string) *time.Time {
	t, err := parseProviderTime(s)
	if err != nil {
		return nil
	}
	return &t
}

func orDefault(s, placeholder string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return placeholder
}
