package clients

import (
	"testing"

	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRawFlight() RawFlight {
	return RawFlight{
		FlightDate:   "2026-11-02",
		FlightStatus: "scheduled",
		Departure: RawEndpoint{
			Airport:   "Suvarnabhumi International",
			IATA:      "BKK",
			Terminal:  "1",
			Gate:      "D4",
			Scheduled: "2026-11-02T08:00:00+00:00",
			Estimated: "2026-11-02T08:10:00+00:00",
			City:      "Bangkok",
			Country:   "Thailand",
		},
		Arrival: RawEndpoint{
			Airport:   "Chiang Mai International",
			IATA:      "CNX",
			Scheduled: "2026-11-02T09:15:00+00:00",
			City:      "Chiang Mai",
			Country:   "Thailand",
		},
		Airline:  RawAirline{Name: "Thai Airways International", IATA: "TG"},
		Flight:   RawFlightID{Number: "102", IATA: "TG102"},
		Aircraft: &RawAircraft{ICAO: "A320", Registration: "HS-TXA"},
	}
}

func TestMapFlightStatus(t *testing.T) {
	tests := map[string]flight_models.FlightStatus{
		"scheduled":   flight_models.StatusScheduled,
		"active":      flight_models.StatusEnRoute,
		"landed":      flight_models.StatusLanded,
		"cancelled":   flight_models.StatusCancelled,
		"incident":    flight_models.StatusDiverted,
		"diverted":    flight_models.StatusDiverted,
		"delayed":     flight_models.StatusDelayed,
		"xyz-unknown": flight_models.StatusUnknown,
		"":            flight_models.StatusUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapFlightStatus(in), "status %q", in)
	}
}

func TestTransform(t *testing.T) {
	flight, err := Transform(sampleRawFlight(), 3000)
	require.NoError(t, err)

	assert.Equal(t, "TG102", flight.FlightNumber)
	assert.Equal(t, "Thai Airways International", flight.Airline.Name)
	assert.Equal(t, "https://content.airhex.com/content/logos/airlines_TG_200_200_s.png", flight.Airline.Logo)
	assert.Equal(t, 75, flight.Duration)
	assert.Equal(t, flight_models.StatusScheduled, flight.Status)
	assert.Equal(t, flight_models.PriceTiers{Economy: 3000, Business: 7500, FirstClass: 12000}, flight.Price)
	assert.Equal(t, flight_models.DefaultSeats, flight.SeatsAvailable)
	assert.Equal(t, "A320", flight.Aircraft.Model)
	require.NotNil(t, flight.ProviderFlightID)
	assert.Equal(t, "2026-11-02_TG102", *flight.ProviderFlightID)
	require.NotNil(t, flight.Departure.EstimatedTime)
	assert.Nil(t, flight.Departure.ActualTime)
}

func TestTransformIsStableForSamePrice(t *testing.T) {
	first, err := Transform(sampleRawFlight(), 4321)
	require.NoError(t, err)
	second, err := Transform(sampleRawFlight(), 4321)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTransformSubstitutesPlaceholders(t *testing.T) {
	raw := sampleRawFlight()
	raw.Airline = RawAirline{}
	raw.Departure.Airport, raw.Departure.City, raw.Departure.Country, raw.Departure.IATA = "", "", "", ""
	raw.Arrival.Airport, raw.Arrival.City, raw.Arrival.Country = "", "", ""
	raw.Aircraft = nil

	flight, err := Transform(raw, 2000)
	require.NoError(t, err)

	assert.Equal(t, UnknownAirline, flight.Airline.Name)
	assert.Equal(t, UnknownCode, flight.Airline.IATACode)
	assert.Empty(t, flight.Airline.Logo)
	assert.Equal(t, UnknownAirport, flight.Departure.Airport)
	assert.Equal(t, UnknownCode, flight.Departure.IATACode)
	assert.Equal(t, UnknownCity, flight.Arrival.City)
	assert.Equal(t, UnknownCountry, flight.Arrival.Country)
	assert.Equal(t, flight_models.Aircraft{}, flight.Aircraft)
}

func TestTransformFallsBackToNumber(t *testing.T) {
	raw := sampleRawFlight()
	raw.Flight.IATA = ""

	flight, err := Transform(raw, 2000)
	require.NoError(t, err)
	assert.Equal(t, "102", flight.FlightNumber)
	assert.Equal(t, "2026-11-02_102", *flight.ProviderFlightID)
}

func TestTransformRejectsMalformedData(t *testing.T) {
	cases := map[string]func(*RawFlight){
		"no flight number":      func(r *RawFlight) { r.Flight = RawFlightID{} },
		"no departure time":     func(r *RawFlight) { r.Departure.Scheduled = "" },
		"garbled arrival time":  func(r *RawFlight) { r.Arrival.Scheduled = "tomorrow-ish" },
		"arrives before depart": func(r *RawFlight) { r.Arrival.Scheduled = "2026-11-02T07:00:00+00:00" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			raw := sampleRawFlight()
			mutate(&raw)
			_, err := Transform(raw, 2000)
			assert.ErrorIs(t, err, utils.ErrMalformedProviderData)
		})
	}
}

func TestRandomEconomyPriceRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		p := RandomEconomyPrice()
		assert.GreaterOrEqual(t, p, float64(MinEconomyPrice))
		assert.LessOrEqual(t, p, float64(MaxEconomyPrice))
	}
}

func TestSplitProviderFlightID(t *testing.T) {
	date, iata, ok := SplitProviderFlightID("2026-11-02_TG102")
	require.True(t, ok)
	assert.Equal(t, "2026-11-02", date)
	assert.Equal(t, "TG102", iata)

	for _, bad := range []string{"", "TG102", "_TG102", "2026-11-02_", "yesterday_TG102"} {
		_, _, ok := SplitProviderFlightID(bad)
		assert.False(t, ok, bad)
	}
}
