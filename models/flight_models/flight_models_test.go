package flight_models

import (
	"testing"
	"time"

	"github.com/joy095/gowafly/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDuration(t *testing.T) {
	dep := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	minutes, err := CalculateDuration(dep, dep.Add(95*time.Minute+29*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 95, minutes)

	minutes, err = CalculateDuration(dep, dep.Add(95*time.Minute+30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 96, minutes)

	minutes, err = CalculateDuration(dep, dep)
	require.NoError(t, err)
	assert.Equal(t, 0, minutes)

	_, err = CalculateDuration(dep, dep.Add(-time.Minute))
	assert.Error(t, err)
}

func TestSynthesizedPrices(t *testing.T) {
	assert.Equal(t, PriceTiers{Economy: 1000, Business: 2500, FirstClass: 4000}, SynthesizedPrices(1000))
	assert.Equal(t, PriceTiers{Economy: 2001, Business: 5003, FirstClass: 8004}, SynthesizedPrices(2001))
}

func TestValidateRecomputesDuration(t *testing.T) {
	dep := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := &Flight{
		FlightNumber: "FD3101",
		Departure:    Endpoint{ScheduledTime: dep},
		Arrival:      Endpoint{ScheduledTime: dep.Add(2 * time.Hour)},
		Duration:     999,
	}
	require.NoError(t, f.Validate())
	assert.Equal(t, 120, f.Duration)
	assert.Equal(t, StatusUnknown, f.Status)

	f.Arrival.ScheduledTime = dep.Add(-time.Hour)
	assert.ErrorIs(t, f.Validate(), utils.ErrInvalidInput)

	assert.ErrorIs(t, (&Flight{}).Validate(), utils.ErrMissingRequiredField)
}

func TestParseFlightStatus(t *testing.T) {
	status, err := ParseFlightStatus("Diverted")
	require.NoError(t, err)
	assert.Equal(t, StatusDiverted, status)

	_, err = ParseFlightStatus("Teleported")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
