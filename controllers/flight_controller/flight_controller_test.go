package flight_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/gowafly/clients"
	"github.com/joy095/gowafly/config"
	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/services/flight_service"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flightStore struct {
	mu      sync.Mutex
	flights []flight_models.Flight
}

func (s *flightStore) Create(_ context.Context, f *flight_models.Flight) (*flight_models.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = uuid.New()
	s.flights = append(s.flights, *f)
	return f, nil
}

func (s *flightStore) GetByID(_ context.Context, id uuid.UUID) (*flight_models.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.flights {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, utils.NewError(utils.KindNotFound, "flight not found", nil)
}

func (s *flightStore) GetByProviderID(_ context.Context, providerFlightID string) (*flight_models.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.flights {
		if f.ProviderFlightID != nil && *f.ProviderFlightID == providerFlightID {
			return &f, nil
		}
	}
	return nil, utils.NewError(utils.KindNotFound, "flight not found", nil)
}

func (s *flightStore) List(context.Context) ([]flight_models.Flight, error) { return s.flights, nil }

func (s *flightStore) UpdateStatusAndSeats(context.Context, uuid.UUID, flight_models.FlightStatus, flight_models.SeatInventory) (*flight_models.Flight, error) {
	return nil, utils.ErrNotFound
}

func (s *flightStore) Delete(context.Context, uuid.UUID) error { return nil }

const providerPayload = `{"data":[{
	"flight_date":"2026-11-02","flight_status":"scheduled",
	"departure":{"airport":"Suvarnabhumi","iata":"BKK","scheduled":"2026-11-02T08:00:00+00:00"},
	"arrival":{"airport":"Chiang Mai","iata":"CNX","scheduled":"2026-11-02T09:15:00+00:00"},
	"airline":{"name":"Thai Airways","iata":"TG"},
	"flight":{"number":"102","iata":"TG102"}
}]}`

func setupRouter(t *testing.T, status int, payload string) (*gin.Engine, *flightStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Setup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	provider := clients.NewAviationClient(config.ProviderConfig{BaseURL: srv.URL, APIKey: "test"}, nil)
	store := &flightStore{}
	svc := flight_service.NewService(provider, store, flight_service.NewMemoryPriceCache(time.Hour), nil)
	fc := NewFlightController(svc)

	r := gin.New()
	r.GET("/flights/search", fc.SearchFlights)
	r.GET("/flights/popular", fc.GetPopularRoutes)
	r.GET("/flights/status/:flightNumber", fc.GetFlightStatus)
	r.GET("/flights/:id", fc.GetFlightDetails)
	r.POST("/flights/quote", fc.QuotePrice)
	return r, store
}

func get(r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestSearchFlights(t *testing.T) {
	r, _ := setupRouter(t, http.StatusOK, providerPayload)

	w, body := get(r, "/flights/search?from=bkk&to=CNX&date=2026-11-02&cabinClass=business&adults=2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), body["count"])
	flight := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "TG102", flight["flightNumber"])
	assert.Equal(t, "2026-11-02_TG102", flight["providerFlightId"])
	assert.Equal(t, float64(75), flight["duration"])
	params := body["searchParams"].(map[string]any)
	assert.Equal(t, "business", params["cabinClass"])

	w, body = get(r, "/flights/search?from=BKK&date=2026-11-02")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(utils.KindMissingRequiredField), body["code"])

	w, _ = get(r, "/flights/search?from=BK1&to=CNX&date=2026-11-02")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = get(r, "/flights/search?from=BKK&to=CNX&date=2026-11-02&cabinClass=premium")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = get(r, "/flights/search?from=BKK&to=CNX&date=2026-11-02&adults=1&infants=2")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(utils.KindInvalidPassengerComposition), body["code"])
}

func TestSearchFlightsProviderDown(t *testing.T) {
	r, _ := setupRouter(t, http.StatusInternalServerError, `{}`)

	w, body := get(r, "/flights/search?from=BKK&to=CNX&date=2026-11-02")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, string(utils.KindProviderUnavailable), body["code"])
}

func TestSearchFlightsNoResults(t *testing.T) {
	r, _ := setupRouter(t, http.StatusOK, `{"data":[]}`)

	w, _ := get(r, "/flights/search?from=BKK&to=CNX&date=2026-11-02")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightDetailsPersistsAndQuotes(t *testing.T) {
	r, store := setupRouter(t, http.StatusOK, providerPayload)

	w, body := get(r, "/flights/2026-11-02_TG102")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := body["data"].(map[string]any)
	assert.Len(t, store.flights, 1)

	// second lookup is served from the store with the same fare
	w, body = get(r, "/flights/2026-11-02_TG102")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first["price"], body["data"].(map[string]any)["price"])
	assert.Len(t, store.flights, 1)

	economy := first["price"].(map[string]any)["economy"].(float64)

	payload, _ := json.Marshal(gin.H{
		"outboundFlightId": "2026-11-02_TG102",
		"cabinClass":       "economy",
		"passengers":       gin.H{"adults": 2, "children": 1, "infants": 1},
	})
	req := httptest.NewRequest(http.MethodPost, "/flights/quote", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	qw := httptest.NewRecorder()
	r.ServeHTTP(qw, req)
	require.Equal(t, http.StatusOK, qw.Code, qw.Body.String())

	var quote struct {
		Data struct {
			Total float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(qw.Body.Bytes(), &quote))
	assert.InDelta(t, economy*2.85, quote.Data.Total, 0.01)
}

func TestFlightStatusAndPopular(t *testing.T) {
	r, _ := setupRouter(t, http.StatusOK, providerPayload)

	w, body := get(r, "/flights/status/TG102")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Scheduled", body["data"].(map[string]any)["status"])

	w, body = get(r, "/flights/popular")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 6)
}
