package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joy095/gowafly/config"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/metrics"
	"github.com/joy095/gowafly/utils"
)

// AviationProvider is the flight data source consumed by the flight service.
type AviationProvider interface {
	SearchByRoute(ctx context.Context, depIATA, arrIATA, date string) ([]RawFlight, error)
	SearchByNumber(ctx context.Context, flightNumber string) ([]RawFlight, error)
	GetByID(ctx context.Context, providerFlightID string) ([]RawFlight, error)
}

// AviationClient talks to the aviationstack REST API.
type AviationClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

type aviationResponse struct {
	Data  []RawFlight `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAviationClient builds a client from injected configuration. m may be nil.
func NewAviationClient(cfg config.ProviderConfig, m *metrics.Metrics) *AviationClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AviationClient{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: timeout},
		Metrics:    m,
	}
}

// SearchByRoute lists flights between two airports, optionally on a date (YYYY-MM-DD).
func (a *AviationClient) SearchByRoute(ctx context.Context, depIATA, arrIATA, date string) ([]RawFlight, error) {
	params := url.Values{}
	params.Set("dep_iata", depIATA)
	params.Set("arr_iata", arrIATA)
	if date != "" {
		params.Set("flight_date", date)
	}
	return a.flights(ctx, "route", params)
}

// SearchByNumber lists flights carrying the given number, with or without airline prefix.
func (a *AviationClient) SearchByNumber(ctx context.Context, flightNumber string) ([]RawFlight, error) {
	params := url.Values{}
	if isIATAFlightNumber(flightNumber) {
		params.Set("flight_iata", flightNumber)
	} else {
		params.Set("flight_number", flightNumber)
	}
	return a.flights(ctx, "number", params)
}

// GetByID resolves a provider flight id of the form "<flight_date>_<flight_iata>".
func (a *AviationClient) GetByID(ctx context.Context, providerFlightID string) ([]RawFlight, error) {
	date, iata, ok := SplitProviderFlightID(providerFlightID)
	if !ok {
		return nil, utils.Invalid("malformed provider flight id %q", providerFlightID)
	}
	params := url.Values{}
	params.Set("flight_date", date)
	params.Set("flight_iata", iata)
	return a.flights(ctx, "id", params)
}

func (a *AviationClient) flights(ctx context.Context, endpoint string, params url.Values) (flights []RawFlight, err error) {
	start := time.Now()
	defer func() { a.Metrics.ObserveProvider(endpoint, start, err) }()

	params.Set("access_key", a.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/flights?"+params.Encode(), nil)
	if err != nil {
		return nil, utils.NewError(utils.KindProviderUnavailable, "failed to construct provider request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		logger.ErrorLogger.Errorf("Aviation provider %s request failed: %v", endpoint, err)
		return nil, utils.NewError(utils.KindProviderUnavailable, "flight data provider request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // cap at 1MB
		logger.ErrorLogger.Errorf("Aviation provider %s returned %d: %s", endpoint, resp.StatusCode, string(b))
		return nil, utils.NewError(utils.KindProviderUnavailable,
			fmt.Sprintf("flight data provider returned status %d", resp.StatusCode), nil)
	}

	var body aviationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.ErrorLogger.Errorf("Aviation provider %s returned invalid JSON: %v", endpoint, err)
		return nil, utils.NewError(utils.KindProviderUnavailable, "invalid flight data provider response", err)
	}
	if body.Error != nil {
		logger.ErrorLogger.Errorf("Aviation provider %s error %s: %s", endpoint, body.Error.Code, body.Error.Message)
		return nil, utils.NewError(utils.KindProviderUnavailable, "flight data provider error: "+body.Error.Code, nil)
	}
	logger.InfoLogger.Infof("Aviation provider %s returned %d flights", endpoint, len(body.Data))
	return body.Data, nil
}

// isIATAFlightNumber reports whether s carries a two character airline prefix, e.g. "TG102".
func isIATAFlightNumber(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, c := range s[:2] {
		if c >= 'A' && c <= 'Z' {
			return true
		}
	}
	return false
}
