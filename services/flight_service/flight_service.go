// Package flight_service resolves flights from the provider and the local store
// and prices candidate bookings.
package flight_service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/gowafly/clients"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/metrics"
	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/services/pricing_service"
	"github.com/joy095/gowafly/utils"
	"golang.org/x/sync/errgroup"
)

// FlightStore is the persistence the service needs. *flight_models.Repository implements it.
type FlightStore interface {
	Create(ctx context.Context, f *flight_models.Flight) (*flight_models.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*flight_models.Flight, error)
	GetByProviderID(ctx context.Context, providerFlightID string) (*flight_models.Flight, error)
	List(ctx context.Context) ([]flight_models.Flight, error)
	UpdateStatusAndSeats(ctx context.Context, id uuid.UUID, status flight_models.FlightStatus, seats flight_models.SeatInventory) (*flight_models.Flight, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	provider clients.AviationProvider
	store    FlightStore
	prices   PriceCache
	metrics  *metrics.Metrics
	draw     func() float64
}

// NewService wires the flight service. m may be nil.
func NewService(provider clients.AviationProvider, store FlightStore, prices PriceCache, m *metrics.Metrics) *Service {
	return &Service{
		provider: provider,
		store:    store,
		prices:   prices,
		metrics:  m,
		draw:     clients.RandomEconomyPrice,
	}
}

type SearchQuery struct {
	From       string `form:"from"`
	To         string `form:"to"`
	Date       string `form:"date"`
	ReturnDate string `form:"returnDate"`
}

type SearchResult struct {
	Flights       []flight_models.Flight `json:"flights"`
	ReturnFlights []flight_models.Flight `json:"returnFlights"`
}

func (q *SearchQuery) normalize() error {
	q.From = strings.ToUpper(strings.TrimSpace(q.From))
	q.To = strings.ToUpper(strings.TrimSpace(q.To))
	q.Date = strings.TrimSpace(q.Date)
	q.ReturnDate = strings.TrimSpace(q.ReturnDate)

	switch {
	case q.From == "":
		return utils.Missing("from")
	case q.To == "":
		return utils.Missing("to")
	case q.Date == "":
		return utils.Missing("date")
	}
	if !isIATACode(q.From) || !isIATACode(q.To) {
		return utils.Invalid("airports must be three letter IATA codes")
	}
	if q.From == q.To {
		return utils.Invalid("departure and arrival airports must differ")
	}
	date, err := time.Parse(time.DateOnly, q.Date)
	if err != nil {
		return utils.Invalid("date must be YYYY-MM-DD")
	}
	if q.ReturnDate != "" {
		ret, err := time.Parse(time.DateOnly, q.ReturnDate)
		if err != nil {
			return utils.Invalid("returnDate must be YYYY-MM-DD")
		}
		if ret.Before(date) {
			return utils.Invalid("returnDate must not be before date")
		}
	}
	return nil
}

// Search queries the provider for the outbound leg and, when a return date is given,
// the return leg at the same time.
func (s *Service) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	result := &SearchResult{Flights: []flight_models.Flight{}, ReturnFlights: []flight_models.Flight{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		flights, err := s.searchLeg(gctx, q.From, q.To, q.Date)
		result.Flights = flights
		return err
	})
	if q.ReturnDate != "" {
		g.Go(func() error {
			flights, err := s.searchLeg(gctx, q.To, q.From, q.ReturnDate)
			result.ReturnFlights = flights
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(result.Flights) == 0 {
		return nil, utils.NewError(utils.KindNotFound, "no flights match the search", nil)
	}
	return result, nil
}

func (s *Service) searchLeg(ctx context.Context, from, to, date string) ([]flight_models.Flight, error) {
	raws, err := s.provider.SearchByRoute(ctx, from, to, date)
	if err != nil {
		return nil, err
	}
	return s.transformAll(ctx, raws)
}

// transformAll prices and transforms provider flights, skipping malformed entries.
func (s *Service) transformAll(ctx context.Context, raws []clients.RawFlight) ([]flight_models.Flight, error) {
	flights := make([]flight_models.Flight, 0, len(raws))
	for _, raw := range raws {
		f, err := s.transform(ctx, raw)
		if errors.Is(err, utils.ErrMalformedProviderData) {
			logger.WarnLogger.Warnf("Skipping provider flight %s: %v", clients.ProviderFlightID(raw), err)
			continue
		}
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, nil
}

func (s *Service) transform(ctx context.Context, raw clients.RawFlight) (*flight_models.Flight, error) {
	hit := true
	draw := func() float64 {
		hit = false
		return s.draw()
	}
	economy, err := s.prices.EconomyPrice(ctx, clients.ProviderFlightID(raw), draw)
	if err != nil {
		// a cache outage must not take search down; the fare is simply not pinned
		logger.WarnLogger.Warnf("Price cache unavailable: %v", err)
		economy, hit = s.draw(), false
	}
	s.metrics.PriceCache(hit)
	return clients.Transform(raw, economy)
}

// Details returns a flight by internal UUID or provider flight id. Provider flights
// not stored yet are fetched, transformed and persisted.
func (s *Service) Details(ctx context.Context, id string) (*flight_models.Flight, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, utils.Missing("flight id")
	}
	if uid, err := uuid.Parse(id); err == nil {
		return s.store.GetByID(ctx, uid)
	}

	stored, err := s.store.GetByProviderID(ctx, id)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	raws, err := s.provider.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, utils.NewError(utils.KindNotFound, "flight not found", nil)
	}
	flight, err := s.transform(ctx, raws[0])
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, flight)
	if err != nil {
		return nil, err
	}
	logger.InfoLogger.Infof("Stored provider flight %s", id)
	return created, nil
}

// Status returns the live provider view of a flight number.
func (s *Service) Status(ctx context.Context, flightNumber string) (*flight_models.Flight, error) {
	flightNumber = strings.ToUpper(strings.TrimSpace(flightNumber))
	if flightNumber == "" {
		return nil, utils.Missing("flightNumber")
	}
	raws, err := s.provider.SearchByNumber(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, utils.NewError(utils.KindNotFound, "no flight with number "+flightNumber, nil)
	}
	return s.transform(ctx, raws[0])
}

type QuoteRequest struct {
	OutboundFlightID string                          `json:"outboundFlightId"`
	ReturnFlightID   string                          `json:"returnFlightId"`
	CabinClass       string                          `json:"cabinClass"`
	Passengers       pricing_service.PassengerCounts `json:"passengers"`
}

// Quote resolves the requested legs and prices them.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*pricing_service.Quote, error) {
	if strings.TrimSpace(req.OutboundFlightID) == "" {
		return nil, utils.Missing("outboundFlightId")
	}
	cabin, err := pricing_service.ParseCabinClass(req.CabinClass)
	if err != nil {
		return nil, err
	}
	if err := req.Passengers.Validate(); err != nil {
		return nil, err
	}

	outbound, err := s.Details(ctx, req.OutboundFlightID)
	if err != nil {
		return nil, err
	}
	var ret *flight_models.Flight
	if strings.TrimSpace(req.ReturnFlightID) != "" {
		if ret, err = s.Details(ctx, req.ReturnFlightID); err != nil {
			return nil, err
		}
	}
	return pricing_service.Calculate(outbound, ret, cabin, req.Passengers)
}

func isIATACode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
