package flight_service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/utils"
)

func (s *Service) List(ctx context.Context, actor utils.Actor) ([]flight_models.Flight, error) {
	if !actor.IsAdmin() {
		return nil, utils.ErrForbidden
	}
	return s.store.List(ctx)
}

// Create stores a manually entered flight. Missing business and first fares are
// derived from economy, and an empty seat inventory gets the default.
func (s *Service) Create(ctx context.Context, actor utils.Actor, f *flight_models.Flight) (*flight_models.Flight, error) {
	if !actor.IsAdmin() {
		return nil, utils.ErrForbidden
	}
	if f == nil {
		return nil, utils.Missing("flight")
	}
	f.FlightNumber = strings.ToUpper(strings.TrimSpace(f.FlightNumber))
	if f.Price.Economy <= 0 {
		return nil, utils.Missing("price.economy")
	}
	if f.Price.Business == 0 && f.Price.FirstClass == 0 {
		f.Price = flight_models.SynthesizedPrices(f.Price.Economy)
	}
	if f.SeatsAvailable == (flight_models.SeatInventory{}) {
		f.SeatsAvailable = flight_models.DefaultSeats
	}
	if f.ProviderFlightID != nil && strings.TrimSpace(*f.ProviderFlightID) == "" {
		f.ProviderFlightID = nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	logger.InfoLogger.Infof("Admin %s created flight %s (%s)", actor.ID, created.FlightNumber, created.ID)
	return created, nil
}

// UpdateStatus changes the operational status and, when given, the seat inventory.
func (s *Service) UpdateStatus(ctx context.Context, actor utils.Actor, id uuid.UUID, status flight_models.FlightStatus, seats *flight_models.SeatInventory) (*flight_models.Flight, error) {
	if !actor.IsAdmin() {
		return nil, utils.ErrForbidden
	}
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = current.Status
	}
	if !status.IsValid() {
		return nil, utils.Invalid("invalid flight status: %s", status)
	}
	inventory := current.SeatsAvailable
	if seats != nil {
		if seats.Economy < 0 || seats.Business < 0 || seats.FirstClass < 0 {
			return nil, utils.Invalid("seat counts must not be negative")
		}
		inventory = *seats
	}
	return s.store.UpdateStatusAndSeats(ctx, id, status, inventory)
}

func (s *Service) Delete(ctx context.Context, actor utils.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return utils.ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoLogger.Infof("Admin %s deleted flight %s", actor.ID, id)
	return nil
}
