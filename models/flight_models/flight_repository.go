package flight_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/utils"
)

const flightColumns = `id, flight_number, airline, departure, arrival, status, aircraft, duration,
	price_economy, price_business, price_first, seats_economy, seats_business, seats_first,
	provider_flight_id, created_at, updated_at`

// Repository persists flights in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanFlight(row pgx.Row) (*Flight, error) {
	var f Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.Airline, &f.Departure, &f.Arrival, &f.Status, &f.Aircraft, &f.Duration,
		&f.Price.Economy, &f.Price.Business, &f.Price.FirstClass,
		&f.SeatsAvailable.Economy, &f.SeatsAvailable.Business, &f.SeatsAvailable.FirstClass,
		&f.ProviderFlightID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewError(utils.KindNotFound, "flight not found", err)
		}
		return nil, fmt.Errorf("failed to scan flight: %w", err)
	}
	return &f, nil
}

// Create inserts a flight. When a flight with the same provider id already exists the
// stored row is returned instead, so concurrent first fetches converge on one record.
func (r *Repository) Create(ctx context.Context, f *Flight) (*Flight, error) {
	if f.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID for flight: %w", err)
		}
		f.ID = id
	}
	now := time.Now()
	f.CreatedAt, f.UpdatedAt = now, now

	query := `
		INSERT INTO flights (` + flightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (provider_flight_id) DO NOTHING
		RETURNING ` + flightColumns

	created, err := scanFlight(r.db.QueryRow(ctx, query,
		f.ID, f.FlightNumber, f.Airline, f.Departure, f.Arrival, f.Status, f.Aircraft, f.Duration,
		f.Price.Economy, f.Price.Business, f.Price.FirstClass,
		f.SeatsAvailable.Economy, f.SeatsAvailable.Business, f.SeatsAvailable.FirstClass,
		f.ProviderFlightID, f.CreatedAt, f.UpdatedAt,
	))
	if err == nil {
		logger.InfoLogger.Infof("Flight %s (%s) created", created.ID, created.FlightNumber)
		return created, nil
	}
	if errors.Is(err, utils.ErrNotFound) && f.ProviderFlightID != nil {
		// Lost the insert race; the row with this provider id is authoritative.
		return r.GetByProviderID(ctx, *f.ProviderFlightID)
	}
	logger.ErrorLogger.Errorf("Failed to insert flight %s: %v", f.FlightNumber, err)
	return nil, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = $1`, id))
}

func (r *Repository) GetByProviderID(ctx context.Context, providerFlightID string) (*Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE provider_flight_id = $1`, providerFlightID))
}

// List returns flights, most recently created first.
func (r *Repository) List(ctx context.Context) ([]Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

// UpdateStatusAndSeats changes the only mutable fields of a flight.
func (r *Repository) UpdateStatusAndSeats(ctx context.Context, id uuid.UUID, status FlightStatus, seats SeatInventory) (*Flight, error) {
	query := `
		UPDATE flights
		SET status = $2, seats_economy = $3, seats_business = $4, seats_first = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + flightColumns

	f, err := scanFlight(r.db.QueryRow(ctx, query, id, status, seats.Economy, seats.Business, seats.FirstClass, time.Now()))
	if err != nil {
		return nil, err
	}
	logger.InfoLogger.Infof("Flight %s updated: status=%s seats=%+v", id, status, seats)
	return f, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.NewError(utils.KindNotFound, "flight not found", nil)
	}
	logger.InfoLogger.Infof("Flight %s deleted", id)
	return nil
}
