package booking_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/utils"
)

// ErrReferenceTaken is returned by Create when the booking reference is already in use.
var ErrReferenceTaken = errors.New("booking reference already in use")

const uniqueViolation = "23505"

const bookingColumns = `id, user_id, flight_details, return_flight_details, passengers, contact_email, contact_phone,
	trip_type, status, total_price, payment_method, booking_reference, version, last_override, created_at, updated_at`

// Repository persists bookings in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.FlightDetails, &b.ReturnFlightDetails, &b.Passengers,
		&b.ContactDetails.Email, &b.ContactDetails.PhoneNumber,
		&b.TripType, &b.Status, &b.TotalPrice, &b.PaymentMethod, &b.BookingReference,
		&b.Version, &b.LastOverride, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewError(utils.KindNotFound, "booking not found", err)
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	bookings := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to scan booking row: %v", err)
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Create inserts a booking. A clash on booking_reference yields ErrReferenceTaken.
func (r *Repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	logger.InfoLogger.Infof("Attempting to create booking %s for user %s", b.BookingReference, b.UserID)

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + bookingColumns

	created, err := scanBooking(r.db.QueryRow(ctx, query,
		b.ID, b.UserID, b.FlightDetails, b.ReturnFlightDetails, b.Passengers,
		b.ContactDetails.Email, b.ContactDetails.PhoneNumber,
		b.TripType, b.Status, b.TotalPrice, b.PaymentMethod, b.BookingReference,
		b.Version, b.LastOverride, b.CreatedAt, b.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "bookings_booking_reference_key" {
			return nil, ErrReferenceTaken
		}
		logger.ErrorLogger.Errorf("Failed to insert booking %s: %v", b.BookingReference, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

func (r *Repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_reference = $1`, reference))
}

// ListByUser returns the user's bookings, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch bookings for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return collectBookings(rows)
}

// ListAll returns every booking, newest first. limit <= 0 means no limit.
func (r *Repository) ListAll(ctx context.Context, limit int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch all bookings: %v", err)
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return collectBookings(rows)
}

// UpdateStatusIfMatch moves the booking to next only if its version is still expectedVersion.
// A version mismatch yields a StaleStatus error.
func (r *Repository) UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, expectedVersion int, next BookingStatus, override *StatusOverride) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, version = version + 1, updated_at = $4,
			last_override = COALESCE($5, last_override)
		WHERE id = $1 AND version = $2
		RETURNING ` + bookingColumns

	updated, err := scanBooking(r.db.QueryRow(ctx, query, id, expectedVersion, next, time.Now(), override))
	if err == nil {
		logger.InfoLogger.Infof("Booking %s status updated to %s", id, next)
		return updated, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		logger.ErrorLogger.Errorf("Failed to update booking %s status: %v", id, err)
		return nil, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check booking existence: %w", err)
	}
	if !exists {
		return nil, utils.NewError(utils.KindNotFound, "booking not found", nil)
	}
	return nil, utils.ErrStaleStatus
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.NewError(utils.KindNotFound, "booking not found", nil)
	}
	logger.InfoLogger.Infof("Booking %s deleted", id)
	return nil
}
