// Package booking_service owns the booking lifecycle: checkout, payment confirmation,
// cancellation, completion and admin overrides.
package booking_service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/metrics"
	"github.com/joy095/gowafly/models/booking_models"
	"github.com/joy095/gowafly/utils"
)

// MaxReferenceAttempts bounds how many fresh references Create tries before giving up.
const MaxReferenceAttempts = 5

// Store is the persistence the service needs. *booking_models.Repository implements it.
type Store interface {
	Create(ctx context.Context, b *booking_models.Booking) (*booking_models.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*booking_models.Booking, error)
	GetByReference(ctx context.Context, reference string) (*booking_models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]booking_models.Booking, error)
	ListAll(ctx context.Context, limit int) ([]booking_models.Booking, error)
	UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, expectedVersion int, next booking_models.BookingStatus, override *booking_models.StatusOverride) (*booking_models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, since time.Time) (*booking_models.Stats, error)
}

// Notifier is told about bookings worth an e-mail. Implementations must not block.
type Notifier interface {
	BookingCreated(b *booking_models.Booking)
	BookingCancelled(b *booking_models.Booking)
}

type noopNotifier struct{}

func (noopNotifier) BookingCreated(*booking_models.Booking)   {}
func (noopNotifier) BookingCancelled(*booking_models.Booking) {}

type Service struct {
	store        Store
	notifier     Notifier
	metrics      *metrics.Metrics
	newReference func() (string, error)
}

// NewService wires a booking service. notifier and m may be nil.
func NewService(store Store, notifier Notifier, m *metrics.Metrics) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		store:        store,
		notifier:     notifier,
		metrics:      m,
		newReference: utils.GenerateBookingReference,
	}
}

// Create validates checkout input and persists a PendingPayment booking owned by the actor.
func (s *Service) Create(ctx context.Context, actor utils.Actor, in CreateInput) (*booking_models.Booking, error) {
	if actor.ID == uuid.Nil {
		return nil, utils.ErrUnauthorized
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= MaxReferenceAttempts; attempt++ {
		reference, err := s.newReference()
		if err != nil {
			return nil, err
		}

		booking, err := booking_models.NewBooking(actor.ID, reference)
		if err != nil {
			return nil, err
		}
		in.apply(booking)

		created, err := s.store.Create(ctx, booking)
		if errors.Is(err, booking_models.ErrReferenceTaken) {
			logger.WarnLogger.Warnf("Booking reference %s already taken, retrying (attempt %d)", reference, attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.metrics.BookingCreated()
		s.notifier.BookingCreated(created)
		logger.InfoLogger.Infof("Booking %s created for user %s", created.BookingReference, actor.ID)
		return created, nil
	}

	logger.ErrorLogger.Errorf("Could not allocate a booking reference after %d attempts", MaxReferenceAttempts)
	return nil, utils.NewError(utils.KindStaleStatus, "could not allocate a unique booking reference, please retry", booking_models.ErrReferenceTaken)
}

// Get returns a booking visible to the actor.
func (s *Service) Get(ctx context.Context, actor utils.Actor, id uuid.UUID) (*booking_models.Booking, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeAccess(actor, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// GetByReference looks a booking up by its public reference. No identity is required.
func (s *Service) GetByReference(ctx context.Context, reference string) (*booking_models.Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, utils.Missing("bookingReference")
	}
	if !utils.IsBookingReference(reference) {
		return nil, utils.Invalid("malformed booking reference %q", reference)
	}
	return s.store.GetByReference(ctx, reference)
}

// ListMine returns the actor's bookings, newest first.
func (s *Service) ListMine(ctx context.Context, actor utils.Actor) ([]booking_models.Booking, error) {
	if actor.ID == uuid.Nil {
		return nil, utils.ErrUnauthorized
	}
	return s.store.ListByUser(ctx, actor.ID)
}

func (s *Service) ListAll(ctx context.Context, actor utils.Actor, limit int) ([]booking_models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, utils.ErrForbidden
	}
	return s.store.ListAll(ctx, limit)
}

func (s *Service) Delete(ctx context.Context, actor utils.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return utils.ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoLogger.Infof("Booking %s deleted by admin %s", id, actor.ID)
	return nil
}

// Stats aggregates dashboard figures over bookings created since the given time.
func (s *Service) Stats(ctx context.Context, actor utils.Actor, since time.Time) (*booking_models.Stats, error) {
	if !actor.IsAdmin() {
		return nil, utils.ErrForbidden
	}
	return s.store.Stats(ctx, since)
}
