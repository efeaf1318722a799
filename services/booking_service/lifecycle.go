package booking_service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/booking_models"
	"github.com/joy095/gowafly/utils"
)

// Pay confirms payment: PendingPayment to Paid. Owner or admin.
func (s *Service) Pay(ctx context.Context, actor utils.Actor, id uuid.UUID) (*booking_models.Booking, error) {
	return s.transition(ctx, actor, id, booking_models.StatusPaid)
}

// Cancel moves a PendingPayment or Paid booking to Cancelled. Owner or admin.
func (s *Service) Cancel(ctx context.Context, actor utils.Actor, id uuid.UUID) (*booking_models.Booking, error) {
	booking, err := s.transition(ctx, actor, id, booking_models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.notifier.BookingCancelled(booking)
	return booking, nil
}

// Complete marks a Paid booking as travelled. Admin only.
func (s *Service) Complete(ctx context.Context, actor utils.Actor, id uuid.UUID) (*booking_models.Booking, error) {
	return s.transition(ctx, actor, id, booking_models.StatusCompleted)
}

// Override sets any status without checking lifecycle edges and records who did it.
func (s *Service) Override(ctx context.Context, actor utils.Actor, id uuid.UUID, target booking_models.BookingStatus, reason string) (*booking_models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, utils.ErrForbidden
	}
	if target == "" {
		return nil, utils.Missing("status")
	}
	if !target.IsValid() {
		return nil, utils.Invalid("unknown booking status %q", target)
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	override := &booking_models.StatusOverride{
		By:             actor.ID,
		PreviousStatus: current.Status,
		Reason:         strings.TrimSpace(reason),
		At:             time.Now().UTC(),
	}
	updated, err := s.store.UpdateStatusIfMatch(ctx, current.ID, current.Version, target, override)
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(current.Status), string(target))
	logger.WarnLogger.Warnf("Admin %s overrode booking %s status %s -> %s (reason: %q)",
		actor.ID, current.ID, current.Status, target, override.Reason)
	if target == booking_models.StatusCancelled && current.Status != booking_models.StatusCancelled {
		s.notifier.BookingCancelled(updated)
	}
	return updated, nil
}

func (s *Service) transition(ctx context.Context, actor utils.Actor, id uuid.UUID, target booking_models.BookingStatus) (*booking_models.Booking, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeTransition(actor, current, target); err != nil {
		return nil, err
	}
	if err := checkTransition(current.Status, target); err != nil {
		return nil, err
	}

	// The version compare in the store makes a concurrent pay and cancel resolve to one winner.
	updated, err := s.store.UpdateStatusIfMatch(ctx, current.ID, current.Version, target, nil)
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(current.Status), string(target))
	logger.InfoLogger.Infof("Booking %s moved %s -> %s by %s", current.ID, current.Status, target, actor.ID)
	return updated, nil
}

// authorizeAccess allows the owner and admins.
func authorizeAccess(actor utils.Actor, b *booking_models.Booking) error {
	if actor.IsAdmin() || actor.Owns(b.UserID) {
		return nil
	}
	return utils.ErrForbidden
}

func authorizeTransition(actor utils.Actor, b *booking_models.Booking, target booking_models.BookingStatus) error {
	if err := authorizeAccess(actor, b); err != nil {
		return err
	}
	if target == booking_models.StatusCompleted && !actor.IsAdmin() {
		return utils.NewError(utils.KindForbidden, "only an admin can complete a booking", nil)
	}
	return nil
}

// checkTransition validates a regular lifecycle edge.
func checkTransition(from, to booking_models.BookingStatus) error {
	if from == booking_models.StatusCancelled {
		return utils.ErrAlreadyCancelled
	}
	if !from.CanTransitionTo(to) {
		return utils.NewError(utils.KindIllegalTransition,
			"booking cannot move from "+from.String()+" to "+to.String(), nil)
	}
	return nil
}
