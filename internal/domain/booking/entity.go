package booking

import (
	"time"

	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

// Actor is who asked for a status change.
type Actor string

const (
	ActorOwner  Actor = "owner"
	ActorClient Actor = "client"
	ActorSystem Actor = "system"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves b to the target status and stamps the matching timestamp.
// On error b is left untouched.
func Transition(b *models.Booking, to Status, now time.Time, actor Actor) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
		b.CancelledBy = string(actor)
	case StatusCompleted:
		b.CompletedAt = &now
	}
	return nil
}

// ClientCancel applies the cancellation deadline before cancelling. Owners
// cancel through Transition and are not bound by it.
func ClientCancel(b *models.Booking, now time.Time, policy availability.Policy) error {
	if err := CanTransition(Status(b.Status), StatusCancelled); err != nil {
		return err
	}
	if !availability.CanClientCancel(b.StartsAt, now, policy) {
		return httperr.ErrForbidden("cancellation_window_closed")
	}
	return Transition(b, StatusCancelled, now, ActorClient)
}
