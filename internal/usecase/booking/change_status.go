package booking

import (
	"context"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/models"
	"github.com/BruksfildServices01/booking-site/internal/timezone"
)

// ChangeStatus is the owner-side status change. It is bound by the state
// machine only, not by the client cancellation window.
type ChangeStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewChangeStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *ChangeStatus {
	return &ChangeStatus{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	profileID uint,
	userID uint,
	bookingID uint,
	status string,
) (*models.Booking, error) {

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var b *models.Booking
	var from string

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBookingForProfile(ctx, bookingID, profileID)
		if err != nil {
			return err
		}
		from = b.Status

		if err := domain.Transition(b, to, uc.clock(), domain.ActorOwner); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfileID: profileID,
		UserID:    &userID,
		Action:    "booking_status_changed",
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata:  map[string]string{"from": from, "to": b.Status},
	})

	return b, nil
}
