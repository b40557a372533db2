package booking

import (
	"context"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/models"
	"github.com/BruksfildServices01/booking-site/internal/timezone"
)

// CancelByClient cancels through the token handed out at booking time.
type CancelByClient struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	defaults Defaults
	clock    timezone.Clock
}

func NewCancelByClient(
	repo domain.Repository,
	audit *audit.Dispatcher,
	defaults Defaults,
	clock timezone.Clock,
) *CancelByClient {
	return &CancelByClient{
		repo:     repo,
		audit:    audit,
		defaults: defaults,
		clock:    clock,
	}
}

func (uc *CancelByClient) Execute(
	ctx context.Context,
	profileID uint,
	token string,
) (*models.Booking, error) {

	var b *models.Booking

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		settings, err := tx.GetSettings(ctx, profileID)
		if err != nil {
			return err
		}

		b, err = tx.GetBookingByCancelToken(ctx, profileID, token)
		if err != nil {
			return err
		}

		if err := domain.ClientCancel(b, uc.clock(), uc.defaults.policy(settings)); err != nil {
			return err
		}
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfileID: profileID,
		Action:    "booking_cancelled_by_client",
		Entity:    "booking",
		EntityID:  &b.ID,
	})

	return b, nil
}
