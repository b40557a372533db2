package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-site/internal/audit"
	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/models"
	"github.com/BruksfildServices01/booking-site/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ProfileID uint
	ServiceID uint

	Date      string
	StartTime string

	ClientName  string
	ClientEmail string
	ClientPhone string
	Notes       string

	// set when the owner enters the booking
	UserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	locker   domain.Locker
	audit    *audit.Dispatcher
	defaults Defaults
	clock    timezone.Clock
	log      *zap.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	locker domain.Locker,
	audit *audit.Dispatcher,
	defaults Defaults,
	clock timezone.Clock,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		locker:   locker,
		audit:    audit,
		defaults: defaults,
		clock:    clock,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	date, err := availability.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := availability.ParseClock(in.StartTime)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ClientName) == "" || strings.TrimSpace(in.ClientEmail) == "" {
		return nil, httperr.ErrBusiness("client_contact_required")
	}

	svc, err := uc.repo.GetService(ctx, in.ProfileID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	if svc.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}
	if _, err := availability.NewTimeRange(start, start+svc.DurationMinutes); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Conflict guard: one writer per profile day
	// --------------------------------------------------
	release, err := uc.locker.Lock(ctx, domain.DayLockKey(in.ProfileID, in.Date))
	if err != nil {
		return nil, err
	}
	defer release()

	var created *models.Booking

	err = uc.repo.InDayTx(ctx, in.ProfileID, in.Date, func(tx domain.Repository) error {
		req, open, err := loadRequest(ctx, tx, uc.defaults, in.ProfileID, svc, date, uc.clock())
		if err != nil {
			return err
		}
		if !open {
			return httperr.ErrConflict("slot_unavailable")
		}

		ok, err := availability.Fits(req, start)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrConflict("slot_unavailable")
		}

		b := &models.Booking{
			ProfileID:   in.ProfileID,
			ServiceID:   svc.ID,
			Date:        in.Date,
			StartMinute: start,
			EndMinute:   start + svc.DurationMinutes,
			StartsAt:    availability.At(date, start, req.Policy.Loc()),
			Status:      string(domain.StatusPending),
			ClientName:  strings.TrimSpace(in.ClientName),
			ClientEmail: strings.TrimSpace(in.ClientEmail),
			ClientPhone: strings.TrimSpace(in.ClientPhone),
			Notes:       in.Notes,
			CancelToken: uuid.NewString(),
		}
		if initial := domain.InitialStatus(req.Policy.AutoConfirm); initial != domain.StatusPending {
			if err := domain.Transition(b, initial, req.Now, domain.ActorSystem); err != nil {
				return err
			}
		}

		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			uc.log.Warn("booking rejected by conflict guard",
				zap.Uint("profile_id", in.ProfileID),
				zap.String("date", in.Date),
				zap.String("start", in.StartTime),
			)
		}
		return nil, err
	}

	created.Service = *svc

	uc.audit.Dispatch(audit.Event{
		ProfileID: in.ProfileID,
		UserID:    in.UserID,
		Action:    "booking_created",
		Entity:    "booking",
		EntityID:  &created.ID,
		Metadata: map[string]any{
			"date":   created.Date,
			"start":  availability.FormatClock(created.StartMinute),
			"status": created.Status,
		},
	})

	return created, nil
}
