package booking

import (
	"context"

	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/timezone"
)

type GetAvailabilityInput struct {
	ProfileID uint
	ServiceID uint
	Date      string
}

type AvailabilityResult struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type GetAvailability struct {
	repo     domain.Repository
	defaults Defaults
	clock    timezone.Clock
}

func NewGetAvailability(
	repo domain.Repository,
	defaults Defaults,
	clock timezone.Clock,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		defaults: defaults,
		clock:    clock,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) (*AvailabilityResult, error) {

	date, err := availability.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, in.ProfileID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	out := &AvailabilityResult{Date: in.Date, Slots: []string{}}

	req, open, err := loadRequest(ctx, uc.repo, uc.defaults, in.ProfileID, svc, date, uc.clock())
	if err != nil || !open {
		return out, err
	}

	slots, err := availability.Resolve(req)
	if err != nil {
		return nil, err
	}
	out.Slots = availability.FormatSlots(slots)

	return out, nil
}
