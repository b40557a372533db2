package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/booking-site/internal/domain/availability"
	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/dto"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

type ListBookingsByDate struct {
	repo domain.Repository
}

func NewListBookingsByDate(
	repo domain.Repository,
) *ListBookingsByDate {
	return &ListBookingsByDate{
		repo: repo,
	}
}

func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	profileID uint,
	date string,
) ([]dto.BookingListDTO, error) {

	if _, err := availability.ParseDate(date); err != nil {
		return nil, err
	}

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, profileID, date, date)
	if err != nil {
		return nil, err
	}
	return toListDTO(bookings), nil
}

type ListBookingsByMonth struct {
	repo domain.Repository
}

func NewListBookingsByMonth(
	repo domain.Repository,
) *ListBookingsByMonth {
	return &ListBookingsByMonth{
		repo: repo,
	}
}

func (uc *ListBookingsByMonth) Execute(
	ctx context.Context,
	profileID uint,
	year int,
	month int,
) ([]dto.BookingListDTO, error) {

	if year < 1970 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	bookings, err := uc.repo.ListBookingsForPeriod(
		ctx,
		profileID,
		availability.FormatDate(first),
		availability.FormatDate(last),
	)
	if err != nil {
		return nil, err
	}
	return toListDTO(bookings), nil
}

func toListDTO(bookings []models.Booking) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:          b.ID,
			Date:        b.Date,
			StartTime:   availability.FormatClock(b.StartMinute),
			EndTime:     availability.FormatClock(b.EndMinute),
			StartsAt:    b.StartsAt,
			Status:      b.Status,
			ClientName:  b.ClientName,
			ClientEmail: b.ClientEmail,
			ClientPhone: b.ClientPhone,
			ServiceID:   b.ServiceID,
			ServiceName: b.Service.Name,
		})
	}
	return out
}
