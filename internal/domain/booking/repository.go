package booking

import (
	"context"

	"github.com/BruksfildServices01/booking-site/internal/models"
)

type Repository interface {
	// -------- Profile --------
	GetProfileByID(
		ctx context.Context,
		id uint,
	) (*models.Profile, error)

	GetProfileBySlug(
		ctx context.Context,
		slug string,
	) (*models.Profile, error)

	GetSettings(
		ctx context.Context,
		profileID uint,
	) (*models.BookingSettings, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		profileID uint,
		serviceID uint,
	) (*models.Service, error)

	ListActiveServices(
		ctx context.Context,
		profileID uint,
	) ([]models.Service, error)

	// -------- Availability --------
	ListWeeklyRules(
		ctx context.Context,
		profileID uint,
		dayOfWeek int,
	) ([]models.WeeklyRule, error)

	ListServiceSlots(
		ctx context.Context,
		serviceID uint,
		dayOfWeek int,
	) ([]models.ServiceAvailabilitySlot, error)

	ListBlocksForDate(
		ctx context.Context,
		profileID uint,
		date string,
	) ([]models.ScheduleBlock, error)

	// -------- Booking ledger --------
	ListOccupyingBookings(
		ctx context.Context,
		profileID uint,
		date string,
	) ([]models.Booking, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingForProfile(
		ctx context.Context,
		bookingID uint,
		profileID uint,
	) (*models.Booking, error)

	GetBookingByCancelToken(
		ctx context.Context,
		profileID uint,
		token string,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForPeriod(
		ctx context.Context,
		profileID uint,
		fromDate string,
		toDate string,
	) ([]models.Booking, error)

	// InDayTx runs fn in one transaction that holds the exclusive lock for
	// (profileID, date). fn must use the Repository it is given.
	InDayTx(
		ctx context.Context,
		profileID uint,
		date string,
		fn func(tx Repository) error,
	) error

	// InTx runs fn in one transaction without a day lock.
	InTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
