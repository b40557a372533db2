package repository

import (
	"context"
	"encoding/binary"
	"errors"
	"hash/fnv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
	// set on the copies handed to transaction callbacks; booking reads
	// then take row locks
	inTx bool
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

// --------------------------------------------------
// Profile
// --------------------------------------------------

func (r *BookingGormRepository) GetProfileByID(
	ctx context.Context,
	id uint,
) (*models.Profile, error) {

	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "profile_not_found")
	}
	return &p, nil
}

func (r *BookingGormRepository) GetProfileBySlug(
	ctx context.Context,
	slug string,
) (*models.Profile, error) {

	var p models.Profile
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&p).Error; err != nil {
		return nil, notFound(err, "profile_not_found")
	}
	return &p, nil
}

// GetSettings returns nil, nil when the profile has no settings row yet.
func (r *BookingGormRepository) GetSettings(
	ctx context.Context,
	profileID uint,
) (*models.BookingSettings, error) {

	var s models.BookingSettings
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	profileID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", serviceID, profileID).
		First(&svc).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &svc, nil
}

func (r *BookingGormRepository) ListActiveServices(
	ctx context.Context,
	profileID uint,
) ([]models.Service, error) {

	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND is_active = ?", profileID, true).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) ListWeeklyRules(
	ctx context.Context,
	profileID uint,
	dayOfWeek int,
) ([]models.WeeklyRule, error) {

	var rules []models.WeeklyRule
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND day_of_week = ?", profileID, dayOfWeek).
		Order("start_time ASC").
		Find(&rules).Error
	return rules, err
}

func (r *BookingGormRepository) ListServiceSlots(
	ctx context.Context,
	serviceID uint,
	dayOfWeek int,
) ([]models.ServiceAvailabilitySlot, error) {

	var slots []models.ServiceAvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND day_of_week = ?", serviceID, dayOfWeek).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *BookingGormRepository) ListBlocksForDate(
	ctx context.Context,
	profileID uint,
	date string,
) ([]models.ScheduleBlock, error) {

	// YYYY-MM-DD compares correctly as text
	var blocks []models.ScheduleBlock
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND start_date <= ? AND end_date >= ?", profileID, date, date).
		Find(&blocks).Error
	return blocks, err
}

// --------------------------------------------------
// Booking ledger
// --------------------------------------------------

func (r *BookingGormRepository) ListOccupyingBookings(
	ctx context.Context,
	profileID uint,
	date string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Select("id", "start_minute", "end_minute", "status").
		Where(
			"profile_id = ? AND date = ? AND status IN ?",
			profileID, date,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		).
		Order("start_minute ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(b).Error
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrConflict("slot_unavailable")
	}
	return err
}

func (r *BookingGormRepository) lockingQuery(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r *BookingGormRepository) GetBookingForProfile(
	ctx context.Context,
	bookingID uint,
	profileID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.lockingQuery(ctx).
		Where("id = ? AND profile_id = ?", bookingID, profileID).
		First(&b).Error; err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByCancelToken(
	ctx context.Context,
	profileID uint,
	token string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.lockingQuery(ctx).
		Where("profile_id = ? AND cancel_token = ?", profileID, token).
		First(&b).Error; err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(b).Error
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	profileID uint,
	fromDate string,
	toDate string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("profile_id = ? AND date >= ? AND date <= ?", profileID, fromDate, toDate).
		Order("date ASC, start_minute ASC").
		Find(&bookings).Error
	return bookings, err
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *BookingGormRepository) InTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx, inTx: true})
	})
}

func (r *BookingGormRepository) InDayTx(
	ctx context.Context,
	profileID uint,
	date string,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(?)",
			dayKey(profileID, date),
		).Error; err != nil {
			return err
		}
		return fn(&BookingGormRepository{db: tx, inTx: true})
	})
}

// dayKey folds the full profile id and a YYYY-MM-DD date into one bigint
// advisory lock key.
func dayKey(profileID uint, date string) int64 {
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], uint64(profileID))

	h := fnv.New64a()
	_, _ = h.Write(id[:])
	_, _ = h.Write([]byte(date))
	return int64(h.Sum64())
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
