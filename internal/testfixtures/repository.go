package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
	"github.com/BruksfildServices01/booking-site/internal/models"
)

// Repository is an in-memory booking repository. Each call is atomic but
// transactions do not isolate anything, so concurrent check-then-insert
// races exactly as it would without a lock.
type Repository struct {
	mu     sync.Mutex
	nextID uint

	profiles     map[uint]models.Profile
	settings     map[uint]models.BookingSettings
	services     map[uint]models.Service
	weeklyRules  []models.WeeklyRule
	serviceSlots []models.ServiceAvailabilitySlot
	blocks       []models.ScheduleBlock
	bookings     map[uint]models.Booking

	// BeforeInsert, when set, runs in CreateBooking before the row is
	// stored. Tests use it to widen race windows.
	BeforeInsert func()
}

func NewRepository() *Repository {
	return &Repository{
		profiles: map[uint]models.Profile{},
		settings: map[uint]models.BookingSettings{},
		services: map[uint]models.Service{},
		bookings: map[uint]models.Booking{},
	}
}

func (r *Repository) id() uint {
	r.nextID++
	return r.nextID
}

// ---------------------------------------------
// Seeding
// ---------------------------------------------

func (r *Repository) AddProfile(p models.Profile) models.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.id()
	}
	r.profiles[p.ID] = p
	return p
}

func (r *Repository) PutSettings(s models.BookingSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.ProfileID] = s
}

func (r *Repository) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.id()
	}
	r.services[s.ID] = s
	return s
}

func (r *Repository) AddWeeklyRule(w models.WeeklyRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = r.id()
	r.weeklyRules = append(r.weeklyRules, w)
}

func (r *Repository) AddServiceSlot(s models.ServiceAvailabilitySlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	r.serviceSlots = append(r.serviceSlots, s)
}

func (r *Repository) AddBlock(b models.ScheduleBlock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.id()
	r.blocks = append(r.blocks, b)
}

func (r *Repository) AddBooking(b models.Booking) models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.id()
	}
	r.bookings[b.ID] = b
	return b
}

func (r *Repository) Booking(id uint) (models.Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	return b, ok
}

func (r *Repository) BookingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// ---------------------------------------------
// domain.Repository
// ---------------------------------------------

func (r *Repository) GetProfileByID(_ context.Context, id uint) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, httperr.ErrNotFound("profile_not_found")
	}
	return &p, nil
}

func (r *Repository) GetProfileBySlug(_ context.Context, slug string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, httperr.ErrNotFound("profile_not_found")
}

func (r *Repository) GetSettings(_ context.Context, profileID uint) (*models.BookingSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[profileID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *Repository) GetService(_ context.Context, profileID, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[serviceID]
	if !ok || s.ProfileID != profileID {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	return &s, nil
}

func (r *Repository) ListActiveServices(_ context.Context, profileID uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, s := range r.services {
		if s.ProfileID == profileID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Repository) ListWeeklyRules(_ context.Context, profileID uint, dayOfWeek int) ([]models.WeeklyRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WeeklyRule
	for _, w := range r.weeklyRules {
		if w.ProfileID == profileID && w.DayOfWeek == dayOfWeek {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *Repository) ListServiceSlots(_ context.Context, serviceID uint, dayOfWeek int) ([]models.ServiceAvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceAvailabilitySlot
	for _, s := range r.serviceSlots {
		if s.ServiceID == serviceID && s.DayOfWeek == dayOfWeek {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Repository) ListBlocksForDate(_ context.Context, profileID uint, date string) ([]models.ScheduleBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ScheduleBlock
	for _, b := range r.blocks {
		if b.ProfileID == profileID && b.StartDate <= date && b.EndDate >= date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *Repository) ListOccupyingBookings(_ context.Context, profileID uint, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProfileID == profileID && b.Date == date && domain.Status(b.Status).Occupies() {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *Repository) CreateBooking(_ context.Context, b *models.Booking) error {
	if r.BeforeInsert != nil {
		r.BeforeInsert()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.id()
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.bookings[b.ID] = *b
	return nil
}

func (r *Repository) GetBookingForProfile(_ context.Context, bookingID, profileID uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.ProfileID != profileID {
		return nil, httperr.ErrNotFound("booking_not_found")
	}
	return &b, nil
}

func (r *Repository) GetBookingByCancelToken(_ context.Context, profileID uint, token string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ProfileID == profileID && b.CancelToken == token {
			return &b, nil
		}
	}
	return nil, httperr.ErrNotFound("booking_not_found")
}

func (r *Repository) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return httperr.ErrNotFound("booking_not_found")
	}
	b.UpdatedAt = time.Now()
	r.bookings[b.ID] = *b
	return nil
}

func (r *Repository) ListBookingsForPeriod(_ context.Context, profileID uint, fromDate, toDate string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProfileID == profileID && b.Date >= fromDate && b.Date <= toDate {
			b.Service = r.services[b.ServiceID]
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *Repository) InDayTx(_ context.Context, _ uint, _ string, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *Repository) InTx(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func sortBookings(b []models.Booking) {
	sort.Slice(b, func(i, j int) bool {
		if b[i].Date != b[j].Date {
			return b[i].Date < b[j].Date
		}
		return b[i].StartMinute < b[j].StartMinute
	})
}

var _ domain.Repository = (*Repository)(nil)
