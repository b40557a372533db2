package models

import "time"

type BookingSettings struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	ProfileID uint `gorm:"uniqueIndex;not null" json:"profile_id"`

	BufferMinutes      int    `gorm:"not null" json:"buffer_minutes"`
	AdvanceBookingDays int    `gorm:"not null" json:"advance_booking_days"`
	MinAdvanceHours    int    `gorm:"not null" json:"min_advance_hours"`
	CancellationHours  int    `gorm:"not null" json:"cancellation_hours"`
	AutoConfirm        bool   `gorm:"not null" json:"auto_confirm"`
	Timezone           string `gorm:"size:64" json:"timezone"`
	Language           string `gorm:"size:10;default:'en'" json:"language"`
	SlotStepMinutes    int    `gorm:"not null" json:"slot_step_minutes"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultBookingSettings is the row created alongside a new profile.
func DefaultBookingSettings(profileID uint, timezone string, slotStep int) BookingSettings {
	if slotStep <= 0 {
		slotStep = 30
	}
	return BookingSettings{
		ProfileID:          profileID,
		BufferMinutes:      0,
		AdvanceBookingDays: 60,
		MinAdvanceHours:    2,
		CancellationHours:  24,
		AutoConfirm:        false,
		Timezone:           timezone,
		Language:           "en",
		SlotStepMinutes:    slotStep,
	}
}
