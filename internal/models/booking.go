package models

import "time"

type Booking struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProfileID uint `gorm:"index:idx_bookings_profile_date_status" json:"profile_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Date        string    `gorm:"size:10;not null;index:idx_bookings_profile_date_status" json:"date"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
	StartsAt    time.Time `json:"starts_at"`

	Status string `gorm:"size:20;default:'PENDING';index:idx_bookings_profile_date_status" json:"status"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientEmail string `gorm:"size:100;not null" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`
	Notes       string `gorm:"size:255" json:"notes"`

	CancelToken string `gorm:"size:36;uniqueIndex" json:"-"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CancelledBy string     `gorm:"size:10" json:"cancelled_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
