package models

import "time"

// WeeklyRule is a profile's recurring availability on one weekday.
// Times are "HH:MM" in the profile timezone; "24:00" closes the day.
type WeeklyRule struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProfileID uint `gorm:"index:idx_weekly_rules_profile_day" json:"profile_id"`

	DayOfWeek int    `gorm:"index:idx_weekly_rules_profile_day" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Active    bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceAvailabilitySlot overrides the profile rules of its weekday for one
// service.
type ServiceAvailabilitySlot struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index:idx_service_slots_service_day" json:"service_id"`

	DayOfWeek int    `gorm:"index:idx_service_slots_service_day" json:"day_of_week"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`
	Active    bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleBlock removes availability between StartDate and EndDate inclusive.
type ScheduleBlock struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProfileID uint `gorm:"index" json:"profile_id"`

	StartDate string  `gorm:"size:10;not null;index" json:"start_date"`
	EndDate   string  `gorm:"size:10;not null;index" json:"end_date"`
	IsAllDay  bool    `json:"is_all_day"`
	StartTime *string `gorm:"size:5" json:"start_time"`
	EndTime   *string `gorm:"size:5" json:"end_time"`
	Reason    string  `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
