package dto

import "time"

type BookingListDTO struct {
	ID          uint      `json:"id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	StartsAt    time.Time `json:"starts_at"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone,omitempty"`
	ServiceID   uint      `json:"service_id"`
	ServiceName string    `json:"service_name"`
}
