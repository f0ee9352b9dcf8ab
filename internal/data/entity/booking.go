package entity

import (
	"time"
)

// Booking is immutable once created.
type Booking struct {
	BaseSimple
	ServiceID     int64     `db:"service_id"`
	StaffID       int64     `db:"staff_id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	Date          time.Time `db:"date"`
	StartTime     TimeOfDay `db:"start_time"`
	EndTime       TimeOfDay `db:"end_time"`
}

// BookedInterval is an existing booking together with the duration of its service.
type BookedInterval struct {
	BookingID int64
	Start     TimeOfDay
	Duration  time.Duration
}

func (b BookedInterval) End() TimeOfDay {
	return b.Start.Add(b.Duration)
}
