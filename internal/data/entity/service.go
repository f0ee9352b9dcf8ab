package entity

import "time"

// Service is something a customer can book, e.g. a haircut or a consultation.
type Service struct {
	Base
	Name            string  `db:"name"`
	Description     string  `db:"description"`
	DurationMinutes int     `db:"duration_minutes"`
	Price           float64 `db:"price"`
	BufferMinutes   int     `db:"buffer_minutes"` // stored only, slots are not padded
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
