package entity

import "time"

// Weekday counts from Monday (0) to Sunday (6).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Unknown"
	}
	return weekdayNames[d]
}

// WeekdayOf converts a Go weekday (Sunday=0) to the Monday-based numbering.
func WeekdayOf(date time.Time) Weekday {
	return Weekday((int(date.Weekday()) + 6) % 7)
}

// AvailabilityRule is a recurring weekly window in which a staff member accepts bookings.
type AvailabilityRule struct {
	Base
	StaffID   int64     `db:"staff_id"`
	DayOfWeek Weekday   `db:"day_of_week"`
	StartTime TimeOfDay `db:"start_time"`
	EndTime   TimeOfDay `db:"end_time"`
	IsActive  bool      `db:"is_active"`
}
