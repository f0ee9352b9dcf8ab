package entity

import (
	"fmt"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	minutesPerDay = 24 * 60
)

// TimeOfDay is a wall-clock time without a date, in minutes since midnight.
// EndOfDay (24:00) is allowed so a window may close at midnight.
type TimeOfDay int

const EndOfDay TimeOfDay = minutesPerDay

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS". Seconds must be zero.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if (len(s) != 5 && len(s) != 8) || s[2] != ':' || (len(s) == 8 && s[5] != ':') {
		return 0, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	h, okH := twoDigits(s[0:2])
	m, okM := twoDigits(s[3:5])
	sec, okS := 0, true
	if len(s) == 8 {
		sec, okS = twoDigits(s[6:8])
	}
	if !okH || !okM || !okS || m > 59 || sec != 0 {
		return 0, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	t := TimeOfDay(h*60 + m)
	if t > EndOfDay {
		return 0, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	return t, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// TimeOfDayFromMicros converts the microseconds-since-midnight representation Postgres uses for TIME.
func TimeOfDayFromMicros(us int64) TimeOfDay {
	return TimeOfDay(us / int64(time.Minute/time.Microsecond))
}

func (t TimeOfDay) Micros() int64 {
	return int64(t) * int64(time.Minute/time.Microsecond)
}

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On places the time of day on the given civil date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, loc)
}

// ParseDate parses YYYY-MM-DD into a civil date (midnight UTC).
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return d, nil
}

// CivilDate drops the clock and zone of t, keeping the calendar day as seen in t's location.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
