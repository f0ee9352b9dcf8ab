package usecase

import (
	"time"

	"appointment-booking/internal/data/entity"
)

// partitionWindow splits [start, end) into back-to-back slots of the given duration,
// anchored at start. A trailing remainder shorter than duration yields no slot.
func partitionWindow(start, end entity.TimeOfDay, duration time.Duration) []entity.TimeOfDay {
	step := entity.TimeOfDay(duration / time.Minute)
	if step <= 0 {
		return nil
	}

	var starts []entity.TimeOfDay
	for t := start; t+step <= end; t += step {
		starts = append(starts, t)
	}
	return starts
}

// overlaps compares half-open intervals, so a slot ending exactly when a booking starts is free.
func overlaps(start entity.TimeOfDay, duration time.Duration, existing entity.BookedInterval) bool {
	end := start.Add(duration)
	return start < existing.End() && end > existing.Start
}

func conflictsWithAny(start entity.TimeOfDay, duration time.Duration, booked []entity.BookedInterval) bool {
	for _, existing := range booked {
		if overlaps(start, duration, existing) {
			return true
		}
	}
	return false
}
