package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"appointment-booking/internal/data/entity"
	"appointment-booking/pkg/apperror"
)

const nextMonday = "2026-10-26"

func TestPartitionWindow(t *testing.T) {
	start, _ := entity.ParseTimeOfDay("09:00")
	end, _ := entity.ParseTimeOfDay("10:40")

	got := partitionWindow(start, end, 30*time.Minute)
	var rendered []string
	for _, s := range got {
		rendered = append(rendered, s.String())
		if s.Add(30*time.Minute) > end {
			t.Fatalf("slot %s crosses window end %s", s, end)
		}
	}

	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(rendered, want) {
		t.Fatalf("partitionWindow() = %v, want %v", rendered, want)
	}

	if got := partitionWindow(start, end, 0); got != nil {
		t.Fatalf("zero duration must yield no slots, got %v", got)
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	nine, _ := entity.ParseTimeOfDay("09:00")
	existing := entity.BookedInterval{Start: nine, Duration: 30 * time.Minute}

	tests := []struct {
		start string
		dur   time.Duration
		want  bool
	}{
		{"08:30", 30 * time.Minute, false}, // ends exactly at 09:00
		{"09:30", 30 * time.Minute, false}, // starts exactly at 09:30
		{"09:00", 30 * time.Minute, true},
		{"09:15", 30 * time.Minute, true},
		{"08:45", 60 * time.Minute, true},
		{"08:00", 2 * time.Hour, true},
	}

	for _, tt := range tests {
		start, _ := entity.ParseTimeOfDay(tt.start)
		if got := overlaps(start, tt.dur, existing); got != tt.want {
			t.Errorf("overlaps(%s, %s) = %v, want %v", tt.start, tt.dur, got, tt.want)
		}
	}
}

func TestAvailableSlotsScenario(t *testing.T) {
	st := newStore()
	svc := st.addService("Haircut", 30)
	staff := st.addStaff("Sam", true)
	st.addRule(staff.ID, entity.Monday, "09:00", "10:00", true)

	slots := newTestService(st, fixedClock(8, 0)).Slot
	ctx := context.Background()
	date := mustDate(nextMonday)

	got, err := slots.AvailableSlots(ctx, date, svc.ID, staff)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}
	if want := []string{"09:00", "09:30"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableSlots() = %v, want %v", got, want)
	}

	st.addBooking(svc.ID, staff.ID, date, "09:00")

	got, err = slots.AvailableSlots(ctx, date, svc.ID, staff)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}
	if want := []string{"09:30"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after booking AvailableSlots() = %v, want %v", got, want)
	}
}

func TestAvailableSlotsUsesExistingServiceDuration(t *testing.T) {
	st := newStore()
	short := st.addService("Trim", 30)
	long := st.addService("Colour", 90)
	staff := st.addStaff("Sam", true)
	st.addRule(staff.ID, entity.Monday, "09:00", "12:00", true)
	date := mustDate(nextMonday)

	// A 90 minute booking at 09:00 blocks 09:00-10:30.
	st.addBooking(long.ID, staff.ID, date, "09:00")

	got, err := newTestService(st, fixedClock(8, 0)).Slot.AvailableSlots(context.Background(), date, short.ID, staff)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}
	if want := []string{"10:30", "11:00", "11:30"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableSlots() = %v, want %v", got, want)
	}
}

func TestAvailableSlotsNoRuleDay(t *testing.T) {
	st := newStore()
	svc := st.addService("Haircut", 30)
	staff := st.addStaff("Sam", true)
	st.addRule(staff.ID, entity.Monday, "09:00", "17:00", true)
	st.addRule(staff.ID, entity.Tuesday, "09:00", "17:00", false)

	slots := newTestService(st, fixedClock(8, 0)).Slot

	for _, day := range []string{"2026-10-27", "2026-10-28", "2026-11-01"} {
		got, err := slots.AvailableSlots(context.Background(), mustDate(day), svc.ID, staff)
		if err != nil {
			t.Fatalf("AvailableSlots(%s) error = %v", day, err)
		}
		if len(got) != 0 {
			t.Fatalf("AvailableSlots(%s) = %v, want empty", day, got)
		}
	}
}

func TestAvailableSlotsUnknownServiceAndInactiveStaff(t *testing.T) {
	st := newStore()
	svc := st.addService("Haircut", 30)
	active := st.addStaff("Sam", true)
	inactive := st.addStaff("Alex", false)
	st.addRule(active.ID, entity.Monday, "09:00", "10:00", true)
	st.addRule(inactive.ID, entity.Monday, "09:00", "10:00", true)

	slots := newTestService(st, fixedClock(8, 0)).Slot
	date := mustDate(nextMonday)

	got, err := slots.AvailableSlots(context.Background(), date, 999, active)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("unknown service: got %v, %v; want empty slice", got, err)
	}

	got, err = slots.AvailableSlots(context.Background(), date, svc.ID, inactive)
	if err != nil || len(got) != 0 {
		t.Fatalf("inactive staff: got %v, %v; want empty slice", got, err)
	}
}

func TestAvailableSlotsTodayDropsStartedSlots(t *testing.T) {
	st := newStore()
	svc := st.addService("Haircut", 30)
	staff := st.addStaff("Sam", true)
	st.addRule(staff.ID, entity.Monday, "09:00", "11:00", true)

	// Now is exactly 09:30 on the rule's day: 09:00 and 09:30 are no longer in the future.
	slots := newTestService(st, fixedClock(9, 30)).Slot
	got, err := slots.AvailableSlots(context.Background(), mustDate("2026-10-19"), svc.ID, staff)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}
	if want := []string{"10:00", "10:30"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableSlots() = %v, want %v", got, want)
	}
}

func TestAvailableSlotsKeepsDuplicatesAcrossRules(t *testing.T) {
	st := newStore()
	svc := st.addService("Haircut", 30)
	staff := st.addStaff("Sam", true)
	st.addRule(staff.ID, entity.Monday, "09:00", "10:00", true)
	st.addRule(staff.ID, entity.Monday, "09:30", "10:30", true)

	got, err := newTestService(st, fixedClock(8, 0)).Slot.AvailableSlots(context.Background(), mustDate(nextMonday), svc.ID, staff)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}
	if want := []string{"09:00", "09:30", "09:30", "10:00"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableSlots() = %v, want %v", got, want)
	}
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	st := newStore()
	svc := st.addService("Massage", 45)
	staff := st.addStaff("Sam", true)
	st.addRule(staff.ID, entity.Monday, "08:00", "12:00", true)
	st.addRule(staff.ID, entity.Monday, "13:00", "17:00", true)
	date := mustDate(nextMonday)
	st.addBooking(svc.ID, staff.ID, date, "08:45")

	slots := newTestService(st, fixedClock(8, 0)).Slot
	first, err := slots.AvailableSlots(context.Background(), date, svc.ID, staff)
	if err != nil {
		t.Fatalf("first call error = %v", err)
	}
	second, err := slots.AvailableSlots(context.Background(), date, svc.ID, staff)
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
}

func TestHasConflict(t *testing.T) {
	st := newStore()
	svc := st.addService("Haircut", 30)
	staff := st.addStaff("Sam", true)
	date := mustDate(nextMonday)
	st.addBooking(svc.ID, staff.ID, date, "09:00")

	slots := newTestService(st, fixedClock(8, 0)).Slot
	at := func(s string) entity.TimeOfDay {
		v, _ := entity.ParseTimeOfDay(s)
		return v
	}

	if ok, _ := slots.HasConflict(context.Background(), date, at("09:15"), 30*time.Minute, staff.ID); !ok {
		t.Fatalf("09:15 should conflict with 09:00-09:30")
	}
	if ok, _ := slots.HasConflict(context.Background(), date, at("09:30"), 30*time.Minute, staff.ID); ok {
		t.Fatalf("09:30 should not conflict")
	}
	if ok, _ := slots.HasConflict(context.Background(), mustDate("2026-10-27"), at("09:00"), 30*time.Minute, staff.ID); ok {
		t.Fatalf("other dates should not conflict")
	}
}

func TestAvailableStaff(t *testing.T) {
	st := newStore()
	a := st.addStaff("Ann", true)
	b := st.addStaff("Bob", true)
	c := st.addStaff("Cid", false)
	d := st.addStaff("Dee", true)
	st.addRule(b.ID, entity.Monday, "09:00", "12:00", true)
	st.addRule(b.ID, entity.Monday, "13:00", "17:00", true)
	st.addRule(a.ID, entity.Monday, "09:00", "12:00", true)
	st.addRule(c.ID, entity.Monday, "09:00", "12:00", true)
	st.addRule(d.ID, entity.Monday, "09:00", "12:00", false)
	st.addRule(d.ID, entity.Tuesday, "09:00", "12:00", true)

	got, err := newTestService(st, fixedClock(8, 0)).Slot.AvailableStaff(context.Background(), mustDate(nextMonday))
	if err != nil {
		t.Fatalf("AvailableStaff() error = %v", err)
	}

	var ids []int64
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	if want := []int64{a.ID, b.ID}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("AvailableStaff() ids = %v, want %v", ids, want)
	}
}

func TestGetAvailableSlots(t *testing.T) {
	st := newStore()
	svc := st.addService("Haircut", 30)
	staff := st.addStaff("Sam", true)
	st.addRule(staff.ID, entity.Monday, "09:00", "10:00", true)
	slots := newTestService(st, fixedClock(8, 0)).Slot
	ctx := context.Background()

	past, err := slots.GetAvailableSlots(ctx, mustDate("2026-10-12"), 999, 999)
	if err != nil {
		t.Fatalf("past date error = %v", err)
	}
	if past.Slots == nil || len(past.Slots) != 0 {
		t.Fatalf("past date should give an empty list, got %v", past.Slots)
	}

	if _, err := slots.GetAvailableSlots(ctx, mustDate(nextMonday), svc.ID, 999); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("unknown staff: want not found, got %v", err)
	}
	if _, err := slots.GetAvailableSlots(ctx, mustDate(nextMonday), 999, staff.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("unknown service: want not found, got %v", err)
	}

	resp, err := slots.GetAvailableSlots(ctx, mustDate(nextMonday), svc.ID, staff.ID)
	if err != nil {
		t.Fatalf("GetAvailableSlots() error = %v", err)
	}
	if want := []string{"09:00", "09:30"}; !reflect.DeepEqual(resp.Slots, want) {
		t.Fatalf("GetAvailableSlots() = %v, want %v", resp.Slots, want)
	}
}
