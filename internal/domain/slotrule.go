package domain

import (
	"fmt"
	"time"
)

// Defaults applied when normalizing a slot rule.
const (
	DefaultSlotDurationMinutes = 60
	DefaultSlotSeats           = 10
	DefaultSlotTime            = "10:00"
)

// TimeSlot is one recurring time-of-day with a per-occurrence seat capacity.
type TimeSlot struct {
	Time  string `json:"time"`
	Seats int    `json:"seats"`
}

// SlotGenerationRule specifies recurring availability for FLEXIBLE plans.
// It is a specification, not an expansion: the marketplace backend expands it
// into concrete bookable sessions; this service never materializes dates.
// swagger:model SlotGenerationRule
type SlotGenerationRule struct {
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	DaysOfWeek      []Weekday  `json:"days_of_week"`
	DurationMinutes int        `json:"duration_minutes"`
	TimeSlots       []TimeSlot `json:"time_slots"`
}

// Validate checks the rule fail-fast in a fixed order: start date, end date,
// day set, then each time slot in array order (time before seats). Only the
// first failing condition is reported.
func (r *SlotGenerationRule) Validate() error {
	if r.StartDate == "" {
		return NewValidationError("start date is required")
	}
	if r.EndDate == "" {
		return NewValidationError("end date is required")
	}
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return NewValidationError(fmt.Sprintf("invalid start date: %q", r.StartDate))
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return NewValidationError(fmt.Sprintf("invalid end date: %q", r.EndDate))
	}
	if end.Before(start) {
		return NewValidationError("end date must not be before start date")
	}
	if err := validateDays(r.DaysOfWeek); err != nil {
		return err
	}
	if len(r.TimeSlots) == 0 {
		return NewValidationError("add at least one time slot")
	}
	for i, slot := range r.TimeSlots {
		if slot.Time == "" {
			return NewValidationError(fmt.Sprintf("time is required for slot %d", i+1))
		}
		if _, err := time.Parse(TimeLayout, slot.Time); err != nil {
			return NewValidationError(fmt.Sprintf("invalid time for slot %d: %q", i+1, slot.Time))
		}
		if slot.Seats <= 0 {
			return NewValidationError(fmt.Sprintf("seats must be greater than zero for slot %d", i+1))
		}
	}
	return nil
}

// Normalize returns a copy of the rule with defaults applied: duration falls
// back to 60 minutes and non-positive seat counts fall back to 10 per slot.
func (r *SlotGenerationRule) Normalize() SlotGenerationRule {
	out := *r
	if out.DurationMinutes <= 0 {
		out.DurationMinutes = DefaultSlotDurationMinutes
	}
	out.DaysOfWeek = append([]Weekday(nil), r.DaysOfWeek...)
	out.TimeSlots = make([]TimeSlot, len(r.TimeSlots))
	for i, slot := range r.TimeSlots {
		if slot.Seats <= 0 {
			slot.Seats = DefaultSlotSeats
		}
		out.TimeSlots[i] = slot
	}
	return out
}
