package domain

import (
	"fmt"
	"strings"
	"time"
)

// Date and clock-time layouts used in schedule fields. Values are kept as
// strings end to end: they arrive from forms and are forwarded verbatim to
// the marketplace backend, which owns all date expansion.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD schedule date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Batch is a named recurring fixed-schedule cohort offered to FIXED-plan
// holders. EnrolledCount is server-maintained and never set client-side.
// swagger:model Batch
type Batch struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	DaysOfWeek      []Weekday  `json:"days_of_week"`
	Time            string     `json:"time"`
	DurationMinutes int        `json:"duration_minutes"`
	Capacity        int        `json:"capacity"`
	EnrolledCount   int        `json:"enrolled_count"`
	PlanTypes       []PlanType `json:"plan_types"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date,omitempty"`
	IsActive        bool       `json:"is_active"`
}

// Validate checks the batch's fields, fail-fast.
//
// PlanTypes is deliberately not cross-checked against the listing's current
// plan options: a batch may declare support for a plan type that has no plan
// yet, or whose plan was deleted. See PlanCompatibilityWarnings.
func (b *Batch) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return NewValidationError("batch name is required")
	}
	if err := validateDays(b.DaysOfWeek); err != nil {
		return err
	}
	if b.Time == "" {
		return NewValidationError("batch time is required")
	}
	if _, err := time.Parse(TimeLayout, b.Time); err != nil {
		return NewValidationError(fmt.Sprintf("invalid batch time: %q", b.Time))
	}
	if len(b.PlanTypes) == 0 {
		return NewValidationError("select at least one plan type")
	}
	for _, p := range b.PlanTypes {
		if !p.Valid() {
			return NewValidationError(fmt.Sprintf("unknown plan type: %q", string(p)))
		}
	}
	if b.Capacity < 1 {
		return NewValidationError("batch capacity must be at least one")
	}
	if b.EnrolledCount < 0 || b.EnrolledCount > b.Capacity {
		return NewValidationError("enrolled count must be between zero and capacity")
	}
	if b.StartDate == "" {
		return NewValidationError("batch start date is required")
	}
	start, err := ParseDate(b.StartDate)
	if err != nil {
		return NewValidationError(fmt.Sprintf("invalid batch start date: %q", b.StartDate))
	}
	if b.EndDate != "" {
		end, err := ParseDate(b.EndDate)
		if err != nil {
			return NewValidationError(fmt.Sprintf("invalid batch end date: %q", b.EndDate))
		}
		if end.Before(start) {
			return NewValidationError("batch end date must not be before start date")
		}
	}
	return nil
}

// PlanCompatibilityWarnings returns a human-readable warning for each of the
// batch's plan types that no current plan option carries with FIXED timing.
// These are warnings only; stale references are accepted.
func (b *Batch) PlanCompatibilityWarnings(plans []PlanOption) []string {
	fixed := make(map[PlanType]struct{})
	for _, p := range plans {
		if p.TimingType == TimingFixed {
			fixed[p.PlanType] = struct{}{}
		}
	}
	var warnings []string
	for _, pt := range b.PlanTypes {
		if _, ok := fixed[pt]; !ok {
			warnings = append(warnings, fmt.Sprintf("no fixed-timing %s plan exists for batch %q", pt, b.Name))
		}
	}
	return warnings
}
