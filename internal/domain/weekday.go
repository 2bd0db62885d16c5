package domain

import (
	"fmt"
	"strings"
)

// Weekday is a day-of-week name as used in batch and slot-rule schedules.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays lists every weekday in calendar order, Monday first.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday parses a day name (case-insensitive). Unknown names are an error.
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return d, nil
	}
	return "", fmt.Errorf("unknown weekday: %q", s)
}

// Valid reports whether d is one of the seven known weekdays.
func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Abbrev returns the capitalized 3-letter abbreviation, e.g. "Mon".
func (d Weekday) Abbrev() string {
	if len(d) < 3 {
		return string(d)
	}
	return strings.ToUpper(string(d[0])) + string(d[1:3])
}

// Day-set presets offered as quick selections when editing a schedule.
func WeekdaysPreset() []Weekday { return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday} }
func WeekendPreset() []Weekday  { return []Weekday{Saturday, Sunday} }
func EveryDayPreset() []Weekday { return append([]Weekday(nil), AllWeekdays...) }

// daySetEquals reports whether days contains exactly the members of want,
// ignoring order. Duplicate entries make the sets unequal.
func daySetEquals(days, want []Weekday) bool {
	if len(days) != len(want) {
		return false
	}
	seen := make(map[Weekday]struct{}, len(days))
	for _, d := range days {
		if _, dup := seen[d]; dup {
			return false
		}
		seen[d] = struct{}{}
	}
	for _, w := range want {
		if _, ok := seen[w]; !ok {
			return false
		}
	}
	return true
}

// FormatDays renders a day set for display. Named forms take precedence over
// enumeration, checked in order: all seven days, the five weekdays, the
// weekend pair, then an order-preserving comma list of abbreviations.
func FormatDays(days []Weekday) string {
	switch {
	case daySetEquals(days, AllWeekdays):
		return "Every day"
	case daySetEquals(days, WeekdaysPreset()):
		return "Weekdays"
	case daySetEquals(days, WeekendPreset()):
		return "Weekends"
	}
	abbrevs := make([]string, len(days))
	for i, d := range days {
		abbrevs[i] = d.Abbrev()
	}
	return strings.Join(abbrevs, ", ")
}

// validateDays checks that days is non-empty, contains only known weekdays,
// and has no duplicates. Returns the first failing condition.
func validateDays(days []Weekday) error {
	if len(days) == 0 {
		return NewValidationError("select at least one day")
	}
	seen := make(map[Weekday]struct{}, len(days))
	for _, d := range days {
		if !d.Valid() {
			return NewValidationError(fmt.Sprintf("unknown weekday: %q", string(d)))
		}
		if _, dup := seen[d]; dup {
			return NewValidationError(fmt.Sprintf("duplicate weekday: %s", d.Abbrev()))
		}
		seen[d] = struct{}{}
	}
	return nil
}
