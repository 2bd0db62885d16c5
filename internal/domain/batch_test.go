package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBatch() Batch {
	return Batch{
		ID:              "b1",
		Name:            "Morning batch",
		DaysOfWeek:      []Weekday{Monday, Wednesday, Friday},
		Time:            "09:00",
		DurationMinutes: 60,
		Capacity:        15,
		PlanTypes:       []PlanType{PlanWeekly},
		StartDate:       "2026-09-01",
		IsActive:        true,
	}
}

func TestBatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Batch)
		wantErr string
	}{
		{
			name:   "valid batch",
			mutate: func(b *Batch) {},
		},
		{
			name:    "blank name",
			mutate:  func(b *Batch) { b.Name = "   " },
			wantErr: "batch name is required",
		},
		{
			name:    "no days",
			mutate:  func(b *Batch) { b.DaysOfWeek = nil },
			wantErr: "select at least one day",
		},
		{
			name:    "missing time",
			mutate:  func(b *Batch) { b.Time = "" },
			wantErr: "batch time is required",
		},
		{
			name:    "malformed time",
			mutate:  func(b *Batch) { b.Time = "9am" },
			wantErr: `invalid batch time: "9am"`,
		},
		{
			name:    "no plan types",
			mutate:  func(b *Batch) { b.PlanTypes = nil },
			wantErr: "select at least one plan type",
		},
		{
			name:    "unknown plan type",
			mutate:  func(b *Batch) { b.PlanTypes = []PlanType{"yearly"} },
			wantErr: `unknown plan type: "yearly"`,
		},
		{
			name:    "zero capacity",
			mutate:  func(b *Batch) { b.Capacity = 0 },
			wantErr: "batch capacity must be at least one",
		},
		{
			name:    "enrolled above capacity",
			mutate:  func(b *Batch) { b.EnrolledCount = 16 },
			wantErr: "enrolled count must be between zero and capacity",
		},
		{
			name:    "missing start date",
			mutate:  func(b *Batch) { b.StartDate = "" },
			wantErr: "batch start date is required",
		},
		{
			name:    "end before start",
			mutate:  func(b *Batch) { b.EndDate = "2026-08-01" },
			wantErr: "batch end date must not be before start date",
		},
		{
			name:   "open-ended batch",
			mutate: func(b *Batch) { b.EndDate = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBatch()
			tt.mutate(&b)
			err := b.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestBatchPlanCompatibilityWarnings(t *testing.T) {
	plans := []PlanOption{
		{ID: "p1", PlanType: PlanWeekly, TimingType: TimingFixed},
		{ID: "p2", PlanType: PlanMonthly, TimingType: TimingFlexible},
	}

	b := validBatch()
	b.PlanTypes = []PlanType{PlanWeekly}
	assert.Empty(t, b.PlanCompatibilityWarnings(plans))

	// Referencing a plan type with no FIXED plan is accepted but warned about,
	// even when a FLEXIBLE plan of that type exists.
	b.PlanTypes = []PlanType{PlanWeekly, PlanMonthly, PlanTrial}
	warnings := b.PlanCompatibilityWarnings(plans)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "monthly")
	assert.Contains(t, warnings[1], "trial")

	// A batch referencing only stale plan types still validates.
	b.PlanTypes = []PlanType{PlanTrial}
	require.NoError(t, b.Validate())
	assert.Len(t, b.PlanCompatibilityWarnings(nil), 1)
}
