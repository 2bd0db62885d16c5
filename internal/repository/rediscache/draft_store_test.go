package rediscache

import (
	"testing"

	"classlisting/internal/domain"

	"github.com/stretchr/testify/require"
)

func basePrice(v float64) *float64 { return &v }

// A cached snapshot must survive encode/decode with deep equality, including
// nested plan options, batches, and the session rule.
func TestSnapshotRoundTrip(t *testing.T) {
	snap := &domain.DraftSnapshot{
		ListingData: domain.ListingDraft{
			BasicInfo: domain.BasicInfo{
				Title:       "Junior Robotics Lab",
				Description: "Hands-on robotics for ages 8-12",
				CategoryID:  "cat-stem",
				Format:      domain.FormatOffline,
				VenueID:     "venue-7",
			},
			AgeRange:        domain.AgeRange{Min: 8, Max: 12},
			DurationMinutes: 90,
			Pricing:         domain.Pricing{BasePrice: basePrice(499), HasTrial: true, TrialPrice: 99},
			Media:           []domain.MediaItem{{Ref: "asset-1"}, {Payload: "ZGF0YQ=="}},
			PlanOptions: []domain.PlanOption{
				{
					ID:            "plan-1",
					PlanType:      domain.PlanWeekly,
					TimingType:    domain.TimingFixed,
					Name:          "Weekly cohort",
					SessionsCount: 4,
					PriceINR:      1800,
					ValidityDays:  30,
				},
				{
					ID:            "plan-2",
					PlanType:      domain.PlanSingle,
					TimingType:    domain.TimingFlexible,
					Name:          "Drop-in",
					SessionsCount: 1,
					PriceINR:      500,
					ValidityDays:  7,
				},
			},
			Batches: []domain.Batch{
				{
					ID:              "batch-1",
					Name:            "Evening cohort",
					DaysOfWeek:      []domain.Weekday{domain.Monday, domain.Wednesday},
					Time:            "17:30",
					DurationMinutes: 90,
					Capacity:        12,
					PlanTypes:       []domain.PlanType{domain.PlanWeekly},
					StartDate:       "2026-09-01",
					EndDate:         "2026-12-15",
					IsActive:        true,
				},
			},
			SessionRule: &domain.SlotGenerationRule{
				StartDate:       "2026-09-01",
				EndDate:         "2026-11-30",
				DaysOfWeek:      []domain.Weekday{domain.Saturday, domain.Sunday},
				DurationMinutes: 60,
				TimeSlots:       []domain.TimeSlot{{Time: "10:00", Seats: 10}, {Time: "16:00", Seats: 8}},
			},
		},
		Step:                  domain.StepBatchesOrSlots,
		SelectedCategoryIndex: 2,
	}
	snap.SessionConfig = snap.ListingData.SessionRule

	data, err := encodeSnapshot(snap)
	require.NoError(t, err)

	got, err := decodeSnapshot(data)
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	_, err := decodeSnapshot([]byte(`{"listingData": not-json`))
	require.Error(t, err)
}

func TestDraftKey(t *testing.T) {
	require.Equal(t, "listing_draft:partner-1", draftKey("partner-1"))
}
