package domain

import (
	"fmt"
	"strings"
)

// PlanType identifies the purchasable package kind.
type PlanType string

const (
	PlanTrial   PlanType = "trial"
	PlanSingle  PlanType = "single"
	PlanWeekly  PlanType = "weekly"
	PlanMonthly PlanType = "monthly"
)

// ParsePlanType parses a plan type name. Unknown names are an explicit error
// rather than a silent default.
func ParsePlanType(s string) (PlanType, error) {
	p := PlanType(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlanTrial, PlanSingle, PlanWeekly, PlanMonthly:
		return p, nil
	}
	return "", fmt.Errorf("unknown plan type: %q", s)
}

// Valid reports whether p is a known plan type.
func (p PlanType) Valid() bool {
	switch p {
	case PlanTrial, PlanSingle, PlanWeekly, PlanMonthly:
		return true
	}
	return false
}

// TimingType determines how a plan's sessions are scheduled: FIXED plans book
// into a recurring Batch, FLEXIBLE plans redeem against slots generated from
// the listing's SlotGenerationRule.
type TimingType string

const (
	TimingFixed    TimingType = "FIXED"
	TimingFlexible TimingType = "FLEXIBLE"
)

// Valid reports whether t is a known timing type.
func (t TimingType) Valid() bool {
	return t == TimingFixed || t == TimingFlexible
}

// PlanOption is a purchasable package on a listing.
// The ID is client-generated on add and replaced by the server after creation.
// swagger:model PlanOption
type PlanOption struct {
	ID              string     `json:"id"`
	PlanType        PlanType   `json:"plan_type"`
	TimingType      TimingType `json:"timing_type"`
	Name            string     `json:"name"`
	SessionsCount   int        `json:"sessions_count"`
	PriceINR        float64    `json:"price_inr"`
	DiscountPercent float64    `json:"discount_percent"`
	ValidityDays    int        `json:"validity_days"`
}

// Validate checks the plan's fields, fail-fast. TimingType is not checked
// here: an empty value is defaulted to FLEXIBLE by the service before
// validation.
func (p *PlanOption) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("plan name is required")
	}
	if !p.PlanType.Valid() {
		return NewValidationError(fmt.Sprintf("unknown plan type: %q", string(p.PlanType)))
	}
	if p.PriceINR < 0 {
		return NewValidationError("plan price must not be negative")
	}
	if p.SessionsCount < 1 {
		return NewValidationError("plan must include at least one session")
	}
	if p.DiscountPercent < 0 {
		return NewValidationError("discount must not be negative")
	}
	if p.ValidityDays < 1 {
		return NewValidationError("plan validity must be at least one day")
	}
	return nil
}
