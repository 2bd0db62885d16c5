package services

import (
	"github.com/google/uuid"

	"classlisting/internal/domain"
)

// PlanOptionsService manages the plan-option list of a draft. Operations are
// pure list transforms: they return the new slice and never mutate their
// input, so the caller owns persistence of the result.
type PlanOptionsService struct{}

// NewPlanOptionsService creates a PlanOptionsService.
func NewPlanOptionsService() *PlanOptionsService {
	return &PlanOptionsService{}
}

// Add validates the plan and appends it with a fresh client-side ID. The ID
// is replaced by the server after creation. There is no partial add: a
// validation failure leaves the list untouched.
func (s *PlanOptionsService) Add(plans []domain.PlanOption, plan domain.PlanOption) ([]domain.PlanOption, error) {
	if plan.TimingType == "" {
		plan.TimingType = domain.TimingFlexible
	}
	if !plan.TimingType.Valid() {
		return nil, domain.NewValidationError("timing type must be FIXED or FLEXIBLE")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	plan.ID = uuid.NewString()
	out := make([]domain.PlanOption, 0, len(plans)+1)
	out = append(out, plans...)
	out = append(out, plan)
	return out, nil
}

// Update replaces the plan matching the given ID in place; order and other
// entries are unaffected. Updating an unknown ID is an error.
func (s *PlanOptionsService) Update(plans []domain.PlanOption, plan domain.PlanOption) ([]domain.PlanOption, error) {
	if plan.TimingType == "" {
		plan.TimingType = domain.TimingFlexible
	}
	if !plan.TimingType.Valid() {
		return nil, domain.NewValidationError("timing type must be FIXED or FLEXIBLE")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	out := append([]domain.PlanOption(nil), plans...)
	for i := range out {
		if out[i].ID == plan.ID {
			out[i] = plan
			return out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes the plan with the given ID. Batch plan-type references are
// deliberately not cascade-cleaned: batches may keep declaring a plan type
// whose plan was deleted.
func (s *PlanOptionsService) Delete(plans []domain.PlanOption, id string) ([]domain.PlanOption, error) {
	out := make([]domain.PlanOption, 0, len(plans))
	found := false
	for _, p := range plans {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return out, nil
}
