package services

import (
	"github.com/google/uuid"

	"classlisting/internal/domain"
)

// BatchService manages the batch list of a draft. Like PlanOptionsService,
// operations are pure list transforms over the caller's state.
type BatchService struct{}

// NewBatchService creates a BatchService.
func NewBatchService() *BatchService {
	return &BatchService{}
}

// Add validates the batch and appends it with a fresh client-side ID. Batch
// creation is rejected outright while the draft has no plan options: there is
// nothing a batch could be booked against yet. A validation failure leaves
// the list untouched.
func (s *BatchService) Add(batches []domain.Batch, plans []domain.PlanOption, batch domain.Batch) ([]domain.Batch, error) {
	if len(plans) == 0 {
		return nil, domain.NewValidationError("create a plan option before adding batches")
	}
	batch.EnrolledCount = 0 // server-maintained
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	batch.ID = uuid.NewString()
	out := make([]domain.Batch, 0, len(batches)+1)
	out = append(out, batches...)
	out = append(out, batch)
	return out, nil
}

// Update replaces the batch matching the given ID in place, preserving the
// server-maintained enrolled count of the existing entry.
func (s *BatchService) Update(batches []domain.Batch, plans []domain.PlanOption, batch domain.Batch) ([]domain.Batch, error) {
	if len(plans) == 0 {
		return nil, domain.NewValidationError("create a plan option before adding batches")
	}
	out := append([]domain.Batch(nil), batches...)
	for i := range out {
		if out[i].ID == batch.ID {
			batch.EnrolledCount = out[i].EnrolledCount
			if err := batch.Validate(); err != nil {
				return nil, err
			}
			out[i] = batch
			return out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes the batch with the given ID. No cascade to plans.
func (s *BatchService) Delete(batches []domain.Batch, id string) ([]domain.Batch, error) {
	out := make([]domain.Batch, 0, len(batches))
	found := false
	for _, b := range batches {
		if b.ID == id {
			found = true
			continue
		}
		out = append(out, b)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

// Warnings collects plan-compatibility warnings across all batches. Stale
// plan-type references are surfaced here, never rejected.
func (s *BatchService) Warnings(batches []domain.Batch, plans []domain.PlanOption) []string {
	var out []string
	for i := range batches {
		out = append(out, batches[i].PlanCompatibilityWarnings(plans)...)
	}
	return out
}
