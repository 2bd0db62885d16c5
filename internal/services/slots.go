package services

import "classlisting/internal/domain"

// SlotRuleService edits and finalizes a draft's slot generation rule. The
// rule is only validated and normalized here; expansion into concrete
// sessions is the marketplace backend's job.
type SlotRuleService struct{}

// NewSlotRuleService creates a SlotRuleService.
func NewSlotRuleService() *SlotRuleService {
	return &SlotRuleService{}
}

// NewRule returns a rule pre-populated with one default time slot.
func (s *SlotRuleService) NewRule() domain.SlotGenerationRule {
	return domain.SlotGenerationRule{
		DurationMinutes: domain.DefaultSlotDurationMinutes,
		TimeSlots: []domain.TimeSlot{
			{Time: domain.DefaultSlotTime, Seats: domain.DefaultSlotSeats},
		},
	}
}

// AddSlot appends a new default time slot.
func (s *SlotRuleService) AddSlot(rule domain.SlotGenerationRule) domain.SlotGenerationRule {
	rule.TimeSlots = append(append([]domain.TimeSlot(nil), rule.TimeSlots...),
		domain.TimeSlot{Time: domain.DefaultSlotTime, Seats: domain.DefaultSlotSeats})
	return rule
}

// RemoveSlot removes the slot at index i. Removing the last remaining slot
// is a no-op: the rule always keeps at least one slot. Out-of-range indexes
// are also no-ops.
func (s *SlotRuleService) RemoveSlot(rule domain.SlotGenerationRule, i int) domain.SlotGenerationRule {
	if len(rule.TimeSlots) <= 1 || i < 0 || i >= len(rule.TimeSlots) {
		return rule
	}
	slots := make([]domain.TimeSlot, 0, len(rule.TimeSlots)-1)
	slots = append(slots, rule.TimeSlots[:i]...)
	slots = append(slots, rule.TimeSlots[i+1:]...)
	rule.TimeSlots = slots
	return rule
}

// Finalize validates the rule fail-fast and, on success, returns the
// normalized rule ready to attach to the draft.
func (s *SlotRuleService) Finalize(rule domain.SlotGenerationRule) (domain.SlotGenerationRule, error) {
	if err := rule.Validate(); err != nil {
		return domain.SlotGenerationRule{}, err
	}
	return rule.Normalize(), nil
}
