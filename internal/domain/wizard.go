package domain

import "context"

// WizardStep is one of the seven ordered states of the listing wizard.
// Steps are linear: no branching, no skipping.
type WizardStep int

const (
	StepBasicInfo WizardStep = iota
	StepAgeDuration
	StepPricing
	StepMedia
	StepPlanOptions
	StepBatchesOrSlots
	StepReview
)

// String returns the step's display name.
func (s WizardStep) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepAgeDuration:
		return "age_duration"
	case StepPricing:
		return "pricing"
	case StepMedia:
		return "media"
	case StepPlanOptions:
		return "plan_options"
	case StepBatchesOrSlots:
		return "batches_or_slots"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// DraftSnapshot is the unit persisted to the draft cache on every mutation
// in create mode: the whole draft plus where the partner was in the wizard.
type DraftSnapshot struct {
	ListingData           ListingDraft        `json:"listingData"`
	Step                  WizardStep          `json:"step"`
	SelectedCategoryIndex int                 `json:"selectedCategoryIndex"`
	SessionConfig         *SlotGenerationRule `json:"sessionConfig,omitempty"`
}

// DraftStore persists one in-progress draft snapshot per partner. Writes are
// last-write-wins and the store is ephemeral: entries may expire. A Load with
// no entry returns ErrNotFound.
type DraftStore interface {
	Save(ctx context.Context, partnerID string, snap *DraftSnapshot) error
	Load(ctx context.Context, partnerID string) (*DraftSnapshot, error)
	Clear(ctx context.Context, partnerID string) error
}

// ItemFailure records one child-entity creation that failed during submission.
type ItemFailure struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// SubmissionReport is the aggregate outcome of the submission sequence.
// Created is true whenever the primary listing call succeeded; child-entity
// failures are recorded rather than aborting the flow.
// swagger:model SubmissionReport
type SubmissionReport struct {
	Created          bool          `json:"created"`
	ListingID        string        `json:"listing_id"`
	SessionRuleError string        `json:"session_rule_error,omitempty"`
	FailedPlans      []ItemFailure `json:"failed_plans,omitempty"`
	FailedBatches    []ItemFailure `json:"failed_batches,omitempty"`
}

// Complete reports whether every sub-operation succeeded.
func (r *SubmissionReport) Complete() bool {
	return r.Created && r.SessionRuleError == "" && len(r.FailedPlans) == 0 && len(r.FailedBatches) == 0
}

// WizardState is one partner's active wizard: the draft being assembled, the
// current step, and whether the wizard was opened on an existing listing.
type WizardState struct {
	Draft                 ListingDraft `json:"draft"`
	Step                  WizardStep   `json:"step"`
	SelectedCategoryIndex int          `json:"selected_category_index"`
	EditMode              bool         `json:"edit_mode"`
}

// WizardService drives the listing wizard: step guards, draft mutation with
// auto-save, and the final submission sequence.
type WizardService interface {
	// Open starts or resumes a wizard. With a listingID it hydrates from the
	// marketplace (edit mode); otherwise it attempts to restore a cached
	// draft and reports whether one was restored.
	Open(ctx context.Context, partnerID, listingID string) (*WizardState, bool, error)
	Get(ctx context.Context, partnerID string) (*WizardState, error)
	UpdateDraft(ctx context.Context, partnerID string, mutate func(*ListingDraft) error) (*WizardState, error)
	SetCategoryIndex(ctx context.Context, partnerID string, index int) error
	Next(ctx context.Context, partnerID string) (*WizardState, error)
	Back(ctx context.Context, partnerID string) (*WizardState, error)
	Submit(ctx context.Context, partnerID string) (*SubmissionReport, error)
	Cancel(ctx context.Context, partnerID string) error
}
