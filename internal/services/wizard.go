package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"classlisting/internal/domain"
)

type wizardService struct {
	store          domain.DraftStore
	api            domain.MarketplaceAPI
	partnerRepo    domain.PartnerRepository
	mailer         domain.Mailer
	logger         *slog.Logger
	contextTimeout time.Duration

	mu     sync.Mutex
	active map[string]*domain.WizardState // one active wizard per partner
}

// NewWizardService creates the wizard orchestrator. partnerRepo and mailer
// may be nil; the submission confirmation email is then skipped.
func NewWizardService(store domain.DraftStore, api domain.MarketplaceAPI, partnerRepo domain.PartnerRepository, mailer domain.Mailer, logger *slog.Logger, timeout time.Duration) domain.WizardService {
	return &wizardService{
		store:          store,
		api:            api,
		partnerRepo:    partnerRepo,
		mailer:         mailer,
		logger:         logger,
		contextTimeout: timeout,
		active:         make(map[string]*domain.WizardState),
	}
}

func (s *wizardService) Open(ctx context.Context, partnerID, listingID string) (*domain.WizardState, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if listingID != "" {
		draft, err := s.api.GetListing(ctx, listingID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load listing %s: %w", listingID, err)
		}
		state := &domain.WizardState{Draft: *draft, Step: domain.StepBasicInfo, EditMode: true}
		state.Draft.ListingID = listingID
		s.setActive(partnerID, state)
		return s.snapshotState(state), false, nil
	}

	state := &domain.WizardState{Step: domain.StepBasicInfo}
	restored := false
	snap, err := s.store.Load(ctx, partnerID)
	switch {
	case err == nil && snap != nil:
		state.Draft = snap.ListingData
		state.Step = snap.Step
		state.SelectedCategoryIndex = snap.SelectedCategoryIndex
		if snap.SessionConfig != nil {
			state.Draft.SessionRule = snap.SessionConfig
		}
		restored = true
	case err != nil:
		// A missing or unreadable cached draft means a fresh wizard, never a crash.
		s.logger.DebugContext(ctx, "no draft restored", "partner_id", partnerID, "err", err)
	}
	s.setActive(partnerID, state)
	return s.snapshotState(state), restored, nil
}

func (s *wizardService) Get(ctx context.Context, partnerID string) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.active[partnerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.snapshotState(state), nil
}

func (s *wizardService) UpdateDraft(ctx context.Context, partnerID string, mutate func(*domain.ListingDraft) error) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.active[partnerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := mutate(&state.Draft); err != nil {
		return nil, err
	}
	s.autosave(ctx, partnerID, state)
	return s.snapshotState(state), nil
}

func (s *wizardService) SetCategoryIndex(ctx context.Context, partnerID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.active[partnerID]
	if !ok {
		return domain.ErrNotFound
	}
	state.SelectedCategoryIndex = index
	s.autosave(ctx, partnerID, state)
	return nil
}

// stepGuard returns the validation error blocking advancement out of the
// current step, or nil when the step is complete. Calling it repeatedly on an
// unchanged draft yields the same first error every time.
func stepGuard(state *domain.WizardState) error {
	d := &state.Draft
	switch state.Step {
	case domain.StepBasicInfo:
		return d.ValidateBasicInfo()
	case domain.StepAgeDuration:
		if d.AgeRange.Min < 0 {
			return domain.NewValidationError("minimum age must not be negative")
		}
		if d.AgeRange.Max <= 0 {
			return domain.NewValidationError("age range is required")
		}
		if d.AgeRange.Min > d.AgeRange.Max {
			return domain.NewValidationError("minimum age must not exceed maximum age")
		}
		if d.DurationMinutes <= 0 {
			return domain.NewValidationError("session duration is required")
		}
		return nil
	case domain.StepPricing:
		if d.Pricing.BasePrice == nil {
			return domain.NewValidationError("base price is required")
		}
		if *d.Pricing.BasePrice < 0 {
			return domain.NewValidationError("base price must not be negative")
		}
		if d.Pricing.HasTrial && d.Pricing.TrialPrice < 0 {
			return domain.NewValidationError("trial price must not be negative")
		}
		return nil
	case domain.StepMedia:
		if len(d.Media) == 0 {
			return domain.NewValidationError("add at least one photo or video")
		}
		if len(d.Media) > domain.MaxMediaAttachments {
			return domain.NewValidationError(fmt.Sprintf("at most %d attachments are allowed", domain.MaxMediaAttachments))
		}
		return nil
	case domain.StepPlanOptions:
		if len(d.PlanOptions) == 0 {
			return domain.NewValidationError("add at least one plan option")
		}
		return nil
	case domain.StepBatchesOrSlots:
		// Both conditions are enforced independently; a draft with mixed
		// plan timings must satisfy both.
		if d.HasFixedPlans() && len(d.Batches) == 0 {
			return domain.NewValidationError("please create at least one batch")
		}
		if d.HasFlexiblePlans() && d.SessionRule == nil {
			return domain.NewValidationError("please configure session availability")
		}
		return nil
	}
	return nil
}

func (s *wizardService) Next(ctx context.Context, partnerID string) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.active[partnerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if state.Step >= domain.StepReview {
		return nil, domain.NewValidationError("already at the review step")
	}
	if err := stepGuard(state); err != nil {
		return nil, err
	}
	state.Step++
	s.autosave(ctx, partnerID, state)
	return s.snapshotState(state), nil
}

// Back is unconditional and performs no validation.
func (s *wizardService) Back(ctx context.Context, partnerID string) (*domain.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.active[partnerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if state.Step > domain.StepBasicInfo {
		state.Step--
	}
	s.autosave(ctx, partnerID, state)
	return s.snapshotState(state), nil
}

func (s *wizardService) Submit(ctx context.Context, partnerID string) (*domain.SubmissionReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.active[partnerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if state.Step != domain.StepReview {
		return nil, domain.NewValidationError("complete all steps before submitting")
	}
	draft := state.Draft

	if state.EditMode {
		if err := s.api.UpdateListing(ctx, draft.ListingID, &draft); err != nil {
			return nil, fmt.Errorf("failed to update listing: %w", err)
		}
		report := &domain.SubmissionReport{Created: true, ListingID: draft.ListingID}
		s.finish(ctx, partnerID, &draft, report)
		return report, nil
	}

	// The primary create is all-or-nothing: on failure the draft and its
	// cache are preserved and the wizard stays on the review step.
	listingID, err := s.api.CreateListing(ctx, &draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	report := &domain.SubmissionReport{Created: true, ListingID: listingID}

	// Child entities are best-effort: each failure is recorded and the flow
	// continues. The listing exists even if some children failed to attach.
	if draft.SessionRule != nil {
		if err := s.api.BulkCreateSessions(ctx, listingID, draft.SessionRule); err != nil {
			report.SessionRuleError = err.Error()
			s.logger.WarnContext(ctx, "bulk-create sessions failed", "listing_id", listingID, "err", err)
		}
	}
	for i := range draft.PlanOptions {
		plan := draft.PlanOptions[i]
		if err := s.api.CreatePlanOption(ctx, listingID, &plan); err != nil {
			report.FailedPlans = append(report.FailedPlans, domain.ItemFailure{ID: plan.ID, Name: plan.Name, Error: err.Error()})
			s.logger.WarnContext(ctx, "plan option create failed", "listing_id", listingID, "plan", plan.Name, "err", err)
		}
	}
	for i := range draft.Batches {
		batch := draft.Batches[i]
		if err := s.api.CreateBatch(ctx, listingID, &batch); err != nil {
			report.FailedBatches = append(report.FailedBatches, domain.ItemFailure{ID: batch.ID, Name: batch.Name, Error: err.Error()})
			s.logger.WarnContext(ctx, "batch create failed", "listing_id", listingID, "batch", batch.Name, "err", err)
		}
	}

	s.finish(ctx, partnerID, &draft, report)
	return report, nil
}

func (s *wizardService) Cancel(ctx context.Context, partnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, partnerID)
	if err := s.store.Clear(ctx, partnerID); err != nil {
		return fmt.Errorf("failed to clear draft cache: %w", err)
	}
	return nil
}

// finish runs after a successful top-level submission: the ephemeral draft
// cache is cleared, the active wizard is dropped, and the partner is emailed.
// All of it is best-effort.
func (s *wizardService) finish(ctx context.Context, partnerID string, draft *domain.ListingDraft, report *domain.SubmissionReport) {
	delete(s.active, partnerID)
	if err := s.store.Clear(ctx, partnerID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear draft cache", "partner_id", partnerID, "err", err)
	}
	if s.mailer == nil || s.partnerRepo == nil {
		return
	}
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load partner for confirmation email", "partner_id", partnerID, "err", err)
		return
	}
	data := &domain.ListingSubmittedEmailData{
		Email:        partner.Email,
		PartnerName:  partner.Name,
		ListingTitle: draft.BasicInfo.Title,
		ListingID:    report.ListingID,
	}
	if err := s.mailer.SendListingSubmitted(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "failed to send confirmation email", "partner_id", partnerID, "err", err)
	}
}

// autosave persists the draft snapshot in create mode. Edit mode is excluded
// so a stale cached draft can never clobber server-sourced data. Failures are
// logged and swallowed; a save miss only loses restore convenience.
func (s *wizardService) autosave(ctx context.Context, partnerID string, state *domain.WizardState) {
	if state.EditMode {
		return
	}
	snap := &domain.DraftSnapshot{
		ListingData:           state.Draft,
		Step:                  state.Step,
		SelectedCategoryIndex: state.SelectedCategoryIndex,
		SessionConfig:         state.Draft.SessionRule,
	}
	if err := s.store.Save(ctx, partnerID, snap); err != nil {
		s.logger.WarnContext(ctx, "draft autosave failed", "partner_id", partnerID, "err", err)
	}
}

func (s *wizardService) setActive(partnerID string, state *domain.WizardState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[partnerID] = state
}

// snapshotState returns a shallow copy so callers cannot mutate the active
// state without going through the service.
func (s *wizardService) snapshotState(state *domain.WizardState) *domain.WizardState {
	out := *state
	return &out
}
