package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlisting/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeDraftStore is an in-memory DraftStore for tests.
type fakeDraftStore struct {
	snaps    map[string]*domain.DraftSnapshot
	saveErr  error
	loadErr  error
	clearErr error
	saves    int
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{snaps: make(map[string]*domain.DraftSnapshot)}
}

func (f *fakeDraftStore) Save(ctx context.Context, partnerID string, snap *domain.DraftSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	cp := *snap
	f.snaps[partnerID] = &cp
	return nil
}

func (f *fakeDraftStore) Load(ctx context.Context, partnerID string) (*domain.DraftSnapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	snap, ok := f.snaps[partnerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *snap
	return &cp, nil
}

func (f *fakeDraftStore) Clear(ctx context.Context, partnerID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.snaps, partnerID)
	return nil
}

// fakeMarketplace records every call made during submission.
type fakeMarketplace struct {
	createListingErr error
	updateErr        error
	sessionsErr      error
	planErrs         map[string]error // keyed by plan name
	batchErrs        map[string]error // keyed by batch name

	createdListing  *domain.ListingDraft
	updatedListing  *domain.ListingDraft
	updatedID       string
	sessionRule     *domain.SlotGenerationRule
	createdPlans    []string
	createdBatches  []string
	listingByID     map[string]*domain.ListingDraft
	categories      []domain.Category
	venues          []domain.Venue
	catalogErr      error
	assignedListing string
}

func newFakeMarketplace() *fakeMarketplace {
	return &fakeMarketplace{
		planErrs:        make(map[string]error),
		batchErrs:       make(map[string]error),
		listingByID:     make(map[string]*domain.ListingDraft),
		assignedListing: "lst-1",
	}
}

func (f *fakeMarketplace) CreateListing(ctx context.Context, draft *domain.ListingDraft) (string, error) {
	if f.createListingErr != nil {
		return "", f.createListingErr
	}
	f.createdListing = draft
	return f.assignedListing, nil
}

func (f *fakeMarketplace) UpdateListing(ctx context.Context, listingID string, draft *domain.ListingDraft) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = listingID
	f.updatedListing = draft
	return nil
}

func (f *fakeMarketplace) BulkCreateSessions(ctx context.Context, listingID string, rule *domain.SlotGenerationRule) error {
	if f.sessionsErr != nil {
		return f.sessionsErr
	}
	f.sessionRule = rule
	return nil
}

func (f *fakeMarketplace) CreatePlanOption(ctx context.Context, listingID string, plan *domain.PlanOption) error {
	if err := f.planErrs[plan.Name]; err != nil {
		return err
	}
	f.createdPlans = append(f.createdPlans, plan.Name)
	return nil
}

func (f *fakeMarketplace) CreateBatch(ctx context.Context, listingID string, batch *domain.Batch) error {
	if err := f.batchErrs[batch.Name]; err != nil {
		return err
	}
	f.createdBatches = append(f.createdBatches, batch.Name)
	return nil
}

func (f *fakeMarketplace) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, f.catalogErr
}

func (f *fakeMarketplace) ListMyVenues(ctx context.Context) ([]domain.Venue, error) {
	return f.venues, f.catalogErr
}

func (f *fakeMarketplace) GetListing(ctx context.Context, listingID string) (*domain.ListingDraft, error) {
	if d, ok := f.listingByID[listingID]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

// fakePartnerStore is a minimal PartnerRepository for the confirmation email.
type fakePartnerStore struct {
	partner *domain.Partner
	err     error
}

func (f *fakePartnerStore) Create(ctx context.Context, p *domain.Partner) error { return f.err }

func (f *fakePartnerStore) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.partner, nil
}

func (f *fakePartnerStore) GetByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.partner, nil
}

type fakeWizardMailer struct {
	sent []*domain.ListingSubmittedEmailData
	err  error
}

func (f *fakeWizardMailer) SendListingSubmitted(ctx context.Context, data *domain.ListingSubmittedEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func newTestWizard(store domain.DraftStore, api domain.MarketplaceAPI) domain.WizardService {
	return NewWizardService(store, api, nil, nil, testLogger, 5*time.Second)
}

func basePrice(v float64) *float64 { return &v }

// completeDraft fills every wizard step with passing values.
func completeDraft() domain.ListingDraft {
	return domain.ListingDraft{
		BasicInfo: domain.BasicInfo{
			Title:       "Junior robotics",
			Description: "Build and program robots",
			CategoryID:  "cat-1",
			Format:      domain.FormatOnline,
		},
		AgeRange:        domain.AgeRange{Min: 8, Max: 12},
		DurationMinutes: 60,
		Pricing:         domain.Pricing{BasePrice: basePrice(500)},
		Media:           []domain.MediaItem{{Ref: "img-1"}},
		PlanOptions: []domain.PlanOption{{
			ID:            "p1",
			PlanType:      domain.PlanWeekly,
			TimingType:    domain.TimingFlexible,
			Name:          "Weekly pass",
			SessionsCount: 4,
			PriceINR:      1999,
			ValidityDays:  30,
		}},
		SessionRule: &domain.SlotGenerationRule{
			StartDate:       "2026-09-01",
			EndDate:         "2026-12-01",
			DaysOfWeek:      []domain.Weekday{domain.Monday},
			DurationMinutes: 60,
			TimeSlots:       []domain.TimeSlot{{Time: "16:00", Seats: 10}},
		},
	}
}

// openAtReview opens a fresh wizard, installs the draft, and walks it to the
// review step.
func openAtReview(t *testing.T, svc domain.WizardService, partnerID string, draft domain.ListingDraft) {
	t.Helper()
	ctx := context.Background()
	_, restored, err := svc.Open(ctx, partnerID, "")
	require.NoError(t, err)
	require.False(t, restored)
	_, err = svc.UpdateDraft(ctx, partnerID, func(d *domain.ListingDraft) error {
		*d = draft
		return nil
	})
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err = svc.Next(ctx, partnerID)
		require.NoError(t, err)
	}
}

func TestWizardOpenFreshAndRestore(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	api := newFakeMarketplace()
	svc := newTestWizard(store, api)

	state, restored, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, domain.StepBasicInfo, state.Step)

	// Mutations auto-save; reopening restores draft, step, and category index.
	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.BasicInfo = completeDraft().BasicInfo
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetCategoryIndex(ctx, "pt-1", 3))
	_, err = svc.Next(ctx, "pt-1")
	require.NoError(t, err)

	svc2 := newTestWizard(store, api)
	state, restored, err = svc2.Open(ctx, "pt-1", "")
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, domain.StepAgeDuration, state.Step)
	assert.Equal(t, 3, state.SelectedCategoryIndex)
	assert.Equal(t, "Junior robotics", state.Draft.BasicInfo.Title)
}

func TestWizardOpenUnreadableCacheStartsFresh(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	store.loadErr = errors.New("corrupt cache entry")
	svc := newTestWizard(store, newFakeMarketplace())

	state, restored, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, domain.StepBasicInfo, state.Step)
	assert.Empty(t, state.Draft.BasicInfo.Title)
}

func TestWizardOpenEditMode(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	api := newFakeMarketplace()
	existing := completeDraft()
	api.listingByID["lst-9"] = &existing
	svc := newTestWizard(store, api)

	state, restored, err := svc.Open(ctx, "pt-1", "lst-9")
	require.NoError(t, err)
	assert.False(t, restored)
	assert.True(t, state.EditMode)
	assert.Equal(t, "lst-9", state.Draft.ListingID)

	// Edit-mode mutations never touch the draft cache.
	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.BasicInfo.Title = "Renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, store.saves)
}

func TestWizardNextGuardIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestWizard(newFakeDraftStore(), newFakeMarketplace())
	_, _, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)

	// Repeated Next on an unchanged incomplete draft fails with the same
	// error every time and never advances the step.
	for i := 0; i < 3; i++ {
		_, err := svc.Next(ctx, "pt-1")
		require.Error(t, err)
		assert.Equal(t, "title is required", err.Error())
	}
	state, err := svc.Get(ctx, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepBasicInfo, state.Step)
}

func TestWizardBackIsUnconditional(t *testing.T) {
	ctx := context.Background()
	svc := newTestWizard(newFakeDraftStore(), newFakeMarketplace())
	_, _, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)

	// Back works even though the current step would not validate, and
	// floors at the first step.
	state, err := svc.Back(ctx, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepBasicInfo, state.Step)

	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.BasicInfo = completeDraft().BasicInfo
		return nil
	})
	require.NoError(t, err)
	_, err = svc.Next(ctx, "pt-1")
	require.NoError(t, err)

	// Wipe the title; Back still succeeds.
	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.BasicInfo.Title = ""
		return nil
	})
	require.NoError(t, err)
	state, err = svc.Back(ctx, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepBasicInfo, state.Step)
}

func TestWizardScheduleStepGuards(t *testing.T) {
	ctx := context.Background()
	svc := newTestWizard(newFakeDraftStore(), newFakeMarketplace())
	_, _, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)

	draft := completeDraft()
	draft.PlanOptions[0].TimingType = domain.TimingFixed
	draft.SessionRule = nil
	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		*d = draft
		return nil
	})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = svc.Next(ctx, "pt-1")
		require.NoError(t, err)
	}

	// A fixed-timing plan with no batch blocks the schedule step.
	_, err = svc.Next(ctx, "pt-1")
	require.Error(t, err)
	assert.Equal(t, "please create at least one batch", err.Error())

	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.Batches = []domain.Batch{{
			ID:         "b1",
			Name:       "Morning batch",
			DaysOfWeek: []domain.Weekday{domain.Monday},
			Time:       "09:00",
			Capacity:   10,
			PlanTypes:  []domain.PlanType{domain.PlanWeekly},
			StartDate:  "2026-09-01",
		}}
		// Adding a flexible plan now also demands a session rule.
		d.PlanOptions = append(d.PlanOptions, domain.PlanOption{
			ID: "p2", PlanType: domain.PlanSingle, TimingType: domain.TimingFlexible,
			Name: "Drop-in", SessionsCount: 1, PriceINR: 499, ValidityDays: 7,
		})
		return nil
	})
	require.NoError(t, err)

	_, err = svc.Next(ctx, "pt-1")
	require.Error(t, err)
	assert.Equal(t, "please configure session availability", err.Error())

	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.SessionRule = completeDraft().SessionRule
		return nil
	})
	require.NoError(t, err)
	state, err := svc.Next(ctx, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, state.Step)
}

func TestWizardSubmitCreate(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	api := newFakeMarketplace()
	svc := newTestWizard(store, api)
	openAtReview(t, svc, "pt-1", completeDraft())

	report, err := svc.Submit(ctx, "pt-1")
	require.NoError(t, err)
	assert.True(t, report.Created)
	assert.True(t, report.Complete())
	assert.Equal(t, "lst-1", report.ListingID)
	require.NotNil(t, api.createdListing)
	require.NotNil(t, api.sessionRule)
	assert.Equal(t, []string{"Weekly pass"}, api.createdPlans)

	// The cache is cleared and the wizard is gone.
	assert.Empty(t, store.snaps)
	_, err = svc.Get(ctx, "pt-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWizardSubmitBeforeReview(t *testing.T) {
	ctx := context.Background()
	svc := newTestWizard(newFakeDraftStore(), newFakeMarketplace())
	_, _, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "pt-1")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestWizardSubmitCreateFailurePreservesDraft(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	api := newFakeMarketplace()
	api.createListingErr = errors.New("marketplace unavailable")
	svc := newTestWizard(store, api)
	openAtReview(t, svc, "pt-1", completeDraft())

	_, err := svc.Submit(ctx, "pt-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create listing")

	// The wizard stays on review with the draft and cache intact, so the
	// partner can retry.
	state, err := svc.Get(ctx, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, state.Step)
	assert.NotEmpty(t, store.snaps)

	api.createListingErr = nil
	report, err := svc.Submit(ctx, "pt-1")
	require.NoError(t, err)
	assert.True(t, report.Complete())
}

func TestWizardSubmitToleratesChildFailures(t *testing.T) {
	ctx := context.Background()
	api := newFakeMarketplace()
	svc := newTestWizard(newFakeDraftStore(), api)

	draft := completeDraft()
	draft.PlanOptions = []domain.PlanOption{
		{ID: "p1", PlanType: domain.PlanTrial, TimingType: domain.TimingFlexible, Name: "Trial", SessionsCount: 1, PriceINR: 99, ValidityDays: 7},
		{ID: "p2", PlanType: domain.PlanWeekly, TimingType: domain.TimingFlexible, Name: "Weekly pass", SessionsCount: 4, PriceINR: 1999, ValidityDays: 30},
		{ID: "p3", PlanType: domain.PlanMonthly, TimingType: domain.TimingFlexible, Name: "Monthly pass", SessionsCount: 16, PriceINR: 6999, ValidityDays: 30},
	}
	api.planErrs["Weekly pass"] = errors.New("duplicate plan")
	api.sessionsErr = errors.New("rule rejected")
	openAtReview(t, svc, "pt-1", draft)

	report, err := svc.Submit(ctx, "pt-1")
	require.NoError(t, err)
	assert.True(t, report.Created)
	assert.False(t, report.Complete())
	assert.Equal(t, "rule rejected", report.SessionRuleError)
	require.Len(t, report.FailedPlans, 1)
	assert.Equal(t, "Weekly pass", report.FailedPlans[0].Name)

	// The failure in the middle did not stop the remaining plans.
	assert.Equal(t, []string{"Trial", "Monthly pass"}, api.createdPlans)
}

func TestWizardSubmitEditMode(t *testing.T) {
	ctx := context.Background()
	api := newFakeMarketplace()
	existing := completeDraft()
	api.listingByID["lst-9"] = &existing
	svc := newTestWizard(newFakeDraftStore(), api)

	_, _, err := svc.Open(ctx, "pt-1", "lst-9")
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err = svc.Next(ctx, "pt-1")
		require.NoError(t, err)
	}

	report, err := svc.Submit(ctx, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, "lst-9", report.ListingID)
	assert.True(t, report.Complete())

	// Edit mode replaces the listing in one call; no child-entity calls.
	assert.Equal(t, "lst-9", api.updatedID)
	assert.Nil(t, api.createdListing)
	assert.Empty(t, api.createdPlans)
	assert.Nil(t, api.sessionRule)
}

func TestWizardSubmitSendsConfirmationEmail(t *testing.T) {
	ctx := context.Background()
	api := newFakeMarketplace()
	partners := &fakePartnerStore{partner: &domain.Partner{ID: "pt-1", Email: "owner@example.com", Name: "Asha"}}
	mailer := &fakeWizardMailer{}
	svc := NewWizardService(newFakeDraftStore(), api, partners, mailer, testLogger, 5*time.Second)
	openAtReview(t, svc, "pt-1", completeDraft())

	_, err := svc.Submit(ctx, "pt-1")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "owner@example.com", mailer.sent[0].Email)
	assert.Equal(t, "Junior robotics", mailer.sent[0].ListingTitle)
	assert.Equal(t, "lst-1", mailer.sent[0].ListingID)
}

func TestWizardAutosaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	store.saveErr = errors.New("cache down")
	svc := newTestWizard(store, newFakeMarketplace())
	_, _, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.BasicInfo.Title = "Still works"
		return nil
	})
	require.NoError(t, err)
	state, err := svc.Get(ctx, "pt-1")
	require.NoError(t, err)
	assert.Equal(t, "Still works", state.Draft.BasicInfo.Title)
}

func TestWizardCancel(t *testing.T) {
	ctx := context.Background()
	store := newFakeDraftStore()
	svc := newTestWizard(store, newFakeMarketplace())
	_, _, err := svc.Open(ctx, "pt-1", "")
	require.NoError(t, err)
	_, err = svc.UpdateDraft(ctx, "pt-1", func(d *domain.ListingDraft) error {
		d.BasicInfo.Title = "Discard me"
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, "pt-1"))
	assert.Empty(t, store.snaps)
	_, err = svc.Get(ctx, "pt-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWizardOperationsWithoutOpen(t *testing.T) {
	ctx := context.Background()
	svc := newTestWizard(newFakeDraftStore(), newFakeMarketplace())

	_, err := svc.Next(ctx, "nobody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Submit(ctx, "nobody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
