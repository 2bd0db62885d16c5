package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"classlisting/internal/delivery/http/helpers"
	"classlisting/internal/delivery/http/middleware"
	"classlisting/internal/domain"
	"classlisting/internal/services"
)

// WizardController exposes the listing wizard over HTTP. Step mutations are
// composed from the pure plan/batch/slot services and applied through the
// wizard service, which owns auto-save and step transitions.
type WizardController struct {
	Logger  *slog.Logger
	Wizard  domain.WizardService
	Plans   *services.PlanOptionsService
	Batches *services.BatchService
	Slots   *services.SlotRuleService
}

func NewWizardController(logger *slog.Logger, wizard domain.WizardService, plans *services.PlanOptionsService, batches *services.BatchService, slots *services.SlotRuleService) *WizardController {
	return &WizardController{
		Logger:  logger,
		Wizard:  wizard,
		Plans:   plans,
		Batches: batches,
		Slots:   slots,
	}
}

// respondServiceError maps service errors to the API error envelope:
// validation failures are 400, missing wizards/resources 404, the rest 500.
func (c *WizardController) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no active wizard")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

func (c *WizardController) partnerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.PartnerIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", false
	}
	return id, true
}

// OpenWizardRequest is the request body for POST /wizard/open. ListingID is
// set to edit an existing listing and empty to create a new one.
type OpenWizardRequest struct {
	ListingID string `json:"listing_id"`
}

// OpenWizardResponse reports the opened wizard state and whether a cached
// draft was restored.
type OpenWizardResponse struct {
	State    *domain.WizardState `json:"state"`
	Restored bool                `json:"restored"`
}

// OpenWizard godoc
// @Summary Open the listing wizard
// @Description Starts a new listing wizard, resumes a cached draft, or hydrates an existing listing for editing.
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body OpenWizardRequest true "Open options"
// @Success 200 {object} helpers.APIResponse "data contains state and restored flag"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /wizard/open [post]
func (c *WizardController) OpenWizard(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req OpenWizardRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, restored, err := c.Wizard.Open(r.Context(), partnerID, req.ListingID)
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, OpenWizardResponse{State: state, Restored: restored})
}

// GetWizard godoc
// @Summary Get the active wizard state
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wizard [get]
func (c *WizardController) GetWizard(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	state, err := c.Wizard.Get(r.Context(), partnerID)
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// SetBasicInfo godoc
// @Summary Set the basic-info step data
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.BasicInfo true "Basic info"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/basic-info [put]
func (c *WizardController) SetBasicInfo(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req domain.BasicInfo
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		d.BasicInfo = req
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// AgeDurationRequest is the request body for PUT /wizard/age-duration.
type AgeDurationRequest struct {
	AgeMin          int `json:"age_min"`
	AgeMax          int `json:"age_max"`
	DurationMinutes int `json:"duration_minutes"`
}

// SetAgeDuration godoc
// @Summary Set the age range and session duration
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AgeDurationRequest true "Age range and duration"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/age-duration [put]
func (c *WizardController) SetAgeDuration(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req AgeDurationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		d.AgeRange = domain.AgeRange{Min: req.AgeMin, Max: req.AgeMax}
		d.DurationMinutes = req.DurationMinutes
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// SetPricing godoc
// @Summary Set the pricing step data
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.Pricing true "Pricing"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/pricing [put]
func (c *WizardController) SetPricing(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req domain.Pricing
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		d.Pricing = req
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// MediaRequest is the request body for PUT /wizard/media.
type MediaRequest struct {
	Media []domain.MediaItem `json:"media"`
}

// Validate implements Validator.
func (m MediaRequest) Validate() []string {
	var errs []string
	if len(m.Media) > domain.MaxMediaAttachments {
		errs = append(errs, "at most 5 attachments are allowed")
	}
	for _, item := range m.Media {
		if item.Ref != "" && item.Payload != "" {
			errs = append(errs, "an attachment must be a reference or an inline payload, not both")
			break
		}
	}
	return errs
}

// SetMedia godoc
// @Summary Replace the media attachment list
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MediaRequest true "Media attachments"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/media [put]
func (c *WizardController) SetMedia(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req MediaRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		d.Media = req.Media
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// AddPlan godoc
// @Summary Add a plan option
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.PlanOption true "Plan option"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /wizard/plans [post]
func (c *WizardController) AddPlan(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req domain.PlanOption
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		plans, err := c.Plans.Add(d.PlanOptions, req)
		if err != nil {
			return err
		}
		d.PlanOptions = plans
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// UpdatePlan godoc
// @Summary Update a plan option
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Param body body domain.PlanOption true "Plan option"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/plans/{planID} [put]
func (c *WizardController) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	planID := r.PathValue("planID")
	var req domain.PlanOption
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	req.ID = planID
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		plans, err := c.Plans.Update(d.PlanOptions, req)
		if err != nil {
			return err
		}
		d.PlanOptions = plans
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// DeletePlan godoc
// @Summary Delete a plan option
// @Description Removes the plan. Batch plan-type references are not cascade-cleaned.
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param planID path string true "Plan ID"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/plans/{planID} [delete]
func (c *WizardController) DeletePlan(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	planID := r.PathValue("planID")
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		plans, err := c.Plans.Delete(d.PlanOptions, planID)
		if err != nil {
			return err
		}
		d.PlanOptions = plans
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// AddBatch godoc
// @Summary Add a batch
// @Description Rejected while the draft has no plan options.
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.Batch true "Batch"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /wizard/batches [post]
func (c *WizardController) AddBatch(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req domain.Batch
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		batches, err := c.Batches.Add(d.Batches, d.PlanOptions, req)
		if err != nil {
			return err
		}
		d.Batches = batches
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// UpdateBatch godoc
// @Summary Update a batch
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batchID path string true "Batch ID"
// @Param body body domain.Batch true "Batch"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/batches/{batchID} [put]
func (c *WizardController) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	batchID := r.PathValue("batchID")
	var req domain.Batch
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	req.ID = batchID
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		batches, err := c.Batches.Update(d.Batches, d.PlanOptions, req)
		if err != nil {
			return err
		}
		d.Batches = batches
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// DeleteBatch godoc
// @Summary Delete a batch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param batchID path string true "Batch ID"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/batches/{batchID} [delete]
func (c *WizardController) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	batchID := r.PathValue("batchID")
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		batches, err := c.Batches.Delete(d.Batches, batchID)
		if err != nil {
			return err
		}
		d.Batches = batches
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// SetSessionRule godoc
// @Summary Set the session availability rule
// @Description Validates fail-fast and attaches the normalized rule to the draft. The rule is expanded server-side after submission.
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.SlotGenerationRule true "Slot generation rule"
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /wizard/session-rule [put]
func (c *WizardController) SetSessionRule(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req domain.SlotGenerationRule
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	state, err := c.Wizard.UpdateDraft(r.Context(), partnerID, func(d *domain.ListingDraft) error {
		rule, err := c.Slots.Finalize(req)
		if err != nil {
			return err
		}
		d.SessionRule = &rule
		return nil
	})
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// CategoryIndexRequest is the request body for PUT /wizard/category-index.
type CategoryIndexRequest struct {
	Index int `json:"index"`
}

// SetCategoryIndex godoc
// @Summary Remember the selected category index for draft restore
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CategoryIndexRequest true "Category index"
// @Success 200 {object} helpers.APIResponse
// @Router /wizard/category-index [put]
func (c *WizardController) SetCategoryIndex(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	var req CategoryIndexRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Wizard.SetCategoryIndex(r.Context(), partnerID, req.Index); err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]int{"index": req.Index})
}

// Next godoc
// @Summary Advance to the next wizard step
// @Description Runs the current step's guard; the step never advances on a validation failure.
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /wizard/next [post]
func (c *WizardController) Next(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	state, err := c.Wizard.Next(r.Context(), partnerID)
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// Back godoc
// @Summary Go back one wizard step
// @Description Unconditional; performs no validation.
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the wizard state"
// @Router /wizard/back [post]
func (c *WizardController) Back(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	state, err := c.Wizard.Back(r.Context(), partnerID)
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}

// Submit godoc
// @Summary Submit the draft
// @Description Creates the listing (all-or-nothing) then attaches sessions, plans, and batches best-effort. The report lists any child entities that failed.
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the submission report"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /wizard/submit [post]
func (c *WizardController) Submit(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	report, err := c.Wizard.Submit(r.Context(), partnerID)
	if err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// Cancel godoc
// @Summary Cancel the wizard and discard the cached draft
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Success 204 "no content"
// @Router /wizard [delete]
func (c *WizardController) Cancel(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := c.partnerID(w, r)
	if !ok {
		return
	}
	if err := c.Wizard.Cancel(r.Context(), partnerID); err != nil {
		c.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FormatDaysPreview godoc
// @Summary Preview the display label for a day set
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param days query string true "Comma-separated day names"
// @Success 200 {object} helpers.APIResponse "data contains the label"
// @Router /wizard/batches/format-days [get]
func (c *WizardController) FormatDaysPreview(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.partnerID(w, r); !ok {
		return
	}
	var days []domain.Weekday
	if q := r.URL.Query().Get("days"); q != "" {
		for _, s := range strings.Split(q, ",") {
			d, err := domain.ParseWeekday(s)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
				return
			}
			days = append(days, d)
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"label": domain.FormatDays(days)})
}
