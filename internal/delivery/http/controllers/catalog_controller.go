package controllers

import (
	"log/slog"
	"net/http"

	"classlisting/internal/delivery/http/helpers"
	"classlisting/internal/domain"
)

// CatalogController serves the read-only hydration sources for the wizard UI.
type CatalogController struct {
	Logger  *slog.Logger
	Catalog domain.CatalogService
}

func NewCatalogController(logger *slog.Logger, catalog domain.CatalogService) *CatalogController {
	return &CatalogController{Logger: logger, Catalog: catalog}
}

// ListCategories godoc
// @Summary List class categories
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the category list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Catalog.Categories(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "list categories failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// ListMyVenues godoc
// @Summary List the partner's venues
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the venue list"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/my [get]
func (c *CatalogController) ListMyVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := c.Catalog.MyVenues(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "list venues failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, venues)
}
