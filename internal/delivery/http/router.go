package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"classlisting/internal/delivery/http/controllers"
	"classlisting/internal/delivery/http/middleware"
	"classlisting/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Everything except signup, login, and swagger requires a Bearer token.
func NewRouter(
	wizard *controllers.WizardController,
	auth *controllers.AuthController,
	catalog *controllers.CatalogController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", auth.SignUp)
	mux.HandleFunc("POST /auth/login", auth.Login)
	mux.HandleFunc("GET /auth/me", requireAuth(auth.Me))

	// Catalog (hydration sources)
	mux.HandleFunc("GET /categories", requireAuth(catalog.ListCategories))
	mux.HandleFunc("GET /venues/my", requireAuth(catalog.ListMyVenues))

	// Wizard lifecycle
	mux.HandleFunc("POST /wizard/open", requireAuth(wizard.OpenWizard))
	mux.HandleFunc("GET /wizard", requireAuth(wizard.GetWizard))
	mux.HandleFunc("DELETE /wizard", requireAuth(wizard.Cancel))
	mux.HandleFunc("POST /wizard/next", requireAuth(wizard.Next))
	mux.HandleFunc("POST /wizard/back", requireAuth(wizard.Back))
	mux.HandleFunc("POST /wizard/submit", requireAuth(wizard.Submit))

	// Step data
	mux.HandleFunc("PUT /wizard/basic-info", requireAuth(wizard.SetBasicInfo))
	mux.HandleFunc("PUT /wizard/age-duration", requireAuth(wizard.SetAgeDuration))
	mux.HandleFunc("PUT /wizard/pricing", requireAuth(wizard.SetPricing))
	mux.HandleFunc("PUT /wizard/media", requireAuth(wizard.SetMedia))
	mux.HandleFunc("PUT /wizard/category-index", requireAuth(wizard.SetCategoryIndex))

	// Plan options
	mux.HandleFunc("POST /wizard/plans", requireAuth(wizard.AddPlan))
	mux.HandleFunc("PUT /wizard/plans/{planID}", requireAuth(wizard.UpdatePlan))
	mux.HandleFunc("DELETE /wizard/plans/{planID}", requireAuth(wizard.DeletePlan))

	// Batches
	mux.HandleFunc("POST /wizard/batches", requireAuth(wizard.AddBatch))
	mux.HandleFunc("PUT /wizard/batches/{batchID}", requireAuth(wizard.UpdateBatch))
	mux.HandleFunc("DELETE /wizard/batches/{batchID}", requireAuth(wizard.DeleteBatch))
	mux.HandleFunc("GET /wizard/batches/format-days", requireAuth(wizard.FormatDaysPreview))

	// Session availability
	mux.HandleFunc("PUT /wizard/session-rule", requireAuth(wizard.SetSessionRule))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
