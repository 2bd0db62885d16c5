package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classlisting/internal/domain"
)

// fakeCatalogService implements domain.CatalogService for controller tests.
type fakeCatalogService struct {
	categories []domain.Category
	venues     []domain.Venue
	err        error
}

func (f *fakeCatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeCatalogService) MyVenues(ctx context.Context) ([]domain.Venue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.venues, nil
}

func TestCatalogControllerListCategories(t *testing.T) {
	fake := &fakeCatalogService{categories: []domain.Category{{ID: "cat-1", Name: "Robotics"}}}
	ctrl := NewCatalogController(testLogger, fake)

	rr := httptest.NewRecorder()
	ctrl.ListCategories(rr, httptest.NewRequest(http.MethodGet, "/categories", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.Nil(t, env.Error)
	data := env.Data.([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Robotics", data[0].(map[string]any)["name"])
}

func TestCatalogControllerListMyVenuesError(t *testing.T) {
	ctrl := NewCatalogController(testLogger, &fakeCatalogService{err: errors.New("marketplace unavailable")})

	rr := httptest.NewRecorder()
	ctrl.ListMyVenues(rr, httptest.NewRequest(http.MethodGet, "/venues/my", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	require.NotNil(t, env.Error)
}
