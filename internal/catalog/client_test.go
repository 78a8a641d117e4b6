package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(&config.CatalogConfig{BaseURL: srv.URL, TimeoutSeconds: 2}, zap.NewNop())
}

func TestGetMenuItem(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu/items/3", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"itemId":3,"name":"Margherita","price":9.50,"available":true,"categoryName":"Pizza"}`))
	})

	item, err := client.GetMenuItem(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, int64(3), item.ItemID)
	assert.Equal(t, "Margherita", item.Name)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("9.50")), "price %s", item.Price)
	assert.True(t, item.Available)
	assert.Equal(t, "Pizza", item.CategoryName)
}

func TestGetMenuItemNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	item, err := client.GetMenuItem(context.Background(), 99)
	assert.Nil(t, item)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetMenuItemServerError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	item, err := client.GetMenuItem(context.Background(), 3)
	assert.Nil(t, item)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrNotFound)
}
