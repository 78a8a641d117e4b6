package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/config"
	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
)

// MenuItem is the menu service's item representation. Price is decoded as an
// exact decimal so catalog prices survive the trip without float rounding.
type MenuItem struct {
	ItemID       int64           `json:"itemId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Available    bool            `json:"available"`
	CategoryName string          `json:"categoryName"`
}

// Client looks up menu items during order validation.
type Client interface {
	GetMenuItem(ctx context.Context, itemID int64) (*MenuItem, error)
}

// HTTPClient talks to the menu service's REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(cfg *config.CatalogConfig, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// GetMenuItem fetches one item by id. A 404 maps to errs.ErrNotFound.
func (c *HTTPClient) GetMenuItem(ctx context.Context, itemID int64) (*MenuItem, error) {
	url := fmt.Sprintf("%s/api/menu/items/%d", c.baseURL, itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu service request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu service request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("menu item %d: %w", itemID, errs.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warn("Menu service returned unexpected status",
			zap.Int64("item_id", itemID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("menu service returned status %d for item %d", resp.StatusCode, itemID)
	}

	var item MenuItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to decode menu item %d: %w", itemID, err)
	}

	return &item, nil
}
