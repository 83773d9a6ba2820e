// Package commerce is the client for the commerce platform API, used to
// resolve a subscription back to its order entries.
package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/keybridge-io/license-bridge/constant"
	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/model"
	"github.com/keybridge-io/license-bridge/pkg"
)

// Client handles communication with the commerce platform API
type Client struct {
	httpClient *http.Client
	config     *config.Config
	logger     log.Logger
	baseURL    string
}

// New creates a new commerce API client
func New(cfg *config.Config, httpClient *http.Client, logger log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.HTTPTimeout,
		}
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
		baseURL:    cfg.FastSpringBaseURL,
	}
}

// SetHTTPClient allows overriding the HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// SubscriptionEntries returns the order entries fulfilled under a
// subscription, decoded once here so callers operate on typed data.
func (c *Client) SubscriptionEntries(ctx context.Context, subscriptionID string) ([]model.OrderEntry, error) {
	url := fmt.Sprintf("%s/subscriptions/%s/entries", c.baseURL, subscriptionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.config.FastSpringAPIUsername, c.config.FastSpringAPIPassword)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("Commerce API request failed - subscription: %s, error: %s", subscriptionID, err.Error())
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Debugf("Commerce API error - subscription: %s, status: %d, body: %s",
			subscriptionID, resp.StatusCode, string(body))

		return nil, pkg.HTTPError{
			EntityType: "subscription",
			Code:       constant.ErrUpstreamCommerceAPI,
			Title:      "Commerce API Failure",
			Message:    fmt.Sprintf("commerce API returned status %d for subscription %s", resp.StatusCode, subscriptionID),
			StatusCode: resp.StatusCode,
		}
	}

	var entries []model.OrderEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		// An unparseable reply is the upstream's failure, not a fault of
		// the inbound request.
		return nil, pkg.HTTPError{
			EntityType: "subscription",
			Code:       constant.ErrUpstreamCommerceAPI,
			Title:      "Commerce API Failure",
			Message:    fmt.Sprintf("unparseable entries response for subscription %s", subscriptionID),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	return entries, nil
}
