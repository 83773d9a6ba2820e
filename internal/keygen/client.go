// Package keygen is the client for the remote licensing service. The service
// is the system of record for licenses and policies; this client only
// references them by value and never retries on its own.
package keygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/keybridge-io/license-bridge/internal/config"
)

const jsonAPIContentType = "application/vnd.api+json"

// CreateLicenseParams carries everything needed to create one license.
type CreateLicenseParams struct {
	Key             string
	PolicyID        string
	SubscriptionRef string
	InvoiceRef      string
}

// CreatedLicense is the service's view of a newly created license. Key is
// the value the service actually stored, which may differ from the
// requested candidate.
type CreatedLicense struct {
	ID  string
	Key string
}

// Client handles communication with the licensing API
type Client struct {
	httpClient *http.Client
	config     *config.Config
	logger     log.Logger
	baseURL    string
}

// New creates a new licensing API client
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
		baseURL:    cfg.KeygenBaseURL,
	}
}

// SetHTTPClient allows overriding the HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// CreateLicense creates a license under the configured account, requesting
// the given candidate key.
func (c *Client) CreateLicense(ctx context.Context, params CreateLicenseParams) (CreatedLicense, error) {
	reqBody := licenseCreateRequest{
		Data: licenseCreateData{
			Type: "licenses",
			Attributes: licenseCreateAttributes{
				Key: params.Key,
				Metadata: licenseMetadata{
					SubscriptionID: params.SubscriptionRef,
					InvoiceID:      params.InvoiceRef,
				},
			},
			Relationships: licenseCreateRelationships{
				Policy: licenseRelationship{
					Data: relationshipData{Type: "policies", ID: params.PolicyID},
				},
			},
		},
	}

	var resp licenseCreateResponse
	if err := c.do(ctx, http.MethodPost, "/licenses", reqBody, &resp); err != nil {
		return CreatedLicense{}, err
	}

	if resp.Data.ID == "" || resp.Data.Attributes.Key == "" {
		return CreatedLicense{}, fmt.Errorf("invalid create-license reply: missing id or key")
	}

	return CreatedLicense{ID: resp.Data.ID, Key: resp.Data.Attributes.Key}, nil
}

// CreateActivationToken mints an activation token scoped to a license id.
func (c *Client) CreateActivationToken(ctx context.Context, licenseID string) (string, error) {
	reqBody := tokenCreateRequest{
		Data: tokenCreateData{
			Type:       "tokens",
			Attributes: map[string]any{},
		},
	}

	var resp tokenCreateResponse
	path := fmt.Sprintf("/licenses/%s/tokens", licenseID)

	if err := c.do(ctx, http.MethodPost, path, reqBody, &resp); err != nil {
		return "", err
	}

	if resp.Data.Attributes.Token == "" {
		return "", fmt.Errorf("invalid create-token reply: missing token")
	}

	return resp.Data.Attributes.Token, nil
}

// Lifecycle applies a lifecycle action to a license by key. Remote errors
// are surfaced unmodified; an already-revoked key fails with whatever the
// service reports.
func (c *Client) Lifecycle(ctx context.Context, licenseKey string, action Action) error {
	if err := c.do(ctx, action.method(), action.path(licenseKey), nil, nil); err != nil {
		return err
	}

	c.logger.Debugf("%s license %s", action, licenseKey)

	return nil
}

// do sends one request to the licensing API and decodes the response into
// out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	url := fmt.Sprintf("%s/accounts/%s%s", c.baseURL, c.config.KeygenAccountID, path)

	var body io.Reader

	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.KeygenAdminToken)
	req.Header.Set("Accept", jsonAPIContentType)

	if in != nil {
		req.Header.Set("Content-Type", jsonAPIContentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf("Licensing API request failed - method: %s, path: %s, error: %s", method, path, err.Error())
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// handleErrorResponse processes error responses from the API
func (c *Client) handleErrorResponse(method, path string, resp *http.Response) error {
	var errResp errorResponse

	bodyBytes, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(bodyBytes, &errResp)

	detail := ""
	if len(errResp.Errors) > 0 {
		detail = errResp.Errors[0].Detail
		if detail == "" {
			detail = errResp.Errors[0].Title
		}
	}

	c.logger.Debugf("Licensing API error - method: %s, path: %s, status: %d, detail: %s",
		method, path, resp.StatusCode, detail)

	return &APIError{
		StatusCode: resp.StatusCode,
		Msg:        fmt.Sprintf("licensing API %s %s: status %d: %s", method, path, resp.StatusCode, detail),
	}
}
