package keygen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/internal/keygen"
	"github.com/keybridge-io/license-bridge/test/helper"
	"github.com/keybridge-io/license-bridge/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		KeygenAccountID:  "acct-1",
		KeygenAdminToken: "admin-token",
		KeygenBaseURL:    "https://licensing.test/v1",
	}
}

func TestCreateLicense(t *testing.T) {
	reply := []byte(`{"data":{"id":"lic-1","attributes":{"key":"stored-key"}}}`)

	rt, httpClient := mocks.NewRecordingClient(func(req *http.Request) *http.Response {
		return mocks.NewHTTPResponse(http.StatusCreated, reply)
	})

	client := keygen.New(testConfig(), httpClient, helper.NewQuietLogger(t))

	created, err := client.CreateLicense(context.Background(), keygen.CreateLicenseParams{
		Key:             "candidate-key",
		PolicyID:        "pol-1",
		SubscriptionRef: "sub-1",
		InvoiceRef:      "inv-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "lic-1", created.ID)
	assert.Equal(t, "stored-key", created.Key)

	require.Len(t, rt.Requests, 1)
	req := rt.Requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://licensing.test/v1/accounts/acct-1/licenses", req.URL.String())
	assert.Equal(t, "Bearer admin-token", req.Header.Get("Authorization"))
	assert.Equal(t, "application/vnd.api+json", req.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(rt.Bodies[0]), &body))

	data := body["data"].(map[string]any)
	assert.Equal(t, "licenses", data["type"])

	attrs := data["attributes"].(map[string]any)
	assert.Equal(t, "candidate-key", attrs["key"])

	meta := attrs["metadata"].(map[string]any)
	assert.Equal(t, "sub-1", meta["fastSpringSubscriptionId"])
	assert.Equal(t, "inv-1", meta["invoiceId"])

	policy := data["relationships"].(map[string]any)["policy"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "pol-1", policy["id"])
}

func TestCreateLicenseInvalidReply(t *testing.T) {
	httpClient := mocks.HTTPClientWithStatusMock(http.StatusCreated, []byte(`{"data":{}}`))
	client := keygen.New(testConfig(), httpClient, helper.NewQuietLogger(t))

	_, err := client.CreateLicense(context.Background(), keygen.CreateLicenseParams{Key: "k", PolicyID: "p"})
	assert.Error(t, err)
}

func TestCreateLicenseUpstreamError(t *testing.T) {
	httpClient := mocks.HTTPClientWithStatusMock(http.StatusUnprocessableEntity,
		[]byte(`{"errors":[{"title":"Unprocessable resource","detail":"policy not found"}]}`))
	client := keygen.New(testConfig(), httpClient, helper.NewQuietLogger(t))

	_, err := client.CreateLicense(context.Background(), keygen.CreateLicenseParams{Key: "k", PolicyID: "p"})
	require.Error(t, err)

	var apiErr *keygen.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Msg, "policy not found")
}

func TestCreateActivationToken(t *testing.T) {
	reply := []byte(`{"data":{"attributes":{"token":"activ-token"}}}`)

	rt, httpClient := mocks.NewRecordingClient(func(req *http.Request) *http.Response {
		return mocks.NewHTTPResponse(http.StatusCreated, reply)
	})

	client := keygen.New(testConfig(), httpClient, helper.NewQuietLogger(t))

	token, err := client.CreateActivationToken(context.Background(), "lic-1")
	require.NoError(t, err)
	assert.Equal(t, "activ-token", token)

	require.Len(t, rt.Requests, 1)
	assert.Equal(t, "https://licensing.test/v1/accounts/acct-1/licenses/lic-1/tokens", rt.Requests[0].URL.String())
}

func TestLifecycleActions(t *testing.T) {
	tests := []struct {
		name       string
		action     keygen.Action
		wantMethod string
		wantURL    string
	}{
		{
			name:       "suspend",
			action:     keygen.ActionSuspend,
			wantMethod: http.MethodPost,
			wantURL:    "https://licensing.test/v1/accounts/acct-1/licenses/key-1/actions/suspend",
		},
		{
			name:       "reinstate",
			action:     keygen.ActionReinstate,
			wantMethod: http.MethodPost,
			wantURL:    "https://licensing.test/v1/accounts/acct-1/licenses/key-1/actions/reinstate",
		},
		{
			name:       "revoke",
			action:     keygen.ActionRevoke,
			wantMethod: http.MethodDelete,
			wantURL:    "https://licensing.test/v1/accounts/acct-1/licenses/key-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, httpClient := mocks.NewRecordingClient(func(req *http.Request) *http.Response {
				return mocks.NewHTTPResponse(http.StatusNoContent, nil)
			})

			client := keygen.New(testConfig(), httpClient, helper.NewQuietLogger(t))

			require.NoError(t, client.Lifecycle(context.Background(), "key-1", tt.action))
			require.Len(t, rt.Requests, 1)
			assert.Equal(t, tt.wantMethod, rt.Requests[0].Method)
			assert.Equal(t, tt.wantURL, rt.Requests[0].URL.String())
		})
	}
}

func TestLifecycleErrorSurfacedUnmodified(t *testing.T) {
	httpClient := mocks.HTTPClientWithStatusMock(http.StatusNotFound,
		[]byte(`{"errors":[{"title":"Not found","detail":"license not found"}]}`))
	client := keygen.New(testConfig(), httpClient, helper.NewQuietLogger(t))

	err := client.Lifecycle(context.Background(), "missing-key", keygen.ActionRevoke)
	require.Error(t, err)

	var apiErr *keygen.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
