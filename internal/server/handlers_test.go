package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/keybridge-io/license-bridge/constant"
	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/internal/keygen"
	"github.com/keybridge-io/license-bridge/internal/notify"
	"github.com/keybridge-io/license-bridge/internal/provision"
	"github.com/keybridge-io/license-bridge/internal/webhook"
	"github.com/keybridge-io/license-bridge/model"
	"github.com/keybridge-io/license-bridge/test/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	webhookSecret = "fs-webhook-secret"
	pledgeSecret  = "patreon-secret"
	licenseGenKey = "fs-private-key"
)

type stubCommerce struct {
	entries []model.OrderEntry
	err     error
}

func (s *stubCommerce) SubscriptionEntries(_ context.Context, _ string) ([]model.OrderEntry, error) {
	return s.entries, s.err
}

type stubLifecycle struct {
	keys []string
}

func (s *stubLifecycle) Lifecycle(_ context.Context, key string, _ keygen.Action) error {
	s.keys = append(s.keys, key)
	return nil
}

type stubLicenseService struct {
	creates int
	tokens  int
}

func (s *stubLicenseService) CreateLicense(_ context.Context, params keygen.CreateLicenseParams) (keygen.CreatedLicense, error) {
	s.creates++
	return keygen.CreatedLicense{ID: "lic", Key: params.Key}, nil
}

func (s *stubLicenseService) CreateActivationToken(_ context.Context, _ string) (string, error) {
	s.tokens++
	return "tok", nil
}

type stubNotifier struct{}

func (stubNotifier) SendActivationCode(_ context.Context, _ string, _ model.ActivationCode) error {
	return nil
}

var _ notify.Notifier = stubNotifier{}

func newTestServer(t *testing.T, svc *stubLicenseService) *Server {
	t.Helper()

	cfg := &config.Config{
		FastSpringWebhookSecret: webhookSecret,
		PatreonWebhookSecret:    pledgeSecret,
		FastSpringLicenseGenKey: licenseGenKey,
		CommunityPolicyID:       "community-pol",
	}

	logger := helper.NewQuietLogger(t)
	provisioner := provision.New(svc, logger)
	router := webhook.NewRouter(&stubCommerce{}, &stubLifecycle{}, provisioner, stubNotifier{}, cfg, logger)

	return New(cfg, router, provisioner, logger)
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signPledgeBody(body []byte, secret string) string {
	mac := hmac.New(md5.New, []byte(secret))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

func TestCommerceWebhookUnauthorized(t *testing.T) {
	srv := newTestServer(t, &stubLicenseService{})

	body := []byte(`{"events":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/license-bridge/webhooks", bytes.NewReader(body))
	req.Header.Set(constant.FastSpringSignatureHeader, "bogus")

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	payload, _ := io.ReadAll(resp.Body)
	assert.Empty(t, payload, "authentication failures carry an empty body")
}

func TestCommerceWebhookMissingSignature(t *testing.T) {
	srv := newTestServer(t, &stubLicenseService{})

	req := httptest.NewRequest(http.MethodPost, "/license-bridge/webhooks",
		strings.NewReader(`{"events":[]}`))

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCommerceWebhookEmptyBatch(t *testing.T) {
	srv := newTestServer(t, &stubLicenseService{})

	body := []byte(`{"events":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/license-bridge/webhooks", bytes.NewReader(body))
	req.Header.Set(constant.FastSpringSignatureHeader, signBody(body, webhookSecret))

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCommerceWebhookUnknownEventSkipped(t *testing.T) {
	srv := newTestServer(t, &stubLicenseService{})

	body := []byte(`{"events":[{"type":"order.completed","data":{"id":"o1"}}]}`)
	req := httptest.NewRequest(http.MethodPost, "/license-bridge/webhooks", bytes.NewReader(body))
	req.Header.Set(constant.FastSpringSignatureHeader, signBody(body, webhookSecret))

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCommerceWebhookMalformedEnvelope(t *testing.T) {
	srv := newTestServer(t, &stubLicenseService{})

	body := []byte(`{"something":"else"}`)
	req := httptest.NewRequest(http.MethodPost, "/license-bridge/webhooks", bytes.NewReader(body))
	req.Header.Set(constant.FastSpringSignatureHeader, signBody(body, webhookSecret))

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPledgeWebhookUnauthorized(t *testing.T) {
	srv := newTestServer(t, &stubLicenseService{})

	req := httptest.NewRequest(http.MethodPost, "/license-bridge/patreon",
		strings.NewReader(`{"data":{}}`))
	req.Header.Set(constant.PatreonSignatureHeader, "deadbeef")
	req.Header.Set(constant.PatreonEventHeader, "pledges:create")

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPledgeWebhookDeleteIsAccepted(t *testing.T) {
	srv := newTestServer(t, &stubLicenseService{})

	body := []byte(`{"data":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/license-bridge/patreon", bytes.NewReader(body))
	req.Header.Set(constant.PatreonSignatureHeader, signPledgeBody(body, pledgeSecret))
	req.Header.Set(constant.PatreonEventHeader, "pledges:delete")

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func signedIssuanceForm(t *testing.T, fields map[string]string) []byte {
	t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	// values concatenated in sorted key order, then the private key
	sort.Strings(keys)

	var concat strings.Builder
	for _, k := range keys {
		concat.WriteString(fields[k])
	}

	concat.WriteString(licenseGenKey)
	digest := md5.Sum([]byte(concat.String()))

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	form.Set(constant.QueryHashField, hex.EncodeToString(digest[:]))

	return []byte(form.Encode())
}

func TestManualIssuanceSuccess(t *testing.T) {
	svc := &stubLicenseService{}
	srv := newTestServer(t, svc)

	body := signedIssuanceForm(t, map[string]string{
		"subscription": "sub-1",
		"policy":       "pol-1",
		"quantity":     "3",
	})

	req := httptest.NewRequest(http.MethodPost, "/license-bridge/keygen/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	assert.Len(t, lines, 3)

	for _, line := range lines {
		parts := strings.SplitN(line, ".", 2)
		require.Len(t, parts, 2)
		assert.NotEmpty(t, parts[0])
		assert.NotEmpty(t, parts[1])
	}

	assert.Equal(t, 3, svc.creates)
}

func TestManualIssuanceUnauthorized(t *testing.T) {
	svc := &stubLicenseService{}
	srv := newTestServer(t, svc)

	form := url.Values{}
	form.Set("subscription", "sub-1")
	form.Set("policy", "pol-1")
	form.Set("quantity", "3")
	form.Set(constant.QueryHashField, "wrong")

	req := httptest.NewRequest(http.MethodPost, "/license-bridge/keygen/create",
		strings.NewReader(form.Encode()))

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, svc.creates)
}

func TestManualIssuanceQuantityBounds(t *testing.T) {
	for _, quantity := range []string{"0", "11", "-1", "abc"} {
		t.Run("quantity "+quantity, func(t *testing.T) {
			svc := &stubLicenseService{}
			srv := newTestServer(t, svc)

			body := signedIssuanceForm(t, map[string]string{
				"subscription": "sub-1",
				"policy":       "pol-1",
				"quantity":     quantity,
			})

			req := httptest.NewRequest(http.MethodPost, "/license-bridge/keygen/create", bytes.NewReader(body))

			resp, err := srv.App().Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Zero(t, svc.creates, "boundary rejection must precede any remote call")
		})
	}
}

func TestManualIssuanceMissingFields(t *testing.T) {
	svc := &stubLicenseService{}
	srv := newTestServer(t, svc)

	body := signedIssuanceForm(t, map[string]string{
		"policy":   "pol-1",
		"quantity": "1",
	})

	req := httptest.NewRequest(http.MethodPost, "/license-bridge/keygen/create", bytes.NewReader(body))

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, svc.creates)
}
