// Package webhook routes inbound events to their lifecycle actions.
package webhook

import (
	"context"
	"encoding/json"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/keybridge-io/license-bridge/constant"
	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/internal/fulfillment"
	"github.com/keybridge-io/license-bridge/internal/keygen"
	"github.com/keybridge-io/license-bridge/internal/notify"
	"github.com/keybridge-io/license-bridge/internal/provision"
	"github.com/keybridge-io/license-bridge/model"
	"github.com/keybridge-io/license-bridge/pkg"
)

// CommerceService is the commerce platform surface the router needs.
type CommerceService interface {
	SubscriptionEntries(ctx context.Context, subscriptionID string) ([]model.OrderEntry, error)
}

// LifecycleService applies lifecycle actions to existing licenses.
type LifecycleService interface {
	Lifecycle(ctx context.Context, licenseKey string, action keygen.Action) error
}

// Router maps recognized event kinds to lifecycle actions. Unknown kinds are
// logged and skipped; one event's failure never hides as another's success.
type Router struct {
	commerce    CommerceService
	licenses    LifecycleService
	provisioner *provision.Provisioner
	notifier    notify.Notifier
	config      *config.Config
	logger      log.Logger
}

// NewRouter creates a new event router
func NewRouter(
	commerce CommerceService,
	licenses LifecycleService,
	provisioner *provision.Provisioner,
	notifier notify.Notifier,
	cfg *config.Config,
	logger log.Logger,
) *Router {
	return &Router{
		commerce:    commerce,
		licenses:    licenses,
		provisioner: provisioner,
		notifier:    notifier,
		config:      cfg,
		logger:      logger,
	}
}

// Dispatch routes one event by its kind. Recognized-but-unimplemented kinds
// and unknown tags are no-ops with a log line.
func (r *Router) Dispatch(ctx context.Context, event model.WebhookEvent) error {
	switch event.Kind() {
	case model.KindSubscriptionDeactivated:
		return r.handleSubscriptionDeactivated(ctx, event.Data)
	case model.KindPledgeCreated:
		return r.handlePledgeCreated(ctx, event.Data)
	case model.KindPledgeDeleted:
		r.logger.Infof("Pledge deleted event received; no lifecycle action configured")
		return nil
	default:
		r.logger.Warnf("unhandled webhook: %s", event.Type)
		return nil
	}
}

// handleSubscriptionDeactivated revokes every license fulfilled by the
// subscription's original order. Revocation is fail-fast: the first remote
// failure aborts the remaining keys.
func (r *Router) handleSubscriptionDeactivated(ctx context.Context, data json.RawMessage) error {
	var payload model.SubscriptionEventData
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		return pkg.MalformedPayloadError("subscription", ".id")
	}

	r.logger.Infof("subscription deactivated: %s", payload.ID)

	entries, err := r.commerce.SubscriptionEntries(ctx, payload.ID)
	if err != nil {
		return err
	}

	codes, err := fulfillment.LicensesToRevoke(entries, payload.ID)
	if err != nil {
		return err
	}

	for _, code := range codes {
		key, ok := code.LicenseKey()
		if !ok {
			return pkg.MalformedPayloadError("license", "license code")
		}

		if err := r.licenses.Lifecycle(ctx, key, keygen.ActionRevoke); err != nil {
			return err
		}
	}

	r.logger.Infof("revoked %d license(s) for subscription %s", len(codes), payload.ID)

	return nil
}

// handlePledgeCreated grants a single community-policy license and mails the
// activation code to the patron resolved from the included resources.
func (r *Router) handlePledgeCreated(ctx context.Context, data json.RawMessage) error {
	var pledge model.PledgeEvent
	if err := json.Unmarshal(data, &pledge); err != nil {
		return pkg.MalformedPayloadError("pledge", "body")
	}

	email, ok := pledge.PatronEmail()
	if !ok {
		return pkg.EntityNotFoundError{
			EntityType: "patron",
			Code:       constant.ErrPatronEmailNotFound,
			Title:      "Patron Email Not Found",
			Message:    "could not find patron email in included resources",
		}
	}

	// The patron id travels in the invoice slot so a pledge-granted license
	// stays traceable to its pledge.
	result := r.provisioner.Generate(ctx, model.ProvisioningRequest{
		SubscriptionRef: constant.PledgeSubscriptionRef,
		PolicyID:        r.config.CommunityPolicyID,
		InvoiceRef:      pledge.Data.Relationships.Patron.Data.ID,
		Quantity:        1,
	})

	if len(result.Codes) == 0 {
		msg := "license generation failed"
		if len(result.Errors) > 0 {
			msg = result.Errors[0]
		}

		return pkg.HTTPError{
			EntityType: "license",
			Code:       constant.ErrUpstreamLicenseAPI,
			Title:      "License Generation Failed",
			Message:    msg,
		}
	}

	if err := r.notifier.SendActivationCode(ctx, email, result.Codes[0]); err != nil {
		return err
	}

	return nil
}
