// Package fulfillment resolves a deactivated subscription's order entries to
// the set of activation codes the original purchase delivered.
package fulfillment

import (
	"encoding/json"

	"github.com/keybridge-io/license-bridge/model"
	"github.com/keybridge-io/license-bridge/pkg"
)

// fulfillmentLeaf is the expected shape of one delivered-item record. The
// license field stays raw so a wrong-typed value skips a single leaf rather
// than failing the group decode.
type fulfillmentLeaf struct {
	License json.RawMessage `json:"license"`
}

// OriginalOrder selects the order entry representing the initial purchase:
// the unique entry whose reference does not carry the billing-cycle suffix.
func OriginalOrder(entries []model.OrderEntry, subscriptionID string) (*model.Order, error) {
	for _, entry := range entries {
		if entry.Order.IsOriginal() {
			return entry.Order, nil
		}
	}

	return nil, pkg.OriginalOrderNotFoundError(subscriptionID)
}

// LicensesToRevoke collects every license code fulfilled by the
// subscription's original order. Absent or malformed leaves are skipped;
// missing top-level containers are hard errors.
func LicensesToRevoke(entries []model.OrderEntry, subscriptionID string) ([]model.ActivationCode, error) {
	order, err := OriginalOrder(entries, subscriptionID)
	if err != nil {
		return nil, err
	}

	if order.Items == nil {
		return nil, pkg.MalformedPayloadError("order", ".order.items")
	}

	var codes []model.ActivationCode

	for _, item := range order.Items {
		if item.Fulfillments == nil {
			return nil, pkg.MalformedPayloadError("order", ".fulfillments")
		}

		for _, raw := range item.Fulfillments {
			codes = append(codes, channelLicenses(raw)...)
		}
	}

	return codes, nil
}

// channelLicenses decodes one fulfillment channel's value. Channels that are
// not arrays of delivered-item records carry no licenses.
func channelLicenses(raw json.RawMessage) []model.ActivationCode {
	var leaves []fulfillmentLeaf
	if err := json.Unmarshal(raw, &leaves); err != nil {
		return nil
	}

	var codes []model.ActivationCode

	for _, leaf := range leaves {
		var code string
		if err := json.Unmarshal(leaf.License, &code); err != nil || code == "" {
			continue
		}

		codes = append(codes, model.ActivationCode(code))
	}

	return codes
}
