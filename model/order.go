package model

import (
	"encoding/json"
	"strings"

	"github.com/keybridge-io/license-bridge/constant"
)

// OrderEntry is one element of a subscription's entries listing.
type OrderEntry struct {
	Order *Order `json:"order"`
}

// Order is a single commerce order. Reference is optional in the upstream
// payload; entries without one are never the original order.
type Order struct {
	Reference *string     `json:"reference"`
	Items     []OrderItem `json:"items"`
}

// OrderItem is one order line. Fulfillment groups are keyed by channel name;
// the values are semi-structured and decoded leaf by leaf.
type OrderItem struct {
	Product      string                     `json:"product"`
	Fulfillments map[string]json.RawMessage `json:"fulfillments"`
}

// IsOriginal reports whether the order is the initial purchase rather than a
// recurring billing cycle, per the reference-suffix convention.
func (o *Order) IsOriginal() bool {
	if o == nil || o.Reference == nil {
		return false
	}

	return !strings.HasSuffix(*o.Reference, constant.BillingOrderSuffix)
}
