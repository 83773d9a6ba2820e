package model

import "encoding/json"

// Kind is the closed set of webhook event types the router understands.
// Anything else maps to KindUnknown with the raw tag preserved on the event.
type Kind int

const (
	KindUnknown Kind = iota
	KindSubscriptionDeactivated
	KindPledgeCreated
	KindPledgeDeleted
)

// Event type tags as delivered by the upstream platforms
const (
	TagSubscriptionDeactivated = "subscription.deactivated"
	TagPledgeCreated           = "pledges:create"
	TagPledgeDeleted           = "pledges:delete"
)

// ParseKind maps an event type tag to its kind.
func ParseKind(tag string) Kind {
	switch tag {
	case TagSubscriptionDeactivated:
		return KindSubscriptionDeactivated
	case TagPledgeCreated:
		return KindPledgeCreated
	case TagPledgeDeleted:
		return KindPledgeDeleted
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindSubscriptionDeactivated:
		return TagSubscriptionDeactivated
	case KindPledgeCreated:
		return TagPledgeCreated
	case KindPledgeDeleted:
		return TagPledgeDeleted
	default:
		return "unknown"
	}
}

// WebhookEvent is one element of an inbound webhook batch. Data is kept
// opaque here and decoded into a typed payload by the handler for its kind.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Kind resolves the event's declared type tag.
func (e WebhookEvent) Kind() Kind {
	return ParseKind(e.Type)
}

// EventBatch is the commerce webhook envelope. Each event is processed
// independently; the batch never aborts on an unrecognized type.
type EventBatch struct {
	Events []WebhookEvent `json:"events"`
}

// SubscriptionEventData is the payload of subscription lifecycle events.
type SubscriptionEventData struct {
	ID string `json:"id"`
}
