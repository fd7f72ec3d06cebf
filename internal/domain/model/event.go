package model

import (
	"encoding/json"
	"time"

	"digital-storefront/internal/domain"
)

// EventType is the closed set of provider event kinds this system knows about.
// Anything else parses to EventTypeOther so new kinds have to be routed deliberately.
type EventType string

const (
	EventTypePaymentIntentCreated   EventType = "payment_intent.created"
	EventTypePaymentIntentSucceeded EventType = "payment_intent.succeeded"
	EventTypeChargeSucceeded        EventType = "charge.succeeded"
	EventTypeChargeUpdated          EventType = "charge.updated"
	EventTypeOther                  EventType = "other"
)

func ParseEventType(s string) EventType {
	switch EventType(s) {
	case EventTypePaymentIntentCreated, EventTypePaymentIntentSucceeded,
		EventTypeChargeSucceeded, EventTypeChargeUpdated:
		return EventType(s)
	default:
		return EventTypeOther
	}
}

// Event is a verified provider notification. Instances are only constructed by
// the signature verifier, so downstream code may trust Type and Object.
// Events are transient; they are not persisted as-is.
type Event struct {
	ID        string
	Type      EventType
	RawType   string // provider string, kept for logging unrecognized kinds
	CreatedAt time.Time
	Object    json.RawMessage // the data.object payload, type-specific
}

// Charge is the subset of a charge.succeeded payload fulfillment cares about.
// The provider charge ID doubles as the idempotency key: redelivery of the
// same logical charge carries the same ID, a genuine repeat purchase does not.
type Charge struct {
	ID           string
	Amount       int64 // minor currency units
	Currency     string
	ProductID    string
	BillingEmail string
}

type chargeObject struct {
	ID             string `json:"id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	BillingDetails struct {
		Email string `json:"email"`
	} `json:"billing_details"`
	Metadata map[string]string `json:"metadata"`
}

// Charge decodes the event payload as a charge. Only meaningful for
// charge.* events; other payloads yield ErrInvalidChargeMetadata.
func (e *Event) Charge() (Charge, error) {
	var obj chargeObject
	if err := json.Unmarshal(e.Object, &obj); err != nil {
		return Charge{}, domain.ErrInvalidChargeMetadata
	}
	if obj.ID == "" {
		return Charge{}, domain.ErrInvalidChargeMetadata
	}
	return Charge{
		ID:           obj.ID,
		Amount:       obj.Amount,
		Currency:     obj.Currency,
		ProductID:    obj.Metadata["productId"],
		BillingEmail: obj.BillingDetails.Email,
	}, nil
}

// Outcome is the terminal result of routing one event.
type Outcome string

const (
	OutcomeFulfilled    Outcome = "fulfilled"    // charge.succeeded processed end to end
	OutcomeAcknowledged Outcome = "acknowledged" // known type, intentionally no side effects
	OutcomeUnhandled    Outcome = "unhandled"    // unrecognized type, acknowledged but flagged
)
