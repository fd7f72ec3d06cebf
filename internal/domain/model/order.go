package model

import "time"

// Order records one successful charge. Immutable after creation.
// ChargeID carries a unique constraint in storage; that constraint is what
// makes fulfillment idempotent under provider redelivery.
type Order struct {
	ID              string // ULID
	AccountID       string
	ProductID       string
	ChargeID        string
	DownloadGrantID string
	PriceCents      int64 // amount actually paid, minor units
	CreatedAt       time.Time
}

// OrderSummary is the read model for the admin listing and order-history
// mail: an order joined with its product name and purchaser email.
type OrderSummary struct {
	ID          string
	ProductID   string
	ProductName string
	Email       string
	PriceCents  int64
	CreatedAt   time.Time
}
