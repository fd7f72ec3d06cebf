package model

import "time"

// Product is a catalog entity. The webhook flow only ever reads products;
// catalog management happens outside this core.
type Product struct {
	ID          string // UUID
	Name        string
	Description string
	PriceCents  int64  // list price in minor units; orders record the amount actually paid
	FilePath    string // asset served by the external download server
	IsAvailable bool
	CreatedAt   time.Time
}
