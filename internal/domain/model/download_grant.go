package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DownloadGrantTTL is how long a grant stays redeemable after issuance.
const DownloadGrantTTL = 24 * time.Hour

// DownloadGrant is a short-lived capability to fetch a purchased asset.
// Single-use enforcement happens in the external download server; this core
// only issues grants and guarantees ExpiresAt > CreatedAt.
type DownloadGrant struct {
	ID        string // ULID
	ProductID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func NewDownloadGrant(productID string, now time.Time) *DownloadGrant {
	now = now.UTC()
	return &DownloadGrant{
		ID:        ulid.Make().String(),
		ProductID: productID,
		CreatedAt: now,
		ExpiresAt: now.Add(DownloadGrantTTL),
	}
}

// Expired reports whether the grant is past its expiry at the given instant.
func (g *DownloadGrant) Expired(at time.Time) bool {
	return !at.Before(g.ExpiresAt)
}
