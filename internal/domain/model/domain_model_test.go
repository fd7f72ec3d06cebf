//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"digital-storefront/internal/domain"
)

func TestParseEventType(t *testing.T) {
	cases := []struct {
		raw  string
		want EventType
	}{
		{"payment_intent.created", EventTypePaymentIntentCreated},
		{"payment_intent.succeeded", EventTypePaymentIntentSucceeded},
		{"charge.succeeded", EventTypeChargeSucceeded},
		{"charge.updated", EventTypeChargeUpdated},
		{"charge.refunded", EventTypeOther},
		{"", EventTypeOther},
		{"CHARGE.SUCCEEDED", EventTypeOther},
	}
	for _, tc := range cases {
		if got := ParseEventType(tc.raw); got != tc.want {
			t.Errorf("ParseEventType(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestEventCharge(t *testing.T) {
	t.Run("decodes a well-formed charge object", func(t *testing.T) {
		ev := &Event{
			Type: EventTypeChargeSucceeded,
			Object: []byte(`{
				"id": "ch_1",
				"amount": 4200,
				"currency": "usd",
				"billing_details": {"email": "buyer@example.com"},
				"metadata": {"productId": "P1"}
			}`),
		}
		charge, err := ev.Charge()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if charge.ID != "ch_1" || charge.Amount != 4200 || charge.Currency != "usd" {
			t.Errorf("charge fields wrong: %+v", charge)
		}
		if charge.ProductID != "P1" {
			t.Errorf("expected product id from metadata, got %q", charge.ProductID)
		}
		if charge.BillingEmail != "buyer@example.com" {
			t.Errorf("expected billing email, got %q", charge.BillingEmail)
		}
	})

	t.Run("rejects an object without a charge id", func(t *testing.T) {
		ev := &Event{Object: []byte(`{"amount": 100}`)}
		if _, err := ev.Charge(); !errors.Is(err, domain.ErrInvalidChargeMetadata) {
			t.Fatalf("expected ErrInvalidChargeMetadata, got: %v", err)
		}
	})

	t.Run("rejects a non-object payload", func(t *testing.T) {
		ev := &Event{Object: []byte(`"not an object"`)}
		if _, err := ev.Charge(); !errors.Is(err, domain.ErrInvalidChargeMetadata) {
			t.Fatalf("expected ErrInvalidChargeMetadata, got: %v", err)
		}
	})

	t.Run("missing metadata decodes with empty product id", func(t *testing.T) {
		ev := &Event{Object: []byte(`{"id": "ch_2", "amount": 100, "currency": "usd"}`)}
		charge, err := ev.Charge()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if charge.ProductID != "" {
			t.Errorf("expected empty product id, got %q", charge.ProductID)
		}
	})
}

func TestNewAccount(t *testing.T) {
	a := NewAccount("buyer@example.com")
	if a.ID == "" {
		t.Error("expected a generated account id")
	}
	if a.Email != "buyer@example.com" {
		t.Errorf("unexpected email %q", a.Email)
	}
	if a.CreatedAt.IsZero() || !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Error("expected CreatedAt and UpdatedAt set to the same instant")
	}
}

func TestNewDownloadGrant(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewDownloadGrant("P1", now)

	if g.ID == "" {
		t.Error("expected a generated grant id")
	}
	if g.ProductID != "P1" {
		t.Errorf("unexpected product id %q", g.ProductID)
	}
	if want := now.Add(DownloadGrantTTL); !g.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, g.ExpiresAt)
	}
	if !g.ExpiresAt.After(g.CreatedAt) {
		t.Error("grant must expire after creation")
	}

	t.Run("Expired", func(t *testing.T) {
		if g.Expired(now) {
			t.Error("grant should be live at issuance")
		}
		if g.Expired(g.ExpiresAt.Add(-time.Second)) {
			t.Error("grant should be live just before expiry")
		}
		if !g.Expired(g.ExpiresAt) {
			t.Error("grant should be expired exactly at expiry")
		}
		if !g.Expired(g.ExpiresAt.Add(time.Hour)) {
			t.Error("grant should be expired after expiry")
		}
	})
}
