package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
)

// DefaultTolerance bounds how old a signed timestamp may be before the event
// is rejected as a replay.
const DefaultTolerance = 5 * time.Minute

// Verifier checks provider signatures over the exact raw body bytes.
// The header format is "t=<unix>,v1=<hex hmac>" where the MAC is
// HMAC-SHA256(secret, "<t>.<body>"). Multiple v1 entries may appear during
// secret rotation; any one matching is enough.
type Verifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{secret: secret, tolerance: tolerance, now: time.Now}
}

// ConstructEvent verifies the signature header against payload and, on
// success, parses the payload into a typed event. payload must be the
// unmodified bytes received on the wire; any re-serialization breaks the MAC.
func (v *Verifier) ConstructEvent(payload []byte, header string) (*model.Event, error) {
	if strings.TrimSpace(header) == "" {
		return nil, domain.ErrSignatureMissing
	}

	ts, macs, err := parseSignatureHeader(header)
	if err != nil {
		return nil, err
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return nil, domain.ErrSignatureInvalid
	}

	expected := computeSignature(payload, v.secret, ts)
	ok := false
	for _, mac := range macs {
		if hmac.Equal(mac, expected) {
			ok = true
		}
	}
	if !ok {
		return nil, domain.ErrSignatureInvalid
	}

	return parseEvent(payload)
}

func parseSignatureHeader(header string) (ts int64, macs [][]byte, err error) {
	for _, part := range strings.Split(header, ",") {
		k, val, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts, err = strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, nil, domain.ErrSignatureInvalid
			}
		case "v1":
			mac, decErr := hex.DecodeString(val)
			if decErr != nil {
				continue // skip malformed entries, another v1 may still match
			}
			macs = append(macs, mac)
		}
	}
	if ts == 0 || len(macs) == 0 {
		return 0, nil, domain.ErrSignatureInvalid
	}
	return ts, macs, nil
}

func computeSignature(payload []byte, secret string, ts int64) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.", ts)
	h.Write(payload)
	return h.Sum(nil)
}

// Sign produces a valid signature header for payload at the given instant.
// Exported so handler tests and local delivery tooling can mint headers.
func Sign(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := computeSignature(payload, secret, ts)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac))
}

type eventEnvelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func parseEvent(payload []byte) (*model.Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("parse event payload: %w", err)
	}
	if env.ID == "" || env.Type == "" {
		return nil, fmt.Errorf("parse event payload: %w", domain.ErrInvalidArgument)
	}
	return &model.Event{
		ID:        env.ID,
		Type:      model.ParseEventType(env.Type),
		RawType:   env.Type,
		CreatedAt: time.Unix(env.Created, 0).UTC(),
		Object:    env.Data.Object,
	}, nil
}
