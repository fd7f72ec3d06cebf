package web

import (
	"errors"
	"io"
	"net/http"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/infra/logging"
	"digital-storefront/internal/infra/metrics"
)

// SignatureHeader carries the provider's signature over the raw body.
const SignatureHeader = "Stripe-Signature"

// maxWebhookBody bounds how much we read; provider events are small.
const maxWebhookBody = 1 << 20

// handleWebhook is the delivery boundary: Received -> Verified -> Routed ->
// {Fulfilled | Acknowledged | Rejected}. The body must stay untouched raw
// bytes until the signature check passes.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Error().Err(err).Msg("read webhook body failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Webhook handler failed"})
		return
	}

	ev, err := s.verifier.ConstructEvent(body, r.Header.Get(SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSignatureMissing):
			metrics.IncWebhookReject("signature_missing")
			log.Warn().Msg("webhook signature missing")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Signature missing"})
		case errors.Is(err, domain.ErrSignatureInvalid):
			metrics.IncWebhookReject("signature_invalid")
			log.Warn().Msg("webhook signature invalid")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
		default:
			metrics.IncWebhookReject("invalid_payload")
			log.Warn().Err(err).Msg("webhook payload rejected")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
		}
		return
	}

	ctx = logging.WithEventID(ctx, ev.ID)
	log = logging.With(ctx, s.log)

	outcome, err := s.webhookUC.Route(ctx, ev)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidChargeMetadata):
			log.Error().Str("event_type", ev.RawType).Msg("charge metadata missing product id or email")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid charge metadata"})
		case errors.Is(err, domain.ErrProductNotFound):
			// Catalog inconsistency, not a transient fault. Logged loud.
			log.Error().Str("event_type", ev.RawType).Msg("product missing for charge")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Webhook handler failed"})
		default:
			// Transient storage failure; a 500 makes the provider redeliver,
			// which is the system's retry mechanism.
			log.Error().Err(err).Str("event_type", ev.RawType).Msg("webhook handler failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Webhook handler failed"})
		}
		return
	}

	if outcome == model.OutcomeUnhandled {
		// Acknowledged but flagged: the 400 surfaces unrouted event kinds in
		// the provider dashboard instead of silently swallowing them.
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unhandled event type"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": ackMessage(ev.Type)})
}

func ackMessage(t model.EventType) string {
	switch t {
	case model.EventTypePaymentIntentCreated:
		return "Payment intent created"
	case model.EventTypePaymentIntentSucceeded:
		return "Payment intent succeeded"
	case model.EventTypeChargeSucceeded:
		return "Charge succeeded"
	case model.EventTypeChargeUpdated:
		return "Charge updated"
	}
	return "OK"
}
