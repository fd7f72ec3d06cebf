// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/infra/logging"
	"digital-storefront/internal/infra/metrics"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// WebhookUseCase routes one verified event to its terminal outcome.
// Dispatch is synchronous and single-shot; retry lives with the provider's
// redelivery mechanism, driven by the HTTP status the endpoint returns.
type WebhookUseCase interface {
	Route(ctx context.Context, ev *model.Event) (model.Outcome, error)
}

type webhookUC struct {
	fulfillUC FulfillmentUseCase
	notifUC   NotificationUseCase
	log       *zerolog.Logger
}

func NewWebhookUseCase(fulfillUC FulfillmentUseCase, notifUC NotificationUseCase, logger *zerolog.Logger) *webhookUC {
	return &webhookUC{fulfillUC: fulfillUC, notifUC: notifUC, log: logger}
}

func (u *webhookUC) Route(ctx context.Context, ev *model.Event) (model.Outcome, error) {
	ctx = logging.WithEventID(ctx, ev.ID)
	log := logging.With(ctx, u.log)

	switch ev.Type {
	case model.EventTypeChargeSucceeded:
		return u.handleChargeSucceeded(ctx, ev)

	case model.EventTypePaymentIntentCreated,
		model.EventTypePaymentIntentSucceeded,
		model.EventTypeChargeUpdated:
		log.Info().Str("event_type", string(ev.Type)).Msg("event acknowledged")
		metrics.IncWebhookEvent(ev.RawType, string(model.OutcomeAcknowledged))
		return model.OutcomeAcknowledged, nil

	case model.EventTypeOther:
		log.Warn().Str("event_type", ev.RawType).Msg("unhandled event type")
		metrics.IncWebhookEvent(ev.RawType, string(model.OutcomeUnhandled))
		return model.OutcomeUnhandled, nil
	}

	// ParseEventType maps everything unknown to EventTypeOther, so a new
	// EventType constant without a case above lands here.
	metrics.IncWebhookEvent(ev.RawType, string(model.OutcomeUnhandled))
	return model.OutcomeUnhandled, nil
}

func (u *webhookUC) handleChargeSucceeded(ctx context.Context, ev *model.Event) (model.Outcome, error) {
	charge, err := ev.Charge()
	if err != nil {
		metrics.IncWebhookEvent(ev.RawType, "failed")
		return "", err
	}
	ctx = logging.WithChargeID(ctx, charge.ID)
	log := logging.With(ctx, u.log)

	res, err := u.fulfillUC.Fulfill(ctx, charge)
	if err != nil {
		metrics.IncWebhookEvent(ev.RawType, "failed")
		return "", err
	}

	if !res.AlreadyFulfilled {
		// Order and grant are committed at this point; a receipt failure is
		// logged and alerted on, never bubbled into the webhook response.
		if err := u.notifUC.SendReceipt(ctx, charge.BillingEmail, res.Order, res.Product, res.GrantID); err != nil {
			log.Error().Err(err).
				Str("product_id", res.Product.ID).
				Str("to", logging.Redact(charge.BillingEmail, false)).
				Msg("receipt delivery failed")
		}
	}

	metrics.IncWebhookEvent(ev.RawType, string(model.OutcomeFulfilled))
	return model.OutcomeFulfilled, nil
}
