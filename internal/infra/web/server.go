package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/usecase"
)

// EventVerifier validates a raw payload and signature header into a trusted event.
// Satisfied by stripe.Verifier; an interface here so handler tests can stub it.
type EventVerifier interface {
	ConstructEvent(payload []byte, header string) (*model.Event, error)
}

type Server struct {
	verifier  EventVerifier
	webhookUC usecase.WebhookUseCase
	orderUC   usecase.OrderUseCase
	statsUC   usecase.StatsUseCase
	apiKey    string
	log       *zerolog.Logger
}

func NewServer(
	verifier EventVerifier,
	webhookUC usecase.WebhookUseCase,
	orderUC usecase.OrderUseCase,
	statsUC usecase.StatsUseCase,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		verifier:  verifier,
		webhookUC: webhookUC,
		orderUC:   orderUC,
		statsUC:   statsUC,
		apiKey:    apiKey,
		log:       logger,
	}
}

// Router builds the full HTTP surface: the webhook endpoint, health, metrics
// and the bearer-protected admin API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))

	r.Post("/webhooks/payment", s.handleWebhook)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuth(s.apiKey, s.log))
		r.Get("/stats", s.handleStats)
		r.Get("/orders", s.handleOrdersList)
		r.Post("/orders/history-email", s.handleOrderHistoryEmail)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
