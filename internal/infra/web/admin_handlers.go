package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"digital-storefront/internal/domain"
)

// handleStats serves storefront totals for the ops dashboard.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, accounts, err := s.statsUC.Totals(ctx)
	if err != nil {
		http.Error(w, "Failed to get totals", http.StatusInternalServerError)
		return
	}
	week, month, year, err := s.statsUC.Revenue(ctx)
	if err != nil {
		http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
		return
	}

	response := struct {
		TotalOrders   int `json:"total_orders"`
		TotalAccounts int `json:"total_accounts"`
		Revenue       struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		} `json:"revenue_cents"`
	}{
		TotalOrders:   orders,
		TotalAccounts: accounts,
	}
	response.Revenue.Week = week
	response.Revenue.Month = month
	response.Revenue.Year = year

	writeJSON(w, http.StatusOK, response)
}

// handleOrdersList returns recent orders joined with product and purchaser.
// Accepts 'offset' and 'limit' query parameters.
func (s *Server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50 // Default page size
	}
	if offset < 0 {
		offset = 0
	}

	summaries, err := s.orderUC.ListRecent(ctx, offset, limit)
	if err != nil {
		http.Error(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}

	type orderRow struct {
		ID          string    `json:"id"`
		ProductName string    `json:"product_name"`
		Email       string    `json:"email"`
		PriceCents  int64     `json:"price_cents"`
		CreatedAt   time.Time `json:"created_at"`
	}
	rows := make([]orderRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, orderRow{
			ID:          s.ID,
			ProductName: s.ProductName,
			Email:       s.Email,
			PriceCents:  s.PriceCents,
			CreatedAt:   s.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, rows)
}

type historyEmailRequest struct {
	Email string `json:"email"`
}

// handleOrderHistoryEmail mails a purchase history with fresh download links.
// Always answers 202 for a well-formed address so the endpoint cannot be used
// to probe which emails have purchases.
func (s *Server) handleOrderHistoryEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req historyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.orderUC.EmailHistory(ctx, req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, "Invalid email address", http.StatusBadRequest)
			return
		}
		s.log.Error().Err(err).Msg("order history email failed")
		http.Error(w, "Failed to send order history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Order history sent"})
}
