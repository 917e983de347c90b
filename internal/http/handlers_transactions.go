package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

type transactionRequest struct {
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
}

type transactionResponse struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	AmountCents   int64     `json:"amount_cents"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Date:          t.Date,
		AmountCents:   t.Amount.Cents,
		Category:      t.CategoryLabel(),
		PaymentMethod: t.PaymentMethodLabel(),
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

func (s *Server) parseTransactionInput(w http.ResponseWriter, r *http.Request) (services.TransactionInput, bool) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return services.TransactionInput{}, false
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD or RFC 3339")
		return services.TransactionInput{}, false
	}

	return services.TransactionInput{
		Date:          date,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	}, true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	in, ok := s.parseTransactionInput(w, r)
	if !ok {
		return
	}

	t, err := s.txService.Create(r.Context(), u.ID, in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	id := chi.URLParam(r, "id")

	in, ok := s.parseTransactionInput(w, r)
	if !ok {
		return
	}

	t, err := s.txService.Update(r.Context(), u.ID, id, in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	t, err := s.txService.Get(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	if err := s.txService.Delete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	txns, err := s.txService.List(r.Context(), u.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	txns = analytics.FilterRange(txns, time.Now().UTC(), rangeParam(r))

	out := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

type statsResponse struct {
	Count        int   `json:"count"`
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	NetCents     int64 `json:"net_cents"`
}

func (s *Server) handleTransactionStats(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	txns, err := s.txService.List(r.Context(), u.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	txns = analytics.FilterRange(txns, time.Now().UTC(), rangeParam(r))

	var stats statsResponse
	for _, t := range txns {
		stats.Count++
		if t.IsExpense() {
			stats.ExpenseCents += t.Amount.Abs()
		} else {
			stats.IncomeCents += t.Amount.Cents
		}
		stats.NetCents += t.Amount.Cents
	}
	respondJSON(w, http.StatusOK, stats)
}
