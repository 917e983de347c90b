package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// adminStore is the repository subset behind the admin endpoints.
type adminStore interface {
	ListUsers(ctx context.Context) ([]core.User, error)
	SetUserActive(ctx context.Context, id string, active bool) error
	CountAll(ctx context.Context) (storage.Counts, error)
}

type adminStatsResponse struct {
	Users        int64 `json:"users"`
	Transactions int64 `json:"transactions"`
	Statements   int64 `json:"statements"`
	Vouchers     int64 `json:"vouchers"`
	Redemptions  int64 `json:"redemptions"`
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	c, err := s.adminStore.CountAll(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, adminStatsResponse{
		Users:        c.Users,
		Transactions: c.Transactions,
		Statements:   c.Statements,
		Vouchers:     c.Vouchers,
		Redemptions:  c.Redemptions,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.adminStore.ListUsers(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondJSON(w, http.StatusOK, out)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleSetUserActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.adminStore.SetUserActive(r.Context(), chi.URLParam(r, "id"), req.Active); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type createVoucherRequest struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	PointsCost  int64  `json:"points_cost"`
	ValidFrom   string `json:"valid_from"`
	ValidUntil  string `json:"valid_until"`
	UsageLimit  int64  `json:"usage_limit"`
}

func (s *Server) handleCreateVoucher(w http.ResponseWriter, r *http.Request) {
	var req createVoucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := services.VoucherInput{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		PointsCost:  req.PointsCost,
		UsageLimit:  req.UsageLimit,
	}
	if req.ValidFrom != "" {
		t, err := parseDate(req.ValidFrom)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid valid_from, want YYYY-MM-DD or RFC 3339")
			return
		}
		in.ValidFrom = t
	}
	if req.ValidUntil != "" {
		t, err := parseDate(req.ValidUntil)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid valid_until, want YYYY-MM-DD or RFC 3339")
			return
		}
		in.ValidUntil = t
	}

	v, err := s.rwService.CreateVoucher(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toVoucherResponse(v))
}
