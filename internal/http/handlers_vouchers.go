package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

type voucherResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
	PointsCost    int64     `json:"points_cost"`
	Active        bool      `json:"active"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
	UsageLimit    int64     `json:"usage_limit"`
	RedeemedCount int64     `json:"redeemed_count"`
}

func toVoucherResponse(v core.Voucher) voucherResponse {
	return voucherResponse{
		ID:            v.ID,
		Code:          v.Code,
		Title:         v.Title,
		Description:   v.Description,
		AmountCents:   v.Amount.Cents,
		PointsCost:    v.PointsCost,
		Active:        v.Active,
		ValidFrom:     v.ValidFrom,
		ValidUntil:    v.ValidUntil,
		UsageLimit:    v.UsageLimit,
		RedeemedCount: v.RedeemedCount,
	}
}

func (s *Server) handleListVouchers(w http.ResponseWriter, r *http.Request) {
	vouchers, err := s.rwService.ListVouchers(r.Context(), true)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	out := make([]voucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, toVoucherResponse(v))
	}
	respondJSON(w, http.StatusOK, out)
}

type redeemRequest struct {
	Code string `json:"code"`
}

type redemptionResponse struct {
	ID          string    `json:"id"`
	VoucherID   string    `json:"voucher_id"`
	PointsSpent int64     `json:"points_spent"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRedemptionResponse(red core.Redemption) redemptionResponse {
	return redemptionResponse{
		ID:          red.ID,
		VoucherID:   red.VoucherID,
		PointsSpent: red.PointsSpent,
		CreatedAt:   red.CreatedAt,
	}
}

func (s *Server) handleRedeemVoucher(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	var req redeemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	red, err := s.rwService.Redeem(r.Context(), u.ID, req.Code, time.Now().UTC())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toRedemptionResponse(red))
}

func (s *Server) handleRedemptions(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	reds, err := s.rwService.Redemptions(r.Context(), u.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	out := make([]redemptionResponse, 0, len(reds))
	for _, red := range reds {
		out = append(out, toRedemptionResponse(red))
	}
	respondJSON(w, http.StatusOK, out)
}

type ledgerEntryResponse struct {
	ID        string    `json:"id"`
	Delta     int64     `json:"delta"`
	Reason    string    `json:"reason"`
	RefID     string    `json:"ref_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	entries, err := s.rwService.Ledger(r.Context(), u.ID, intParam(r, "limit", 0))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ledgerEntryResponse{
			ID:        e.ID,
			Delta:     e.Delta,
			Reason:    e.Reason,
			RefID:     e.RefID,
			CreatedAt: e.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
