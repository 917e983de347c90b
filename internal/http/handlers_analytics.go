package http

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/analytics"
)

func groupParam(r *http.Request) (analytics.GroupKey, bool) {
	switch strings.TrimSpace(r.URL.Query().Get("group")) {
	case "", "category":
		return analytics.GroupByCategory, true
	case "payment_method":
		return analytics.GroupByPaymentMethod, true
	default:
		return "", false
	}
}

func signParam(r *http.Request) (analytics.SignFilter, bool) {
	switch strings.TrimSpace(r.URL.Query().Get("sign")) {
	case "", "expenses":
		return analytics.SignExpenses, true
	case "income":
		return analytics.SignIncome, true
	case "all":
		return analytics.SignAll, true
	default:
		return "", false
	}
}

func (s *Server) breakdownRows(w http.ResponseWriter, r *http.Request) ([]analytics.CategoryTotal, bool) {
	u, _ := userFrom(r.Context())

	key, ok := groupParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid group, want category or payment_method")
		return nil, false
	}
	sign, ok := signParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sign, want expenses, income or all")
		return nil, false
	}

	txns, err := s.txService.List(r.Context(), u.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return nil, false
	}
	txns = analytics.FilterRange(txns, time.Now().UTC(), rangeParam(r))

	rows := analytics.Breakdown(txns, key, sign)
	if top := intParam(r, "top", 0); top > 0 {
		rows = analytics.TopN(rows, top)
	}
	return rows, true
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.breakdownRows(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.breakdownRows(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"slices": analytics.PieSlices(rows)})
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	granularity := analytics.Granularity(strings.TrimSpace(r.URL.Query().Get("granularity")))
	if granularity == "" {
		granularity = analytics.ByMonth
	}

	txns, err := s.txService.List(r.Context(), u.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	txns = analytics.FilterRange(txns, time.Now().UTC(), rangeParam(r))

	buckets, maxValue, err := analytics.Buckets(txns, granularity, intParam(r, "limit", 0))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid granularity, want day, week or month")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"buckets":   buckets,
		"max_cents": maxValue,
	})
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	mode := analytics.HeatmapMode(strings.TrimSpace(r.URL.Query().Get("mode")))
	if mode == "" {
		mode = analytics.ByDayOfWeek
	}

	txns, err := s.txService.List(r.Context(), u.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	txns = analytics.FilterRange(txns, time.Now().UTC(), rangeParam(r))

	slots, maxValue, err := analytics.Heatmap(txns, mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid mode, want dayOfWeek or hourOfDay")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"slots":     slots,
		"max_cents": maxValue,
	})
}
