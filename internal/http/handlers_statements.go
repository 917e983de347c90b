package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

type statementResponse struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"`
	RowCount    int64      `json:"row_count"`
	SkippedRows int64      `json:"skipped_rows"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func toStatementResponse(st core.Statement) statementResponse {
	resp := statementResponse{
		ID:          st.ID,
		Filename:    st.Filename,
		Status:      string(st.Status),
		RowCount:    st.RowCount,
		SkippedRows: st.SkippedRows,
		Error:       st.Error,
		CreatedAt:   st.CreatedAt,
	}
	if !st.ProcessedAt.IsZero() {
		t := st.ProcessedAt
		resp.ProcessedAt = &t
	}
	return resp
}

func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	stmts, err := s.stService.List(r.Context(), u.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	out := make([]statementResponse, 0, len(stmts))
	for _, st := range stmts {
		out = append(out, toStatementResponse(st))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing multipart field 'file'")
		return
	}
	defer file.Close()

	st, err := s.stService.Upload(r.Context(), u.ID, header.Filename, file)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, toStatementResponse(st))
}

func (s *Server) handleGetStatement(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	st, err := s.stService.Get(r.Context(), u.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toStatementResponse(st))
}
