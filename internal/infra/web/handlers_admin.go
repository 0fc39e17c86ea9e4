package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"compta-billing-platform/internal/domain/model"
)

func (s *Server) handleDeletionList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		requests []*model.DeletionRequest
		err      error
	)
	if r.URL.Query().Get("tous") == "1" {
		requests, err = s.delUC.ListAll(ctx)
	} else {
		requests, err = s.delUC.ListPending(ctx)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]deletionResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toDeletionResponse(req))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

func (s *Server) handleDeletionApprove(w http.ResponseWriter, r *http.Request) {
	req, err := s.delUC.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeletionResponse(req))
}

func (s *Server) handleDeletionRefuse(w http.ResponseWriter, r *http.Request) {
	req, err := s.delUC.Refuse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeletionResponse(req))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Totals(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}
