package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"compta-billing-platform/internal/domain"
)

// errorEnvelope is the uniform error body. fields carries per-field
// validation messages on 422 responses.
type errorEnvelope struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, errorEnvelope{Error: msg, Fields: fields})
}

// writeDomainError maps domain sentinels to HTTP codes. Unexpected errors
// become a generic 500; internals never leak to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "ressource introuvable", nil)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusUnprocessableEntity, "données invalides", nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "la ressource existe déjà", nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, "transition d'état non autorisée", nil)
	case errors.Is(err, domain.ErrReasonRequired):
		writeError(w, http.StatusUnprocessableEntity, "un motif de rejet est requis", nil)
	case errors.Is(err, domain.ErrNoSubscription):
		writeError(w, http.StatusUnprocessableEntity, "aucun abonnement validé", nil)
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusUnprocessableEntity, "quota de stockage dépassé", nil)
	case errors.Is(err, domain.ErrEntityLocked):
		writeError(w, http.StatusConflict, "opération concurrente en cours, réessayez", nil)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "accès refusé", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "identifiants invalides", nil)
	default:
		writeError(w, http.StatusInternalServerError, "erreur interne", nil)
	}
}

// ymd formats dates the way the API serializes them.
func ymd(t time.Time) string { return t.Format("2006-01-02") }

// parseYMD accepts Y-m-d date strings; full RFC 3339 timestamps also pass.
func parseYMD(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseOptionalYMD(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseYMD(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
