package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/infra/metrics"
)

func (s *Server) handleSubscriptionList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	switch claims.Role {
	case string(model.RoleCompany):
		subs, err := s.subUC.ListForCompany(ctx, claims.CompanyID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": toSubscriptionResponses(subs)})
	case string(model.RoleAccountant):
		subs, err := s.subUC.ListForAccountant(ctx, claims.UserID())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": toSubscriptionResponses(subs)})
	default: // admin scopes the list with a query parameter
		if companyID := r.URL.Query().Get("id_entreprise"); companyID != "" {
			subs, err := s.subUC.ListForCompany(ctx, companyID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": toSubscriptionResponses(subs)})
			return
		}
		if accountantID := r.URL.Query().Get("comptable_id"); accountantID != "" {
			subs, err := s.subUC.ListForAccountant(ctx, accountantID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": toSubscriptionResponses(subs)})
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "paramètre id_entreprise ou comptable_id requis", nil)
	}
}

func (s *Server) handleSubscriptionCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req subscriptionCreateRequest
	if !decodeValid(w, r, &req) {
		return
	}
	start, err := parseYMD(req.StartDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation échouée", map[string]string{"date_debut": "date invalide"})
		return
	}
	end, err := parseYMD(req.EndDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation échouée", map[string]string{"date_fin": "date invalide"})
		return
	}
	if !s.companyManagedByCaller(w, r, req.CompanyID) {
		return
	}

	sub, err := s.subUC.Create(ctx, req.CompanyID, req.PlanID, start, end, req.Amount, model.SubscriptionType(req.Type))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubscriptionResponse(sub))
}

func (s *Server) handleSubscriptionGet(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.subscriptionForCaller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

// handleSubscriptionUpdate mutates the period or amount. With ?_action=renew
// it instead performs a renewal at the quoted price.
func (s *Server) handleSubscriptionUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, ok := s.subscriptionForCaller(w, r); !ok {
		return
	}

	if r.URL.Query().Get("_action") == "renew" {
		var req renewalRequest
		if !decodeValid(w, r, &req) {
			return
		}
		sub, quote, err := s.subUC.Renew(ctx, id, req.PlanID, model.RenewalMode(req.Mode), req.DiscountPct, req.CustomPrice)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"abonnement": toSubscriptionResponse(sub),
			"tarif":      toQuoteResponse(quote),
		})
		return
	}

	var req subscriptionUpdateRequest
	if !decodeValid(w, r, &req) {
		return
	}
	start, err := parseOptionalYMD(req.StartDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation échouée", map[string]string{"date_debut": "date invalide"})
		return
	}
	end, err := parseOptionalYMD(req.EndDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation échouée", map[string]string{"date_fin": "date invalide"})
		return
	}

	sub, err := s.subUC.Update(ctx, id, start, end, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (s *Server) handleSubscriptionQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, ok := s.subscriptionForCaller(w, r); !ok {
		return
	}

	q := r.URL.Query()
	mode := model.RenewalMode(q.Get("mode"))
	discountPct, _ := strconv.ParseFloat(q.Get("remise_pct"), 64)
	customPrice, _ := strconv.ParseFloat(q.Get("prix_personnalise"), 64)

	quote, err := s.subUC.Quote(ctx, id, q.Get("plan_id"), mode, discountPct, customPrice)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}

func (s *Server) handleSubscriptionValidate(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subUC.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncValidationDecision("abonnement", "valide")
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (s *Server) handleSubscriptionReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if !decodeValid(w, r, &req) {
		return
	}
	sub, err := s.subUC.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncValidationDecision("abonnement", "refuse")
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (s *Server) handleSubscriptionDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.subUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJustificatifUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, ok := s.subscriptionForCaller(w, r); !ok {
		return
	}

	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	claims := claimsFrom(ctx)
	sub, err := s.docUC.UploadJustificatif(ctx, id, claims.UserID(), header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

// subscriptionForCaller loads the subscription and enforces tenancy: company
// users see their own tenant only, accountants their portfolio only.
func (s *Server) subscriptionForCaller(w http.ResponseWriter, r *http.Request) (*model.Subscription, bool) {
	sub, err := s.subUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if !s.companyManagedByCaller(w, r, sub.CompanyID) {
		return nil, false
	}
	return sub, true
}

// companyManagedByCaller enforces tenancy against a company id. On failure it
// writes the error response and returns false.
func (s *Server) companyManagedByCaller(w http.ResponseWriter, r *http.Request, companyID string) bool {
	claims := claimsFrom(r.Context())
	switch claims.Role {
	case string(model.RoleAdmin):
		return true
	case string(model.RoleAccountant):
		company, err := s.companyUC.Get(r.Context(), companyID)
		if err != nil {
			writeDomainError(w, err)
			return false
		}
		if company.AccountantID != claims.UserID() {
			writeError(w, http.StatusForbidden, "accès refusé", nil)
			return false
		}
		return true
	default:
		if claims.CompanyID != companyID {
			writeError(w, http.StatusForbidden, "accès refusé", nil)
			return false
		}
		return true
	}
}
