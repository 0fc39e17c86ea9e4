package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/infra/metrics"
	"compta-billing-platform/internal/usecase"
)

func (s *Server) handleCompanyList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	var (
		companies []*model.Company
		err       error
	)
	switch claims.Role {
	case string(model.RoleAdmin):
		companies, err = s.companyUC.ListAll(ctx)
	case string(model.RoleAccountant):
		companies, err = s.companyUC.ListForAccountant(ctx, claims.UserID())
	default:
		company, cerr := s.companyUC.Get(ctx, claims.CompanyID)
		if cerr != nil {
			writeDomainError(w, cerr)
			return
		}
		companies = []*model.Company{company}
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

func (s *Server) handleCompanyCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	var req companyCreateRequest
	if !decodeValid(w, r, &req) {
		return
	}
	// Accountants create tenants under themselves; admins must name one.
	accountantID := req.AccountantID
	if claims.Role == string(model.RoleAccountant) {
		accountantID = claims.UserID()
	}
	if accountantID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation échouée", map[string]string{"comptable_id": "ce champ est requis"})
		return
	}

	company, err := s.companyUC.Create(ctx, req.Name, req.Siret, accountantID, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompanyResponse(company))
}

func (s *Server) handleCompanyGet(w http.ResponseWriter, r *http.Request) {
	company, ok := s.companyForCaller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (s *Server) handleCompanyUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := s.companyForCaller(w, r); !ok {
		return
	}

	var req companyUpdateRequest
	if !decodeValid(w, r, &req) {
		return
	}
	company, err := s.companyUC.Update(ctx, chi.URLParam(r, "id"), usecase.CompanyUpdate{
		Name:    req.Name,
		Siret:   req.Siret,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (s *Server) handleCompanyValidate(w http.ResponseWriter, r *http.Request) {
	company, err := s.companyUC.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncValidationDecision("entreprise", "valide")
	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (s *Server) handleCompanyReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if !decodeValid(w, r, &req) {
		return
	}
	company, err := s.companyUC.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncValidationDecision("entreprise", "refuse")
	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (s *Server) handleCompanyDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.companyUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCompanyCurrentSubscription returns the latest subscription with its
// display status. A company that never subscribed yields statut "aucun".
func (s *Server) handleCompanyCurrentSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := s.companyForCaller(w, r); !ok {
		return
	}

	sub, derived, err := s.subUC.CurrentForCompany(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sub == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"statut": string(derived), "abonnement": nil})
		return
	}
	resp := toSubscriptionResponse(sub)
	resp.DerivedStatus = string(derived)
	writeJSON(w, http.StatusOK, map[string]interface{}{"statut": string(derived), "abonnement": resp})
}

func (s *Server) handleDeletionCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := s.companyForCaller(w, r); !ok {
		return
	}

	var req deletionCreateRequest
	if !decodeValid(w, r, &req) {
		return
	}
	claims := claimsFrom(ctx)
	dr, err := s.delUC.Request(ctx, chi.URLParam(r, "id"), claims.UserID(), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDeletionResponse(dr))
}

// companyForCaller loads the company and enforces tenancy.
func (s *Server) companyForCaller(w http.ResponseWriter, r *http.Request) (*model.Company, bool) {
	ctx := r.Context()
	claims := claimsFrom(ctx)
	id := chi.URLParam(r, "id")

	company, err := s.companyUC.Get(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	switch claims.Role {
	case string(model.RoleAdmin):
	case string(model.RoleAccountant):
		if company.AccountantID != claims.UserID() {
			writeError(w, http.StatusForbidden, "accès refusé", nil)
			return nil, false
		}
	default:
		if claims.CompanyID != id {
			writeError(w, http.StatusForbidden, "accès refusé", nil)
			return nil, false
		}
	}
	return company, true
}
