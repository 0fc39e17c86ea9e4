package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/usecase"
)

var validate = validator.New()

// decodeValid decodes a JSON body into dst and runs struct validation.
// Validation failures surface as a 422 with per-field messages.
func decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fieldMessage(fe)
			}
			writeError(w, http.StatusUnprocessableEntity, "validation échouée", fields)
		} else {
			writeError(w, http.StatusUnprocessableEntity, "validation échouée", nil)
		}
		return false
	}
	return true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "ce champ est requis"
	case "email":
		return "adresse email invalide"
	case "min":
		return "valeur trop courte"
	case "gt", "gte":
		return "valeur trop petite"
	case "oneof":
		return "valeur non autorisée"
	default:
		return "valeur invalide"
	}
}

// ===== Requests =====

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userCreateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=admin comptable entreprise"`
	CompanyID string `json:"id_entreprise" validate:"required_if=Role entreprise"`
}

type subscriptionCreateRequest struct {
	CompanyID string  `json:"id_entreprise" validate:"required"`
	PlanID    string  `json:"plan_id" validate:"required"`
	StartDate string  `json:"date_debut" validate:"required"`
	EndDate   string  `json:"date_fin" validate:"required"`
	Amount    float64 `json:"montant" validate:"gte=0"`
	Type      string  `json:"type" validate:"omitempty,oneof=initial renouvellement upgrade"`
}

type subscriptionUpdateRequest struct {
	StartDate *string  `json:"date_debut"`
	EndDate   *string  `json:"date_fin"`
	Amount    *float64 `json:"montant" validate:"omitempty,gte=0"`
}

type renewalRequest struct {
	PlanID      string  `json:"plan_id"`
	Mode        string  `json:"mode" validate:"omitempty,oneof=auto discount custom"`
	DiscountPct float64 `json:"remise_pct" validate:"gte=0,lte=100"`
	CustomPrice float64 `json:"prix_personnalise" validate:"gte=0"`
}

type rejectRequest struct {
	Reason string `json:"motif" validate:"required"`
}

type planCreateRequest struct {
	Name       string  `json:"nom" validate:"required"`
	MaxSpaceMB int64   `json:"espace_max" validate:"required,gt=0"`
	Price      float64 `json:"prix" validate:"gte=0"`
}

type planUpdateRequest struct {
	Name       *string  `json:"nom"`
	MaxSpaceMB *int64   `json:"espace_max" validate:"omitempty,gt=0"`
	Price      *float64 `json:"prix" validate:"omitempty,gte=0"`
}

type companyCreateRequest struct {
	Name         string `json:"nom" validate:"required"`
	Siret        string `json:"siret"`
	AccountantID string `json:"comptable_id"`
	Email        string `json:"email" validate:"omitempty,email"`
}

type companyUpdateRequest struct {
	Name    *string `json:"nom"`
	Siret   *string `json:"siret"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"telephone"`
	Address *string `json:"adresse"`
}

type deletionCreateRequest struct {
	Reason string `json:"motif"`
}

// ===== Responses =====

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"id_entreprise,omitempty"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: string(u.Role), CompanyID: u.CompanyID}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type subscriptionResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"id_entreprise"`
	PlanID           string  `json:"plan_id"`
	StartDate        string  `json:"date_debut"`
	EndDate          string  `json:"date_fin"`
	Amount           float64 `json:"montant"`
	Status           string  `json:"statut"`
	DerivedStatus    string  `json:"statut_calcule"`
	Validation       string  `json:"etat_validation"`
	Type             string  `json:"type"`
	JustificatifPath string  `json:"justificatif,omitempty"`
	RejectionReason  string  `json:"motif_rejet,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

func toSubscriptionResponse(s *model.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:               s.ID,
		CompanyID:        s.CompanyID,
		PlanID:           s.PlanID,
		StartDate:        ymd(s.StartDate),
		EndDate:          ymd(s.EndDate),
		Amount:           s.Amount,
		Status:           string(s.Status),
		DerivedStatus:    string(s.DerivedStatus(time.Now())),
		Validation:       string(s.Validation),
		Type:             string(s.Type),
		JustificatifPath: s.JustificatifPath,
		RejectionReason:  s.RejectionReason,
		CreatedAt:        ymd(s.CreatedAt),
	}
}

func toSubscriptionResponses(subs []*model.Subscription) []subscriptionResponse {
	out := make([]subscriptionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubscriptionResponse(s))
	}
	return out
}

type quoteResponse struct {
	FinalPrice     float64 `json:"prix_final"`
	DiscountAmount float64 `json:"remise"`
	Explanation    string  `json:"explication"`
}

func toQuoteResponse(q model.RenewalQuote) quoteResponse {
	return quoteResponse{FinalPrice: q.FinalPrice, DiscountAmount: q.DiscountAmount, Explanation: q.Explanation}
}

type companyResponse struct {
	ID              string `json:"id"`
	Name            string `json:"nom"`
	Siret           string `json:"siret,omitempty"`
	AccountantID    string `json:"comptable_id"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"telephone,omitempty"`
	Address         string `json:"adresse,omitempty"`
	Validation      string `json:"etat_validation"`
	RejectionReason string `json:"motif_rejet,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func toCompanyResponse(c *model.Company) companyResponse {
	return companyResponse{
		ID:              c.ID,
		Name:            c.Name,
		Siret:           c.Siret,
		AccountantID:    c.AccountantID,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		Validation:      string(c.Validation),
		RejectionReason: c.RejectionReason,
		CreatedAt:       ymd(c.CreatedAt),
	}
}

type documentResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"id_entreprise"`
	Label     string `json:"label"`
	SizeBytes int64  `json:"taille"`
	MimeType  string `json:"mime,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toDocumentResponse(d *model.Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		CompanyID: d.CompanyID,
		Label:     d.Label,
		SizeBytes: d.SizeBytes,
		MimeType:  d.MimeType,
		CreatedAt: ymd(d.CreatedAt),
	}
}

type deletionResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"id_entreprise"`
	RequestedBy string `json:"demandeur,omitempty"`
	Reason      string `json:"motif,omitempty"`
	Status      string `json:"statut"`
	CreatedAt   string `json:"created_at"`
	DecidedAt   string `json:"decided_at,omitempty"`
}

func toDeletionResponse(d *model.DeletionRequest) deletionResponse {
	resp := deletionResponse{
		ID:          d.ID,
		CompanyID:   d.CompanyID,
		RequestedBy: d.RequestedBy,
		Reason:      d.Reason,
		Status:      string(d.Status),
		CreatedAt:   ymd(d.CreatedAt),
	}
	if d.DecidedAt != nil {
		resp.DecidedAt = ymd(*d.DecidedAt)
	}
	return resp
}

type statsResponse struct {
	TotalUsers            int            `json:"total_users"`
	TotalCompanies        int            `json:"total_entreprises"`
	SubscriptionsByStatus map[string]int `json:"abonnements_par_statut"`
	RevenueMonth          float64        `json:"revenu_mois"`
	RevenueYear           float64        `json:"revenu_annee"`
}

func toStatsResponse(s *usecase.Stats) statsResponse {
	byStatus := make(map[string]int, len(s.SubscriptionsByStatus))
	for k, v := range s.SubscriptionsByStatus {
		byStatus[string(k)] = v
	}
	return statsResponse{
		TotalUsers:            s.TotalUsers,
		TotalCompanies:        s.TotalCompanies,
		SubscriptionsByStatus: byStatus,
		RevenueMonth:          s.RevenueMonth,
		RevenueYear:           s.RevenueYear,
	}
}
