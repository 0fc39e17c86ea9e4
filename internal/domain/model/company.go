package model

import (
	"strings"
	"time"

	"compta-billing-platform/internal/domain"
)

// CompanyValidationState is the moderation flag on a company account.
type CompanyValidationState string

const (
	CompanyPending  CompanyValidationState = "en_attente"
	CompanyApproved CompanyValidationState = "validee"
	CompanyRejected CompanyValidationState = "rejetee"
)

// Company is a tenant: a client company managed by exactly one accountant.
type Company struct {
	ID              string
	Name            string
	Siret           string
	AccountantID    string
	Email           string
	Phone           string
	Address         string
	Validation      CompanyValidationState
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewCompany validates and constructs a company in the pending state.
func NewCompany(id, name, siret, accountantID, email string) (*Company, error) {
	if id == "" || strings.TrimSpace(name) == "" || accountantID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Company{
		ID:           id,
		Name:         strings.TrimSpace(name),
		Siret:        siret,
		AccountantID: accountantID,
		Email:        email,
		Validation:   CompanyPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Validate approves the company. Rejected companies may be reactivated this
// way, which subscriptions do not allow.
func (c *Company) Validate() error {
	if c.Validation != CompanyPending && c.Validation != CompanyRejected {
		return domain.ErrInvalidTransition
	}
	c.Validation = CompanyApproved
	c.RejectionReason = ""
	c.UpdatedAt = time.Now()
	return nil
}

// Reject refuses a pending company with a mandatory reason.
func (c *Company) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrReasonRequired
	}
	if c.Validation != CompanyPending {
		return domain.ErrInvalidTransition
	}
	c.Validation = CompanyRejected
	c.RejectionReason = strings.TrimSpace(reason)
	c.UpdatedAt = time.Now()
	return nil
}

// ResetValidation puts an edited company back in the moderation queue and
// clears any previous rejection reason.
func (c *Company) ResetValidation() {
	c.Validation = CompanyPending
	c.RejectionReason = ""
	c.UpdatedAt = time.Now()
}
