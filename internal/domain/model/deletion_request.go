package model

import (
	"strings"
	"time"

	"compta-billing-platform/internal/domain"
)

// DeletionRequestStatus tracks an account-deletion request through review.
type DeletionRequestStatus string

const (
	DeletionPending  DeletionRequestStatus = "en_attente"
	DeletionApproved DeletionRequestStatus = "approuvee"
	DeletionRefused  DeletionRequestStatus = "refusee"
)

// DeletionRequest is a company's request to have its account removed; an admin
// approves or refuses it.
type DeletionRequest struct {
	ID          string
	CompanyID   string
	RequestedBy string
	Reason      string
	Status      DeletionRequestStatus
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

// NewDeletionRequest validates and constructs a pending deletion request.
func NewDeletionRequest(id, companyID, requestedBy, reason string) (*DeletionRequest, error) {
	if id == "" || companyID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &DeletionRequest{
		ID:          id,
		CompanyID:   companyID,
		RequestedBy: requestedBy,
		Reason:      strings.TrimSpace(reason),
		Status:      DeletionPending,
		CreatedAt:   time.Now(),
	}, nil
}

// Approve marks the request approved.
func (d *DeletionRequest) Approve() error {
	if d.Status != DeletionPending {
		return domain.ErrInvalidTransition
	}
	now := time.Now()
	d.Status = DeletionApproved
	d.DecidedAt = &now
	return nil
}

// Refuse marks the request refused.
func (d *DeletionRequest) Refuse() error {
	if d.Status != DeletionPending {
		return domain.ErrInvalidTransition
	}
	now := time.Now()
	d.Status = DeletionRefused
	d.DecidedAt = &now
	return nil
}
