package model

import (
	"math"
	"strings"
	"time"

	"compta-billing-platform/internal/domain"
)

// Status is the persisted statut column. It is written at creation and by the
// expiry worker but is not authoritative for display; call DerivedStatus for that.
type Status string

const (
	StatusActive  Status = "actif"
	StatusExpired Status = "expiré"
)

// ValidationState is the moderation flag on a subscription, distinct from the
// date-based active/expired status.
type ValidationState string

const (
	ValidationPending  ValidationState = "en_attente"
	ValidationApproved ValidationState = "valide"
	ValidationRefused  ValidationState = "refuse"
)

// DerivedStatus is the display status computed from dates and validation state.
// It is never persisted.
type DerivedStatus string

const (
	DerivedActive       DerivedStatus = "actif"
	DerivedExpiringSoon DerivedStatus = "expire_bientot"
	DerivedExpired      DerivedStatus = "expiré"
	DerivedPending      DerivedStatus = "en_attente"
	DerivedRefused      DerivedStatus = "refuse"
	DerivedNone         DerivedStatus = "aucun"
)

// SubscriptionType records how a subscription row came to exist.
type SubscriptionType string

const (
	TypeInitial SubscriptionType = "initial"
	TypeRenewal SubscriptionType = "renouvellement"
	TypeUpgrade SubscriptionType = "upgrade"
)

// ExpiryWindowDays is the lookahead window for the expire_bientot status.
const ExpiryWindowDays = 30

// Subscription links a company to a plan for a date range.
type Subscription struct {
	ID               string
	CompanyID        string
	PlanID           string
	StartDate        time.Time
	EndDate          time.Time
	Amount           float64
	Status           Status
	Validation       ValidationState
	Type             SubscriptionType
	JustificatifPath string
	RejectionReason  string
	CreatedAt        time.Time
}

// NewSubscription validates and constructs a subscription. The end date must
// not precede the start date. A subscription created with an end date already
// in the past is persisted as expired from the outset.
func NewSubscription(id, companyID string, plan *Plan, start, end time.Time, amount float64, typ SubscriptionType) (*Subscription, error) {
	if id == "" || companyID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidArgument
	}
	if typ == "" {
		typ = TypeInitial
	}
	status := StatusActive
	if DaysUntil(end, time.Now()) < 0 {
		status = StatusExpired
	}
	return &Subscription{
		ID:         id,
		CompanyID:  companyID,
		PlanID:     plan.ID,
		StartDate:  start,
		EndDate:    end,
		Amount:     amount,
		Status:     status,
		Validation: ValidationPending,
		Type:       typ,
		CreatedAt:  time.Now(),
	}, nil
}

// DaysUntil returns the whole number of days from today until end, both
// truncated to local midnight, rounding partial days up. Negative when end is
// in the past.
func DaysUntil(end, today time.Time) int {
	return int(math.Ceil(midnight(end).Sub(midnight(today)).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DeriveStatus computes the display status for a subscription end date.
// Validation state takes priority over date arithmetic; an unrecognized
// validation state falls back to the persisted status verbatim.
func DeriveStatus(endDate *time.Time, persisted Status, validation ValidationState, today time.Time) DerivedStatus {
	switch validation {
	case ValidationPending:
		return DerivedPending
	case ValidationRefused:
		return DerivedRefused
	case ValidationApproved:
		if endDate == nil {
			return DerivedNone
		}
		diff := DaysUntil(*endDate, today)
		switch {
		case diff < 0:
			return DerivedExpired
		case diff <= ExpiryWindowDays:
			return DerivedExpiringSoon
		default:
			return DerivedActive
		}
	default:
		return DerivedStatus(persisted)
	}
}

// DerivedStatus computes the display status of this subscription as of today.
func (s *Subscription) DerivedStatus(today time.Time) DerivedStatus {
	end := s.EndDate
	return DeriveStatus(&end, s.Status, s.Validation, today)
}

// Validate approves a pending subscription. Unlike companies, refused
// subscriptions cannot be reactivated; a new submission is required.
func (s *Subscription) Validate() error {
	if s.Validation != ValidationPending {
		return domain.ErrInvalidTransition
	}
	s.Validation = ValidationApproved
	s.RejectionReason = ""
	return nil
}

// Reject refuses a pending subscription with a mandatory reason.
func (s *Subscription) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrReasonRequired
	}
	if s.Validation != ValidationPending {
		return domain.ErrInvalidTransition
	}
	s.Validation = ValidationRefused
	s.RejectionReason = strings.TrimSpace(reason)
	return nil
}

// Renew extends the subscription to a new period and resets it to an active,
// approved state.
func (s *Subscription) Renew(start, end time.Time, amount float64) error {
	if end.Before(start) {
		return domain.ErrInvalidArgument
	}
	s.StartDate = start
	s.EndDate = end
	s.Amount = amount
	s.Status = StatusActive
	s.Validation = ValidationApproved
	s.Type = TypeRenewal
	s.RejectionReason = ""
	return nil
}
