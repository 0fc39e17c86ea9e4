package model

import (
	"strings"
	"time"

	"compta-billing-platform/internal/domain"
)

// Role determines which part of the platform a user can reach.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "comptable"
	RoleCompany    Role = "entreprise"
)

// User is an authenticated account. Company users carry the id of the company
// they belong to; accountants own a portfolio of companies.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CompanyID    string
	CreatedAt    time.Time
}

// NewUser validates and constructs a user.
func NewUser(id, email, passwordHash string, role Role, companyID string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if id == "" || email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	switch role {
	case RoleAdmin, RoleAccountant, RoleCompany:
	default:
		return nil, domain.ErrInvalidArgument
	}
	if role == RoleCompany && companyID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CompanyID:    companyID,
		CreatedAt:    time.Now(),
	}, nil
}
