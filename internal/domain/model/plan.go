package model

import (
	"time"

	"compta-billing-platform/internal/domain"
)

// Plan is a purchasable subscription tier with a storage quota and a yearly
// list price in euros.
type Plan struct {
	ID         string    `json:"id"`
	Name       string    `json:"nom"`
	MaxSpaceMB int64     `json:"espace_max"`
	Price      float64   `json:"prix"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// MaxSpaceBytes returns the storage quota in bytes.
func (p *Plan) MaxSpaceBytes() int64 { return p.MaxSpaceMB * 1024 * 1024 }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, maxSpaceMB int64, price float64) (*Plan, error) {
	if id == "" || name == "" || maxSpaceMB <= 0 || price < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:         id,
		Name:       name,
		MaxSpaceMB: maxSpaceMB,
		Price:      price,
		CreatedAt:  time.Now(),
	}, nil
}
