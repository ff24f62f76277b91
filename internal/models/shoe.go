package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Shoe is a pair of running shoes tracked for wear.
type Shoe struct {
	ID           int             `json:"id"`
	Name         string          `json:"name" validate:"required"`
	Brand        string          `json:"brand" validate:"required"`
	Model        string          `json:"model" validate:"required"`
	Color        string          `json:"color,omitempty"`
	PurchaseDate string          `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	MaxKm        float64         `json:"max_km" validate:"gt=0"`
	CurrentKm    float64         `json:"current_km" validate:"gte=0"`
	Active       bool            `json:"active"`
	Cost         decimal.Decimal `json:"cost"`
	ArchivedDate *string         `json:"archived_date,omitempty"` // YYYY-MM-DD
	Rating       int             `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// RemainingKm returns the distance left before the shoe reaches its limit
func (s *Shoe) RemainingKm() float64 {
	return math.Max(0, s.MaxKm-s.CurrentKm)
}

// CostPerKm returns cost divided by accumulated distance.
// The second return value is false when no distance has been logged yet.
func (s *Shoe) CostPerKm() (decimal.Decimal, bool) {
	if s.CurrentKm <= 0 {
		return decimal.Zero, false
	}
	return s.Cost.Div(decimal.NewFromFloat(s.CurrentKm)).Round(2), true
}
