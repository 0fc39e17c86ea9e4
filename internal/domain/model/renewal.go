package model

import (
	"fmt"
	"math"
	"time"

	"compta-billing-platform/internal/domain"
)

// RenewalMode selects how the renewal price is computed.
type RenewalMode string

const (
	RenewalModeAuto     RenewalMode = "auto"
	RenewalModeDiscount RenewalMode = "discount"
	RenewalModeCustom   RenewalMode = "custom"
)

// Renewal pricing heuristics. The proration floor and the overdue tiers are
// business-defined; keep them together so a tier change touches one place.
const (
	renewalYearDays = 365

	prorationFloor = 0.20

	overdueShortDays = 30
	overdueLongDays  = 90

	overdueShortRate = 0.70
	overdueMidRate   = 0.50
	overdueLongRate  = 0.30
)

// RenewalQuote is the outcome of a renewal pricing computation.
type RenewalQuote struct {
	FinalPrice     float64 `json:"final_price"`
	DiscountAmount float64 `json:"discount_amount"`
	Explanation    string  `json:"explanation"`
}

// QuoteRenewal computes the renewal price for a subscription ending at endDate
// against a new plan list price.
//
// custom: the provided price verbatim, not checked against the list price.
// discount: list price reduced by discountPct percent.
// auto: prorated against unused days over a fixed 365-day year with a 20%% floor
// when the subscription has not yet expired; otherwise a flat tier keyed on how
// long ago it expired.
//
// Inputs are not validated; a pathological list price yields a degenerate quote
// rather than an error.
func QuoteRenewal(endDate time.Time, newPlanPrice float64, mode RenewalMode, discountPct, customPrice float64, today time.Time) RenewalQuote {
	var final float64
	var explanation string

	switch mode {
	case RenewalModeCustom:
		final = customPrice
		explanation = fmt.Sprintf("custom price %.2f set manually (list price %.2f)", customPrice, newPlanPrice)

	case RenewalModeDiscount:
		final = newPlanPrice * (1 - discountPct/100)
		explanation = fmt.Sprintf("%.0f%% discount applied to list price %.2f", discountPct, newPlanPrice)

	default: // auto
		raw := DaysUntil(endDate, today)
		if raw > 0 {
			prorated := newPlanPrice - (float64(raw)/renewalYearDays)*newPlanPrice
			final = math.Max(newPlanPrice*prorationFloor, prorated)
			explanation = fmt.Sprintf("prorated renewal: %d of %d days unused on list price %.2f (floor %.0f%%)",
				raw, renewalYearDays, newPlanPrice, prorationFloor*100)
		} else {
			overdue := -raw
			var rate float64
			switch {
			case overdue <= overdueShortDays:
				rate = overdueShortRate
			case overdue <= overdueLongDays:
				rate = overdueMidRate
			default:
				rate = overdueLongRate
			}
			final = newPlanPrice * rate
			explanation = fmt.Sprintf("expired %d day(s) ago: %.0f%% of list price %.2f",
				overdue, rate*100, newPlanPrice)
		}
	}

	return RenewalQuote{
		FinalPrice:     round2(final),
		DiscountAmount: round2(newPlanPrice - final),
		Explanation:    explanation,
	}
}

// QuoteSubscriptionRenewal quotes a renewal for an existing subscription.
func QuoteSubscriptionRenewal(sub *Subscription, newPlanPrice float64, mode RenewalMode, discountPct, customPrice float64, today time.Time) (RenewalQuote, error) {
	if sub == nil {
		return RenewalQuote{}, domain.ErrInvalidArgument
	}
	return QuoteRenewal(sub.EndDate, newPlanPrice, mode, discountPct, customPrice, today), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
