package card

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPurchaseInput marks purchases the calculator refuses to price:
// non-positive amounts, zero dates, or tiers outside the rule table. Input
// validation belongs to the caller; this is the backstop against producing
// nonsensical results.
var ErrInvalidPurchaseInput = errors.New("invalid purchase input")

// NoBenefitLabel is the sentinel label returned when no discount rule fires.
const NoBenefitLabel = "No applicable benefit"

// BenefitResult is the outcome of pricing a purchase against a tier's rules.
// DiscountApplied + FinalAmount equals the original amount within 0.01.
type BenefitResult struct {
	Rate            float64
	DiscountApplied float64
	FinalAmount     float64
	Benefit         string
}

// WeekdaySet is a bitmask over time.Weekday (0=Sunday .. 6=Saturday).
type WeekdaySet uint8

// Days builds a WeekdaySet from the given weekdays.
func Days(ws ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, w := range ws {
		s |= 1 << uint(w)
	}
	return s
}

func (s WeekdaySet) has(w time.Weekday) bool {
	return s&(1<<uint(w)) != 0
}

// BenefitRule is one row of a tier's discount table. Rules are evaluated in
// order and the first match wins. A zero Days set means any weekday; a zero
// OverAmount means no amount condition; Abroad requires a cross-border
// purchase.
type BenefitRule struct {
	Days       WeekdaySet
	OverAmount float64 // strict: amount must exceed this, never equal
	Abroad     bool
	Rate       float64
	Label      string
}

func (r BenefitRule) matches(weekday time.Weekday, amount float64, abroad bool) bool {
	if r.Days != 0 && !r.Days.has(weekday) {
		return false
	}
	if r.OverAmount != 0 && amount <= r.OverAmount {
		return false
	}
	if r.Abroad && !abroad {
		return false
	}
	return true
}

var (
	monToWed = Days(time.Monday, time.Tuesday, time.Wednesday)
	monToFri = Days(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	saturday = Days(time.Saturday)
	weekend  = Days(time.Saturday, time.Sunday)
)

// defaultBenefitRules is the per-tier discount table. Adding a tier or a
// rule is a data change here, not a code change in the calculator.
var defaultBenefitRules = map[Tier][]BenefitRule{
	TierClassic: {},
	TierGold: {
		{Days: monToWed, OverAmount: 100, Rate: 0.15, Label: "Mon/Tue/Wed discount 15%"},
	},
	TierPlatinum: {
		{Days: monToWed, OverAmount: 100, Rate: 0.20, Label: "Mon/Tue/Wed discount 20%"},
		{Days: saturday, OverAmount: 200, Rate: 0.30, Label: "Saturday discount 30%"},
		{Abroad: true, Rate: 0.05, Label: "Purchase abroad discount 5%"},
	},
	TierBlack: {
		{Days: monToWed, OverAmount: 100, Rate: 0.25, Label: "Mon/Tue/Wed discount 25%"},
		{Days: saturday, OverAmount: 200, Rate: 0.35, Label: "Saturday discount 35%"},
		{Abroad: true, Rate: 0.05, Label: "Purchase abroad discount 5%"},
	},
	TierWhite: {
		{Days: monToFri, OverAmount: 100, Rate: 0.25, Label: "Mon-Fri discount 25%"},
		{Days: weekend, OverAmount: 200, Rate: 0.35, Label: "Weekend discount 35%"},
		{Abroad: true, Rate: 0.05, Label: "Purchase abroad discount 5%"},
	},
}

// BenefitCalculator prices purchases against the per-tier discount table.
// Stateless; one instance serves all callers.
type BenefitCalculator struct {
	cfg *Config
}

// NewBenefitCalculator creates a calculator over the given rule table.
func NewBenefitCalculator(cfg *Config) *BenefitCalculator {
	return &BenefitCalculator{cfg: cfg}
}

// Calculate determines the discount for a purchase given the holder's tier
// and home country. The weekday is derived from the purchase date using
// time.Weekday numbering (0=Sunday .. 6=Saturday); a purchase is abroad when
// its country differs from homeCountry.
//
// The discount amount is rounded half-up to 2 decimal places first, and the
// final amount is the original minus that rounded discount, rounded the same
// way, so DiscountApplied + FinalAmount always reconstructs the original.
func (c *BenefitCalculator) Calculate(tier Tier, purchase Purchase, homeCountry string) (BenefitResult, error) {
	rules, ok := c.cfg.benefits[tier]
	if !ok {
		return BenefitResult{}, fmt.Errorf("%w: unknown tier %q", ErrInvalidPurchaseInput, tier)
	}
	if purchase.Amount <= 0 {
		return BenefitResult{}, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidPurchaseInput, purchase.Amount)
	}
	if purchase.Date.IsZero() {
		return BenefitResult{}, fmt.Errorf("%w: purchase date is required", ErrInvalidPurchaseInput)
	}

	weekday := purchase.Date.Weekday()
	abroad := purchase.Country != homeCountry

	rate := 0.0
	label := NoBenefitLabel
	for _, rule := range rules {
		if rule.matches(weekday, purchase.Amount, abroad) {
			rate = rule.Rate
			label = rule.Label
			break
		}
	}

	amount := decimal.NewFromFloat(purchase.Amount)
	discount := amount.Mul(decimal.NewFromFloat(rate)).Round(2)
	final := amount.Sub(discount).Round(2)

	return BenefitResult{
		Rate:            rate,
		DiscountApplied: discount.InexactFloat64(),
		FinalAmount:     final.InexactFloat64(),
		Benefit:         label,
	}, nil
}
