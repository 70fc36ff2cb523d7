// Package card holds the card-tier rule engine: eligibility evaluation for
// prospective clients and benefit calculation for purchases. Both evaluators
// are pure functions over an immutable Config, safe for concurrent use.
package card

import (
	"fmt"
	"strings"
	"time"
)

// Tier is one of the five fixed card service levels.
type Tier string

const (
	TierClassic  Tier = "Classic"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
	TierBlack    Tier = "Black"
	TierWhite    Tier = "White"
)

// Tiers lists all defined tiers in ascending order of privilege.
func Tiers() []Tier {
	return []Tier{TierClassic, TierGold, TierPlatinum, TierBlack, TierWhite}
}

// ParseTier validates a tier name. Matching is case-insensitive on input but
// the canonical casing is always returned.
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers() {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown card tier %q", s)
}

// TierRule holds the static eligibility attributes of a tier.
type TierRule struct {
	// MinIncome is the minimum monthly income in USD. Profiles below it are
	// rejected with ReasonInsufficientIncome.
	MinIncome float64
	// RequiresLoyalty marks tiers that demand an active VISE CLUB
	// (loyalty) subscription.
	RequiresLoyalty bool
	// RestrictedCountries marks tiers that cannot be issued to clients in
	// a restricted country, and whose purchases from those countries are
	// blocked upstream of benefit calculation.
	RestrictedCountries bool
}

// Config is the immutable rule table shared by both evaluators. Construct it
// once at process start with DefaultConfig and pass it in explicitly; nothing
// in this package mutates it after construction.
type Config struct {
	rules      map[Tier]TierRule
	benefits   map[Tier][]BenefitRule
	restricted map[string]struct{}
}

// DefaultConfig returns the production rule table.
func DefaultConfig() *Config {
	return NewConfig(map[Tier]TierRule{
		TierClassic:  {MinIncome: 0, RequiresLoyalty: false, RestrictedCountries: false},
		TierGold:     {MinIncome: 500, RequiresLoyalty: false, RestrictedCountries: false},
		TierPlatinum: {MinIncome: 1000, RequiresLoyalty: true, RestrictedCountries: false},
		TierBlack:    {MinIncome: 2000, RequiresLoyalty: true, RestrictedCountries: true},
		TierWhite:    {MinIncome: 2000, RequiresLoyalty: true, RestrictedCountries: true},
	}, nil, []string{"China", "Vietnam", "India", "Iran"})
}

// NewConfig builds a Config from explicit eligibility and benefit tables and
// a restricted country list. A nil benefits map selects the standard discount
// table; either way every tier in the eligibility table gets a benefits entry,
// empty when none is supplied, so both evaluators accept the same tiers.
func NewConfig(rules map[Tier]TierRule, benefits map[Tier][]BenefitRule, restrictedCountries []string) *Config {
	restricted := make(map[string]struct{}, len(restrictedCountries))
	for _, c := range restrictedCountries {
		restricted[c] = struct{}{}
	}
	copiedRules := make(map[Tier]TierRule, len(rules))
	for t, r := range rules {
		copiedRules[t] = r
	}
	if benefits == nil {
		benefits = defaultBenefitRules
	}
	copiedBenefits := make(map[Tier][]BenefitRule, len(benefits))
	for t, rs := range benefits {
		copiedBenefits[t] = append([]BenefitRule(nil), rs...)
	}
	for t := range copiedRules {
		if _, ok := copiedBenefits[t]; !ok {
			copiedBenefits[t] = []BenefitRule{}
		}
	}
	return &Config{rules: copiedRules, benefits: copiedBenefits, restricted: restricted}
}

// Rule returns the eligibility attributes for a tier. The second return is
// false for tiers outside the table.
func (c *Config) Rule(tier Tier) (TierRule, bool) {
	r, ok := c.rules[tier]
	return r, ok
}

// IsRestrictedCountry reports whether a country is on the denylist. Matching
// is exact; country normalization is the caller's concern.
func (c *Config) IsRestrictedCountry(country string) bool {
	_, ok := c.restricted[country]
	return ok
}

// RestrictedPurchase reports whether a purchase from the given country must
// be blocked for holders of the given tier, before any benefit calculation.
func (c *Config) RestrictedPurchase(tier Tier, country string) bool {
	r, ok := c.rules[tier]
	if !ok || !r.RestrictedCountries {
		return false
	}
	return c.IsRestrictedCountry(country)
}

// Profile is the read-only view of a prospective client used by eligibility
// evaluation. The engine never persists it.
type Profile struct {
	Name                string
	Country             string
	MonthlyIncome       float64
	LoyaltySubscription bool
}

// Purchase is a single purchase event. Day-of-week branching uses Date's
// time.Weekday numbering: 0=Sunday through 6=Saturday.
type Purchase struct {
	Amount  float64
	Date    time.Time
	Country string
}
