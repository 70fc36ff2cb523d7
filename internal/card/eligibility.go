package card

import "fmt"

// Reason identifies which eligibility check rejected a profile.
type Reason string

const (
	ReasonUnknownTier        Reason = "unknown_tier"
	ReasonInsufficientIncome Reason = "insufficient_income"
	ReasonLoyaltyRequired    Reason = "loyalty_required"
	ReasonCountryRestricted  Reason = "country_restricted"
)

// EligibilityError is the rejection result of an eligibility evaluation. The
// message interpolates the offending values so the API layer can return it
// verbatim to callers.
type EligibilityError struct {
	Reason  Reason
	Tier    Tier
	Message string
}

func (e *EligibilityError) Error() string {
	return e.Message
}

// EligibilityEvaluator validates whether a client profile qualifies for a
// requested card tier. Stateless; one instance serves all callers.
type EligibilityEvaluator struct {
	cfg *Config
}

// NewEligibilityEvaluator creates an evaluator over the given rule table.
func NewEligibilityEvaluator(cfg *Config) *EligibilityEvaluator {
	return &EligibilityEvaluator{cfg: cfg}
}

// Evaluate runs the eligibility checks in fixed order: unknown tier, minimum
// income, loyalty subscription, country restriction. The first failing check
// determines the single reported reason; a profile failing several checks
// always reports the earliest one so rejection messages are reproducible.
// Returns nil when the profile qualifies.
func (e *EligibilityEvaluator) Evaluate(profile Profile, tier Tier) error {
	rule, ok := e.cfg.Rule(tier)
	if !ok {
		return &EligibilityError{
			Reason:  ReasonUnknownTier,
			Tier:    tier,
			Message: fmt.Sprintf("card tier %q is not valid", string(tier)),
		}
	}

	if profile.MonthlyIncome < rule.MinIncome {
		return &EligibilityError{
			Reason:  ReasonInsufficientIncome,
			Tier:    tier,
			Message: fmt.Sprintf("client does not meet the minimum monthly income of %.0f USD for %s", rule.MinIncome, tier),
		}
	}

	if rule.RequiresLoyalty && !profile.LoyaltySubscription {
		return &EligibilityError{
			Reason:  ReasonLoyaltyRequired,
			Tier:    tier,
			Message: fmt.Sprintf("client does not have the VISE CLUB subscription required for %s", tier),
		}
	}

	if rule.RestrictedCountries && e.cfg.IsRestrictedCountry(profile.Country) {
		return &EligibilityError{
			Reason:  ReasonCountryRestricted,
			Tier:    tier,
			Message: fmt.Sprintf("clients from %s cannot apply for the %s card", profile.Country, tier),
		}
	}

	return nil
}
