package card

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvaluator() *EligibilityEvaluator {
	return NewEligibilityEvaluator(DefaultConfig())
}

func requireRejection(t *testing.T, err error, reason Reason) *EligibilityError {
	t.Helper()
	require.Error(t, err)
	var ee *EligibilityError
	require.True(t, errors.As(err, &ee), "expected *EligibilityError, got %T", err)
	assert.Equal(t, reason, ee.Reason)
	assert.NotEmpty(t, ee.Message)
	return ee
}

func TestEvaluateEligibleProfiles(t *testing.T) {
	e := newEvaluator()

	cases := []struct {
		name    string
		profile Profile
		tier    Tier
	}{
		{"classic with zero income", Profile{Name: "Ana", Country: "Colombia"}, TierClassic},
		{"gold at exactly min income", Profile{Name: "Luis", Country: "Peru", MonthlyIncome: 500}, TierGold},
		{"platinum with loyalty", Profile{Name: "Marta", Country: "Chile", MonthlyIncome: 1200, LoyaltySubscription: true}, TierPlatinum},
		{"black from unrestricted country", Profile{Name: "Jorge", Country: "Brazil", MonthlyIncome: 2500, LoyaltySubscription: true}, TierBlack},
		{"white from unrestricted country", Profile{Name: "Sofia", Country: "Mexico", MonthlyIncome: 3000, LoyaltySubscription: true}, TierWhite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, e.Evaluate(tc.profile, tc.tier))
		})
	}
}

// Each rejection case fails exactly one check, so the reported reason must
// match that check and no other.
func TestEvaluateMinimalCounterexamples(t *testing.T) {
	e := newEvaluator()

	cases := []struct {
		name    string
		profile Profile
		tier    Tier
		reason  Reason
	}{
		{
			"unknown tier",
			Profile{Name: "Ana", Country: "Colombia", MonthlyIncome: 5000, LoyaltySubscription: true},
			Tier("Diamond"),
			ReasonUnknownTier,
		},
		{
			"gold income just below threshold",
			Profile{Name: "Luis", Country: "Peru", MonthlyIncome: 499.99},
			TierGold,
			ReasonInsufficientIncome,
		},
		{
			"platinum without loyalty",
			Profile{Name: "Marta", Country: "Chile", MonthlyIncome: 1500},
			TierPlatinum,
			ReasonLoyaltyRequired,
		},
		{
			"black from restricted country",
			Profile{Name: "Chen", Country: "China", MonthlyIncome: 2500, LoyaltySubscription: true},
			TierBlack,
			ReasonCountryRestricted,
		},
		{
			"white from restricted country",
			Profile{Name: "Priya", Country: "India", MonthlyIncome: 3000, LoyaltySubscription: true},
			TierWhite,
			ReasonCountryRestricted,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requireRejection(t, e.Evaluate(tc.profile, tc.tier), tc.reason)
		})
	}
}

// A profile failing both the income and loyalty checks must always report
// the income failure: checks run in fixed order and the first one wins.
func TestEvaluateCheckOrder(t *testing.T) {
	e := newEvaluator()

	profile := Profile{Name: "Ana", Country: "Colombia", MonthlyIncome: 100}
	requireRejection(t, e.Evaluate(profile, TierPlatinum), ReasonInsufficientIncome)

	// Failing all three material checks still reports income first.
	profile = Profile{Name: "Chen", Country: "China", MonthlyIncome: 100}
	requireRejection(t, e.Evaluate(profile, TierBlack), ReasonInsufficientIncome)

	// With income satisfied, loyalty comes before country restriction.
	profile = Profile{Name: "Chen", Country: "China", MonthlyIncome: 5000}
	requireRejection(t, e.Evaluate(profile, TierBlack), ReasonLoyaltyRequired)
}

func TestEvaluateRejectionMessages(t *testing.T) {
	e := newEvaluator()

	t.Run("income message names threshold and tier", func(t *testing.T) {
		err := e.Evaluate(Profile{Name: "Jorge", Country: "Brazil", MonthlyIncome: 1500, LoyaltySubscription: true}, TierBlack)
		ee := requireRejection(t, err, ReasonInsufficientIncome)
		assert.Contains(t, ee.Message, "2000")
		assert.Contains(t, ee.Message, "Black")
	})

	t.Run("country message names country and tier", func(t *testing.T) {
		err := e.Evaluate(Profile{Name: "Priya", Country: "India", MonthlyIncome: 3000, LoyaltySubscription: true}, TierWhite)
		ee := requireRejection(t, err, ReasonCountryRestricted)
		assert.Contains(t, ee.Message, "India")
		assert.Contains(t, ee.Message, "White")
	})
}

func TestEvaluateIsDeterministic(t *testing.T) {
	e := newEvaluator()
	profile := Profile{Name: "Luis", Country: "Peru", MonthlyIncome: 400}

	first := e.Evaluate(profile, TierGold)
	for range 10 {
		err := e.Evaluate(profile, TierGold)
		require.Equal(t, first.Error(), err.Error())
	}
}
