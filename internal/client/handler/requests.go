package handler

import (
	"strings"

	"vise/internal/card"
	dErrors "vise/pkg/domain-errors"
)

// RegisterClientRequest is the HTTP request body for POST /client.
type RegisterClientRequest struct {
	Name          string   `json:"name"`
	Country       string   `json:"country"`
	MonthlyIncome *float64 `json:"monthlyIncome"`
	ViseClub      *bool    `json:"viseClub"`
	CardType      string   `json:"cardType"`

	// Parsed values (populated by Validate)
	parsedTier card.Tier
}

// Validate checks the request and parses the requested card tier.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
// MonthlyIncome and ViseClub are pointers so that an absent field can be
// told apart from a zero value.
func (r *RegisterClientRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	r.Country = strings.TrimSpace(r.Country)
	r.CardType = strings.TrimSpace(r.CardType)

	if r.Name == "" || r.Country == "" || r.MonthlyIncome == nil || r.ViseClub == nil || r.CardType == "" {
		return dErrors.New(dErrors.CodeValidation, "all fields are required")
	}
	if *r.MonthlyIncome < 0 {
		return dErrors.New(dErrors.CodeValidation, "monthlyIncome must not be negative")
	}

	tier, err := card.ParseTier(r.CardType)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "unknown card type: "+r.CardType)
	}
	r.parsedTier = tier

	return nil
}

// ParsedTier returns the validated card tier.
func (r *RegisterClientRequest) ParsedTier() card.Tier {
	return r.parsedTier
}

// Profile builds the eligibility profile from the validated request.
func (r *RegisterClientRequest) Profile() card.Profile {
	return card.Profile{
		Name:                r.Name,
		Country:             r.Country,
		MonthlyIncome:       *r.MonthlyIncome,
		LoyaltySubscription: *r.ViseClub,
	}
}
