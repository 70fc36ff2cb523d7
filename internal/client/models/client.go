package models

import (
	"vise/internal/card"
)

// Client is a registered cardholder.
//
// Invariants:
//   - ClientID is assigned once by the store and never reused
//   - CardType passed eligibility evaluation at registration time
//   - Records are immutable after creation; stores hand out copies
//
// The LoyaltySubscription flag is the VISE CLUB membership; it is serialized
// as "viseClub" to match the public API contract.
type Client struct {
	ClientID            int       `json:"clientId"`
	Name                string    `json:"name"`
	Country             string    `json:"country"`
	MonthlyIncome       float64   `json:"monthlyIncome"`
	LoyaltySubscription bool      `json:"viseClub"`
	CardType            card.Tier `json:"cardType"`
}

// Profile returns the read-only view the eligibility evaluator consumes.
func (c *Client) Profile() card.Profile {
	return card.Profile{
		Name:                c.Name,
		Country:             c.Country,
		MonthlyIncome:       c.MonthlyIncome,
		LoyaltySubscription: c.LoyaltySubscription,
	}
}
