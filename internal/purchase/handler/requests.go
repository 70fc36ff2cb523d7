package handler

import (
	"strings"
	"time"

	"vise/internal/card"
	dErrors "vise/pkg/domain-errors"
)

// ProcessPurchaseRequest is the HTTP request body for POST /purchase.
type ProcessPurchaseRequest struct {
	ClientID        *int     `json:"clientId"`
	Amount          *float64 `json:"amount"`
	Currency        string   `json:"currency"`
	PurchaseDate    string   `json:"purchaseDate"`
	PurchaseCountry string   `json:"purchaseCountry"`

	// Parsed values (populated by Validate)
	parsedDate time.Time
}

// purchaseDateLayouts are accepted purchaseDate formats, tried in order.
var purchaseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// Validate checks the request and parses the purchase date.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ProcessPurchaseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Currency = strings.TrimSpace(r.Currency)
	r.PurchaseDate = strings.TrimSpace(r.PurchaseDate)
	r.PurchaseCountry = strings.TrimSpace(r.PurchaseCountry)

	if r.ClientID == nil || r.Amount == nil || r.Currency == "" || r.PurchaseDate == "" || r.PurchaseCountry == "" {
		return dErrors.New(dErrors.CodeValidation, "all fields are required")
	}
	if *r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}

	var err error
	for _, layout := range purchaseDateLayouts {
		r.parsedDate, err = time.Parse(layout, r.PurchaseDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "purchaseDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}

	return nil
}

// Purchase builds the domain purchase from the validated request.
func (r *ProcessPurchaseRequest) Purchase() card.Purchase {
	return card.Purchase{
		Amount:  *r.Amount,
		Date:    r.parsedDate,
		Country: r.PurchaseCountry,
	}
}
