package api

import "payment-gateway/internal/checkout"

// PaymentRequest is the browser-tokenized card payment body. Field casing is
// the storefront contract; line_items and catalog_object_id are snake_case
// because the storefront submits them in the vendor's own shape.
type PaymentRequest struct {
	IdempotencyKey    string            `json:"idempotencyKey"`
	SourceID          string            `json:"sourceId"`
	LocationID        string            `json:"locationId"`
	Amount            *int64            `json:"amount,omitempty"`
	CustomerID        string            `json:"customerId,omitempty"`
	VerificationToken string            `json:"verificationToken,omitempty"`
	ProductName       string            `json:"productName,omitempty"`
	CustomerName      string            `json:"customerName,omitempty"`
	CustomerNotes     string            `json:"customerNotes,omitempty"`
	LineItems         []LineItemRequest `json:"line_items,omitempty"`
	CatalogObjectID   string            `json:"catalog_object_id,omitempty"`
}

type LineItemRequest struct {
	CatalogObjectID string `json:"catalog_object_id,omitempty"`
	Quantity        int64  `json:"quantity,omitempty"`
	Name            string `json:"name,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
}

type CardRequest struct {
	IdempotencyKey    string `json:"idempotencyKey"`
	SourceID          string `json:"sourceId"`
	CustomerID        string `json:"customerId"`
	VerificationToken string `json:"verificationToken,omitempty"`
}

type TerminalCheckoutRequest struct {
	Amount          int64             `json:"amount"`
	LocationID      string            `json:"locationId,omitempty"`
	ProductName     string            `json:"productName,omitempty"`
	CustomerName    string            `json:"customerName,omitempty"`
	CustomerNotes   string            `json:"customerNotes,omitempty"`
	LineItems       []LineItemRequest `json:"line_items,omitempty"`
	CatalogObjectID string            `json:"catalog_object_id,omitempty"`
}

// Valid reports whether the required payment fields are present. Amount is
// optional but must be non-negative when given.
func (r PaymentRequest) Valid() bool {
	if r.IdempotencyKey == "" || r.SourceID == "" || r.LocationID == "" {
		return false
	}
	if r.Amount != nil && *r.Amount < 0 {
		return false
	}
	return true
}

func (r CardRequest) Valid() bool {
	return r.IdempotencyKey != "" && r.SourceID != "" && r.CustomerID != ""
}

func (r TerminalCheckoutRequest) Valid() bool {
	return r.Amount > 0
}

func (r PaymentRequest) toInput() checkout.PaymentInput {
	var amount int64
	if r.Amount != nil {
		amount = *r.Amount
	}

	return checkout.PaymentInput{
		IdempotencyKey:    r.IdempotencyKey,
		SourceID:          r.SourceID,
		LocationID:        r.LocationID,
		Amount:            amount,
		CustomerID:        r.CustomerID,
		VerificationToken: r.VerificationToken,
		ProductName:       r.ProductName,
		CustomerName:      r.CustomerName,
		CustomerNotes:     r.CustomerNotes,
		CatalogObjectID:   r.CatalogObjectID,
		LineItems:         toLineItems(r.LineItems),
	}
}

func (r TerminalCheckoutRequest) toInput(defaultLocationID string) checkout.TerminalInput {
	locationID := r.LocationID
	if locationID == "" {
		locationID = defaultLocationID
	}

	return checkout.TerminalInput{
		Amount:          r.Amount,
		LocationID:      locationID,
		ProductName:     r.ProductName,
		CustomerName:    r.CustomerName,
		CustomerNotes:   r.CustomerNotes,
		CatalogObjectID: r.CatalogObjectID,
		LineItems:       toLineItems(r.LineItems),
	}
}

func toLineItems(items []LineItemRequest) []checkout.LineItem {
	var out []checkout.LineItem
	for _, item := range items {
		out = append(out, checkout.LineItem{
			CatalogObjectID: item.CatalogObjectID,
			Quantity:        item.Quantity,
			Name:            item.Name,
			Amount:          item.Amount,
		})
	}
	return out
}
