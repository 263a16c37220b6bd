package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"payment-gateway/internal/square"
)

// CardResponse is the normalized card shape. Version and expiry are wide
// integers on the vendor side and are serialized as strings so browser JSON
// parsing can never lose precision.
type CardResponse struct {
	ID             string `json:"id"`
	CardBrand      string `json:"cardBrand,omitempty"`
	Last4          string `json:"last4,omitempty"`
	ExpMonth       string `json:"expMonth,omitempty"`
	ExpYear        string `json:"expYear,omitempty"`
	CardholderName string `json:"cardholderName,omitempty"`
	CustomerID     string `json:"customerId,omitempty"`
	Enabled        bool   `json:"enabled"`
	Version        string `json:"version,omitempty"`
}

type PaymentResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ReceiptURL string `json:"receiptUrl,omitempty"`
	OrderID    string `json:"orderId"`
}

func normalizeCard(card *square.Card) CardResponse {
	return CardResponse{
		ID:             card.ID,
		CardBrand:      card.CardBrand,
		Last4:          card.Last4,
		ExpMonth:       wideInt(card.ExpMonth),
		ExpYear:        wideInt(card.ExpYear),
		CardholderName: card.CardholderName,
		CustomerID:     card.CustomerID,
		Enabled:        card.Enabled,
		Version:        wideInt(card.Version),
	}
}

func wideInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeVendorError passes the vendor status and sub-error list through so
// the storefront can show why the vendor rejected the request.
func writeVendorError(w http.ResponseWriter, apiErr *square.APIError) {
	writeJSON(w, apiErr.StatusCode, map[string]any{
		"success": false,
		"errors":  apiErr.Errors,
	})
}
