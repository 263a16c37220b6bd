package square

import "encoding/json"

// Money amounts are in minor currency units. The storefront charges in JPY,
// where the minor unit equals one yen.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type OrderLineItem struct {
	Name            string `json:"name,omitempty"`
	Quantity        string `json:"quantity"`
	CatalogObjectID string `json:"catalog_object_id,omitempty"`
	BasePriceMoney  *Money `json:"base_price_money,omitempty"`
}

type PickupDetails struct {
	ScheduleType string                `json:"schedule_type,omitempty"`
	Recipient    *FulfillmentRecipient `json:"recipient,omitempty"`
}

type FulfillmentRecipient struct {
	DisplayName string `json:"display_name,omitempty"`
}

type Fulfillment struct {
	Type          string         `json:"type"`
	State         string         `json:"state,omitempty"`
	PickupDetails *PickupDetails `json:"pickup_details,omitempty"`
}

type Order struct {
	ID           string          `json:"id,omitempty"`
	LocationID   string          `json:"location_id"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	LineItems    []OrderLineItem `json:"line_items,omitempty"`
	Fulfillments []Fulfillment   `json:"fulfillments,omitempty"`
}

type CreateOrderRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	Order          Order  `json:"order"`
}

type Payment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ReceiptURL  string `json:"receipt_url,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
	AmountMoney *Money `json:"amount_money,omitempty"`
	Note        string `json:"note,omitempty"`
}

type CreatePaymentRequest struct {
	IdempotencyKey    string `json:"idempotency_key"`
	SourceID          string `json:"source_id"`
	AmountMoney       Money  `json:"amount_money"`
	OrderID           string `json:"order_id,omitempty"`
	LocationID        string `json:"location_id,omitempty"`
	CustomerID        string `json:"customer_id,omitempty"`
	VerificationToken string `json:"verification_token,omitempty"`
	Note              string `json:"note,omitempty"`
	Autocomplete      bool   `json:"autocomplete"`
}

// Card version and expiry come back as JSON numbers from the vendor; they
// are widened to int64 here and rendered as strings at the API boundary.
type Card struct {
	ID             string `json:"id"`
	CardBrand      string `json:"card_brand,omitempty"`
	Last4          string `json:"last_4,omitempty"`
	ExpMonth       int64  `json:"exp_month,omitempty"`
	ExpYear        int64  `json:"exp_year,omitempty"`
	CardholderName string `json:"cardholder_name,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	Enabled        bool   `json:"enabled,omitempty"`
	Version        int64  `json:"version,omitempty"`
}

type CreateCardRequest struct {
	IdempotencyKey    string `json:"idempotency_key"`
	SourceID          string `json:"source_id"`
	VerificationToken string `json:"verification_token,omitempty"`
	Card              Card   `json:"card"`
}

type DeviceOptions struct {
	DeviceID string `json:"device_id"`
}

type TerminalCheckout struct {
	ID            string         `json:"id,omitempty"`
	Status        string         `json:"status,omitempty"`
	AmountMoney   Money          `json:"amount_money"`
	DeviceOptions *DeviceOptions `json:"device_options,omitempty"`
	OrderID       string         `json:"order_id,omitempty"`
	ReferenceID   string         `json:"reference_id,omitempty"`
	Note          string         `json:"note,omitempty"`
	PaymentIDs    []string       `json:"payment_ids,omitempty"`
}

type CreateTerminalCheckoutRequest struct {
	IdempotencyKey string           `json:"idempotency_key"`
	Checkout       TerminalCheckout `json:"checkout"`
}

type createOrderResponse struct {
	Order *Order `json:"order"`
}

type createPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type createCardResponse struct {
	Card *Card `json:"card"`
}

type terminalCheckoutResponse struct {
	Checkout *TerminalCheckout `json:"checkout"`
}

type listCatalogResponse struct {
	Cursor  string            `json:"cursor"`
	Objects []json.RawMessage `json:"objects"`
}
