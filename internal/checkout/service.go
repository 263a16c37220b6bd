package checkout

import (
	"context"
	"log/slog"
	"strconv"

	"payment-gateway/internal/config"
	"payment-gateway/internal/retry"
	"payment-gateway/internal/square"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const currency = "JPY"

// ErrMissingOrderID means the vendor accepted the order but the response
// carried no id to thread into phase two. The flow fails closed.
var ErrMissingOrderID = errors.New("order created without an id")

var (
	paymentSuccessCounter  = metrics.GetOrCreateCounter(`gateway_flow_total{flow="payment",result="success"}`)
	paymentFailureCounter  = metrics.GetOrCreateCounter(`gateway_flow_total{flow="payment",result="failure"}`)
	terminalSuccessCounter = metrics.GetOrCreateCounter(`gateway_flow_total{flow="terminal",result="success"}`)
	terminalFailureCounter = metrics.GetOrCreateCounter(`gateway_flow_total{flow="terminal",result="failure"}`)
	cardSuccessCounter     = metrics.GetOrCreateCounter(`gateway_flow_total{flow="card",result="success"}`)
	cardFailureCounter     = metrics.GetOrCreateCounter(`gateway_flow_total{flow="card",result="failure"}`)
)

// LineItem is one client-submitted order line: either a catalog reference
// with a quantity, or an ad-hoc name and price.
type LineItem struct {
	CatalogObjectID string
	Quantity        int64
	Name            string
	Amount          int64
}

type PaymentInput struct {
	IdempotencyKey    string
	SourceID          string
	LocationID        string
	Amount            int64
	CustomerID        string
	VerificationToken string
	ProductName       string
	CustomerName      string
	CustomerNotes     string
	CatalogObjectID   string
	LineItems         []LineItem
}

type PaymentResult struct {
	ID         string
	Status     string
	ReceiptURL string
	OrderID    string
}

type TerminalInput struct {
	Amount          int64
	LocationID      string
	ProductName     string
	CustomerName    string
	CustomerNotes   string
	CatalogObjectID string
	LineItems       []LineItem
}

type TerminalResult struct {
	CheckoutID string
	OrderID    string
	Status     string
}

type TerminalStatus struct {
	Status     string
	OrderID    string
	PaymentIDs []string
}

type CardInput struct {
	IdempotencyKey    string
	SourceID          string
	CustomerID        string
	VerificationToken string
}

// Service orchestrates the two-phase order/payment flows against the vendor
// API. The order is always created first, with a server-generated idempotency
// key, so the payment or terminal checkout can reference it; the client's own
// idempotency key only covers phase two.
type Service struct {
	api      square.API
	executor *retry.Executor
	cfg      config.Square
	logger   *slog.Logger
}

func NewService(api square.API, executor *retry.Executor, cfg config.Square, logger *slog.Logger) *Service {
	return &Service{
		api:      api,
		executor: executor,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *Service) Pay(ctx context.Context, in PaymentInput) (*PaymentResult, error) {
	order, err := s.createOrder(ctx, orderSpec{
		LocationID:      in.LocationID,
		ProductName:     in.ProductName,
		Amount:          in.Amount,
		CatalogObjectID: in.CatalogObjectID,
		LineItems:       in.LineItems,
	})
	if err != nil {
		paymentFailureCounter.Inc()
		return nil, err
	}

	req := square.CreatePaymentRequest{
		IdempotencyKey:    in.IdempotencyKey,
		SourceID:          in.SourceID,
		AmountMoney:       square.Money{Amount: in.Amount, Currency: currency},
		OrderID:           order.ID,
		LocationID:        in.LocationID,
		CustomerID:        in.CustomerID,
		VerificationToken: in.VerificationToken,
		Note:              BuildNote(in.ProductName, in.CustomerName, in.CustomerNotes),
		Autocomplete:      true,
	}

	var payment *square.Payment
	err = s.executor.Do(ctx, "create_payment", func(ctx context.Context) error {
		var opErr error
		payment, opErr = s.api.CreatePayment(ctx, req)
		return opErr
	})
	if err != nil {
		paymentFailureCounter.Inc()
		return nil, err
	}

	s.logger.InfoContext(ctx, "Payment created",
		"payment_id", payment.ID, "order_id", order.ID, "status", payment.Status)
	paymentSuccessCounter.Inc()

	return &PaymentResult{
		ID:         payment.ID,
		Status:     payment.Status,
		ReceiptURL: payment.ReceiptURL,
		OrderID:    order.ID,
	}, nil
}

func (s *Service) TerminalCheckout(ctx context.Context, in TerminalInput) (*TerminalResult, error) {
	order, err := s.createOrder(ctx, orderSpec{
		LocationID:      in.LocationID,
		ProductName:     in.ProductName,
		Amount:          in.Amount,
		CatalogObjectID: in.CatalogObjectID,
		LineItems:       in.LineItems,
		Pickup:          true,
		CustomerName:    in.CustomerName,
	})
	if err != nil {
		terminalFailureCounter.Inc()
		return nil, err
	}

	req := square.CreateTerminalCheckoutRequest{
		IdempotencyKey: uuid.New().String(),
		Checkout: square.TerminalCheckout{
			AmountMoney:   square.Money{Amount: in.Amount, Currency: currency},
			DeviceOptions: &square.DeviceOptions{DeviceID: s.cfg.TerminalDeviceID},
			OrderID:       order.ID,
			ReferenceID:   orderReference(order.ID),
			Note:          BuildNote(in.ProductName, in.CustomerName, in.CustomerNotes),
		},
	}

	var checkout *square.TerminalCheckout
	err = s.executor.Do(ctx, "create_terminal_checkout", func(ctx context.Context) error {
		var opErr error
		checkout, opErr = s.api.CreateTerminalCheckout(ctx, req)
		return opErr
	})
	if err != nil {
		terminalFailureCounter.Inc()
		return nil, err
	}

	s.logger.InfoContext(ctx, "Terminal checkout created",
		"checkout_id", checkout.ID, "order_id", order.ID, "status", checkout.Status)
	terminalSuccessCounter.Inc()

	return &TerminalResult{
		CheckoutID: checkout.ID,
		OrderID:    order.ID,
		Status:     checkout.Status,
	}, nil
}

// TerminalCheckoutStatus is a single read-only lookup, safe for the client to
// re-poll, so it deliberately bypasses the retry executor.
func (s *Service) TerminalCheckoutStatus(ctx context.Context, checkoutID string) (*TerminalStatus, error) {
	checkout, err := s.api.GetTerminalCheckout(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	return &TerminalStatus{
		Status:     checkout.Status,
		OrderID:    checkout.OrderID,
		PaymentIDs: checkout.PaymentIDs,
	}, nil
}

func (s *Service) StoreCard(ctx context.Context, in CardInput) (*square.Card, error) {
	req := square.CreateCardRequest{
		IdempotencyKey:    in.IdempotencyKey,
		SourceID:          in.SourceID,
		VerificationToken: in.VerificationToken,
		Card:              square.Card{CustomerID: in.CustomerID},
	}

	var card *square.Card
	err := s.executor.Do(ctx, "create_card", func(ctx context.Context) error {
		var opErr error
		card, opErr = s.api.CreateCard(ctx, req)
		return opErr
	})
	if err != nil {
		cardFailureCounter.Inc()
		return nil, err
	}

	s.logger.InfoContext(ctx, "Card stored", "card_id", card.ID, "customer_id", in.CustomerID)
	cardSuccessCounter.Inc()
	return card, nil
}

type orderSpec struct {
	LocationID      string
	ProductName     string
	Amount          int64
	CatalogObjectID string
	LineItems       []LineItem
	Pickup          bool
	CustomerName    string
}

// createOrder is phase one of both flows. The idempotency key is generated
// per request rather than taken from the client: retries inside the executor
// reuse it, while distinct requests never collide.
func (s *Service) createOrder(ctx context.Context, spec orderSpec) (*square.Order, error) {
	req := square.CreateOrderRequest{
		IdempotencyKey: uuid.New().String(),
		Order:          buildOrder(spec),
	}

	var order *square.Order
	err := s.executor.Do(ctx, "create_order", func(ctx context.Context) error {
		var opErr error
		order, opErr = s.api.CreateOrder(ctx, req)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	if order == nil || order.ID == "" {
		s.logger.ErrorContext(ctx, "Order response carried no id")
		return nil, ErrMissingOrderID
	}

	return order, nil
}

// buildOrder resolves line items with the documented precedence: explicit
// line items win over a catalog object id, and when neither is given a single
// item is synthesized from the product name and amount.
func buildOrder(spec orderSpec) square.Order {
	order := square.Order{LocationID: spec.LocationID}

	switch {
	case len(spec.LineItems) > 0:
		for _, item := range spec.LineItems {
			order.LineItems = append(order.LineItems, toOrderLineItem(item))
		}
	case spec.CatalogObjectID != "":
		order.LineItems = []square.OrderLineItem{{
			CatalogObjectID: spec.CatalogObjectID,
			Quantity:        "1",
		}}
	default:
		name := Truncate(trim(spec.ProductName), maxProductNameLen)
		if name == "" {
			name = "Order"
		}
		order.LineItems = []square.OrderLineItem{{
			Name:           name,
			Quantity:       "1",
			BasePriceMoney: &square.Money{Amount: spec.Amount, Currency: currency},
		}}
	}

	if spec.Pickup {
		order.Fulfillments = []square.Fulfillment{{
			Type:  "PICKUP",
			State: "PROPOSED",
			PickupDetails: &square.PickupDetails{
				ScheduleType: "ASAP",
				Recipient:    pickupRecipient(spec.CustomerName),
			},
		}}
	}

	return order
}

func toOrderLineItem(item LineItem) square.OrderLineItem {
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}

	if item.CatalogObjectID != "" {
		return square.OrderLineItem{
			CatalogObjectID: item.CatalogObjectID,
			Quantity:        strconv.FormatInt(quantity, 10),
		}
	}

	return square.OrderLineItem{
		Name:           Truncate(trim(item.Name), maxProductNameLen),
		Quantity:       strconv.FormatInt(quantity, 10),
		BasePriceMoney: &square.Money{Amount: item.Amount, Currency: currency},
	}
}

func pickupRecipient(customerName string) *square.FulfillmentRecipient {
	name := Truncate(trim(customerName), maxCustomerNameLen)
	if name == "" {
		return nil
	}
	return &square.FulfillmentRecipient{DisplayName: name}
}

// orderReference is the short order handle printed on the terminal; the
// vendor limits it, so the first 8 characters of the order id are used.
func orderReference(orderID string) string {
	return Truncate(orderID, 8)
}
