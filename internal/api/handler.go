package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"payment-gateway/internal/checkout"
	"payment-gateway/internal/config"
	"payment-gateway/internal/square"

	"github.com/VictoriaMetrics/metrics"
)

var (
	validationErrorCounter = metrics.GetOrCreateCounter(`gateway_request_total{result="validation_error"}`)
	configErrorCounter     = metrics.GetOrCreateCounter(`gateway_request_total{result="config_error"}`)
	timeoutCounter         = metrics.GetOrCreateCounter(`gateway_request_total{result="timeout"}`)
)

type Handler struct {
	cfg     *config.Config
	service *checkout.Service
	catalog square.API
	logger  *slog.Logger
}

func NewHandler(cfg *config.Config, service *checkout.Service, catalog square.API, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		service: service,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes wires the API surface onto the mux. The legacy /payment and
// /card paths are kept alongside /api/* because older storefront builds still
// post to them.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/config", h.handleConfig)
	mux.HandleFunc("GET /api/items", h.handleListItems)
	mux.HandleFunc("POST /api/card", h.handleStoreCard)
	mux.HandleFunc("POST /card", h.handleStoreCard)
	mux.HandleFunc("POST /api/payment", h.handlePayment)
	mux.HandleFunc("POST /payment", h.handlePayment)
	mux.HandleFunc("POST /api/terminal-checkout", h.handleTerminalCheckout)
	mux.HandleFunc("GET /api/terminal-checkout-status", h.handleTerminalCheckoutStatus)

	// Without these the catch-all below would route wrong-method requests to
	// the file server instead of answering 405.
	for _, path := range []string{
		"/healthz",
		"/api/config",
		"/api/items",
		"/api/card", "/card",
		"/api/payment", "/payment",
		"/api/terminal-checkout",
		"/api/terminal-checkout-status",
	} {
		mux.HandleFunc(path, h.methodNotAllowed)
	}

	mux.Handle("/", http.FileServer(http.Dir(h.cfg.Server.StaticDir)))
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"squareEnvironment": h.cfg.Square.Environment,
		"applicationId":     h.cfg.Square.ApplicationID,
		"locationId":        h.cfg.Square.LocationID,
		"squareJsUrl":       h.cfg.Square.WebSDKURL(),
	})
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccessToken(w, r) {
		return
	}

	objects, err := h.catalog.ListCatalogItems(r.Context())
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}

	if objects == nil {
		objects = []json.RawMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": objects})
}

func (h *Handler) handleStoreCard(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccessToken(w, r) {
		return
	}

	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectInvalid(w, r, "card", err)
		return
	}
	if !req.Valid() {
		h.rejectInvalid(w, r, "card", nil)
		return
	}

	card, err := h.service.StoreCard(r.Context(), checkout.CardInput{
		IdempotencyKey:    req.IdempotencyKey,
		SourceID:          req.SourceID,
		CustomerID:        req.CustomerID,
		VerificationToken: req.VerificationToken,
	})
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"card":    normalizeCard(card),
	})
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccessToken(w, r) {
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectInvalid(w, r, "payment", err)
		return
	}
	if !req.Valid() {
		h.rejectInvalid(w, r, "payment", nil)
		return
	}

	result, err := h.service.Pay(r.Context(), req.toInput())
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"payment": PaymentResponse{
			ID:         result.ID,
			Status:     result.Status,
			ReceiptURL: result.ReceiptURL,
			OrderID:    result.OrderID,
		},
	})
}

func (h *Handler) handleTerminalCheckout(w http.ResponseWriter, r *http.Request) {
	if !h.requireAccessToken(w, r) {
		return
	}
	if h.cfg.Square.TerminalDeviceID == "" {
		configErrorCounter.Inc()
		h.logger.ErrorContext(r.Context(), "Terminal checkout requested without SQUARE_TERMINAL_DEVICE_ID")
		writeError(w, http.StatusInternalServerError, "SQUARE_TERMINAL_DEVICE_ID is not configured")
		return
	}

	var req TerminalCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.rejectInvalid(w, r, "terminal-checkout", err)
		return
	}
	if !req.Valid() {
		h.rejectInvalid(w, r, "terminal-checkout", nil)
		return
	}

	result, err := h.service.TerminalCheckout(r.Context(), req.toInput(h.cfg.Square.LocationID))
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"checkoutId": result.CheckoutID,
		"orderId":    result.OrderID,
		"status":     result.Status,
	})
}

func (h *Handler) handleTerminalCheckoutStatus(w http.ResponseWriter, r *http.Request) {
	checkoutID := r.URL.Query().Get("checkout_id")
	if checkoutID == "" {
		validationErrorCounter.Inc()
		writeError(w, http.StatusBadRequest, "checkout_id query parameter is required")
		return
	}

	if !h.requireAccessToken(w, r) {
		return
	}

	status, err := h.service.TerminalCheckoutStatus(r.Context(), checkoutID)
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}

	paymentIDs := status.PaymentIDs
	if paymentIDs == nil {
		paymentIDs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status.Status,
		"orderId":    status.OrderID,
		"paymentIds": paymentIDs,
	})
}

func (h *Handler) requireAccessToken(w http.ResponseWriter, r *http.Request) bool {
	if h.cfg.Square.AccessToken != "" {
		return true
	}
	configErrorCounter.Inc()
	h.logger.ErrorContext(r.Context(), "SQUARE_ACCESS_TOKEN is not configured")
	writeError(w, http.StatusInternalServerError, "SQUARE_ACCESS_TOKEN is not configured")
	return false
}

func (h *Handler) rejectInvalid(w http.ResponseWriter, r *http.Request, operation string, err error) {
	validationErrorCounter.Inc()
	if err != nil {
		h.logger.WarnContext(r.Context(), fmt.Sprintf("Malformed %s request body: %v", operation, err))
	} else {
		h.logger.WarnContext(r.Context(), "Missing required fields", "operation", operation)
	}
	writeError(w, http.StatusBadRequest, "invalid request")
}

// writeFlowError maps orchestrator failures onto the error taxonomy: vendor
// rejections pass their status and sub-errors through, timeouts become 504,
// anything else degrades to a generic 500.
func (h *Handler) writeFlowError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *square.APIError
	if errors.As(err, &apiErr) {
		h.logger.WarnContext(r.Context(), "Vendor error response", "status", apiErr.StatusCode)
		writeVendorError(w, apiErr)
		return
	}

	if square.IsTimeout(err) {
		timeoutCounter.Inc()
		h.logger.ErrorContext(r.Context(), "Vendor call timed out")
		writeError(w, http.StatusGatewayTimeout, "payment service timed out")
		return
	}

	if errors.Is(err, checkout.ErrMissingOrderID) {
		h.logger.ErrorContext(r.Context(), "Order created without an id")
		writeError(w, http.StatusInternalServerError, "order could not be created")
		return
	}

	h.logger.ErrorContext(r.Context(), fmt.Sprintf("Unexpected error: %v", err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
