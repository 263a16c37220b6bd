package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"payment-gateway/internal/config"
)

const squareVersion = "2024-08-21"

// API is the slice of the Square REST surface this gateway uses. The
// orchestrator and handlers depend on this interface so tests can swap in a
// fake without network mocking.
type API interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error)
	CreateCard(ctx context.Context, req CreateCardRequest) (*Card, error)
	CreateTerminalCheckout(ctx context.Context, req CreateTerminalCheckoutRequest) (*TerminalCheckout, error)
	GetTerminalCheckout(ctx context.Context, checkoutID string) (*TerminalCheckout, error)
	ListCatalogItems(ctx context.Context) ([]json.RawMessage, error)
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(cfg config.Square, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL(),
		token:   cfg.AccessToken,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v2/orders", req, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	var resp createPaymentResponse
	if err := c.do(ctx, http.MethodPost, "/v2/payments", req, &resp); err != nil {
		return nil, err
	}
	return resp.Payment, nil
}

func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (*Card, error) {
	var resp createCardResponse
	if err := c.do(ctx, http.MethodPost, "/v2/cards", req, &resp); err != nil {
		return nil, err
	}
	return resp.Card, nil
}

func (c *Client) CreateTerminalCheckout(ctx context.Context, req CreateTerminalCheckoutRequest) (*TerminalCheckout, error) {
	var resp terminalCheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/v2/terminals/checkouts", req, &resp); err != nil {
		return nil, err
	}
	return resp.Checkout, nil
}

func (c *Client) GetTerminalCheckout(ctx context.Context, checkoutID string) (*TerminalCheckout, error) {
	var resp terminalCheckoutResponse
	path := "/v2/terminals/checkouts/" + url.PathEscape(checkoutID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Checkout, nil
}

func (c *Client) ListCatalogItems(ctx context.Context) ([]json.RawMessage, error) {
	var objects []json.RawMessage
	cursor := ""

	for {
		path := "/v2/catalog/list?types=ITEM"
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}

		var resp listCatalogResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}

		objects = append(objects, resp.Objects...)

		if resp.Cursor == "" {
			return objects, nil
		}
		cursor = resp.Cursor
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Square-Version", squareVersion)

	c.logger.InfoContext(ctx, "Calling Square", "method", method, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, fmt.Sprintf("Error calling Square: %v", err))
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// body may not be JSON on gateway-level failures
		var parsed struct {
			Errors []Error `json:"errors"`
		}
		if unmarshalErr := json.Unmarshal(respBody, &parsed); unmarshalErr == nil {
			apiErr.Errors = parsed.Errors
		}
		c.logger.ErrorContext(ctx, "Square returned error response", "status", resp.StatusCode, "path", path)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return err
		}
	}

	c.logger.InfoContext(ctx, "Square call succeeded", "status", resp.StatusCode, "path", path)
	return nil
}
