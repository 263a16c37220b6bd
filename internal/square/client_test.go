package square

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"payment-gateway/internal/config"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sandboxURL = "https://connect.squareupsandbox.com"

func newTestClient() *Client {
	return NewClient(config.Square{AccessToken: "test-token", Environment: config.EnvSandbox}, 5*time.Second, slog.Default())
}

func TestCreateOrder(t *testing.T) {
	defer gock.Off()

	gock.New(sandboxURL).
		Post("/v2/orders").
		MatchHeader("Authorization", "Bearer test-token").
		MatchHeader("Content-Type", "application/json").
		Reply(200).
		JSON(map[string]any{
			"order": map[string]any{
				"id":          "order-123",
				"location_id": "L123",
			},
		})

	order, err := newTestClient().CreateOrder(context.Background(), CreateOrderRequest{
		IdempotencyKey: "key-1",
		Order:          Order{LocationID: "L123"},
	})

	require.NoError(t, err)
	assert.Equal(t, "order-123", order.ID)
	assert.True(t, gock.IsDone())
}

func TestCreatePayment_VendorRejection(t *testing.T) {
	defer gock.Off()

	gock.New(sandboxURL).
		Post("/v2/payments").
		Reply(402).
		JSON(map[string]any{
			"errors": []map[string]string{
				{
					"category": "PAYMENT_METHOD_ERROR",
					"code":     "CARD_DECLINED",
					"detail":   "Card declined.",
				},
			},
		})

	_, err := newTestClient().CreatePayment(context.Background(), CreatePaymentRequest{
		IdempotencyKey: "key-1",
		SourceID:       "cnon:card-nonce",
		AmountMoney:    Money{Amount: 1200, Currency: "JPY"},
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 402, apiErr.StatusCode)
	assert.True(t, apiErr.Terminal())
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "CARD_DECLINED", apiErr.Errors[0].Code)
	assert.True(t, gock.IsDone())
}

func TestCreatePayment_ServerErrorNotTerminal(t *testing.T) {
	defer gock.Off()

	gock.New(sandboxURL).
		Post("/v2/payments").
		Reply(503).
		BodyString("upstream unavailable")

	_, err := newTestClient().CreatePayment(context.Background(), CreatePaymentRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.False(t, apiErr.Terminal())
	assert.Empty(t, apiErr.Errors)
}

func TestGetTerminalCheckout(t *testing.T) {
	defer gock.Off()

	gock.New(sandboxURL).
		Get("/v2/terminals/checkouts/checkout-001").
		Reply(200).
		JSON(map[string]any{
			"checkout": map[string]any{
				"id":          "checkout-001",
				"status":      "COMPLETED",
				"order_id":    "order-123",
				"payment_ids": []string{"payment-456"},
			},
		})

	checkout, err := newTestClient().GetTerminalCheckout(context.Background(), "checkout-001")

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", checkout.Status)
	assert.Equal(t, "order-123", checkout.OrderID)
	assert.Equal(t, []string{"payment-456"}, checkout.PaymentIDs)
}

func TestListCatalogItems_Paginates(t *testing.T) {
	defer gock.Off()

	gock.New(sandboxURL).
		Get("/v2/catalog/list").
		MatchParam("types", "ITEM").
		MatchParam("cursor", "page-2").
		Reply(200).
		JSON(map[string]any{
			"objects": []map[string]any{{"id": "ITEM-2"}},
		})

	gock.New(sandboxURL).
		Get("/v2/catalog/list").
		MatchParam("types", "ITEM").
		Reply(200).
		JSON(map[string]any{
			"cursor":  "page-2",
			"objects": []map[string]any{{"id": "ITEM-1"}},
		})

	objects, err := newTestClient().ListCatalogItems(context.Background())

	require.NoError(t, err)
	assert.Len(t, objects, 2)
	assert.True(t, gock.IsDone())
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.False(t, IsTimeout(&APIError{StatusCode: 500}))
	assert.False(t, IsTimeout(nil))
}
