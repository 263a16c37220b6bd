package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64ptr(v int64) *int64 { return &v }

func TestPaymentRequest_Valid(t *testing.T) {
	base := PaymentRequest{
		IdempotencyKey: "key-1",
		SourceID:       "cnon:card-nonce",
		LocationID:     "L123",
	}

	tests := []struct {
		name    string
		mutate  func(r *PaymentRequest)
		isValid bool
	}{
		{
			name:    "required fields present",
			mutate:  func(r *PaymentRequest) {},
			isValid: true,
		},
		{
			name:    "missing idempotency key",
			mutate:  func(r *PaymentRequest) { r.IdempotencyKey = "" },
			isValid: false,
		},
		{
			name:    "missing source id",
			mutate:  func(r *PaymentRequest) { r.SourceID = "" },
			isValid: false,
		},
		{
			name:    "missing location id",
			mutate:  func(r *PaymentRequest) { r.LocationID = "" },
			isValid: false,
		},
		{
			name:    "amount absent is fine",
			mutate:  func(r *PaymentRequest) { r.Amount = nil },
			isValid: true,
		},
		{
			name:    "zero amount is fine",
			mutate:  func(r *PaymentRequest) { r.Amount = int64ptr(0) },
			isValid: true,
		},
		{
			name:    "negative amount rejected",
			mutate:  func(r *PaymentRequest) { r.Amount = int64ptr(-100) },
			isValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			assert.Equal(t, tt.isValid, req.Valid())
		})
	}
}

func TestCardRequest_Valid(t *testing.T) {
	tests := []struct {
		name    string
		req     CardRequest
		isValid bool
	}{
		{
			name:    "all required fields",
			req:     CardRequest{IdempotencyKey: "key-1", SourceID: "cnon:x", CustomerID: "customer-9"},
			isValid: true,
		},
		{
			name:    "missing customer id",
			req:     CardRequest{IdempotencyKey: "key-1", SourceID: "cnon:x"},
			isValid: false,
		},
		{
			name:    "missing source id",
			req:     CardRequest{IdempotencyKey: "key-1", CustomerID: "customer-9"},
			isValid: false,
		},
		{
			name:    "empty request",
			req:     CardRequest{},
			isValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.req.Valid())
		})
	}
}

func TestTerminalCheckoutRequest_Valid(t *testing.T) {
	assert.True(t, TerminalCheckoutRequest{Amount: 800}.Valid())
	assert.False(t, TerminalCheckoutRequest{Amount: 0}.Valid())
	assert.False(t, TerminalCheckoutRequest{Amount: -1}.Valid())
}

func TestTerminalCheckoutRequest_LocationFallback(t *testing.T) {
	in := TerminalCheckoutRequest{Amount: 800}.toInput("L-default")
	assert.Equal(t, "L-default", in.LocationID)

	in = TerminalCheckoutRequest{Amount: 800, LocationID: "L-explicit"}.toInput("L-default")
	assert.Equal(t, "L-explicit", in.LocationID)
}
