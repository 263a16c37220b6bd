package api

import (
	"encoding/json"
	"testing"

	"payment-gateway/internal/square"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCard_WideIntsAsStrings(t *testing.T) {
	card := normalizeCard(&square.Card{
		ID:         "card-789",
		CardBrand:  "VISA",
		Last4:      "1111",
		ExpMonth:   12,
		ExpYear:    2027,
		CustomerID: "customer-9",
		Enabled:    true,
		Version:    9007199254740993, // beyond float64 integer precision
	})

	body, err := json.Marshal(card)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "12", decoded["expMonth"])
	assert.Equal(t, "2027", decoded["expYear"])
	assert.Equal(t, "9007199254740993", decoded["version"])
}

func TestNormalizeCard_ZeroWideIntsOmitted(t *testing.T) {
	card := normalizeCard(&square.Card{ID: "card-789"})

	body, err := json.Marshal(card)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	_, hasExpMonth := decoded["expMonth"]
	_, hasVersion := decoded["version"]
	assert.False(t, hasExpMonth)
	assert.False(t, hasVersion)
}
