package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvironmentPrecedence(t *testing.T) {
	tests := []struct {
		name              string
		squareEnvironment string
		nodeEnv           string
		expected          string
	}{
		{
			name:     "defaults to sandbox",
			expected: EnvSandbox,
		},
		{
			name:              "SQUARE_ENVIRONMENT wins",
			squareEnvironment: EnvProduction,
			nodeEnv:           "development",
			expected:          EnvProduction,
		},
		{
			name:              "SQUARE_ENVIRONMENT wins over NODE_ENV production",
			squareEnvironment: EnvSandbox,
			nodeEnv:           EnvProduction,
			expected:          EnvSandbox,
		},
		{
			name:     "NODE_ENV production used when SQUARE_ENVIRONMENT unset",
			nodeEnv:  EnvProduction,
			expected: EnvProduction,
		},
		{
			name:     "NODE_ENV other than production stays sandbox",
			nodeEnv:  "test",
			expected: EnvSandbox,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SQUARE_ENVIRONMENT", tt.squareEnvironment)
			t.Setenv("NODE_ENV", tt.nodeEnv)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Square.Environment)
		})
	}
}

func TestLoad_RejectsUnknownEnvironment(t *testing.T) {
	t.Setenv("SQUARE_ENVIRONMENT", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ApplicationIDFallback(t *testing.T) {
	t.Setenv("SQUARE_APPLICATION_ID", "")
	t.Setenv("APPLICATION_ID", "app-fallback")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "app-fallback", cfg.Square.ApplicationID)

	t.Setenv("SQUARE_APPLICATION_ID", "app-primary")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "app-primary", cfg.Square.ApplicationID)
}

func TestSquare_URLsPerEnvironment(t *testing.T) {
	sandbox := Square{Environment: EnvSandbox}
	assert.Equal(t, "https://connect.squareupsandbox.com", sandbox.BaseURL())
	assert.Equal(t, "https://sandbox.web.squarecdn.com/v1/square.js", sandbox.WebSDKURL())

	production := Square{Environment: EnvProduction}
	assert.Equal(t, "https://connect.squareup.com", production.BaseURL())
	assert.Equal(t, "https://web.squarecdn.com/v1/square.js", production.WebSDKURL())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./public", cfg.Server.StaticDir)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
	assert.Equal(t, 20_000, cfg.Retry.RequestTimeoutMs)
}
