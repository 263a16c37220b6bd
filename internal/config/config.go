package config

import (
	"log"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"

	sandboxBaseURL    = "https://connect.squareupsandbox.com"
	productionBaseURL = "https://connect.squareup.com"

	sandboxWebSDKURL    = "https://sandbox.web.squarecdn.com/v1/square.js"
	productionWebSDKURL = "https://web.squarecdn.com/v1/square.js"
)

// Square holds the vendor-facing settings resolved from the environment.
// AccessToken may be empty here; handlers that need it respond 500 at
// request time so the rest of the surface (static files, /api/config)
// keeps working.
type Square struct {
	AccessToken      string
	Environment      string
	ApplicationID    string
	LocationID       string
	TerminalDeviceID string
}

type Server struct {
	Addr      string
	StaticDir string
}

type Retry struct {
	MaxAttempts      int
	InitialDelayMs   int
	RequestTimeoutMs int
}

type Metrics struct {
	URL          string
	IntervalMs   int
	CommonLabels string
}

type Logs struct {
	URL string
}

type Config struct {
	Square  Square
	Server  Server
	Retry   Retry
	Metrics Metrics
	Logs    Logs
}

// Load resolves configuration from the environment. Precedence for the
// Square environment: SQUARE_ENVIRONMENT wins outright; NODE_ENV=production
// is consulted only when SQUARE_ENVIRONMENT is unset; the default is sandbox.
// The application id falls back from SQUARE_APPLICATION_ID to APPLICATION_ID.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("STATIC_DIR", "./public")
	v.SetDefault("RETRY_MAX_ATTEMPTS", 4)
	v.SetDefault("RETRY_INITIAL_DELAY_MS", 500)
	v.SetDefault("SQUARE_REQUEST_TIMEOUT_MS", 20_000)
	v.SetDefault("METRICS_PUSH_INTERVAL_MS", 10_000)

	env := v.GetString("SQUARE_ENVIRONMENT")
	switch env {
	case "":
		if v.GetString("NODE_ENV") == EnvProduction {
			env = EnvProduction
		} else {
			env = EnvSandbox
		}
	case EnvSandbox, EnvProduction:
	default:
		return nil, errors.Errorf("unrecognized SQUARE_ENVIRONMENT %q", env)
	}

	applicationID := v.GetString("SQUARE_APPLICATION_ID")
	if applicationID == "" {
		applicationID = v.GetString("APPLICATION_ID")
	}

	return &Config{
		Square: Square{
			AccessToken:      v.GetString("SQUARE_ACCESS_TOKEN"),
			Environment:      env,
			ApplicationID:    applicationID,
			LocationID:       v.GetString("LOCATION_ID"),
			TerminalDeviceID: v.GetString("SQUARE_TERMINAL_DEVICE_ID"),
		},
		Server: Server{
			Addr:      v.GetString("HTTP_ADDR"),
			StaticDir: v.GetString("STATIC_DIR"),
		},
		Retry: Retry{
			MaxAttempts:      v.GetInt("RETRY_MAX_ATTEMPTS"),
			InitialDelayMs:   v.GetInt("RETRY_INITIAL_DELAY_MS"),
			RequestTimeoutMs: v.GetInt("SQUARE_REQUEST_TIMEOUT_MS"),
		},
		Metrics: Metrics{
			URL:          v.GetString("METRICS_URL"),
			IntervalMs:   v.GetInt("METRICS_PUSH_INTERVAL_MS"),
			CommonLabels: v.GetString("METRICS_COMMON_LABELS"),
		},
		Logs: Logs{
			URL: v.GetString("LOKI_URL"),
		},
	}, nil
}

func MustLoad() *Config {
	config, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return config
}

// BaseURL returns the Square REST endpoint for the resolved environment.
func (s Square) BaseURL() string {
	if s.Environment == EnvProduction {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// WebSDKURL returns the browser SDK script URL for the resolved environment.
func (s Square) WebSDKURL() string {
	if s.Environment == EnvProduction {
		return productionWebSDKURL
	}
	return sandboxWebSDKURL
}
