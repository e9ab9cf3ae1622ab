package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vtruck/internal/api"
	"vtruck/internal/logger"
	"vtruck/internal/maps"
	"vtruck/internal/services/market"
)

// EnvPrefix prefixes every environment override, e.g. VTRUCK_API_BASE_URL.
const EnvPrefix = "VTRUCK"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home    string // config directory, e.g. $HOME/.vtruck
	API     APIConfig
	Maps    MapsConfig
	Log     LogConfig
	App     AppConfig
	Market  MarketConfig
	Metrics MetricsConfig

	HTTP      *http.Client // optional; built from API.Timeout when nil
	LogWriter io.Writer    // optional; overrides Log.Output
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL       string
	BasicUser     string
	BasicPassword string
	Timeout       time.Duration
	RateLimit     float64 // requests per second; 0 disables limiting, unset means 5
	Burst         int
	MaxRetries    int
}

// MapsConfig configures the Google Maps client.
type MapsConfig struct {
	BaseURL string
	APIKey  string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds client preferences that can be set from the config file.
type AppConfig struct {
	Language   string
	Passphrase string // seals the session file when set
}

// MarketConfig tunes the nearby-loads search.
type MarketConfig struct {
	RadiusKM int
	PerPage  int
}

// MetricsConfig configures the metrics endpoint of long-running commands.
type MetricsConfig struct {
	Addr string // host:port; empty disables the endpoint
}

// DefaultHome returns $HOME/.vtruck, or .vtruck when no home is known.
func DefaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil || dir == "" {
		return ".vtruck"
	}
	return filepath.Join(dir, ".vtruck")
}

// Load reads config.yaml from home (or configFile when set), applies
// VTRUCK_ environment overrides and defaults, then validates the result.
func Load(home, configFile string) (*Config, error) {
	if home == "" {
		home = DefaultHome()
	}
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Home: home,
		API: APIConfig{
			BaseURL:       v.GetString("api.base_url"),
			BasicUser:     v.GetString("api.basic_user"),
			BasicPassword: v.GetString("api.basic_password"),
			Timeout:       v.GetDuration("api.timeout"),
			RateLimit:     v.GetFloat64("api.rate_limit"),
			Burst:         v.GetInt("api.burst"),
			MaxRetries:    v.GetInt("api.max_retries"),
		},
		Maps: MapsConfig{
			BaseURL: v.GetString("maps.base_url"),
			APIKey:  v.GetString("maps.api_key"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		App: AppConfig{
			Language:   v.GetString("app.language"),
			Passphrase: v.GetString("app.passphrase"),
		},
		Market: MarketConfig{
			RadiusKM: v.GetInt("market.radius_km"),
			PerPage:  v.GetInt("market.per_page"),
		},
		Metrics: MetricsConfig{
			Addr: v.GetString("metrics.addr"),
		},
	}
	if !v.IsSet("api.max_retries") {
		cfg.API.MaxRetries = -1
	}
	if !v.IsSet("api.rate_limit") {
		cfg.API.RateLimit = defaultRateLimit
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultRateLimit applies when api.rate_limit is absent; an explicit 0
// turns limiting off.
const defaultRateLimit = 5

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = api.DefaultBaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = 5
	}
	if cfg.API.MaxRetries < 0 {
		cfg.API.MaxRetries = api.DefaultRetryConfig().MaxRetries
	}
	if cfg.Maps.BaseURL == "" {
		cfg.Maps.BaseURL = maps.DefaultBaseURL
	}
	def := logger.DefaultConfig()
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Format
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = def.Output
	}
	if cfg.Market.RadiusKM == 0 {
		cfg.Market.RadiusKM = market.DefaultRadiusKM
	}
	if cfg.Market.PerPage == 0 {
		cfg.Market.PerPage = market.DefaultPerPage
	}
}

func (c *Config) validate() error {
	for name, raw := range map[string]string{"api.base_url": c.API.BaseURL, "maps.base_url": c.Maps.BaseURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
		}
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit cannot be negative")
	}
	if c.API.Burst < 0 {
		return fmt.Errorf("api.burst cannot be negative")
	}
	if c.API.MaxRetries > 10 {
		return fmt.Errorf("api.max_retries must be at most 10, got %d", c.API.MaxRetries)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Market.RadiusKM < 0 {
		return fmt.Errorf("market.radius_km cannot be negative")
	}
	if c.Market.PerPage < 0 || c.Market.PerPage > 100 {
		return fmt.Errorf("market.per_page must be between 1 and 100, got %d", c.Market.PerPage)
	}
	return nil
}
