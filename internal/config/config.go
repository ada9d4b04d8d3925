package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	// CDCAPIURL is the base URL of the CDC backend, e.g. http://cdc:8000.
	CDCAPIURL string
	// CDCAPIToken authenticates background refreshes. Requests made on
	// behalf of an operator use the operator's own token.
	CDCAPIToken     string
	CDCAPITimeout   time.Duration
	CDCAPIRateLimit float64
	// AuthCacheTTL is how long a token the backend accepted is trusted
	// before it is checked again.
	AuthCacheTTL      time.Duration
	HTTPListenAddr    string
	MetricsListenAddr string
	LogLevel          string
	CORSOrigins       []string
	PollInterval      time.Duration
	PageSize          int
	DashboardTZ       string
	// MCPConfigPath points at a YAML file adjusting the MCP tools. Empty
	// uses the built-in defaults.
	MCPConfigPath string
}

func Load() (*Config, error) {
	cfg := &Config{
		ServiceName:       getEnv("SERVICE_NAME", "console-api"),
		CDCAPIURL:         strings.TrimRight(getEnv("CDC_API_URL", ""), "/"),
		CDCAPIToken:       getEnv("CDC_API_TOKEN", ""),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8080"),
		MetricsListenAddr: getEnv("METRICS_LISTEN_ADDR", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "")),
		DashboardTZ:       getEnv("DASHBOARD_TZ", "Local"),
		MCPConfigPath:     getEnv("MCP_CONFIG", ""),
	}

	var errs []error
	var err error
	if cfg.CDCAPITimeout, err = getDuration("CDC_API_TIMEOUT", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.AuthCacheTTL, err = getDuration("AUTH_CACHE_TTL", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.PollInterval, err = getDuration("POLL_INTERVAL", 15*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.PageSize, err = getInt("PAGE_SIZE", 10); err != nil {
		errs = append(errs, err)
	}
	if s := getEnv("CDC_API_RPS", ""); s != "" {
		if cfg.CDCAPIRateLimit, err = strconv.ParseFloat(s, 64); err != nil {
			errs = append(errs, fmt.Errorf("CDC_API_RPS: %w", err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}

// Validate checks the settings needed by the given binary.
func (c *Config) Validate(binary string) error {
	var missing []string
	switch binary {
	case "console-api":
		if c.CDCAPIURL == "" {
			missing = append(missing, "CDC_API_URL")
		}
		if c.HTTPListenAddr == "" {
			missing = append(missing, "HTTP_LISTEN_ADDR")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config for %s: %s", binary, strings.Join(missing, ", "))
	}

	if c.CDCAPIURL != "" {
		u, err := url.Parse(c.CDCAPIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("CDC_API_URL must be an http(s) URL, got %q", c.CDCAPIURL)
		}
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if c.AuthCacheTTL < 0 {
		return fmt.Errorf("AUTH_CACHE_TTL must not be negative")
	}
	if c.CDCAPIRateLimit < 0 {
		return fmt.Errorf("CDC_API_RPS must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves DashboardTZ.
func (c *Config) Location() (*time.Location, error) {
	if c.DashboardTZ == "" || c.DashboardTZ == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DashboardTZ)
	if err != nil {
		return nil, fmt.Errorf("DASHBOARD_TZ: %w", err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
