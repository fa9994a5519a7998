// internal/common/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Backend       BackendConfig       `mapstructure:"backend"`
	Console       ConsoleConfig       `mapstructure:"console"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig points at the directory REST API.
type BackendConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	UserAgent string `mapstructure:"user_agent"`
}

// Endpoint joins the base URL with an API path.
func (b BackendConfig) Endpoint(path string) string {
	return strings.TrimSuffix(b.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

type ConsoleConfig struct {
	PageLimit    int    `mapstructure:"page_limit"`
	DraftDir     string `mapstructure:"draft_dir"`
	NoticeFormat string `mapstructure:"notice_format"` // "text" or "json"
}

type GatewayConfig struct {
	Address             string `mapstructure:"address"`
	UpstreamURL         string `mapstructure:"upstream_url"`
	SessionCookie       string `mapstructure:"session_cookie"`
	SessionCheckTimeout int    `mapstructure:"session_check_timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}
