// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env, configs/config.yaml and the environment overlay
// config.<APP_ENVIRONMENT>.yaml, then applies env overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	bindEnv(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func bindEnv(v *viper.Viper) {
	// BACKEND_BASE_URL overrides backend.base_url and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"app.environment",
		"backend.base_url",
		"backend.timeout",
		"gateway.address",
		"gateway.upstream_url",
		"logging.level",
		"logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values the YAML left blank from well-known
// variables used by the web console deployment.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Backend.BaseURL == "" {
		if val := os.Getenv("NEXT_PUBLIC_BACKEND_SERVICE_URL"); val != "" {
			cfg.Backend.BaseURL = val
		}
	}
	if cfg.Gateway.UpstreamURL == "" {
		if val := os.Getenv("CONSOLE_UPSTREAM_URL"); val != "" {
			cfg.Gateway.UpstreamURL = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "directory-console"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30000
	}
	if cfg.Backend.UserAgent == "" {
		cfg.Backend.UserAgent = "directory-console/" + orDefault(cfg.App.Version, "dev")
	}

	if cfg.Console.PageLimit == 0 {
		cfg.Console.PageLimit = 10
	}
	if cfg.Console.DraftDir == "" {
		cfg.Console.DraftDir = "drafts"
	}
	if cfg.Console.NoticeFormat == "" {
		cfg.Console.NoticeFormat = "text"
	}

	if cfg.Gateway.Address == "" {
		cfg.Gateway.Address = ":8080"
	}
	if cfg.Gateway.SessionCookie == "" {
		cfg.Gateway.SessionCookie = "token"
	}
	if cfg.Gateway.SessionCheckTimeout == 0 {
		cfg.Gateway.SessionCheckTimeout = 5000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if err := validateURL("backend.base_url", cfg.Backend.BaseURL); err != nil {
		return err
	}
	if cfg.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	if cfg.Console.PageLimit < 0 {
		return fmt.Errorf("console.page_limit must not be negative")
	}
	if cfg.Gateway.UpstreamURL != "" {
		if err := validateURL("gateway.upstream_url", cfg.Gateway.UpstreamURL); err != nil {
			return err
		}
	}
	switch cfg.Console.NoticeFormat {
	case "text", "json":
	default:
		return fmt.Errorf("console.notice_format must be text or json, got %q", cfg.Console.NoticeFormat)
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
