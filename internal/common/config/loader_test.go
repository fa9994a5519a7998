package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://api.example.com
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "directory-console", cfg.App.Name)
	assert.Equal(t, 30000, cfg.Backend.Timeout)
	assert.Equal(t, 10, cfg.Console.PageLimit)
	assert.Equal(t, "text", cfg.Console.NoticeFormat)
	assert.Equal(t, "token", cfg.Gateway.SessionCookie)
	assert.Equal(t, ":8080", cfg.Gateway.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "directory-console", cfg.Observability.ServiceName)
	assert.Equal(t, "directory-console/dev", cfg.Backend.UserAgent)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_DIRECTORY_API", "https://directory.internal")
	path := writeConfig(t, `
backend:
  base_url: ${TEST_DIRECTORY_API}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://directory.internal", cfg.Backend.BaseURL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name:   "missing backend url",
			body:   "app:\n  name: console\n",
			errMsg: "backend.base_url is required",
		},
		{
			name:   "bad scheme",
			body:   "backend:\n  base_url: ftp://files.example.com\n",
			errMsg: "backend.base_url must use http or https",
		},
		{
			name:   "bad notice format",
			body:   "backend:\n  base_url: http://localhost:4000\nconsole:\n  notice_format: xml\n",
			errMsg: "console.notice_format must be text or json",
		},
		{
			name:   "bad upstream",
			body:   "backend:\n  base_url: http://localhost:4000\ngateway:\n  upstream_url: localhost\n",
			errMsg: "gateway.upstream_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NEXT_PUBLIC_BACKEND_SERVICE_URL", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBackendConfig_Endpoint(t *testing.T) {
	b := BackendConfig{BaseURL: "http://localhost:4000/api/"}
	assert.Equal(t, "http://localhost:4000/api/companies/list", b.Endpoint("/companies/list"))
	assert.Equal(t, "http://localhost:4000/api/auth/admin", b.Endpoint("auth/admin"))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
