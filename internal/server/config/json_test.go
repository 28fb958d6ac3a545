package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")

	data := `{
		"endpoint_addr": ":9090",
		"csrf_token_validity_duration": "5m",
		"rate_limit_max_requests": 7,
		"rate_limit_window": "30s",
		"trust_x_forwarded_for": true,
		"secure_cookies": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	oldArgs := os.Args
	os.Args = []string{"test", "-c", path}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, c.EndpointAddr, ":9090")
	assert.Equal(t, c.CSRFTokenValidityDuration, 5*time.Minute)
	assert.Equal(t, c.RateLimitMaxRequests, 7)
	assert.Equal(t, c.RateLimitWindow, 30*time.Second)
	assert.True(t, c.SecureCookies)
	assert.True(t, c.TrustXForwardedFor)

	// untouched defaults
	assert.Equal(t, c.StorageTokenValidityDuration, 30*time.Minute)
}

func TestParseJson_NoFlagIsNoop(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, c.EndpointAddr, ":8080")
}
