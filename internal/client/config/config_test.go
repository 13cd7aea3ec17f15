package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, "127.0.0.1:50051", c.HealthAddr)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"client"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
