package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/product-cart/internal/config"
)

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "debug", Format: "json"}}

	log := NewWithOutput(cfg, &buf)
	log.WithField("key", "cart:session:abc").Debug("cart loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cart loaded", entry["msg"])
	assert.Equal(t, "cart:session:abc", entry["key"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithOutputFallsBackToInfo(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "loud", Format: "text"}}

	log := NewWithOutput(cfg, &bytes.Buffer{})

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, ok := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
