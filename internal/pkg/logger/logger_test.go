package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerForwardsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := New(zap.New(core))

	log.Info("calling provider", map[string]interface{}{"model": "deepseek-chat"})
	log.Error("provider failed", errors.New("boom"), nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "calling provider", entries[0].Message)
	assert.Equal(t, "deepseek-chat", entries[0].ContextMap()["model"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestNilLoggerIsNop(t *testing.T) {
	log := New(nil)
	assert.NotPanics(t, func() {
		log.Debug("ignored", nil)
		log.Sync()
	})
}
