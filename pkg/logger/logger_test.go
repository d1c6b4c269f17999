package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"study_rewards_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONAtConfiguredLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rewards.log")
	l, err := New(config.LogConfig{Level: "warn", File: file}, true)
	require.NoError(t, err)

	l.Info("draw committed", zap.Uint("user_id", 1))
	l.Warn("notification failed", zap.Uint("user_id", 2))
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "notification failed", entry["msg"])
	assert.Equal(t, "study-rewards", entry["service"])
	assert.EqualValues(t, 2, entry["user_id"])
}

func TestParseLevelFollowsMode(t *testing.T) {
	level, err := parseLevel("", true)
	require.NoError(t, err)
	assert.Equal(t, zap.DebugLevel, level)

	level, err = parseLevel("", false)
	require.NoError(t, err)
	assert.Equal(t, zap.InfoLevel, level)

	level, err = parseLevel("error", true)
	require.NoError(t, err)
	assert.Equal(t, zap.ErrorLevel, level)

	_, err = New(config.LogConfig{Level: "chatty"}, false)
	assert.Error(t, err)
}

func TestInitLoggerWithoutOutputsStaysSilent(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, InitLogger(&config.Config{}))
	assert.NotPanics(t, func() { Log.Info("nothing configured") })
}
