package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"
)

type position string

func (p position) String() string { return string(p) }

func TestLogger_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core), LevelInfo)

	logger.Debug("hidden")
	logger.Info("moved",
		Entity("player-1"),
		Position(position("(1.0, 2.0)")),
		Radix(65535),
		Tick(7),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "moved", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "player-1", fields["entity"])
	assert.Equal(t, "(1.0, 2.0)", fields["position"])
	assert.Equal(t, int64(65535), fields["radix"])
	assert.Equal(t, uint64(7), fields["tick"])
	assert.Equal(t, "boom", fields["error"])

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	logger.Debug("shown")
	assert.Equal(t, 2, logs.Len())
}

func TestLogger_With(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core), LevelDebug).With(String("system", "movement"))

	logger.Warn("clamped", Float64("speed", 1.5))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "movement", fields["system"])
	assert.Equal(t, 1.5, fields["speed"])
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
		"fatal":   LevelFatal,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevel_YAML(t *testing.T) {
	var cfg struct {
		Level Level `yaml:"level"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("level: warn\n"), &cfg))
	assert.Equal(t, LevelWarn, cfg.Level)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Equal(t, "level: warn\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("level: loud\n"), &cfg))
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("discarded")
	assert.NotNil(t, Provide())
}
