package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFieldsReachZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.With(String("component", "test")).Warn("load failed",
		Float64("speed", 2.5),
		Int("ticks", 3),
		Int64("loads", 7),
		Stringer("state", LevelWarn),
		Bool("moving", true),
		Duration("after", time.Second),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	ctx := entry.ContextMap()
	assert.Equal(t, "test", ctx["component"])
	assert.Equal(t, 2.5, ctx["speed"])
	assert.Equal(t, int64(3), ctx["ticks"])
	assert.Equal(t, int64(7), ctx["loads"])
	assert.Equal(t, "warn", ctx["state"])
	assert.Equal(t, true, ctx["moving"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestSetLevelGates(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))
	l.SetLevel(LevelWarn)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")

	assert.Equal(t, LevelWarn, l.GetLevel())
	assert.Equal(t, 1, logs.FilterMessage("kept").Len())
	assert.Equal(t, 1, logs.Len())
}

func TestNilErrorFieldIsSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("ok", Error(nil))

	require.Equal(t, 1, logs.Len())
	_, present := logs.All()[0].ContextMap()["error"]
	assert.False(t, present)
}
