package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Init(true, "")

	assert.NotNil(t, Log)
	assert.Same(t, Log, slog.Default())
	assert.True(t, Log.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, sentryEnabled)
	Flush(time.Millisecond)
}

func TestInitProductionLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Init(false, "")

	assert.False(t, Log.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, Log.Enabled(context.Background(), slog.LevelInfo))
}
