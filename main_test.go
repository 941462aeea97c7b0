package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/michiganhackers/photo-assassin-backend/internal/config"
)

func TestInitLogger(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		logLevel string
		enabled  slog.Level
		disabled slog.Level
	}{
		{logLevel: "debug", enabled: slog.LevelDebug, disabled: slog.LevelDebug - 4},
		{logLevel: "info", enabled: slog.LevelInfo, disabled: slog.LevelDebug},
		{logLevel: "warn", enabled: slog.LevelWarn, disabled: slog.LevelInfo},
		{logLevel: "error", enabled: slog.LevelError, disabled: slog.LevelWarn},
		{logLevel: "garbage", enabled: slog.LevelInfo, disabled: slog.LevelDebug},
	}

	for _, test := range tests {
		t.Run("Level "+test.logLevel, func(t *testing.T) {
			logger := initLogger(&config.Config{LogLevel: test.logLevel})

			assert.True(t, logger.Enabled(ctx, test.enabled))
			assert.False(t, logger.Enabled(ctx, test.disabled))
		})
	}
}
