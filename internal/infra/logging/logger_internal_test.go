package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerConfig_levelFor(t *testing.T) {
	t.Parallel()

	cfg := LoggerConfig{Filter: "svc:warn, svc.topicsvc:debug,broken,repo.user:error"}

	tests := []struct {
		name      string
		logger    string
		wantLevel Level
		wantOK    bool
	}{
		{name: "exact match", logger: "svc.topicsvc", wantLevel: LevelDebug, wantOK: true},
		{name: "child of override", logger: "svc.topicsvc.http", wantLevel: LevelDebug, wantOK: true},
		{name: "parent fallback", logger: "svc.authsvc", wantLevel: LevelWarn, wantOK: true},
		{name: "sibling not matched", logger: "repo.topic", wantOK: false},
		{name: "deep match", logger: "repo.user", wantLevel: LevelError, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, ok := cfg.levelFor(tt.logger)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.wantLevel, level)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LevelWarn, parseLogLevel(" WARN ", LevelInfo))
	assert.Equal(t, LevelInfo, parseLogLevel("verbose", LevelInfo))
}
