package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"pagebuilder/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel},
		{"WARN", "json", zapcore.WarnLevel},
		{"bogus", "console", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		log, err := logging.New(tc.level, tc.format)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(tc.want))
		assert.False(t, log.Core().Enabled(tc.want-1))
	}
}
