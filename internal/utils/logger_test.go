package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{in: "quiet", want: LevelQuiet},
		{in: "q", want: LevelQuiet},
		{in: "normal", want: LevelNormal},
		{in: "VERBOSE", want: LevelVerbose},
		{in: "v", want: LevelVerbose},
		{in: "debug", want: LevelDebug},
		{in: "d", want: LevelDebug},
		{in: "unknown", want: LevelNormal},
		{in: "", want: LevelNormal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LogLevelFromString(tt.in), "input %q", tt.in)
	}
}

func TestSetLogLevel(t *testing.T) {
	orig := CurrentLogLevel
	defer SetLogLevel(orig)

	SetLogLevel(LevelDebug)
	assert.Equal(t, LevelDebug, CurrentLogLevel)
}
