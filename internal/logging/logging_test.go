package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelOff,
		"loud":    LevelOff,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warn")
	assert.Contains(t, out, "k=v")
}

func TestNilAndNopLoggersAreSilent(t *testing.T) {
	var l *Logger
	assert.False(t, l.Enabled())
	l.Error("nothing happens")
	l.With("a", 1).Info("still nothing")

	nop := Nop()
	assert.False(t, nop.Enabled())
	nop.StartRequest("cohere", "m").Error(errors.New("ignored"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.StartRequest("cohere", "command-xlarge-nightly").Success(12)
	l.StartRequest("cohere", "command-xlarge-nightly").Error(errors.New("boom"))

	out := buf.String()
	require.Contains(t, out, "generation started")
	assert.Contains(t, out, "generation completed")
	assert.Contains(t, out, "chars=12")
	assert.Contains(t, out, "generation failed")
	assert.Contains(t, out, "error=boom")
}

func TestFromEnvOff(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	l, closer, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, l.Enabled())
	assert.NoError(t, closer())
}

func TestFromEnvFile(t *testing.T) {
	path := t.TempDir() + "/typechat.log"
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FILE", path)

	l, closer, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, l.Enabled())
	l.Info("written")
	require.NoError(t, closer())
}
