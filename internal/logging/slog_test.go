package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		kv    string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARN", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}

	for _, tc := range tests {
		assert.Contains(t, out, "level="+tc.level)
		assert.Contains(t, out, "msg="+tc.msg)
		assert.Contains(t, out, tc.kv)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("request_id", "123", "component", "session").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "request_id=123", "component=session", "k=v"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestNew_Formats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("text", "info", &buf)
		require.NoError(t, err)
		l.Debug(context.Background(), "hidden")
		l.Info(context.Background(), "shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("json", "debug", &buf)
		require.NoError(t, err)
		l.Debug(context.Background(), "visible", "n", 1)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "visible", rec["msg"])
		assert.Equal(t, "DEBUG", rec["level"])
	})

	t.Run("zap", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("zap", "warn", &buf)
		require.NoError(t, err)
		l.Info(context.Background(), "dropped")
		l.With("component", "http").Warn(context.Background(), "slow request", "ms", 1200)

		out := buf.String()
		assert.NotContains(t, out, "dropped")

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
		assert.Equal(t, "slow request", rec["msg"])
		assert.Equal(t, "warn", rec["level"])
		assert.Equal(t, "http", rec["component"])
		assert.EqualValues(t, 1200, rec["ms"])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := New("xml", "info", &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := New("text", "loud", &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.With("a", 1).Error(ctx, "y")
}
