package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufLogger(buf *bytes.Buffer) *SlogLogger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h))
}

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newBufLogger(&buf)
	ctx := context.Background()

	l.Debug(ctx, "d", "k", 1)
	l.Info(ctx, "i")
	l.Warn(ctx, "w")
	l.Error(ctx, "e")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "k=1")
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := newBufLogger(&buf)

	child := l.With("component", "sync")
	child.Info(context.Background(), "hello")

	assert.Contains(t, buf.String(), "component=sync")
}
