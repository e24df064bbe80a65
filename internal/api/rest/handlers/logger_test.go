package handlers

import (
	"bytes"
	"context"
	"log/slog"
)

// testLogger captures log messages and levels for testing
type testLogger struct {
	messages []string
	levels   []slog.Level
	buffer   *bytes.Buffer
}

func newTestLogger() *testLogger {
	return &testLogger{
		messages: make([]string, 0),
		levels:   make([]slog.Level, 0),
		buffer:   &bytes.Buffer{},
	}
}

func (tl *testLogger) getLogger() *slog.Logger {
	handler := slog.NewTextHandler(tl.buffer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return slog.New(&captureHandler{
		testLogger: tl,
		handler:    handler,
	})
}

// levelOf returns the level of the first record with the given message
func (tl *testLogger) levelOf(message string) (slog.Level, bool) {
	for i, m := range tl.messages {
		if m == message {
			return tl.levels[i], true
		}
	}
	return 0, false
}

// captureHandler wraps the original handler to capture log data
type captureHandler struct {
	testLogger *testLogger
	handler    slog.Handler
}

func (ch *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return ch.handler.Enabled(ctx, level)
}

func (ch *captureHandler) Handle(ctx context.Context, record slog.Record) error { //nolint:gocritic // slog.Handler interface
	ch.testLogger.messages = append(ch.testLogger.messages, record.Message)
	ch.testLogger.levels = append(ch.testLogger.levels, record.Level)

	return ch.handler.Handle(ctx, record)
}

func (ch *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{
		testLogger: ch.testLogger,
		handler:    ch.handler.WithAttrs(attrs),
	}
}

func (ch *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{
		testLogger: ch.testLogger,
		handler:    ch.handler.WithGroup(name),
	}
}
