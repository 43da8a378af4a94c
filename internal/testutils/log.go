package testutils

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ExpectedRecord is a log record a test expects to be emitted.
type ExpectedRecord struct {
	Level   slog.Level
	Message string
	// Attrs are attributes expected on the record or on the logger that emitted it.
	Attrs map[string]any
}

// Compare checks that have matches want.
func (want ExpectedRecord) Compare(t *testing.T, have HandledRecord) {
	t.Helper()

	assert.Equal(t, want.Level, have.Level, "Expected Level did not match real Level")
	if want.Message != "" {
		assert.Contains(t, have.Message, want.Message, "Real Message does not contain Expected")
	}
	for k, v := range want.Attrs {
		got, ok := have.Attrs[k]
		if !assert.True(t, ok, "Expected attribute %q is missing", k) {
			continue
		}
		assert.Equal(t, v, got, "Unexpected value for attribute %q", k)
	}
}

// HandledRecord is a record received by a MockHandler, with its attributes resolved.
type HandledRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// MockHandler is a slog.Handler recording every record it handles.
type MockHandler struct {
	mu      *sync.Mutex
	records *[]HandledRecord
	attrs   []slog.Attr
}

// NewMockHandler returns a new MockHandler.
func NewMockHandler() MockHandler {
	return MockHandler{
		mu:      &sync.Mutex{},
		records: &[]HandledRecord{},
	}
}

// Enabled implements Handler.Enabled.
func (h MockHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements Handler.Handle.
func (h MockHandler) Handle(_ context.Context, record slog.Record) error {
	r := HandledRecord{Level: record.Level, Message: record.Message, Attrs: make(map[string]any)}
	for _, a := range h.attrs {
		r.Attrs[a.Key] = a.Value.Any()
	}
	record.Attrs(func(a slog.Attr) bool {
		r.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = append(*h.records, r)
	return nil
}

// WithAttrs implements Handler.WithAttrs.
func (h MockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return h
}

// WithGroup implements Handler.WithGroup. Groups are flattened.
func (h MockHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns the records handled so far, including those of derived handlers.
func (h MockHandler) Records() []HandledRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]HandledRecord(nil), *h.records...)
}
