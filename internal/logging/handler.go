// Package logging provides a custom slog handler that feeds the audit
// trail shown on the settings page. It forwards logs at WARN level and
// above into a bounded in-memory ring alongside the wrapped handler.
package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Categories group audit entries for display.
const (
	CategoryAuth    = "auth"
	CategoryAccess  = "access"
	CategoryBooking = "booking"
	CategoryClient  = "client"
	CategoryUser    = "user"
	CategorySystem  = "system"
)

// Entry is one audit trail record.
type Entry struct {
	Time     time.Time
	Level    slog.Level
	Category string
	Message  string
	Attrs    map[string]string
}

// AuditTrail is a fixed-capacity ring of recent notable log records.
// Oldest entries are dropped once the capacity is reached.
type AuditTrail struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewAuditTrail creates a trail holding at most capacity entries.
func NewAuditTrail(capacity int) *AuditTrail {
	if capacity < 1 {
		capacity = 1
	}
	return &AuditTrail{entries: make([]Entry, capacity)}
}

func (t *AuditTrail) add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[t.next] = e
	t.next++
	if t.next == len(t.entries) {
		t.next = 0
		t.full = true
	}
}

// Recent returns the stored entries, newest first.
func (t *AuditTrail) Recent() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := t.next
	if t.full {
		size = len(t.entries)
	}
	out := make([]Entry, 0, size)
	for i := 1; i <= size; i++ {
		idx := t.next - i
		if idx < 0 {
			idx += len(t.entries)
		}
		out = append(out, t.entries[idx])
	}
	return out
}

// AuditHandler is a slog.Handler that wraps another handler and also
// records WARN and ERROR level logs in the audit trail.
type AuditHandler struct {
	inner slog.Handler
	trail *AuditTrail
	level slog.Level
	attrs []slog.Attr
}

// NewAuditHandler creates an AuditHandler that wraps the given handler.
// Logs at WARN level and above are recorded in the trail.
func NewAuditHandler(inner slog.Handler, trail *AuditTrail) *AuditHandler {
	return &AuditHandler{inner: inner, trail: trail, level: slog.LevelWarn}
}

// NewAuditHandlerWithLevel creates an AuditHandler with a custom minimum level.
func NewAuditHandlerWithLevel(inner slog.Handler, trail *AuditTrail, level slog.Level) *AuditHandler {
	return &AuditHandler{inner: inner, trail: trail, level: level}
}

// Enabled implements slog.Handler.
func (h *AuditHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.trail.add(h.entryFromRecord(r))
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &AuditHandler{
		inner: h.inner.WithAttrs(attrs),
		trail: h.trail,
		level: h.level,
		attrs: merged,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditHandler) WithGroup(name string) slog.Handler {
	return &AuditHandler{
		inner: h.inner.WithGroup(name),
		trail: h.trail,
		level: h.level,
		attrs: h.attrs,
	}
}

func (h *AuditHandler) entryFromRecord(r slog.Record) Entry {
	e := Entry{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]string, r.NumAttrs()+len(h.attrs)),
	}
	for _, a := range h.attrs {
		if a.Key == "category" {
			e.Category = a.Value.String()
			continue
		}
		e.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			e.Category = a.Value.String()
			return true
		}
		e.Attrs[a.Key] = a.Value.String()
		return true
	})
	if e.Category == "" {
		e.Category = inferCategory(r.Message)
	}
	return e
}

// inferCategory guesses a category from common message patterns when no
// explicit "category" attribute was logged.
func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") || strings.Contains(msg, "password"):
		return CategoryAuth
	case strings.Contains(msg, "denied") || strings.Contains(msg, "forbidden"):
		return CategoryAccess
	case strings.Contains(msg, "booking"):
		return CategoryBooking
	case strings.Contains(msg, "client") || strings.Contains(msg, "business"):
		return CategoryClient
	case strings.Contains(msg, "user"):
		return CategoryUser
	default:
		return CategorySystem
	}
}
