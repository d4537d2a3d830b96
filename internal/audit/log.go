// Package audit records security-relevant actions: every mutating operation
// logs the authenticated actor. Entries are emitted as JSON lines through the
// shared logger and kept in a bounded in-memory ring for the admin log view.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/infra-neo/portal-api/internal/auth"
	"github.com/infra-neo/portal-api/internal/obs"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Entry is one recorded audit event.
type Entry struct {
	Time       time.Time      `json:"timestamp"`
	Event      string         `json:"event"`
	RequestID  string         `json:"request_id,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
	ActorEmail string         `json:"actor_email,omitempty"`
	Fields     map[string]any `json:"fields"`
}

// Log emits audit events and retains the most recent ones.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

const defaultCapacity = 256

// NewLog builds an audit log retaining up to capacity recent entries.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Log{entries: make([]Entry, capacity)}
}

// Event records an audit entry enriched with request and actor context.
func (l *Log) Event(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}

	entry := Entry{
		Time:   time.Now().UTC(),
		Event:  event,
		Fields: map[string]any{},
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		entry.RequestID = rid
	}
	if id, ok := auth.IdentityFromContext(ctx); ok {
		entry.ActorID = id.ID
		entry.ActorEmail = id.Email
	}
	for k, v := range fields {
		entry.Fields[k] = v
	}

	line := map[string]any{
		"ts":    entry.Time.Format(time.RFC3339Nano),
		"type":  "audit",
		"event": entry.Event,
	}
	if entry.RequestID != "" {
		line["request_id"] = entry.RequestID
	}
	if entry.ActorID != "" {
		line["actor_id"] = entry.ActorID
	}
	if entry.ActorEmail != "" {
		line["actor_email"] = entry.ActorEmail
	}
	line["fields"] = entry.Fields

	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	obs.Logger().Println(string(data))

	l.mu.Lock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
	l.mu.Unlock()
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *Log) Recent(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	size := l.next
	if l.full {
		size = len(l.entries)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (l.next - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}
