package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples the engine from its presentation layer
// ─────────────────────────────────────────────────────────────

// Events emitted by the engine.
const (
	// EventNotify carries a Notice for the user (the toast channel).
	EventNotify = "editor:notify"
	// EventChanged fires after every applied mutation with a Change payload.
	EventChanged = "editor:changed"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Notice is the payload of EventNotify.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Change is the payload of EventChanged.
type Change struct {
	Op         string `json:"op"`
	Components int    `json:"components"`
}

// EventEmitter is an interface for publishing engine events. The HTTP and
// MCP surfaces log them; tests record them with MockEmitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// NopEmitter drops every event.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Notices returns the recorded EventNotify payloads in order.
func (m *MockEmitter) Notices() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notice
	for _, e := range m.Events {
		if n, ok := e.Data.(Notice); ok && e.Event == EventNotify {
			out = append(out, n)
		}
	}
	return out
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}
