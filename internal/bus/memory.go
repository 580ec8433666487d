// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

// MemoryBus is an in-process Bus for tests and single-process wiring.
// Queries and commands dispatch synchronously to registered handlers;
// broadcasts are recorded for inspection. Payloads still round-trip
// through JSON so tests exercise the same marshaling as the wire.
type MemoryBus struct {
	mu         sync.Mutex
	handlers   map[string]Handler
	broadcasts []Broadcast
}

// Broadcast is one recorded notification.
type Broadcast struct {
	Pattern Pattern
	Payload json.RawMessage
}

var _ Bus = (*MemoryBus)(nil)

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string]Handler)}
}

// QueryHandler registers h for the pattern's subject. Registering the
// same subject twice replaces the handler.
func (b *MemoryBus) QueryHandler(p Pattern, h Handler) error {
	subject := p.Subject()
	if subject == "" {
		return fmt.Errorf("bus: empty pattern")
	}
	b.mu.Lock()
	b.handlers[subject] = h
	b.mu.Unlock()
	return nil
}

// Query dispatches to the registered handler.
func (b *MemoryBus) Query(ctx context.Context, p Pattern, payload, result interface{}) error {
	return b.dispatch(ctx, p, payload, result)
}

// SendCommand dispatches to the registered handler.
func (b *MemoryBus) SendCommand(ctx context.Context, p Pattern, payload, result interface{}) error {
	return b.dispatch(ctx, p, payload, result)
}

func (b *MemoryBus) dispatch(ctx context.Context, p Pattern, payload, result interface{}) error {
	subject := p.Subject()

	b.mu.Lock()
	h, ok := b.handlers[subject]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("bus: no handler for %s", subject)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	reply, err := h(ctx, raw)
	if err != nil {
		return toReplyError(err)
	}
	if result == nil {
		return nil
	}

	data, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	return json.Unmarshal(data, result)
}

// Broadcast records the notification.
func (b *MemoryBus) Broadcast(_ context.Context, p Pattern, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal broadcast payload: %w", err)
	}

	b.mu.Lock()
	b.broadcasts = append(b.broadcasts, Broadcast{Pattern: p, Payload: raw})
	b.mu.Unlock()
	return nil
}

// Broadcasts returns a copy of all recorded notifications.
func (b *MemoryBus) Broadcasts() []Broadcast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Broadcast(nil), b.broadcasts...)
}

// BroadcastsAt returns recorded notifications for one level.
func (b *MemoryBus) BroadcastsAt(level string) []Broadcast {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Broadcast
	for _, bc := range b.broadcasts {
		if bc.Pattern.Level == level {
			out = append(out, bc)
		}
	}
	return out
}

// Close is a no-op for the in-process bus.
func (b *MemoryBus) Close() error {
	return nil
}
