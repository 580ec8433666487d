// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

/*
Package bus provides the message-bus surface the provider consumes and
produces: pattern-addressed queries and commands (request/reply) plus
broadcast notifications (fire-and-forget).

The provider does not own the bus. It registers two query handlers,
issues setItemSpec commands to the catalog, queries the store for channel
config, and broadcasts error/warn/info notifications. Patterns map
one-to-one onto dot-separated NATS subjects:

	{role: provider, cmd: get, source: vimeo-album} -> provider.get.vimeo-album
	{role: store, cmd: get, type: channel}          -> store.get.channel
	{role: catalog, cmd: setItemSpec}               -> catalog.setItemSpec
	{level: error}                                  -> broadcast.error
*/
package bus

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
)

// Pattern addresses a bus endpoint. Role/Cmd plus an optional Source or
// Type discriminator address request/reply endpoints; Level alone
// addresses a broadcast channel.
type Pattern struct {
	Role   string `json:"role,omitempty"`
	Cmd    string `json:"cmd,omitempty"`
	Source string `json:"source,omitempty"`
	Type   string `json:"type,omitempty"`
	Level  string `json:"level,omitempty"`
}

// Subject renders the pattern as a dot-separated NATS subject.
func (p Pattern) Subject() string {
	if p.Level != "" {
		return "broadcast." + p.Level
	}

	parts := make([]string, 0, 4)
	for _, part := range []string{p.Role, p.Cmd, p.Source, p.Type} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

// Handler services one query or command. The payload is the raw request
// object; the returned value is marshaled as the reply. A returned error
// travels back to the caller as a ReplyError.
type Handler func(ctx context.Context, payload json.RawMessage) (interface{}, error)

// Bus is the transport-agnostic bus contract. NATSBus implements it for
// production; MemoryBus implements it in-process for tests.
type Bus interface {
	// QueryHandler registers h to service requests addressed by p.
	QueryHandler(p Pattern, h Handler) error

	// Query issues a request and decodes the reply into result
	// (ignored when result is nil).
	Query(ctx context.Context, p Pattern, payload, result interface{}) error

	// SendCommand has the same request/reply contract as Query; the
	// distinction is semantic (commands mutate the receiver).
	SendCommand(ctx context.Context, p Pattern, payload, result interface{}) error

	// Broadcast publishes a fire-and-forget notification.
	Broadcast(ctx context.Context, p Pattern, payload interface{}) error

	// Close releases transport resources.
	Close() error
}

// envelope is the wire shape of a request or broadcast.
type envelope struct {
	ID      string          `json:"id"`
	Pattern Pattern         `json:"pattern"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// replyEnvelope is the wire shape of a reply.
type replyEnvelope struct {
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ReplyError     `json:"error,omitempty"`
}

// ReplyError is a handler failure carried across the bus.
type ReplyError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *ReplyError) Error() string {
	if e.Code != "" {
		return "bus: " + e.Code + ": " + e.Message
	}
	return "bus: " + e.Message
}

// Coder lets handler errors carry a machine-readable code across the bus.
// Errors implementing it (directly or via errors.As) keep their code in
// the ReplyError; anything else travels as a bare message.
type Coder interface {
	BusCode() string
}
