// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/vimeo-provider/internal/logging"
	"github.com/tomtom215/vimeo-provider/internal/metrics"
)

// Config configures the NATS-backed bus.
type Config struct {
	// URL is the NATS server address.
	URL string

	// QueueGroup is the queue group for registered handlers, so multiple
	// provider instances share the request load.
	QueueGroup string

	// RequestTimeout bounds queries and commands without a caller deadline.
	RequestTimeout time.Duration

	// MaxReconnects and ReconnectWait tune connection recovery.
	// MaxReconnects < 0 retries forever.
	MaxReconnects int
	ReconnectWait time.Duration
}

// NATSBus implements Bus over NATS: request/reply for queries and
// commands, a Watermill core-NATS publisher for broadcasts.
type NATSBus struct {
	conn      *natsgo.Conn
	publisher message.Publisher
	cfg       Config

	mu     sync.Mutex
	subs   []*natsgo.Subscription
	closed bool
}

var _ Bus = (*NATSBus)(nil)

// ConnectNATS connects to the NATS server and builds the broadcast
// publisher on top of the same URL.
func ConnectNATS(cfg Config) (*NATSBus, error) {
	if cfg.URL == "" {
		return nil, errors.New("bus: NATS URL required")
	}
	if cfg.QueueGroup == "" {
		cfg.QueueGroup = "vimeo-provider"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logging.Error().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	conn, err := natsgo.Connect(cfg.URL, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect NATS: %w", err)
	}

	wmLogger := NewZerologAdapter(logging.With().Str("component", "bus").Logger())
	publisher, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled: true, // broadcasts are fire-and-forget, no persistence
		},
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &NATSBus{
		conn:      conn,
		publisher: publisher,
		cfg:       cfg,
	}, nil
}

// QueryHandler registers h on the pattern's subject within the configured
// queue group.
func (b *NATSBus) QueryHandler(p Pattern, h Handler) error {
	subject := p.Subject()
	if subject == "" {
		return errors.New("bus: empty pattern")
	}

	sub, err := b.conn.QueueSubscribe(subject, b.cfg.QueueGroup, func(msg *natsgo.Msg) {
		go b.serveRequest(subject, msg, h)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	logging.Info().Str("subject", subject).Msg("bus handler registered")
	return nil
}

// serveRequest decodes one inbound request, runs the handler, and replies.
func (b *NATSBus) serveRequest(subject string, msg *natsgo.Msg, h Handler) {
	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.RequestTimeout)
	defer cancel()

	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		logging.Error().Err(err).Str("subject", subject).Msg("bus request malformed")
		b.respond(msg, replyEnvelope{Error: &ReplyError{Message: "malformed request envelope"}})
		return
	}

	result, err := h(ctx, env.Payload)
	if err != nil {
		b.respond(msg, replyEnvelope{ID: env.ID, Error: toReplyError(err)})
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		logging.Error().Err(err).Str("subject", subject).Msg("bus reply marshal failed")
		b.respond(msg, replyEnvelope{ID: env.ID, Error: &ReplyError{Message: "reply marshal failed"}})
		return
	}

	b.respond(msg, replyEnvelope{ID: env.ID, Data: data})
}

func (b *NATSBus) respond(msg *natsgo.Msg, reply replyEnvelope) {
	data, err := json.Marshal(reply)
	if err != nil {
		logging.Error().Err(err).Msg("bus reply envelope marshal failed")
		return
	}
	if err := msg.Respond(data); err != nil {
		logging.Error().Err(err).Msg("bus reply send failed")
	}
}

// Query issues a request and decodes the reply.
func (b *NATSBus) Query(ctx context.Context, p Pattern, payload, result interface{}) error {
	return b.roundTrip(ctx, p, payload, result)
}

// SendCommand issues a command and decodes the reply.
func (b *NATSBus) SendCommand(ctx context.Context, p Pattern, payload, result interface{}) error {
	return b.roundTrip(ctx, p, payload, result)
}

func (b *NATSBus) roundTrip(ctx context.Context, p Pattern, payload, result interface{}) error {
	subject := p.Subject()
	if subject == "" {
		return errors.New("bus: empty pattern")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	env := envelope{ID: uuid.NewString(), Pattern: p, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.RequestTimeout)
		defer cancel()
	}

	msg, err := b.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("request %s: %w", subject, err)
	}

	var reply replyEnvelope
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return fmt.Errorf("unmarshal reply from %s: %w", subject, err)
	}
	if reply.Error != nil {
		return reply.Error
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(reply.Data, result); err != nil {
		return fmt.Errorf("unmarshal reply data from %s: %w", subject, err)
	}
	return nil
}

// Broadcast publishes a fire-and-forget notification via Watermill.
func (b *NATSBus) Broadcast(ctx context.Context, p Pattern, payload interface{}) error {
	subject := p.Subject()
	if subject == "" {
		return errors.New("bus: empty pattern")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal broadcast payload: %w", err)
	}
	data, err := json.Marshal(envelope{ID: uuid.NewString(), Pattern: p, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal broadcast envelope: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if err := b.publisher.Publish(subject, msg); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	if p.Level != "" {
		metrics.BroadcastsTotal.WithLabelValues(p.Level).Inc()
	}
	return nil
}

// IsConnected reports whether the underlying NATS connection is up.
func (b *NATSBus) IsConnected() bool {
	return b.conn.IsConnected()
}

// Close drains subscriptions and closes the connection.
func (b *NATSBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	b.conn.Close()
	return errors.Join(errs...)
}

// toReplyError preserves machine-readable codes across the bus.
func toReplyError(err error) *ReplyError {
	var coder Coder
	if errors.As(err, &coder) {
		return &ReplyError{Code: coder.BusCode(), Message: err.Error()}
	}
	return &ReplyError{Message: err.Error()}
}
