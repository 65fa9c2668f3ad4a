// Package notify publishes outbound customer notifications to NATS, where a
// separate gateway process turns them into actual text messages.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const subject = "orders.notify"

type Publisher struct {
	nc *nats.Conn
}

type outboundMessage struct {
	EventID string `json:"event_id"`
	To      string `json:"to"`
	Body    string `json:"body"`
	SentAt  string `json:"sent_at"`
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("orderbot"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("notify: NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("notify: NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to connect to NATS: %w", err)
	}

	log.Info().Str("url", url).Msg("notify: connected to NATS")
	return &Publisher{nc: nc}, nil
}

// Notify publishes one outbound text for identity. Bounded retries; the
// caller treats any error as best-effort and only logs it.
func (p *Publisher) Notify(ctx context.Context, identity, text string) error {
	eventID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("notify: failed to generate event id: %w", err)
	}

	msg := outboundMessage{
		EventID: eventID.String(),
		To:      identity,
		Body:    text,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal message: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.nc.Publish(subject, data); err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("notify: failed to publish")
			time.Sleep(time.Second)
			continue
		}

		if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("notify: failed to flush")
			continue
		}

		return nil
	}

	return fmt.Errorf("notify: failed to publish after retries: %w", lastErr)
}

func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
		log.Info().Msg("notify: NATS connection closed")
	}
}
