package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Clearer empties the cart when the paid session is the one it started.
type Clearer interface {
	ClearIfSession(ctx context.Context, sessionID string) (bool, error)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Poller consumes order events and clears the cart on out-of-band payment confirmation.
type Poller struct {
	cart   Clearer
	reader messageReader
	log    zerolog.Logger
}

func NewPoller(cart Clearer, log zerolog.Logger, topic, groupID string, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{cart: cart, reader: reader, log: log}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				p.log.Error().Err(err).Msg("error reading message")
			}
			continue
		}
		if err := p.handle(ctx, m.Value); err != nil {
			p.log.Warn().Err(err).Str("key", string(m.Key)).Msg("order event skipped")
		}
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Error().Err(err).Msg("error closing reader")
	}
}

func (p *Poller) handle(ctx context.Context, value []byte) error {
	var ev domain.OrderEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("parse order event: %w", err)
	}
	if ev.EventType != domain.OrderStatusChangedEvent || ev.Status != domain.OrderStatusPaid {
		return nil
	}
	if ev.CheckoutSessionRef == "" {
		return errors.New("paid event without checkout session")
	}

	cleared, err := p.cart.ClearIfSession(ctx, ev.CheckoutSessionRef)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if cleared {
		p.log.Info().
			Str("order_id", ev.OrderID).
			Str("session_id", ev.CheckoutSessionRef).
			Msg("cart cleared after payment confirmation")
	}
	return nil
}
