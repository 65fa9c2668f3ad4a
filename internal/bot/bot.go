// Package bot wires the session store, the conversation engine and the order
// lifecycle manager into one message pipeline.
package bot

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/orderbot/internal/conversation"
	"github.com/vasiliy-maslov/orderbot/internal/metrics"
	"github.com/vasiliy-maslov/orderbot/internal/order"
	"github.com/vasiliy-maslov/orderbot/internal/session"
)

type Bot struct {
	store   session.Store
	engine  *conversation.Engine
	orders  order.Service
	metrics *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds the pipeline. m may be nil to disable counters.
func New(store session.Store, engine *conversation.Engine, orders order.Service, m *metrics.Metrics) *Bot {
	return &Bot{
		store:   store,
		engine:  engine,
		orders:  orders,
		metrics: m,
		locks:   make(map[string]*sync.Mutex),
	}
}

// identityLock serializes fetch-transform-commit per identity so concurrent
// messages from the same customer cannot lose updates. Different identities
// proceed in parallel.
func (b *Bot) identityLock(identity string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, exists := b.locks[identity]
	if !exists {
		l = &sync.Mutex{}
		b.locks[identity] = l
	}
	return l
}

// Normalize canonicalizes an inbound identity so the same customer always
// keys the same session.
func Normalize(identity string) string {
	return strings.TrimSpace(identity)
}

// HandleMessage processes one inbound message to completion and returns the
// outbound reply. Every failure resolves to a user-visible message; when the
// order store is down the session is left uncommitted, so redelivering the
// same message is safe.
func (b *Bot) HandleMessage(ctx context.Context, identity, text string) string {
	identity = Normalize(identity)

	l := b.identityLock(identity)
	l.Lock()
	defer l.Unlock()

	sess := b.store.GetOrCreate(identity)
	reply, eff := b.engine.Handle(&sess, text)

	switch eff.Kind {
	case conversation.EffectPlaceOrder:
		o, err := b.orders.Create(ctx, identity, eff.Cart, eff.Address)
		if err != nil {
			log.Error().Err(err).Str("identity", identity).Msg("bot: failed to persist order, keeping session for retry")
			return conversation.ReplyOrderFailed
		}
		if b.metrics != nil {
			b.metrics.OrdersCreated.Inc()
		}
		log.Info().Int64("order_id", o.ID).Str("identity", identity).Msg("bot: order placed")

	case conversation.EffectConfirmDelivery:
		o, err := b.orders.ResolveLatestPending(ctx, identity)
		if errors.Is(err, order.ErrOrderNotFound) {
			reply = conversation.ReplyNothingPending
			break
		}
		if err != nil {
			log.Error().Err(err).Str("identity", identity).Msg("bot: failed to resolve pending order")
			return conversation.ReplyOrderFailed
		}
		if err := b.orders.MarkDelivered(ctx, o.ID, order.ConfirmedByClient); err != nil {
			log.Error().Err(err).Int64("order_id", o.ID).Msg("bot: failed to confirm delivery")
			return conversation.ReplyOrderFailed
		}
		if b.metrics != nil {
			b.metrics.DeliveriesConfirmed.WithLabelValues(order.ConfirmedByClient).Inc()
		}
		reply = conversation.ReplyDeliveryThanks
	}

	b.store.Commit(identity, sess)

	if b.metrics != nil {
		b.metrics.MessagesTotal.Inc()
	}

	return reply
}
