// Package conversation implements the ordering dialogue as a deterministic
// state machine. Handle is a pure transform over the session; all I/O happens
// in the caller.
package conversation

import (
	"strconv"
	"strings"

	"github.com/vasiliy-maslov/orderbot/internal/catalog"
	"github.com/vasiliy-maslov/orderbot/internal/order"
	"github.com/vasiliy-maslov/orderbot/internal/session"
)

type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectPlaceOrder carries the cart and address to persist; the session
	// returned alongside it already has the cart cleared. On a failed write
	// the caller discards the session so the message can be replayed.
	EffectPlaceOrder
	// EffectConfirmDelivery is the bare delivery-confirmation keyword; the
	// caller resolves it to the latest pending order and picks the reply.
	EffectConfirmDelivery
)

type Effect struct {
	Kind    EffectKind
	Cart    []order.CartLine
	Address string
}

type Engine struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// isReset recognizes the reset command. Checked before any state-specific
// parsing, from every state. This intentionally shadows legitimate input:
// a customer typing "0" as a quantity gets the main menu instead. Kept as is
// until product says otherwise.
func isReset(msg string) bool {
	return msg == "0" || strings.EqualFold(msg, "reset")
}

// Handle interprets one inbound message against the session, mutating it in
// place, and returns the outbound reply plus any side effect for the caller.
func (e *Engine) Handle(s *session.Session, text string) (string, Effect) {
	msg := strings.TrimSpace(text)

	if isReset(msg) {
		s.ClearOrder()
		s.Stage = session.StageMain
		return ReplyGreeting, Effect{}
	}

	switch s.Stage {
	case session.StageInitial:
		s.Stage = session.StageMain
		return ReplyGreeting, Effect{}

	case session.StageMain:
		switch msg {
		case "1":
			return menuWithPrices(e.catalog), Effect{}
		case "2":
			s.Stage = session.StageMenu
			return dishPrompt(e.catalog), Effect{}
		case "3":
			return ReplyHours, Effect{}
		default:
			return ReplyGreeting, Effect{}
		}

	case session.StageMenu:
		item, ok := e.catalog.Lookup(msg)
		if !ok {
			return ReplyInvalidDish, Effect{}
		}
		s.PendingDish = &item
		s.Stage = session.StageQuantity
		return quantityPrompt(item.Name), Effect{}

	case session.StageQuantity:
		qty, ok := parseQuantity(msg)
		if !ok {
			return ReplyInvalidQuantity, Effect{}
		}
		s.Cart = append(s.Cart, order.CartLine{
			Dish:      s.PendingDish.Name,
			Quantity:  qty,
			UnitPrice: s.PendingDish.UnitPrice,
		})
		s.PendingDish = nil
		s.Stage = session.StageAddMore
		return ReplyAddMore, Effect{}

	case session.StageAddMore:
		switch msg {
		case "1":
			s.Stage = session.StageMenu
			return dishPrompt(e.catalog), Effect{}
		case "2":
			s.Stage = session.StageAddress
			return ReplyAddressPrompt, Effect{}
		default:
			return ReplyAddMoreInvalid, Effect{}
		}

	case session.StageAddress:
		if msg == "" {
			return ReplyAddressPrompt, Effect{}
		}
		s.Address = msg
		s.Stage = session.StageConfirm
		return orderSummary(s.Cart, s.Address), Effect{}

	case session.StageConfirm:
		switch msg {
		case "1":
			eff := Effect{Kind: EffectPlaceOrder, Cart: s.Cart, Address: s.Address}
			s.ClearOrder()
			s.Stage = session.StageDone
			return ReplyOrderConfirmed, eff
		case "2":
			s.Cart = nil
			s.Stage = session.StageMenu
			return modifyPrompt(e.catalog), Effect{}
		default:
			return ReplyConfirmInvalid, Effect{}
		}

	case session.StageDone:
		if msg == "1" {
			return "", Effect{Kind: EffectConfirmDelivery}
		}
		return ReplyDonePrompt, Effect{}
	}

	// Unknown stage: recover to the greeting rather than wedge the session.
	s.ClearOrder()
	s.Stage = session.StageMain
	return ReplyGreeting, Effect{}
}

// parseQuantity accepts positive integer text only. Zero, negatives and
// non-digit text all fail the same way ("0" never reaches here, the reset
// guard eats it first).
func parseQuantity(msg string) (int, bool) {
	if msg == "" {
		return 0, false
	}
	for _, r := range msg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	qty, err := strconv.Atoi(msg)
	if err != nil || qty <= 0 {
		return 0, false
	}
	return qty, true
}
