package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyCart         = errors.New("order must contain at least one item")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrPersistence       = errors.New("order store unavailable")
)

// Notifier pushes an outbound text to a customer identity. Best effort: the
// service never rolls back a committed status change over a failed push.
type Notifier interface {
	Notify(ctx context.Context, identity, text string) error
}

// Service is the order lifecycle manager: it persists confirmed carts and
// governs the pending -> delivered transition from both the customer reply
// path and the staff override path.
type Service interface {
	Create(ctx context.Context, identity string, cart []CartLine, address string) (*Order, error)
	MarkDelivered(ctx context.Context, id int64, confirmedBy string) error
	ResolveLatestPending(ctx context.Context, identity string) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status, confirmedBy string) error
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

// NewService wires the lifecycle manager. notifier may be nil, in which case
// delivery notifications are skipped.
func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) Create(ctx context.Context, identity string, cart []CartLine, address string) (*Order, error) {
	if identity == "" {
		return nil, errors.New("service: identity is required")
	}
	if len(cart) == 0 {
		log.Warn().Str("identity", identity).Msg("service: attempt to create order with empty cart")
		return nil, ErrEmptyCart
	}

	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("service: quantity for %q must be greater than zero", line.Dish)
		}
		if line.UnitPrice < 0 {
			return nil, fmt.Errorf("service: unit price for %q cannot be negative", line.Dish)
		}
	}

	o := &Order{
		Identity:     identity,
		ItemsSummary: Summary(cart),
		Total:        CartTotal(cart),
		Address:      address,
		Status:       StatusPending,
		ConfirmedBy:  ConfirmedByNone,
	}

	if _, err := s.repo.Create(ctx, o); err != nil {
		log.Error().Err(err).Str("identity", identity).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w: %v", ErrPersistence, err)
	}

	log.Info().Int64("order_id", o.ID).Str("identity", identity).Int64("total", o.Total).Msg("service: order created")

	return o, nil
}

// MarkDelivered moves an order to delivered. Calling it on an already
// delivered order is a no-op success, so the customer reply and the staff
// action can race without either side seeing an error.
func (s *service) MarkDelivered(ctx context.Context, id int64, confirmedBy string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Int64("order_id", id).Msg("service: order not found, cannot mark delivered")
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to get order for delivery: %w", err)
	}

	if current.Status == StatusDelivered {
		log.Info().Int64("order_id", id).Str("confirmed_by", current.ConfirmedBy).Msg("service: order already delivered, no update needed")
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusDelivered, confirmedBy); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to mark order delivered: %w", err)
	}

	log.Info().Int64("order_id", id).Str("confirmed_by", confirmedBy).Msg("service: order delivered")

	s.notifyDelivered(ctx, current)

	return nil
}

func (s *service) ResolveLatestPending(ctx context.Context, identity string) (*Order, error) {
	o, err := s.repo.LatestPendingByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to resolve latest pending order: %w", err)
	}

	return o, nil
}

// UpdateStatus is the staff override path: it applies exactly the requested
// status and actor label, but never lets a delivered order revert to pending.
func (s *service) UpdateStatus(ctx context.Context, id int64, status Status, confirmedBy string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Int64("order_id", id).Str("new_status", string(status)).Msg("service: order not found, cannot update status")
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status == StatusDelivered && status == StatusPending {
		log.Warn().
			Int64("order_id", id).
			Str("current_status", string(current.Status)).
			Str("new_status", string(status)).
			Msg("service: rejected attempt to revert delivered order")
		return ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, status, confirmedBy); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		// The order was delivered between our read and the write; the
		// repository refused the revert.
		if errors.Is(err, ErrInvalidTransition) {
			log.Warn().Int64("order_id", id).Str("new_status", string(status)).Msg("service: revert rejected by concurrent delivery")
			return ErrInvalidTransition
		}
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Int64("order_id", id).Str("old_status", string(current.Status)).Str("new_status", string(status)).Str("confirmed_by", confirmedBy).Msg("service: order status updated")

	if status == StatusDelivered && current.Status != StatusDelivered {
		s.notifyDelivered(ctx, current)
	}

	return nil
}

func (s *service) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	orders, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders by status: %w", err)
	}

	return orders, nil
}

func (s *service) notifyDelivered(ctx context.Context, o *Order) {
	if s.notifier == nil {
		return
	}

	text := fmt.Sprintf("Your order #%d has been delivered.\n%s\nTotal: %s", o.ID, o.ItemsSummary, FormatAmount(o.Total))
	if err := s.notifier.Notify(ctx, o.Identity, text); err != nil {
		log.Warn().Err(err).Int64("order_id", o.ID).Str("identity", o.Identity).Msg("service: delivery notification failed")
	}
}
