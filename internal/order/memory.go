package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryRepository keeps orders in a mutex-guarded map with a monotonically
// increasing id counter. It backs the service when no database is configured
// and doubles as the storage double in tests. Orders do not survive restarts.
type memoryRepository struct {
	mu     sync.RWMutex
	orders map[int64]*Order
	nextID int64
}

func NewMemoryRepository() Repository {
	return &memoryRepository{orders: make(map[int64]*Order)}
}

func (r *memoryRepository) Create(ctx context.Context, orderInput *Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()

	orderInput.ID = r.nextID
	orderInput.CreatedAt = now
	orderInput.UpdatedAt = now

	stored := *orderInput
	r.orders[stored.ID] = &stored

	return stored.ID, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}

	cp := *o
	return &cp, nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id int64, status Status, confirmedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, exists := r.orders[id]
	if !exists {
		return ErrOrderNotFound
	}

	// Checked under the lock: a revert attempt racing a delivery must lose.
	if o.Status == StatusDelivered && status == StatusPending {
		return ErrInvalidTransition
	}

	o.Status = status
	o.ConfirmedBy = confirmedBy
	o.UpdatedAt = time.Now().UTC()

	return nil
}

func (r *memoryRepository) LatestPendingByIdentity(ctx context.Context, identity string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Order
	for _, o := range r.orders {
		if o.Identity != identity || o.Status != StatusPending {
			continue
		}
		if latest == nil || o.ID > latest.ID {
			latest = o
		}
	}

	if latest == nil {
		return nil, ErrOrderNotFound
	}

	cp := *latest
	return &cp, nil
}

func (r *memoryRepository) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]Order, 0)
	for _, o := range r.orders {
		if o.Status == status {
			orders = append(orders, *o)
		}
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })

	return orders, nil
}
