package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vasiliy-maslov/orderbot/internal/order"
)

func newPendingOrder(identity string) *order.Order {
	return &order.Order{
		Identity:     identity,
		ItemsSummary: "2x Rice",
		Total:        12000,
		Address:      "Main St 12",
		Status:       order.StatusPending,
		ConfirmedBy:  order.ConfirmedByNone,
	}
}

func TestMemoryRepository_IDsAreMonotonic(t *testing.T) {
	repo := order.NewMemoryRepository()
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		id, err := repo.Create(ctx, newPendingOrder("whatsapp:+243810000001"))
		assert.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestMemoryRepository_GetByID_ReturnsCopy(t *testing.T) {
	repo := order.NewMemoryRepository()
	ctx := context.Background()

	id, err := repo.Create(ctx, newPendingOrder("whatsapp:+243810000001"))
	assert.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	assert.NoError(t, err)

	got.Status = order.StatusDelivered

	again, err := repo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, order.StatusPending, again.Status, "mutating a returned order must not affect the store")
}

func TestMemoryRepository_UpdateStatus_NotFound(t *testing.T) {
	repo := order.NewMemoryRepository()

	err := repo.UpdateStatus(context.Background(), 123, order.StatusDelivered, order.ConfirmedByStaff)
	assert.True(t, errors.Is(err, order.ErrOrderNotFound))
}

func TestMemoryRepository_UpdateStatus_RejectsDeliveredRevert(t *testing.T) {
	repo := order.NewMemoryRepository()
	ctx := context.Background()

	id, err := repo.Create(ctx, newPendingOrder("whatsapp:+243810000001"))
	assert.NoError(t, err)

	assert.NoError(t, repo.UpdateStatus(ctx, id, order.StatusDelivered, order.ConfirmedByClient))

	err = repo.UpdateStatus(ctx, id, order.StatusPending, order.ConfirmedByStaff)
	assert.True(t, errors.Is(err, order.ErrInvalidTransition))

	got, err := repo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, got.Status)
	assert.Equal(t, order.ConfirmedByClient, got.ConfirmedBy)
}

func TestMemoryRepository_LatestPendingByIdentity(t *testing.T) {
	repo := order.NewMemoryRepository()
	ctx := context.Background()

	identity := "whatsapp:+243810000001"

	_, err := repo.LatestPendingByIdentity(ctx, identity)
	assert.True(t, errors.Is(err, order.ErrOrderNotFound))

	firstID, err := repo.Create(ctx, newPendingOrder(identity))
	assert.NoError(t, err)
	secondID, err := repo.Create(ctx, newPendingOrder(identity))
	assert.NoError(t, err)
	_, err = repo.Create(ctx, newPendingOrder("whatsapp:+243810000002"))
	assert.NoError(t, err)

	got, err := repo.LatestPendingByIdentity(ctx, identity)
	assert.NoError(t, err)
	assert.Equal(t, secondID, got.ID)

	assert.NoError(t, repo.UpdateStatus(ctx, secondID, order.StatusDelivered, order.ConfirmedByClient))

	got, err = repo.LatestPendingByIdentity(ctx, identity)
	assert.NoError(t, err)
	assert.Equal(t, firstID, got.ID)
}

func TestMemoryRepository_ListByStatus(t *testing.T) {
	repo := order.NewMemoryRepository()
	ctx := context.Background()

	firstID, err := repo.Create(ctx, newPendingOrder("whatsapp:+243810000001"))
	assert.NoError(t, err)
	secondID, err := repo.Create(ctx, newPendingOrder("whatsapp:+243810000002"))
	assert.NoError(t, err)

	assert.NoError(t, repo.UpdateStatus(ctx, firstID, order.StatusDelivered, order.ConfirmedByStaff))

	pending, err := repo.ListByStatus(ctx, order.StatusPending)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, secondID, pending[0].ID)

	delivered, err := repo.ListByStatus(ctx, order.StatusDelivered)
	assert.NoError(t, err)
	assert.Len(t, delivered, 1)
	assert.Equal(t, firstID, delivered[0].ID)
}
