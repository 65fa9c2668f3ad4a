package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vasiliy-maslov/orderbot/internal/catalog"
	"github.com/vasiliy-maslov/orderbot/internal/order"
	"github.com/vasiliy-maslov/orderbot/internal/session"
)

func TestMemoryStore_GetOrCreate(t *testing.T) {
	store := session.NewMemoryStore()

	s := store.GetOrCreate("whatsapp:+243810000001")
	assert.Equal(t, session.StageInitial, s.Stage)
	assert.Empty(t, s.Cart)
	assert.Nil(t, s.PendingDish)
	assert.Empty(t, s.Address)
}

func TestMemoryStore_UncommittedMutationIsInvisible(t *testing.T) {
	store := session.NewMemoryStore()
	identity := "whatsapp:+243810000001"

	s := store.GetOrCreate(identity)
	s.Stage = session.StageConfirm
	s.Cart = append(s.Cart, order.CartLine{Dish: "Rice", Quantity: 2, UnitPrice: 6000})
	s.Address = "Main St 12"

	// Without Commit the stored session is untouched (replay safety).
	again := store.GetOrCreate(identity)
	assert.Equal(t, session.StageInitial, again.Stage)
	assert.Empty(t, again.Cart)
	assert.Empty(t, again.Address)
}

func TestMemoryStore_CommitRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	identity := "whatsapp:+243810000001"

	dish := catalog.Item{Code: "1", Name: "Rice", UnitPrice: 6000}
	s := store.GetOrCreate(identity)
	s.Stage = session.StageQuantity
	s.Cart = []order.CartLine{{Dish: "Chicken", Quantity: 1, UnitPrice: 8000}}
	s.PendingDish = &dish
	s.Address = "Main St 12"
	store.Commit(identity, s)

	got := store.GetOrCreate(identity)
	assert.Equal(t, session.StageQuantity, got.Stage)
	assert.Equal(t, s.Cart, got.Cart)
	assert.Equal(t, dish, *got.PendingDish)
	assert.Equal(t, "Main St 12", got.Address)

	// The returned copy is deep: mutating it never leaks into the store.
	got.Cart[0].Quantity = 99
	got.PendingDish.Name = "changed"

	fresh := store.GetOrCreate(identity)
	assert.Equal(t, 1, fresh.Cart[0].Quantity)
	assert.Equal(t, "Rice", fresh.PendingDish.Name)
}

func TestMemoryStore_ConcurrentIdentities(t *testing.T) {
	store := session.NewMemoryStore()

	identities := []string{"a", "b", "c", "d"}
	var wg sync.WaitGroup

	for _, identity := range identities {
		wg.Add(1)
		go func(identity string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s := store.GetOrCreate(identity)
				s.Stage = session.StageMain
				s.Address = identity
				store.Commit(identity, s)
			}
		}(identity)
	}
	wg.Wait()

	for _, identity := range identities {
		s := store.GetOrCreate(identity)
		assert.Equal(t, session.StageMain, s.Stage)
		assert.Equal(t, identity, s.Address)
	}
}

func TestSession_ClearOrder(t *testing.T) {
	dish := catalog.Item{Code: "1", Name: "Rice", UnitPrice: 6000}
	s := session.Session{
		Stage:       session.StageConfirm,
		Cart:        []order.CartLine{{Dish: "Rice", Quantity: 2, UnitPrice: 6000}},
		PendingDish: &dish,
		Address:     "Main St 12",
	}

	s.ClearOrder()

	assert.Empty(t, s.Cart)
	assert.Nil(t, s.PendingDish)
	assert.Empty(t, s.Address)
	assert.Equal(t, session.StageConfirm, s.Stage, "stage is the caller's business")
}
