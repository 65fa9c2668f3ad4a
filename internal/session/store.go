// Package session tracks where each customer identity is in the ordering
// dialogue. The Store is the only shared mutable memory in the core.
package session

import (
	"sync"

	"github.com/vasiliy-maslov/orderbot/internal/catalog"
	"github.com/vasiliy-maslov/orderbot/internal/order"
)

type Stage string

const (
	StageInitial  Stage = "initial"
	StageMain     Stage = "main"
	StageMenu     Stage = "menu"
	StageQuantity Stage = "quantity"
	StageAddMore  Stage = "add_more"
	StageAddress  Stage = "address"
	StageConfirm  Stage = "confirm"
	StageDone     Stage = "done"
)

// Session is one identity's dialogue state. PendingDish holds a picked dish
// until a quantity folds it into the cart.
type Session struct {
	Stage       Stage
	Cart        []order.CartLine
	PendingDish *catalog.Item
	Address     string
}

// ClearOrder drops the in-progress cart, pending dish and address. The stage
// is set by the caller.
func (s *Session) ClearOrder() {
	s.Cart = nil
	s.PendingDish = nil
	s.Address = ""
}

func (s Session) clone() Session {
	cp := s
	if s.Cart != nil {
		cp.Cart = make([]order.CartLine, len(s.Cart))
		copy(cp.Cart, s.Cart)
	}
	if s.PendingDish != nil {
		dish := *s.PendingDish
		cp.PendingDish = &dish
	}
	return cp
}

// Store maps identities to sessions. GetOrCreate hands out a deep copy, so
// mutations stay invisible until Commit; a caller that hits an error simply
// skips Commit and the inbound message is safe to replay.
//
// Sessions are never deleted, so memory grows with the number of distinct
// identities seen. Acceptable for a single small deployment; revisit before
// pointing real traffic spikes at it.
type Store interface {
	GetOrCreate(identity string) Session
	Commit(identity string, s Session)
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (st *memoryStore) GetOrCreate(identity string) Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, exists := st.sessions[identity]
	if !exists {
		s = Session{Stage: StageInitial}
		st.sessions[identity] = s
	}

	return s.clone()
}

func (st *memoryStore) Commit(identity string, s Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sessions[identity] = s.clone()
}
