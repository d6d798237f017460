/*
Package memory is a process-local store with the same transactional contract
as the relational adapter.

A transaction takes the store's write lock, works on a copy of the state and
swaps the copy in on commit, so transactions are serialized and a failed one
leaves nothing behind. Rows are kept as reconstruction DTOs and every read
rebuilds a fresh aggregate.
*/
package memory

import (
	"context"
	"sync"

	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/user"
	"campusfood/infrastructure/outbox"
)

// FaultInjector is consulted before each write with names such as
// "order.insert" or "order_item.insert". A non-nil error aborts the write.
type FaultInjector func(op string) error

type state struct {
	lastUserID      int64
	lastMenuID      int64
	lastOrderID     int64
	lastOrderItemID int64

	users  map[int64]user.ReconstructionDTO
	menu   map[int64]menu.ReconstructionDTO
	orders map[int64]order.ReconstructionDTO
	outbox []outbox.Record
}

func newState() *state {
	return &state{
		users:  make(map[int64]user.ReconstructionDTO),
		menu:   make(map[int64]menu.ReconstructionDTO),
		orders: make(map[int64]order.ReconstructionDTO),
	}
}

// clone copies the maps; DTO values are replaced as a whole and never mutated.
func (s *state) clone() *state {
	c := &state{
		lastUserID:      s.lastUserID,
		lastMenuID:      s.lastMenuID,
		lastOrderID:     s.lastOrderID,
		lastOrderItemID: s.lastOrderItemID,
		users:           make(map[int64]user.ReconstructionDTO, len(s.users)),
		menu:            make(map[int64]menu.ReconstructionDTO, len(s.menu)),
		orders:          make(map[int64]order.ReconstructionDTO, len(s.orders)),
		outbox:          make([]outbox.Record, len(s.outbox)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.menu {
		c.menu[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	copy(c.outbox, s.outbox)
	return c
}

type Store struct {
	mu     sync.RWMutex
	st     *state
	faults FaultInjector
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// SetFaultInjector installs f for subsequent writes. Pass nil to clear it.
func (s *Store) SetFaultInjector(f FaultInjector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = f
}

type txKey struct{}

type tx struct {
	store *Store
	st    *state
	done  bool
}

func (s *Store) txFrom(ctx context.Context) *tx {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok || t.store != s || t.done {
		return nil
	}
	return t
}

func (s *Store) begin() *tx {
	s.mu.Lock()
	return &tx{store: s, st: s.st.clone()}
}

func (s *Store) commit(t *tx) {
	if t.done {
		return
	}
	s.st = t.st
	t.done = true
	s.mu.Unlock()
}

func (s *Store) rollback(t *tx) {
	if t.done {
		return
	}
	t.done = true
	s.mu.Unlock()
}

func contextWithTx(ctx context.Context, t *tx) context.Context {
	return context.WithValue(ctx, txKey{}, t)
}

// read runs fn against the transaction's view when ctx carries one.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if t := s.txFrom(ctx); t != nil {
		return fn(t.st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write is atomic on its own: outside a transaction fn works on a copy that
// replaces the state only when fn succeeds.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if t := s.txFrom(ctx); t != nil {
		return fn(t.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	working := s.st.clone()
	if err := fn(working); err != nil {
		return err
	}
	s.st = working
	return nil
}

// fault is only called from inside read/write, where s.mu is already held.
func (s *Store) fault(op string) error {
	if s.faults == nil {
		return nil
	}
	return s.faults(op)
}
