// Package memory provides in-process implementations of the domain store
// and service interfaces, selected with STORE_BACKEND=memory. They back the
// service and handler tests and are handy for local development without
// Postgres.
//
// Per-user serialization is a mutex per cart: every cart mutation and the
// whole checkout commit phase run under the owning user's lock, so
// operations for one user never interleave and operations for different
// users never block each other.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/domain"
)

// Store holds all in-memory state. One instance serves every interface the
// Postgres backend splits across services.
type Store struct {
	mu sync.Mutex

	users        map[uuid.UUID]*userRecord
	usersByEmail map[string]uuid.UUID
	sessions     map[string]domain.Session

	products     map[uuid.UUID]domain.Product
	productOrder []uuid.UUID

	carts  map[uuid.UUID]*cartRecord
	orders []domain.Order
}

type userRecord struct {
	user         domain.User
	passwordHash string
}

type cartRecord struct {
	mu    sync.Mutex
	items []domain.LineItem
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*userRecord),
		usersByEmail: make(map[string]uuid.UUID),
		sessions:     make(map[string]domain.Session),
		products:     make(map[uuid.UUID]domain.Product),
		carts:        make(map[uuid.UUID]*cartRecord),
	}
}

// cart returns the user's cart record, creating it lazily.
func (s *Store) cart(userID uuid.UUID) *cartRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = &cartRecord{}
		s.carts[userID] = c
	}
	return c
}

// Orders returns a copy of all persisted orders, oldest first.
// Used by tests to assert on checkout effects.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
