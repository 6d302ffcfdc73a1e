package delivery

import (
	"sync"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/delivery"
)

// SessionStore holds the live allocation sessions, one per sale. Sessions
// are in-memory working state, not persisted: they exist from the moment a
// user opens a sale for delivery until submission succeeds or the session
// is discarded.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*delivery.AllocationSession
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*delivery.AllocationSession),
	}
}

// GetOrCreate returns the sale's session, creating it from the given line
// items if none exists yet
func (s *SessionStore) GetOrCreate(saleID uuid.UUID, items func() []delivery.LineItem) *delivery.AllocationSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[saleID]; ok {
		return session
	}

	session := delivery.NewAllocationSession(saleID, items())
	s.sessions[saleID] = session
	return session
}

// Get returns the sale's session, or nil if none exists
func (s *SessionStore) Get(saleID uuid.UUID) *delivery.AllocationSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[saleID]
}

// Discard removes the sale's session
func (s *SessionStore) Discard(saleID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, saleID)
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
