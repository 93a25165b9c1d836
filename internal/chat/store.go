package chat

import "sync"

// Store is the ordered message sequence for the active session. Append-only
// except for the two documented replace-all paths: a session switch
// (overwrite with fetched history) and an explicit new analysis (clear).
type Store struct {
	mu   sync.RWMutex
	msgs []Message
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a message at the end.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

// ReplaceAll overwrites the store with the given history.
func (s *Store) ReplaceAll(msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = make([]Message, len(msgs))
	copy(s.msgs, msgs)
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = nil
}

// Messages returns a snapshot in append order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.msgs)
}
