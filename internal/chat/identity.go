package chat

import "sync"

// IdentityState is the three-valued session identity.
type IdentityState int

const (
	StateNone IdentityState = iota
	StateLocalPending
	StateConfirmed
)

func (s IdentityState) String() string {
	switch s {
	case StateLocalPending:
		return "local-pending"
	case StateConfirmed:
		return "confirmed"
	default:
		return "none"
	}
}

// Identity tracks which conversation is active. At most one of the local and
// confirmed ids is set at any time. Each select/reset bumps a generation
// counter; in-flight requests are tagged with the generation they were issued
// under so late responses for a switched-away session can be discarded.
type Identity struct {
	mu          sync.RWMutex
	localID     string
	confirmedID string
	generation  uint64
}

// NewIdentity starts in the none state.
func NewIdentity() *Identity {
	return &Identity{}
}

// State returns the current identity state.
func (t *Identity) State() IdentityState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch {
	case t.confirmedID != "":
		return StateConfirmed
	case t.localID != "":
		return StateLocalPending
	default:
		return StateNone
	}
}

// Active resolves the id to send with a request: confirmed if present, else
// local-pending, else empty.
func (t *Identity) Active() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.confirmedID != "" {
		return t.confirmedID
	}
	return t.localID
}

// Confirmed returns the confirmed server id, or empty.
func (t *Identity) Confirmed() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.confirmedID
}

// Snapshot returns the active id together with the current generation, for
// tagging an outbound request.
func (t *Identity) Snapshot() (id string, generation uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.confirmedID != "" {
		return t.confirmedID, t.generation
	}
	return t.localID, t.generation
}

// Generation returns the current generation counter.
func (t *Identity) Generation() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// Confirm promotes the identity to the server-assigned id. A confirmed id is
// never overwritten while the same session stays selected, so Confirm is a
// no-op once one is set. Returns whether the id was applied.
func (t *Identity) Confirm(id string) bool {
	if id == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.confirmedID != "" {
		return false
	}
	t.confirmedID = id
	t.localID = ""
	return true
}

// MarkLocalPending records a client-minted placeholder id. Only valid from
// the none state; minting happens lazily on the first successful response
// that arrives without a server id, never on a "new analysis" click.
func (t *Identity) MarkLocalPending(id string) bool {
	if id == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.confirmedID != "" || t.localID != "" {
		return false
	}
	t.localID = id
	return true
}

// Select switches to a persisted session picked from the list. Clears any
// local-pending id and invalidates in-flight requests.
func (t *Identity) Select(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.confirmedID = id
	t.localID = ""
	t.generation++
}

// Reset returns to the none state (new analysis, or the active session was
// deleted). Invalidates in-flight requests.
func (t *Identity) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.confirmedID = ""
	t.localID = ""
	t.generation++
}
