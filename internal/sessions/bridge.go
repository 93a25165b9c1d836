// Package sessions surfaces the persisted session list and feeds selections
// and deletions back into the conversation state.
package sessions

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nexus-cli/internal/backend"
	"nexus-cli/internal/chat"
	"nexus-cli/internal/domain"
	"nexus-cli/internal/utils"
)

// Bridge caches the principal's session list and exposes create, select and
// delete. Refresh is driven by the caller (the TUI polls on its tick); a
// failed refresh keeps the previous list and only logs. Deletions performed
// here are reflected in the cached list immediately, not on the next poll.
type Bridge struct {
	client *backend.Client
	orch   *chat.Orchestrator
	logger *utils.Logger

	mu       sync.RWMutex
	sessions []backend.SessionSummary
}

// NewBridge wires the bridge to the backend and the orchestrator.
func NewBridge(client *backend.Client, orch *chat.Orchestrator, logger *utils.Logger) *Bridge {
	return &Bridge{client: client, orch: orch, logger: logger}
}

// Refresh reloads the session list from the backend, newest first.
func (b *Bridge) Refresh(ctx context.Context) error {
	list, err := b.client.Sessions(ctx)
	if err != nil {
		b.logger.Warnf("session list refresh failed: %v", err)
		return fmt.Errorf("failed to refresh sessions: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	b.mu.Lock()
	b.sessions = list
	b.mu.Unlock()
	return nil
}

// Sessions returns a snapshot of the cached list.
func (b *Bridge) Sessions() []backend.SessionSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]backend.SessionSummary, len(b.sessions))
	copy(out, b.sessions)
	return out
}

// Create persists a new session record and prepends it to the cached list.
func (b *Bridge) Create(ctx context.Context, title string, dom domain.Type) (*backend.SessionSummary, error) {
	if title == "" {
		title = "New Analysis"
	}
	created, err := b.client.CreateSession(ctx, backend.CreateSessionRequest{
		Title:  title,
		Domain: string(dom),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	b.mu.Lock()
	b.sessions = append([]backend.SessionSummary{*created}, b.sessions...)
	b.mu.Unlock()
	return created, nil
}

// Select makes a persisted session active by loading its history through the
// orchestrator.
func (b *Bridge) Select(ctx context.Context, sessionID string) error {
	return b.orch.LoadSession(ctx, sessionID)
}

// Delete removes a session. If it was the active one, the selection and the
// message store are cleared as well.
func (b *Bridge) Delete(ctx context.Context, sessionID string) error {
	if err := b.client.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	b.mu.Lock()
	kept := b.sessions[:0]
	for _, s := range b.sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	b.sessions = kept
	b.mu.Unlock()

	if b.orch.Tracker().Confirmed() == sessionID {
		b.orch.NewAnalysis()
	}
	return nil
}
