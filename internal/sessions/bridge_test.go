package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-cli/internal/auth"
	"nexus-cli/internal/backend"
	"nexus-cli/internal/chat"
	"nexus-cli/internal/domain"
	"nexus-cli/internal/utils"
)

type fakeBackend struct {
	mu       sync.Mutex
	sessions []backend.SessionSummary
	messages map[string][]backend.MessageRecord
	failList bool
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sessions":
			if f.failList {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			_ = json.NewEncoder(w).Encode(f.sessions)
		case r.Method == http.MethodPost && r.URL.Path == "/sessions":
			var req backend.CreateSessionRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			created := backend.SessionSummary{ID: "s-created", Title: req.Title, Domain: req.Domain, CreatedAt: time.Now()}
			f.sessions = append(f.sessions, created)
			_ = json.NewEncoder(w).Encode(created)
		case r.Method == http.MethodDelete:
			kept := f.sessions[:0]
			for _, s := range f.sessions {
				if "/sessions/"+s.ID != r.URL.Path {
					kept = append(kept, s)
				}
			}
			f.sessions = kept
			w.WriteHeader(http.StatusNoContent)
		default:
			for id, msgs := range f.messages {
				if r.URL.Path == "/sessions/"+id+"/messages" {
					_ = json.NewEncoder(w).Encode(msgs)
					return
				}
			}
			http.NotFound(w, r)
		}
	})
}

func newTestBridge(t *testing.T, fb *fakeBackend) (*Bridge, *chat.Orchestrator) {
	t.Helper()
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	authCtx := auth.Login(auth.Principal{Email: "dev@example.com"}, auth.NewStaticTokenSource(""))
	client := backend.NewClient(srv.URL, authCtx, 5*time.Second, utils.NewNopLogger())
	orch := chat.NewOrchestrator(chat.NewStore(), chat.NewIdentity(), client, authCtx, utils.NewNopLogger())
	return NewBridge(client, orch, utils.NewNopLogger()), orch
}

func TestRefreshSortsNewestFirst(t *testing.T) {
	now := time.Now()
	fb := &fakeBackend{sessions: []backend.SessionSummary{
		{ID: "old", Title: "Old", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "new", Title: "New", CreatedAt: now},
		{ID: "mid", Title: "Mid", CreatedAt: now.Add(-1 * time.Hour)},
	}}
	b, _ := newTestBridge(t, fb)

	require.NoError(t, b.Refresh(context.Background()))
	got := b.Sessions()
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
}

func TestRefreshFailureKeepsCachedList(t *testing.T) {
	fb := &fakeBackend{sessions: []backend.SessionSummary{{ID: "s-1", Title: "Keep"}}}
	b, _ := newTestBridge(t, fb)
	require.NoError(t, b.Refresh(context.Background()))

	fb.mu.Lock()
	fb.failList = true
	fb.mu.Unlock()

	err := b.Refresh(context.Background())
	require.Error(t, err)
	require.Len(t, b.Sessions(), 1)
	assert.Equal(t, "s-1", b.Sessions()[0].ID)
}

func TestCreatePrependsToCache(t *testing.T) {
	fb := &fakeBackend{sessions: []backend.SessionSummary{{ID: "s-1", Title: "Existing"}}}
	b, _ := newTestBridge(t, fb)
	require.NoError(t, b.Refresh(context.Background()))

	created, err := b.Create(context.Background(), "", domain.Retail)
	require.NoError(t, err)
	assert.Equal(t, "New Analysis", created.Title)

	got := b.Sessions()
	require.Len(t, got, 2)
	assert.Equal(t, "s-created", got[0].ID)
}

func TestSelectLoadsHistory(t *testing.T) {
	fb := &fakeBackend{
		sessions: []backend.SessionSummary{{ID: "s-1", Title: "Numbers"}},
		messages: map[string][]backend.MessageRecord{
			"s-1": {
				{ID: "m-1", Role: "user", Content: "hi"},
				{ID: "m-2", Role: "assistant", Content: "hello", Metadata: &backend.RecordMetadata{Domain: "finance"}},
			},
		},
	}
	b, orch := newTestBridge(t, fb)

	require.NoError(t, b.Select(context.Background(), "s-1"))
	assert.Equal(t, "s-1", orch.Tracker().Confirmed())
	assert.Equal(t, 2, orch.Store().Len())
	assert.Equal(t, domain.Finance, orch.Domain())
}

func TestDeleteRemovesFromCacheImmediately(t *testing.T) {
	fb := &fakeBackend{sessions: []backend.SessionSummary{
		{ID: "s-1", Title: "One"},
		{ID: "s-2", Title: "Two"},
	}}
	b, orch := newTestBridge(t, fb)
	require.NoError(t, b.Refresh(context.Background()))

	// s-2 is not active; deleting it must not disturb the conversation.
	orch.Tracker().Select("s-1")
	orch.Store().Append(chat.NewMessage(chat.RoleUser, "still here"))

	require.NoError(t, b.Delete(context.Background(), "s-2"))
	got := b.Sessions()
	require.Len(t, got, 1)
	assert.Equal(t, "s-1", got[0].ID)
	assert.Equal(t, 1, orch.Store().Len())
	assert.Equal(t, "s-1", orch.Tracker().Confirmed())
}

func TestDeleteActiveSessionClearsSelectionAndStore(t *testing.T) {
	fb := &fakeBackend{sessions: []backend.SessionSummary{{ID: "s-1", Title: "Active"}}}
	b, orch := newTestBridge(t, fb)
	require.NoError(t, b.Refresh(context.Background()))

	orch.Tracker().Select("s-1")
	orch.Store().Append(chat.NewMessage(chat.RoleUser, "doomed"))

	require.NoError(t, b.Delete(context.Background(), "s-1"))
	assert.Empty(t, b.Sessions())
	assert.Equal(t, chat.StateNone, orch.Tracker().State())
	assert.Zero(t, orch.Store().Len())
}
