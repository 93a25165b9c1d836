package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"nexus-cli/internal/auth"
	"nexus-cli/internal/backend"
	"nexus-cli/internal/domain"
	"nexus-cli/internal/files"
	"nexus-cli/internal/utils"
)

// ErrEmptyMessage is returned when the submitted text is empty after
// trimming. Surfaced inline; no request is sent.
var ErrEmptyMessage = errors.New("message is empty")

// Orchestrator serializes analysis and upload requests for the active
// session and folds each response into the store and identity tracker.
// At most one request is in flight at a time: a submit while busy is a
// no-op, not queued.
type Orchestrator struct {
	store   *Store
	tracker *Identity
	client  *backend.Client
	authCtx *auth.Context
	logger  *utils.Logger

	mu   sync.Mutex
	busy bool

	domMu  sync.RWMutex
	domain domain.Type
}

// NewOrchestrator wires the orchestrator to its collaborators.
func NewOrchestrator(store *Store, tracker *Identity, client *backend.Client, authCtx *auth.Context, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		tracker: tracker,
		client:  client,
		authCtx: authCtx,
		logger:  logger,
		domain:  domain.General,
	}
}

// Store returns the message store the orchestrator folds into.
func (o *Orchestrator) Store() *Store { return o.store }

// Tracker returns the session identity tracker.
func (o *Orchestrator) Tracker() *Identity { return o.tracker }

// Busy reports whether a request is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Domain returns the last detected domain.
func (o *Orchestrator) Domain() domain.Type {
	o.domMu.RLock()
	defer o.domMu.RUnlock()
	return o.domain
}

func (o *Orchestrator) setDomain(d domain.Type) {
	o.domMu.Lock()
	o.domain = d
	o.domMu.Unlock()
}

// SubmitText sends one analysis request. Returns (false, ErrEmptyMessage)
// for blank input, (false, nil) when another request is already in flight,
// and (true, nil) once the request ran to completion and its outcome, success
// or error, was folded into the store.
func (o *Orchestrator) SubmitText(ctx context.Context, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, ErrEmptyMessage
	}
	if !o.begin() {
		o.logger.Debugf("submit ignored, request already in flight")
		return false, nil
	}
	defer o.end()

	o.send(ctx, text)
	return true, nil
}

// SubmitFile validates and submits one file. Textual files are decoded
// locally and go through the text pipeline after a system placeholder
// announcing the read; everything else ships as a multipart upload. The read
// and the upload both run under the same single-flight guard as text sends.
func (o *Orchestrator) SubmitFile(ctx context.Context, up files.Upload) (bool, error) {
	if err := files.Validate(up.Name, up.ContentType, up.Size); err != nil {
		return false, err
	}
	if !o.begin() {
		o.logger.Debugf("upload ignored, request already in flight")
		return false, nil
	}
	defer o.end()

	if files.IsTextual(up.Name, up.ContentType) {
		o.store.Append(NewMessage(RoleSystem, fmt.Sprintf("Reading file: %s...", up.Name)))
		data, err := io.ReadAll(io.LimitReader(up.Reader, files.MaxUploadSize))
		if err != nil {
			_, gen := o.tracker.Snapshot()
			o.foldError(gen, fmt.Errorf("failed to read %s: %w", up.Name, err))
			return true, nil
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			o.logger.Warnf("file %s decoded to empty text, nothing to submit", up.Name)
			// Resolve the placeholder; a bare announcement with no outcome
			// reads like a hang.
			o.store.Append(NewMessage(RoleSystem, fmt.Sprintf("%s is empty, nothing to analyze.", up.Name)))
			return true, nil
		}
		o.send(ctx, text)
		return true, nil
	}

	_, gen := o.tracker.Snapshot()
	o.store.Append(NewMessage(RoleUser, "Uploaded file: "+up.Name))
	resp, err := o.client.Upload(ctx, up.Name, up.Reader)
	if err != nil {
		o.foldError(gen, err)
		return true, nil
	}
	o.foldResponse(gen, resp)
	return true, nil
}

// LoadSession fetches a persisted session's history and makes it active.
// The store ends up equal to the fetched history, never merged with prior
// content.
func (o *Orchestrator) LoadSession(ctx context.Context, sessionID string) error {
	records, err := o.client.Messages(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session history: %w", err)
	}
	msgs := make([]Message, 0, len(records))
	for _, rec := range records {
		msgs = append(msgs, messageFromRecord(rec))
	}
	o.tracker.Select(sessionID)
	o.store.ReplaceAll(msgs)

	// Restore the last detected domain from history so the banner survives
	// a session switch.
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Meta.Kind != MetadataNone {
			o.setDomain(msgs[i].Meta.Agent.Domain)
			break
		}
	}
	return nil
}

// NewAnalysis clears the active conversation without minting any identity;
// a fresh id appears only with the first successful response.
func (o *Orchestrator) NewAnalysis() {
	o.tracker.Reset()
	o.store.Clear()
}

// send runs one optimistic-append/request/fold cycle under the busy guard.
func (o *Orchestrator) send(ctx context.Context, text string) {
	sessionID, gen := o.tracker.Snapshot()
	o.store.Append(NewMessage(RoleUser, text))

	resp, err := o.client.Analyze(ctx, backend.AnalyzeRequest{
		Text:      text,
		SessionID: sessionID,
		UserEmail: o.authCtx.Principal().Email,
	})
	if err != nil {
		o.foldError(gen, err)
		return
	}
	o.foldResponse(gen, resp)
}

// foldResponse appends exactly one assistant message and reconciles session
// identity. A response issued under a stale generation (the user switched or
// reset sessions while it was in flight) is discarded.
func (o *Orchestrator) foldResponse(gen uint64, resp *backend.AnalyzeResponse) {
	if o.tracker.Generation() != gen {
		o.logger.Debugf("discarding response for inactive session")
		return
	}

	if resp.SessionID != "" {
		if o.tracker.Confirm(resp.SessionID) {
			o.logger.Debugf("session confirmed: %s", resp.SessionID)
		}
	} else if o.tracker.State() == StateNone {
		local := utils.NewID("local")
		o.tracker.MarkLocalPending(local)
		o.logger.Debugf("minted local session id: %s", local)
	}

	if resp.Domain != "" {
		o.setDomain(domain.FromString(resp.Domain))
	}

	// An empty analysis still yields an assistant message so each completed
	// request maps to exactly one response entry.
	msg := NewMessage(RoleAssistant, resp.Analysis)
	msg.Meta = metadataFromResponse(resp, o.Domain())
	o.store.Append(msg)
}

// foldError appends one assistant-role message carrying a user-visible error
// string. No automatic retry.
func (o *Orchestrator) foldError(gen uint64, err error) {
	if o.tracker.Generation() != gen {
		o.logger.Debugf("discarding error for inactive session: %v", err)
		return
	}
	o.logger.Errorf("analysis request failed: %v", err)
	msg := NewMessage(RoleAssistant, "⚠ Analysis failed: "+err.Error())
	msg.Meta = Metadata{Kind: MetadataAgent, Agent: AgentInfo{Agent: "System", Domain: o.Domain()}}
	o.store.Append(msg)
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return false
	}
	o.busy = true
	return true
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}
