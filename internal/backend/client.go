// Package backend is the HTTP client for the Nexus analysis service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nexus-cli/internal/auth"
	"nexus-cli/internal/utils"
)

const emailHeader = "X-User-Email"

// Client talks to the analysis backend. It performs no retries; callers
// surface failures and the user resubmits.
type Client struct {
	baseURL string
	httpc   *http.Client
	authCtx *auth.Context
	logger  *utils.Logger
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, authCtx *auth.Context, timeout time.Duration, logger *utils.Logger) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		authCtx: authCtx,
		logger:  logger,
	}
}

// Analyze submits text for analysis. The session id is optional; the backend
// assigns one on the first exchange.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp AnalyzeResponse
	if err := c.doJSON(httpReq, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("backend rejected analysis: %s", resp.Error)
	}
	return &resp, nil
}

// Upload ships a file as a multipart request. The response has the same
// shape as Analyze.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*AnalyzeResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/upload", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var resp AnalyzeResponse
	if err := c.doJSON(httpReq, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("backend rejected upload: %s", resp.Error)
	}
	return &resp, nil
}

// Sessions lists the principal's sessions, newest first.
func (c *Client) Sessions(ctx context.Context) ([]SessionSummary, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/sessions", nil)
	if err != nil {
		return nil, err
	}
	var out []SessionSummary
	if err := c.doJSON(httpReq, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages fetches the ordered history of one session.
func (c *Client) Messages(ctx context.Context, sessionID string) ([]MessageRecord, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID)+"/messages", nil)
	if err != nil {
		return nil, err
	}
	var out []MessageRecord
	if err := c.doJSON(httpReq, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession creates an explicit session record.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionSummary, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode create request: %w", err)
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out SessionSummary
	if err := c.doJSON(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession removes a session and its messages.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	httpReq, err := c.newRequest(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to delete session: status %d", resp.StatusCode)
	}
	return nil
}

// newRequest builds a request with the bearer credential and identifying
// email header attached. The token is fetched per request, never cached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(emailHeader, c.authCtx.Principal().Email)
	token, err := c.authCtx.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debugf("backend returned %d for %s: %s", resp.StatusCode, req.URL.Path, snippet)
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
