// Package auth carries the authenticated principal and credential source for
// backend calls. A Context is created on successful authentication and torn
// down on logout; components receive it at construction instead of reading
// ambient global state.
package auth

import (
	"context"
	"errors"
	"sync"
)

// ErrLoggedOut is returned by token lookups after the context is torn down.
var ErrLoggedOut = errors.New("auth context is logged out")

// Principal identifies the logged-in user.
type Principal struct {
	ID    string
	Email string
}

// TokenSource supplies a bearer credential per request. Tokens are never
// cached beyond request scope by callers.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token for every request. An empty token
// means no Authorization header is sent.
type StaticTokenSource struct {
	token string
}

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

// Context binds a principal to its token source for the lifetime of a login.
type Context struct {
	mu        sync.RWMutex
	principal Principal
	tokens    TokenSource
	active    bool
}

// Login creates an active auth context for the given principal.
func Login(p Principal, tokens TokenSource) *Context {
	return &Context{principal: p, tokens: tokens, active: true}
}

// Principal returns the authenticated user.
func (c *Context) Principal() Principal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.principal
}

// Token fetches a bearer credential for one request.
func (c *Context) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.active {
		return "", ErrLoggedOut
	}
	return c.tokens.Token(ctx)
}

// Active reports whether the context is still logged in.
func (c *Context) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Logout tears the context down. Subsequent token lookups fail.
func (c *Context) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}
