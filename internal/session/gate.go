// Package session tracks who is logged in. The Gate is the only writer of
// the held SessionInfo; every other package reads snapshots through Current.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tms/pkg/tmsapi"
)

var (
	ErrBusy               = errors.New("request already in flight")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Messages shown by the login view.
const (
	msgInvalidCredentials = "Invalid credentials."
	msgNetworkError       = "Network error or server unreachable."
)

type Gate struct {
	api *tmsapi.Client

	mu   sync.RWMutex
	cur  tmsapi.SessionInfo
	msg  string
	busy bool
}

func NewGate(api *tmsapi.Client) *Gate {
	return &Gate{api: api}
}

// Current returns a snapshot of the session. The struct is replaced
// wholesale by the gate's writers, never partially mutated, so readers can't
// observe a half-updated session.
func (g *Gate) Current() tmsapi.SessionInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cur
}

func (g *Gate) Message() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.msg
}

// Probe asks the server who we are and replaces the held session with the
// answer. Called at startup and after every login, logout and profile update.
// On failure the previous session is kept.
func (g *Gate) Probe(ctx context.Context) (tmsapi.SessionInfo, error) {
	info, err := g.api.Status(ctx)
	if err != nil {
		return tmsapi.SessionInfo{}, err
	}

	g.mu.Lock()
	g.cur = info
	g.mu.Unlock()
	return info, nil
}

// Login authenticates and immediately re-probes, so the probe stays the
// single source of session truth. A 401 leaves the session untouched.
func (g *Gate) Login(ctx context.Context, username, password string) error {
	g.mu.Lock()
	if g.busy {
		g.mu.Unlock()
		return ErrBusy
	}
	g.busy = true
	g.mu.Unlock()

	res, err := g.api.Login(ctx, username, password)

	g.mu.Lock()
	g.busy = false
	if err != nil {
		var apiErr *tmsapi.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Status == 401:
			g.msg = msgInvalidCredentials
			g.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		case errors.As(err, &apiErr):
			g.msg = fmt.Sprintf("An error occurred: Status %d", apiErr.Status)
		default:
			g.msg = msgNetworkError
		}
		g.mu.Unlock()
		return err
	}
	g.mu.Unlock()

	// The success message waits for the probe: until the held session
	// reflects the login, claiming success would lie to the UI.
	if _, perr := g.Probe(ctx); perr != nil {
		g.mu.Lock()
		var apiErr *tmsapi.APIError
		if errors.As(perr, &apiErr) {
			g.msg = fmt.Sprintf("An error occurred: Status %d", apiErr.Status)
		} else {
			g.msg = msgNetworkError
		}
		g.mu.Unlock()
		return fmt.Errorf("session probe after login: %w", perr)
	}

	g.mu.Lock()
	if res.Message != "" {
		g.msg = res.Message
	} else {
		g.msg = "Login successful!"
	}
	g.mu.Unlock()
	return nil
}

// Logout clears the local session unconditionally; a failed logout call
// still logs the user out client-side.
func (g *Gate) Logout(ctx context.Context) error {
	err := g.api.Logout(ctx)

	g.mu.Lock()
	g.cur = tmsapi.SessionInfo{}
	g.msg = ""
	g.mu.Unlock()

	return err
}
