// Package app wires the cross-cutting policy the rest of the client only
// reports: what to do when the server rejects the credential, and which
// subcommand a CLI invocation maps to.
package app

import (
	"log/slog"
	"sync"
)

// SessionClearer is the slice of session.Store the coordinator needs.
type SessionClearer interface {
	Clear() error
	Epoch() uint64
}

// Navigator receives the single "go to login" redirect. The CLI prints a
// re-login instruction; tests record the call.
type Navigator interface {
	GoToLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) GoToLogin() { f() }

// Coordinator owns the response to an authentication-rejected result. The
// transport client calls Unauthorized for every 401 it sees; the coordinator
// collapses those into exactly one session clear and one redirect per session
// epoch, however many requests failed concurrently.
type Coordinator struct {
	sessions SessionClearer
	navigate Navigator
	log      *slog.Logger

	mu      sync.Mutex
	handled uint64
	any     bool // whether any epoch has been handled yet
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(sessions SessionClearer, navigate Navigator, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{sessions: sessions, navigate: navigate, log: log}
}

// Unauthorized implements api.UnauthorizedHandler. Safe for concurrent use.
func (c *Coordinator) Unauthorized() {
	c.mu.Lock()
	defer c.mu.Unlock()

	epoch := c.sessions.Epoch()
	if c.any && epoch == c.handled {
		// Another 401 from the same session already did the work.
		return
	}

	c.log.Warn("credential rejected by server, clearing session")
	if err := c.sessions.Clear(); err != nil {
		c.log.Error("clearing session", "error", err)
	}
	// Record the post-clear epoch: 401s racing in behind us see it and stop.
	c.handled = c.sessions.Epoch()
	c.any = true
	c.navigate.GoToLogin()
}
