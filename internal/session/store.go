// Package session owns the authenticated user's identity and bearer token.
//
// The Store is process-wide shared state: one instance is constructed in main
// and injected into the transport client and the coordinator — it is never a
// package global. All mutations happen under one mutex so the invariant
// "token set ⇔ user set" always holds, and a session change is visible to the
// very next outbound request.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/tripkit/internal/domain"
)

// Authenticator is the slice of the transport client the Store depends on.
// Defining it here (in the consumer package) keeps the dependency direction
// clean and lets tests inject a stub without any HTTP involved.
type Authenticator interface {
	SignIn(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
	SignUp(ctx context.Context, req domain.SignupRequest) (domain.MessageResponse, error)
}

// Persistence stores the session across process restarts. Token and user are
// saved and cleared together, never independently.
type Persistence interface {
	// Save writes both entries durably.
	Save(token string, user domain.User) error
	// Load reads the persisted session. ok is false when nothing usable is
	// stored; err is reserved for real I/O failures.
	Load() (token string, user domain.User, ok bool, err error)
	// Clear erases both entries. Clearing an empty store is not an error.
	Clear() error
}

// Store holds the current session and keeps it in sync with its Persistence.
type Store struct {
	auth  Authenticator
	disk  Persistence
	mu    sync.RWMutex
	token string
	user  domain.User
	// restored flips once Restore has run; callers gate "is a user logged
	// in" on it so startup shows a loading state instead of a wrong answer.
	restored bool
	// epoch increments on every login and every clear of a live session.
	// The coordinator uses it to handle a rejected credential exactly once.
	epoch uint64
}

// NewStore constructs a Store. Call Restore before issuing authenticated
// requests.
func NewStore(auth Authenticator, disk Persistence) *Store {
	return &Store{auth: auth, disk: disk}
}

// SetAuthenticator installs the transport client after construction. The
// Store is the client's token source, so the two cannot be built in one
// order; main builds the Store first and closes the loop with this call.
func (s *Store) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Restore hydrates the session from persistence. It runs synchronously at
// startup: nothing persisted (or an unreadable state file) leaves the session
// empty without error.
func (s *Store) Restore() error {
	token, user, ok, err := s.disk.Load()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restored = true
	if err != nil {
		return fmt.Errorf("session.Store.Restore: %w", err)
	}
	if ok {
		s.token = token
		s.user = user
	}
	return nil
}

// Restored reports whether Restore has completed. Before that, "is a user
// logged in" is undecided.
func (s *Store) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restored
}

// Login exchanges credentials for a session. On success the in-memory session
// and the persisted copy are updated together; on any failure the pre-existing
// session is left untouched.
func (s *Store) Login(ctx context.Context, req domain.LoginRequest) (domain.User, error) {
	if err := req.Validate(); err != nil {
		return domain.User{}, err
	}
	resp, err := s.authenticator().SignIn(ctx, req)
	if err != nil {
		return domain.User{}, fmt.Errorf("session.Store.Login: %w", err)
	}
	user := resp.User()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.disk.Save(resp.Token, user); err != nil {
		// Persisting failed: do not half-apply. The old session (if any)
		// stays current in memory and on disk.
		return domain.User{}, fmt.Errorf("session.Store.Login: persisting session: %w", err)
	}
	s.token = resp.Token
	s.user = user
	s.epoch++
	return user, nil
}

// Signup forwards a registration to the server. It never establishes a
// session; the caller logs in separately.
func (s *Store) Signup(ctx context.Context, req domain.SignupRequest) (domain.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return domain.MessageResponse{}, err
	}
	resp, err := s.authenticator().SignUp(ctx, req)
	if err != nil {
		return domain.MessageResponse{}, fmt.Errorf("session.Store.Signup: %w", err)
	}
	return resp, nil
}

func (s *Store) authenticator() Authenticator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// Logout clears the in-memory session and erases the persisted copy.
// Idempotent: logging out twice is a no-op the second time.
func (s *Store) Logout() error {
	return s.Clear()
}

// Clear is the single clearing path shared by Logout and the coordinator's
// rejected-credential handling. Memory and disk are wiped together.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.token != ""
	s.token = ""
	s.user = domain.User{}
	if had {
		s.epoch++
	}
	if err := s.disk.Clear(); err != nil {
		return fmt.Errorf("session.Store.Clear: %w", err)
	}
	return nil
}

// Token returns the current bearer token. ok is false when signed out.
// This implements the transport client's TokenSource.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Current returns the signed-in user. ok is false when signed out.
func (s *Store) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// Epoch returns a counter that changes whenever the session identity changes
// (login or clearing a live session).
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}
