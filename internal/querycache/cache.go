// Package querycache caches server data per logical key and keeps it in sync
// with mutations.
//
// The three guarantees, in order of importance:
//
//  1. Coalescing — at most one in-flight fetch per key; concurrent callers
//     of the same key share one outcome.
//  2. Last-issued-wins — every fetch is numbered when issued; a completion
//     only applies if no later fetch for that key has already applied, so
//     out-of-order arrivals can never roll a key backwards.
//  3. Non-blocking invalidation — a mutation marks its affected keys stale
//     immediately and returns; subscribed keys refetch in the background,
//     unsubscribed keys refetch lazily on their next read.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrNotReady marks a query whose required parameters are absent. It is a
// "not yet" state, distinct from a failed fetch: callers render it as loading
// or empty, never as an error view.
var ErrNotReady = errors.New("query not ready")

// ErrWrongType is returned by GetAs when a key's cached value does not match
// the requested type. It indicates two call sites disagree about a key.
var ErrWrongType = errors.New("cached value has unexpected type")

// FetchFunc loads fresh data for one key, normally by calling the transport
// client.
type FetchFunc func(ctx context.Context) (any, error)

// Update is delivered to subscribers whenever their key's entry changes.
type Update struct {
	Key   string
	Value any
	Err   error
}

// Cache is safe for concurrent use. The zero value is not usable; use New.
type Cache struct {
	log    *slog.Logger
	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
}

// entry is one key's cache slot. All fields are guarded by Cache.mu.
type entry struct {
	value any
	err   error

	// issuedSeq numbers fetches as they start; appliedSeq records the newest
	// one whose result has been applied. invalidatedSeq is issuedSeq at the
	// moment of the last invalidation: only results of fetches issued after
	// that point count as fresh.
	issuedSeq      uint64
	appliedSeq     uint64
	invalidatedSeq uint64

	// fetch is the most recent fetch function, kept so an invalidation can
	// refetch for subscribers without the original caller present.
	fetch FetchFunc

	subs map[*Subscription]struct{}
}

// fresh reports whether the entry holds an applied, non-error result newer
// than the last invalidation.
func (e *entry) fresh() bool {
	return e.appliedSeq > e.invalidatedSeq && e.err == nil
}

// New constructs an empty Cache.
func New(log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{log: log, entries: make(map[string]*entry)}
}

// ensure returns the entry for key, creating it if needed. Caller holds mu.
func (c *Cache) ensure(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[*Subscription]struct{})}
		c.entries[key] = e
	}
	return e
}

// Get returns the cached value for key, fetching it first when the entry is
// absent, stale, or errored. Concurrent Gets for one key are coalesced into a
// single upstream call whose outcome all of them share.
func (c *Cache) Get(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e := c.ensure(key)
	e.fetch = fetch
	if e.fresh() {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err, _ := c.flight.Do(key, func() (any, error) {
		return c.runFetch(ctx, key, fetch)
	})
	return value, err
}

// runFetch performs one numbered fetch and applies its result under the
// last-issued-wins rule.
func (c *Cache) runFetch(ctx context.Context, key string, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e := c.ensure(key)
	e.issuedSeq++
	seq := e.issuedSeq
	c.mu.Unlock()

	value, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= e.appliedSeq {
		// A later-issued fetch already applied; this result is superseded.
		// Safe to discard — the newer result stands regardless of which
		// response arrived first on the wire.
		c.log.Debug("discarding superseded fetch result", "key", key, "seq", seq, "applied_seq", e.appliedSeq)
		return value, err
	}
	e.appliedSeq = seq
	if err != nil {
		// Errors are applied (so subscribers see them) but never count as
		// fresh: the next Get retries. Retry stays a caller decision.
		e.err = err
	} else {
		e.value = value
		e.err = nil
	}
	c.notifyLocked(key, e)
	return value, err
}

// Invalidate marks each key stale. It never blocks on network work: keys with
// live subscribers are refetched in the background; the rest refetch on their
// next Get. Unknown keys are ignored.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.invalidateLocked(key)
	}
}

// InvalidatePrefix marks every key with the given prefix stale — e.g. all
// cached pages of the trip list after a create or delete.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.invalidateLocked(key)
		}
	}
}

func (c *Cache) invalidateLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.invalidatedSeq = e.issuedSeq
	// Forget the in-flight call (if any) so the next fetch for this key is a
	// genuinely new, higher-numbered one rather than a join of the stale one.
	c.flight.Forget(key)
	if len(e.subs) > 0 && e.fetch != nil {
		fetch := e.fetch
		go func() {
			_, _, _ = c.flight.Do(key, func() (any, error) {
				return c.runFetch(context.Background(), key, fetch)
			})
		}()
	}
}

// Subscribe registers interest in a key. Updates are delivered on a buffered
// channel with latest-wins semantics: a slow consumer observes the newest
// state, not every intermediate one. Close the subscription when done.
func (c *Cache) Subscribe(key string) *Subscription {
	s := &Subscription{cache: c, key: key, ch: make(chan Update, 1)}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure(key).subs[s] = struct{}{}
	return s
}

// notifyLocked pushes the entry's current state to all subscribers of key.
// Caller holds mu, which also makes sends race-free against Close.
func (c *Cache) notifyLocked(key string, e *entry) {
	if len(e.subs) == 0 {
		return
	}
	u := Update{Key: key, Value: e.value, Err: e.err}
	for s := range e.subs {
		s.send(u)
	}
}

// Subscription is one consumer's registration for a key's updates.
type Subscription struct {
	cache  *Cache
	key    string
	ch     chan Update
	closed bool
}

// Updates returns the channel on which new results for the key arrive.
func (s *Subscription) Updates() <-chan Update {
	return s.ch
}

// Close unsubscribes. Results resolving after Close are discarded for this
// consumer; correctness does not depend on the underlying fetch aborting.
func (s *Subscription) Close() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if e, ok := s.cache.entries[s.key]; ok {
		delete(e.subs, s)
	}
	close(s.ch)
}

// send delivers latest-wins without blocking. Caller holds cache.mu.
func (s *Subscription) send(u Update) {
	if s.closed {
		return
	}
	select {
	case s.ch <- u:
	default:
		// Drop the stale buffered update, then deliver the new one.
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- u:
		default:
		}
	}
}

// GetAs is the typed wrapper around Cache.Get that every call site uses.
func GetAs[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("querycache: key %q: %w", key, ErrWrongType)
	}
	return typed, nil
}
