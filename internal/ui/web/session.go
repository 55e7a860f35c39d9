package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/p-n-ai/pai-tube/internal/app"
	"github.com/p-n-ai/pai-tube/internal/export"
)

// maxDownloads bounds the exported files a session keeps for fetching.
const maxDownloads = 8

// Session is one browser tab's controller plus its socket subscribers.
// ClientID names the browser that opened it and scopes its persisted URL.
type Session struct {
	ID       string
	ClientID string
	Ctrl     *app.Controller

	mu        sync.Mutex
	subs      map[chan struct{}]struct{}
	downloads map[string]export.File
	order     []string
	lastSeen  time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// idleSince reports whether the session has had no subscriber and no
// request since before cutoff.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) == 0 && s.lastSeen.Before(cutoff)
}

func (s *Session) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Session) unsubscribe(ch chan struct{}) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// notify wakes every subscriber without blocking; a pending wake-up already
// covers the change.
func (s *Session) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Session) putDownload(f export.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.downloads[f.Name]; !ok {
		s.order = append(s.order, f.Name)
	}
	s.downloads[f.Name] = f
	for len(s.order) > maxDownloads {
		delete(s.downloads, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Session) download(name string) (export.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.downloads[name]
	return f, ok
}

// ControllerFactory builds a controller for a new session opened by client.
// The options carry per-session wiring and must be applied after the
// caller's own.
type ControllerFactory func(client string, opts ...app.Option) *app.Controller

// Sessions is the set of live sessions keyed by ID.
type Sessions struct {
	newController ControllerFactory

	mu    sync.RWMutex
	items map[string]*Session
}

// NewSessions creates an empty session set.
func NewSessions(factory ControllerFactory) *Sessions {
	return &Sessions{newController: factory, items: make(map[string]*Session)}
}

// Create starts a new session with a random ID for the given client.
func (ss *Sessions) Create(client string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		ClientID:  client,
		subs:      make(map[chan struct{}]struct{}),
		downloads: make(map[string]export.File),
		lastSeen:  time.Now(),
	}
	s.Ctrl = ss.newController(client, app.WithOnChange(s.notify), app.WithClipboard(&export.MemoryClipboard{}))

	ss.mu.Lock()
	ss.items[s.ID] = s
	ss.mu.Unlock()
	return s
}

// Get returns the session with the given ID and marks it as active.
func (ss *Sessions) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	ss.mu.RLock()
	s, ok := ss.items[id]
	ss.mu.RUnlock()
	if ok {
		s.touch(time.Now())
	}
	return s, ok
}

// Remove drops the session with the given ID.
func (ss *Sessions) Remove(id string) {
	ss.mu.Lock()
	delete(ss.items, id)
	ss.mu.Unlock()
}

// Len returns the number of live sessions.
func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.items)
}

// Sweep removes sessions idle for longer than idle as of now. Sessions with
// an open socket or a backend call in flight are kept. It returns the
// number removed.
func (ss *Sessions) Sweep(now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle)

	ss.mu.RLock()
	var stale []*Session
	for _, s := range ss.items {
		if !s.idleSince(cutoff) {
			continue
		}
		if analyzing, quizzing := s.Ctrl.Busy(); analyzing || quizzing {
			continue
		}
		stale = append(stale, s)
	}
	ss.mu.RUnlock()

	removed := 0
	ss.mu.Lock()
	for _, s := range stale {
		// A request may have arrived since the scan.
		if s.idleSince(cutoff) {
			delete(ss.items, s.ID)
			removed++
		}
	}
	ss.mu.Unlock()
	return removed
}

// Expire sweeps idle sessions every idle/2 until ctx is done.
func (ss *Sessions) Expire(ctx context.Context, idle time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := ss.Sweep(now, idle); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
