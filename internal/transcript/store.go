// Package transcript holds the ordered message sequence for one prep
// session. The store is the single source of truth for what a rendering
// surface displays; only the gateway and orchestrator may mutate it.
package transcript

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/prep-agent/internal/types"
)

// Entry is one displayed transcript row: the message plus its local
// reconciliation state. Pending entries were appended optimistically and
// not yet confirmed by the server; Failed entries were rejected and stay
// visible (flagged, never silently removed) so the user can retry.
type Entry struct {
	types.Message
	Pending bool
	Failed  bool
}

// Listener is notified after every store mutation. Rendering surfaces
// use it as their re-render/scroll-to-bottom signal.
type Listener func()

// Store holds the transcript and parent session fields for one session.
type Store struct {
	mu        sync.Mutex
	session   types.PrepSession
	entries   []Entry
	listeners []Listener
	closed    bool
}

// NewStore creates an empty store for a session.
func NewStore(session types.PrepSession) *Store {
	return &Store{session: session}
}

// Subscribe registers a change listener. Listeners run synchronously
// after the mutation that triggered them, outside the store lock.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Close discards the store. A closed store ignores all further
// mutations, so results of in-flight calls that land after the view
// navigated away are never applied.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Load replaces the store wholesale with server data. Messages are
// ordered by created_at, preserving server order for equal timestamps.
// An empty message list is valid.
func (s *Store) Load(session types.PrepSession, messages []types.Message) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.session = session
	s.entries = make([]Entry, len(messages))
	for i, m := range messages {
		s.entries[i] = Entry{Message: m}
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].CreatedAt.Before(s.entries[j].CreatedAt)
	})
	s.mu.Unlock()
	s.notify()
}

// Append adds one server-confirmed message at the end.
func (s *Store) Append(message types.Message) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries, Entry{Message: message})
	s.mu.Unlock()
	s.notify()
}

// AppendMany adds a batch of server-confirmed messages, preserving
// their order. Used when a unified chat turn returns several new
// messages in one round trip.
func (s *Store) AppendMany(messages []types.Message) {
	if len(messages) == 0 {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	for _, m := range messages {
		s.entries = append(s.entries, Entry{Message: m})
	}
	s.mu.Unlock()
	s.notify()
}

// AppendPending adds an optimistic local message and returns its
// temporary id. The entry is replaced in place on Confirm or flagged on
// Reject.
func (s *Store) AppendPending(sender types.Sender, typ types.MessageType, content string) uuid.UUID {
	tempID := uuid.New()
	now := time.Now().UTC()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return tempID
	}
	s.entries = append(s.entries, Entry{
		Message: types.Message{
			ID:        tempID,
			SessionID: s.session.ID,
			Sender:    sender,
			Type:      typ,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Pending: true,
	})
	s.mu.Unlock()
	s.notify()
	return tempID
}

// Confirm replaces a pending entry with the authoritative server
// message, keeping its position. Returns false if the temp id is gone
// (store reloaded or closed in the meantime).
func (s *Store) Confirm(tempID uuid.UUID, authoritative types.Message) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	idx := s.indexOfLocked(tempID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries[idx] = Entry{Message: authoritative}
	s.mu.Unlock()
	s.notify()
	return true
}

// Reject flags a pending entry as failed. The entry stays in the
// transcript so the typed text is not lost.
func (s *Store) Reject(tempID uuid.UUID) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	idx := s.indexOfLocked(tempID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries[idx].Pending = false
	s.entries[idx].Failed = true
	s.mu.Unlock()
	s.notify()
	return true
}

// UpdateSession applies server-computed session fields (status,
// readiness score, summary).
func (s *Store) UpdateSession(session types.PrepSession) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.session = session
	s.mu.Unlock()
	s.notify()
}

// Session returns a copy of the parent session fields.
func (s *Store) Session() types.PrepSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Messages returns the transcript as plain messages, in display order.
// This is the input the turn classifier works from.
func (s *Store) Messages() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Message, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Message
	}
	return out
}

// Entries returns a snapshot of the transcript rows, including local
// pending/failed state, for rendering.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of transcript rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) indexOfLocked(id uuid.UUID) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
