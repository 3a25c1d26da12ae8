// Package chat keeps the in-memory per-session assistant transcripts.
// Transcripts live only for the browser session; nothing is persisted.
package chat

import (
	"sync"
	"time"
)

// Sender identifies who produced a turn.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Greeting seeds every new transcript.
const Greeting = "Hello! How can I help you with your invoices today?"

// sessionIdleTTL bounds how long an untouched transcript is kept.
const sessionIdleTTL = 2 * time.Hour

// Turn is one message bubble in the transcript.
type Turn struct {
	ID      int64
	Sender  string
	Text    string
	IsError bool
}

// Thinking indicates the assistant is answering; rendered as the typing bubble.
type session struct {
	turns    []Turn
	thinking bool
	lastSeen time.Time
	lastID   int64
}

// Store holds transcripts keyed by session id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewStore creates an empty transcript store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// Transcript is a point-in-time copy of a session's conversation.
type Transcript struct {
	Turns    []Turn
	Thinking bool
}

// Transcript returns a copy of the session's turns plus whether the
// assistant is mid-reply, seeding the greeting on first access.
func (s *Store) Transcript(sessionID string) Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureLocked(sessionID)
	turns := make([]Turn, len(sess.turns))
	copy(turns, sess.turns)
	return Transcript{Turns: turns, Thinking: sess.thinking}
}

// AppendUser adds a user turn and marks the assistant as thinking.
func (s *Store) AppendUser(sessionID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureLocked(sessionID)
	sess.turns = append(sess.turns, Turn{
		ID:     s.nextIDLocked(sess),
		Sender: SenderUser,
		Text:   text,
	})
	sess.thinking = true
}

// AppendBot adds the assistant's reply and clears the thinking flag.
func (s *Store) AppendBot(sessionID, text string) {
	s.appendBot(sessionID, text, false)
}

// AppendBotError adds an error-flagged assistant turn. Failures are always
// shown as a bubble, never raised past the widget.
func (s *Store) AppendBotError(sessionID, text string) {
	s.appendBot(sessionID, text, true)
}

func (s *Store) appendBot(sessionID, text string, isError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureLocked(sessionID)
	sess.turns = append(sess.turns, Turn{
		ID:      s.nextIDLocked(sess),
		Sender:  SenderBot,
		Text:    text,
		IsError: isError,
	})
	sess.thinking = false
}

// ensureLocked returns the session, creating and greeting-seeding it when
// absent, and opportunistically drops idle sessions.
func (s *Store) ensureLocked(sessionID string) *session {
	now := time.Now()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.pruneIdleLocked(now)
		sess = &session{lastSeen: now}
		sess.turns = append(sess.turns, Turn{
			ID:     s.nextIDLocked(sess),
			Sender: SenderBot,
			Text:   Greeting,
		})
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = now
	return sess
}

// nextIDLocked produces a timestamp-based id, strictly increasing within
// a session even when turns land in the same millisecond.
func (s *Store) nextIDLocked(sess *session) int64 {
	id := time.Now().UnixMilli()
	if id <= sess.lastID {
		id = sess.lastID + 1
	}
	sess.lastID = id
	return id
}

func (s *Store) pruneIdleLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > sessionIdleTTL {
			delete(s.sessions, id)
		}
	}
}
