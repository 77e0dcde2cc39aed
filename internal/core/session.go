package core

import (
	"sync"
	"time"

	"nosh/pkg/schema"
)

// Message is one conversation entry. Roles are "user" and "model".
// Messages are immutable once appended.
type Message struct {
	Role    string
	Content string
}

// Session is one conversation's state: an ordered history plus metadata.
// History always holds complete user/model pairs, so its length is even.
type Session struct {
	ID        string
	History   []Message
	CreatedAt time.Time
}

// Clone creates a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:        s.ID,
		History:   make([]Message, len(s.History)),
		CreatedAt: s.CreatedAt,
	}
	copy(clone.History, s.History)
	return clone
}

// SessionStore is the process-wide session map. Lookup, create and delete
// are safe for concurrent use; turns within one session must be serialized
// by the caller.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxPairs int
}

// NewSessionStore creates a store that truncates histories to maxPairs
// user/model pairs, oldest first.
func NewSessionStore(maxPairs int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		maxPairs: maxPairs,
	}
}

// GetOrCreate returns a snapshot of the session with the given id,
// creating it with empty history on first sight. Repeated calls with the
// same id never create duplicates.
func (s *SessionStore) GetOrCreate(sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = &Session{
			ID:        sessionID,
			History:   []Message{},
			CreatedAt: time.Now(),
		}
		s.sessions[sessionID] = session
	}
	return session.Clone()
}

// AppendTurn appends one completed turn: the user message followed by the
// model's reply. The history is then truncated from the front to the
// configured cap, whole pairs at a time.
func (s *SessionStore) AppendTurn(sessionID, userMessage, modelMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = &Session{
			ID:        sessionID,
			History:   []Message{},
			CreatedAt: time.Now(),
		}
		s.sessions[sessionID] = session
	}

	session.History = append(session.History,
		Message{Role: "user", Content: userMessage},
		Message{Role: "model", Content: modelMessage},
	)

	if limit := s.maxPairs * 2; limit > 0 && len(session.History) > limit {
		session.History = session.History[len(session.History)-limit:]
	}
}

// Delete removes the session. A later GetOrCreate with the same id starts
// fresh.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// List returns metadata for every live session. Observability only; the
// orchestration loop never uses it.
func (s *SessionStore) List() []schema.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]schema.SessionInfo, 0, len(s.sessions))
	for _, session := range s.sessions {
		infos = append(infos, schema.SessionInfo{
			ID:           session.ID,
			MessageCount: len(session.History),
			CreatedAt:    session.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return infos
}
