package assistant

import (
	"context"
	"sync"
	"time"

	"waly/models"
)

const welcomeMessage = "Hi, I'm Waly, your ESG assistant! I can explain your sustainability " +
	"metrics, take you to Analytics, Benchmarking or Compliance, and even fill in forms for you. " +
	"What would you like to do?"

// Session owns one conversation. Turn ids are assigned on arrival; replies
// are committed to the transcript strictly in turn-id order, so a reply that
// resolves early waits for the replies of earlier turns.
type Session struct {
	mu sync.Mutex
	// saveMu orders store writes; closed is guarded by mu.
	saveMu sync.Mutex
	closed bool

	id         string
	userID     string
	transcript []models.ConversationTurn
	memory     models.MemoryState
	nextTurnID uint64
	nextCommit uint64
	pending    map[uint64]models.ConversationTurn
	createdAt  time.Time
	lastActive time.Time
}

func newSession(id, userID string, now time.Time) *Session {
	s := &Session{
		id:         id,
		userID:     userID,
		memory:     models.MemoryState{RecentTopics: []string{}, Preferences: models.UserPreferences{}},
		nextTurnID: 1,
		nextCommit: 1,
		pending:    make(map[uint64]models.ConversationTurn),
		createdAt:  now,
		lastActive: now,
	}
	s.transcript = append(s.transcript, models.ConversationTurn{
		ID:        0,
		Sender:    models.SenderAssistant,
		Content:   welcomeMessage,
		Timestamp: now,
		Welcome:   true,
	})
	return s
}

func sessionFromSnapshot(snap models.SessionSnapshot, now time.Time) *Session {
	next := snap.NextTurnID
	if next == 0 {
		next = 1
	}
	mem := snap.Memory
	if mem.Preferences == nil {
		mem.Preferences = models.UserPreferences{}
	}
	return &Session{
		id:         snap.ID,
		userID:     snap.UserID,
		transcript: append([]models.ConversationTurn(nil), snap.Transcript...),
		memory:     mem,
		nextTurnID: next,
		nextCommit: next,
		pending:    make(map[uint64]models.ConversationTurn),
		createdAt:  snap.CreatedAt,
		lastActive: now,
	}
}

func (s *Session) ID() string { return s.id }

// beginTurn records the user utterance and returns its turn id together with
// the transcript as it was before this turn.
func (s *Session) beginTurn(utterance string, now time.Time) (uint64, []models.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextTurnID
	s.nextTurnID++

	history := make([]models.ConversationTurn, len(s.transcript))
	copy(history, s.transcript)

	s.transcript = append(s.transcript, models.ConversationTurn{
		ID:        id,
		Sender:    models.SenderUser,
		Content:   utterance,
		Timestamp: now,
	})
	s.memory = UpdateMemory(s.memory, utterance)
	s.lastActive = now
	return id, history
}

// commitReply buffers the reply and flushes every reply whose predecessors
// are already committed.
func (s *Session) commitReply(turnID uint64, reply string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[turnID] = models.ConversationTurn{
		ID:        turnID,
		Sender:    models.SenderAssistant,
		Content:   reply,
		Timestamp: now,
	}
	for {
		turn, ok := s.pending[s.nextCommit]
		if !ok {
			break
		}
		s.transcript = append(s.transcript, turn)
		delete(s.pending, s.nextCommit)
		s.nextCommit++
	}
	s.lastActive = now
}

// Snapshot copies the committed state.
func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := make(models.UserPreferences, len(s.memory.Preferences))
	for k, v := range s.memory.Preferences {
		prefs[k] = v
	}
	return models.SessionSnapshot{
		ID:         s.id,
		UserID:     s.userID,
		Transcript: append([]models.ConversationTurn(nil), s.transcript...),
		Memory: models.MemoryState{
			RecentTopics: append([]string(nil), s.memory.RecentTopics...),
			Preferences:  prefs,
		},
		NextTurnID: s.nextTurnID,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.lastActive,
	}
}

// persist writes the current snapshot to the store. Writes are serialized
// and skipped once the session is closed.
func (s *Session) persist(ctx context.Context, store SessionStore) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if s.isClosed() {
		return nil
	}
	return store.Save(ctx, s.Snapshot())
}

// close waits for an in-flight write and blocks every later one.
func (s *Session) close() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}

func (s *Session) welcome() models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript[0]
}
