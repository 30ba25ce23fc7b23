package assistant

import (
	"testing"
	"time"

	"waly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contents(turns []models.ConversationTurn) []string {
	out := make([]string, 0, len(turns))
	for _, t := range turns {
		out = append(out, string(t.Sender)+":"+t.Content)
	}
	return out
}

func TestNewSessionHasWelcomeTurn(t *testing.T) {
	s := newSession("s1", "", time.Now())
	snap := s.Snapshot()

	require.Len(t, snap.Transcript, 1)
	assert.True(t, snap.Transcript[0].Welcome)
	assert.Equal(t, uint64(0), snap.Transcript[0].ID)
	assert.Equal(t, models.SenderAssistant, snap.Transcript[0].Sender)
	assert.Equal(t, uint64(1), snap.NextTurnID)
}

func TestCommitReplyPreservesTurnOrder(t *testing.T) {
	now := time.Now()
	s := newSession("s1", "", now)

	first, _ := s.beginTurn("first", now)
	second, history := s.beginTurn("second", now)
	assert.Equal(t, []string{"assistant:" + welcomeMessage, "user:first"}, contents(history))

	// The second reply resolves first and must wait.
	s.commitReply(second, "reply two", now)
	assert.Equal(t, []string{
		"assistant:" + welcomeMessage,
		"user:first",
		"user:second",
	}, contents(s.Snapshot().Transcript))

	s.commitReply(first, "reply one", now)
	assert.Equal(t, []string{
		"assistant:" + welcomeMessage,
		"user:first",
		"user:second",
		"assistant:reply one",
		"assistant:reply two",
	}, contents(s.Snapshot().Transcript))
}

func TestSessionFromSnapshotContinuesTurnIDs(t *testing.T) {
	now := time.Now()
	s := newSession("s1", "u1", now)
	id, _ := s.beginTurn("hello", now)
	s.commitReply(id, "hi", now)

	restored := sessionFromSnapshot(s.Snapshot(), now)
	next, _ := restored.beginTurn("again", now)
	restored.commitReply(next, "sure", now)

	assert.Equal(t, id+1, next)
	assert.Len(t, restored.Snapshot().Transcript, 5)
	assert.Equal(t, "u1", restored.userID)
}

func TestSnapshotIsACopy(t *testing.T) {
	now := time.Now()
	s := newSession("s1", "", now)
	s.beginTurn("I like charts", now)

	snap := s.Snapshot()
	snap.Transcript[0].Content = "mutated"
	snap.Memory.Preferences["tables"] = true

	fresh := s.Snapshot()
	assert.Equal(t, welcomeMessage, fresh.Transcript[0].Content)
	assert.False(t, fresh.Memory.Preferences["tables"])
	assert.True(t, fresh.Memory.Preferences["charts"])
}
