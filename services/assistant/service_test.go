package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"waly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc    *DefaultAssistantService
	bus    *recordingBus
	client *stubClient
	store  *MemorySessionStore
}

func newServiceFixture(t *testing.T, client *stubClient) serviceFixture {
	t.Helper()
	bus := &recordingBus{}
	executor := NewExecutor(bus, 0, nil)
	store := NewMemorySessionStore(time.Hour)

	var responder *ResponseGenerator
	if client != nil {
		responder = NewResponseGenerator(client, executor, DefaultGenerationParams(), nil)
	} else {
		responder = NewResponseGenerator(nil, executor, DefaultGenerationParams(), nil)
	}

	provider := &staticProvider{records: manyRecords(50), emissions: manyEmissions(50)}
	svc, err := NewDefaultAssistantService(NewContextResolver(provider, nil), executor, responder, store, nil)
	require.NoError(t, err)
	return serviceFixture{svc: svc, bus: bus, client: client, store: store}
}

func (f serviceFixture) open(t *testing.T, userID string) string {
	t.Helper()
	resp, err := f.svc.OpenSession(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, resp.Welcome.Welcome)
	return resp.SessionID
}

func TestNavigationHappensOncePerTurn(t *testing.T) {
	client := &stubClient{reply: "Opening benchmarks for you. [NAVIGATE:benchmark]"}
	f := newServiceFixture(t, client)
	id := f.open(t, "user-1")

	resp, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
		SessionID: id,
		Path:      "/analytics",
		Message:   "show me the benchmark page",
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "/benchmark", resp.Intent.NavigateTo)
	assert.Equal(t, "/benchmark", resp.NavigatedTo)
	assert.Equal(t, "Opening benchmarks for you.", resp.Reply)
	assert.False(t, resp.UsedFallback)
	assert.Len(t, f.bus.ofKind(models.EventNavigate), 1)

	transcript, err := f.svc.Transcript(context.Background(), id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"assistant:" + welcomeMessage,
		"user:show me the benchmark page",
		"assistant:Opening benchmarks for you.",
	}, contents(transcript.Transcript))
}

func TestReplyMarkerNavigatesWhenIntentDidNot(t *testing.T) {
	f := newServiceFixture(t, &stubClient{reply: "[NAVIGATE:compliance]"})
	id := f.open(t, "")

	resp, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
		SessionID: id, Path: "/", Message: "where do I check CSRD progress?",
	}, "")
	require.NoError(t, err)

	assert.True(t, resp.Intent.IsEmpty())
	assert.Equal(t, "/compliance", resp.NavigatedTo)
	assert.Equal(t, "On it! Opening compliance for you.", resp.Reply)
	assert.Len(t, f.bus.ofKind(models.EventNavigate), 1)
}

func TestFallbackWhenModelFails(t *testing.T) {
	f := newServiceFixture(t, &stubClient{err: errors.New("quota exceeded")})
	id := f.open(t, "user-1")

	resp, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
		SessionID: id, Path: "/analytics", Message: "explain my carbon footprint",
	}, "user-1")
	require.NoError(t, err)

	assert.True(t, resp.UsedFallback)
	assert.Equal(t, carbonFallback, resp.Reply)
	assert.NotEmpty(t, f.bus.ofKind(models.EventNotice))
}

func TestCompoundAuthIntentDispatchesBoth(t *testing.T) {
	f := newServiceFixture(t, nil)
	id := f.open(t, "")

	resp, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
		SessionID: id, Path: "/", Message: "please sign me up",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, models.Intent{NavigateTo: "/auth", PerformAction: models.ActionSignup}, resp.Intent)
	assert.Equal(t, []models.ActionEventKind{
		models.EventNavigate,
		models.EventNotice,
		models.EventAuthAction,
	}, f.bus.kinds())
}

func TestSystemPromptCarriesBoundedSample(t *testing.T) {
	client := &stubClient{reply: "ok"}
	f := newServiceFixture(t, client)
	id := f.open(t, "user-1")

	_, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
		SessionID: id, Path: "/analytics", Message: "summarize",
	}, "user-1")
	require.NoError(t, err)

	prompt := client.lastRequest().SystemPrompt
	assert.Contains(t, prompt, `"id":"r4"`)
	assert.NotContains(t, prompt, `"id":"r5"`)
}

func TestMemoryStaysBoundedAcrossTurns(t *testing.T) {
	f := newServiceFixture(t, &stubClient{reply: "noted"})
	id := f.open(t, "")

	for i := 1; i <= 10; i++ {
		_, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
			SessionID: id, Path: "/", Message: fmt.Sprintf("question %d", i),
		}, "")
		require.NoError(t, err)
	}

	transcript, err := f.svc.Transcript(context.Background(), id, "")
	require.NoError(t, err)
	assert.Len(t, transcript.Memory.RecentTopics, maxRecentTopics)
	assert.Equal(t, "question 10", transcript.Memory.RecentTopics[0])
	assert.Len(t, transcript.Transcript, 21)
}

func TestConcurrentTurnsKeepTranscriptConsistent(t *testing.T) {
	f := newServiceFixture(t, &stubClient{reply: "sure"})
	id := f.open(t, "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
				SessionID: id, Path: "/", Message: fmt.Sprintf("msg %d", i),
			}, "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	transcript, err := f.svc.Transcript(context.Background(), id, "")
	require.NoError(t, err)
	turns := transcript.Transcript
	require.Len(t, turns, 17)

	var users, replies []uint64
	for _, turn := range turns[1:] {
		if turn.Sender == models.SenderUser {
			users = append(users, turn.ID)
		} else {
			replies = append(replies, turn.ID)
		}
	}
	assert.Len(t, users, 8)
	assert.IsIncreasing(t, users)
	assert.IsIncreasing(t, replies)
}

func TestProcessUserInputErrors(t *testing.T) {
	f := newServiceFixture(t, nil)
	id := f.open(t, "owner")
	ctx := context.Background()

	_, err := f.svc.ProcessUserInput(ctx, models.ChatRequest{SessionID: id, Message: "   "}, "owner")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = f.svc.ProcessUserInput(ctx, models.ChatRequest{SessionID: "nope", Message: "hi"}, "owner")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.ProcessUserInput(ctx, models.ChatRequest{SessionID: id, Message: "hi"}, "intruder")
	assert.ErrorIs(t, err, ErrSessionForbidden)
}

func TestSessionReloadsFromStoreAfterEviction(t *testing.T) {
	f := newServiceFixture(t, &stubClient{reply: "hi"})
	id := f.open(t, "")
	ctx := context.Background()

	_, err := f.svc.ProcessUserInput(ctx, models.ChatRequest{SessionID: id, Path: "/", Message: "hello"}, "")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	assert.Equal(t, 1, f.svc.EvictIdle(time.Minute))

	resp, err := f.svc.ProcessUserInput(ctx, models.ChatRequest{SessionID: id, Path: "/", Message: "again"}, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resp.TurnID)

	transcript, err := f.svc.Transcript(ctx, id, "")
	require.NoError(t, err)
	assert.Len(t, transcript.Transcript, 5)
}

func TestResetSession(t *testing.T) {
	f := newServiceFixture(t, nil)
	id := f.open(t, "")
	ctx := context.Background()

	require.NoError(t, f.svc.ResetSession(ctx, id, ""))
	_, err := f.svc.Transcript(ctx, id, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResetDuringInFlightTurnStaysDeleted(t *testing.T) {
	client := newBlockingClient("Here is your summary.")
	executor := NewExecutor(&recordingBus{}, 0, nil)
	store := NewMemorySessionStore(time.Hour)
	svc, err := NewDefaultAssistantService(
		NewContextResolver(nil, nil),
		executor,
		NewResponseGenerator(client, executor, DefaultGenerationParams(), nil),
		store,
		nil,
	)
	require.NoError(t, err)

	ctx := context.Background()
	opened, err := svc.OpenSession(ctx, "user-1")
	require.NoError(t, err)
	id := opened.SessionID

	done := make(chan error, 1)
	go func() {
		_, err := svc.ProcessUserInput(ctx, models.ChatRequest{SessionID: id, Path: "/", Message: "summarize my esg"}, "user-1")
		done <- err
	}()

	select {
	case <-client.started:
	case <-time.After(2 * time.Second):
		t.Fatal("turn never reached the model")
	}

	require.NoError(t, svc.ResetSession(ctx, id, "user-1"))
	close(client.release)
	require.NoError(t, <-done)

	_, err = svc.Transcript(ctx, id, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoredSnapshotIsLatestAfterConcurrentTurns(t *testing.T) {
	f := newServiceFixture(t, &stubClient{reply: "ok"})
	id := f.open(t, "user-1")

	const turns = 6
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.ProcessUserInput(context.Background(), models.ChatRequest{
				SessionID: id,
				Path:      "/",
				Message:   fmt.Sprintf("question %d", i),
			}, "user-1")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := f.store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, snap.Transcript, 1+2*turns)
	assert.Equal(t, uint64(turns+1), snap.NextTurnID)
}
