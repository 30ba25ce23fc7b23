package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"waly/models"
	"waly/services/intelligence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUsesClientReply(t *testing.T) {
	client := &stubClient{reply: "Your footprint is down 4%."}
	g := NewResponseGenerator(client, nil, DefaultGenerationParams(), nil)

	reply := g.Generate(context.Background(), TurnInput{SessionID: "s1", Utterance: "how am I doing?"})

	assert.Equal(t, Reply{Text: "Your footprint is down 4%."}, reply)
	req := client.lastRequest()
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	assert.InDelta(t, 0.9, req.TopP, 0.0001)
	assert.Equal(t, 500, req.MaxTokens)
}

func TestGenerateFallsBackOnError(t *testing.T) {
	bus := &recordingBus{}
	notifier := NewExecutor(bus, 0, nil)
	client := &stubClient{err: errors.New("503 from upstream")}
	g := NewResponseGenerator(client, notifier, DefaultGenerationParams(), nil)

	reply := g.Generate(context.Background(), TurnInput{SessionID: "s1", Utterance: "what about carbon?"})

	assert.True(t, reply.UsedFallback)
	assert.Equal(t, carbonFallback, reply.Text)
	notices := bus.ofKind(models.EventNotice)
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeWarning, notices[0].Detail.(models.NoticeDetail).Level)
}

func TestGenerateFallsBackOnBlankReply(t *testing.T) {
	g := NewResponseGenerator(&stubClient{reply: "  \n"}, nil, DefaultGenerationParams(), nil)
	reply := g.Generate(context.Background(), TurnInput{Utterance: "hi"})
	assert.True(t, reply.UsedFallback)
	assert.Equal(t, genericFallback, reply.Text)
}

func TestGenerateFallsBackOnPanic(t *testing.T) {
	g := NewResponseGenerator(&stubClient{panic: true}, nil, DefaultGenerationParams(), nil)
	var reply Reply
	assert.NotPanics(t, func() {
		reply = g.Generate(context.Background(), TurnInput{Utterance: "esg status"})
	})
	assert.True(t, reply.UsedFallback)
	assert.Equal(t, complianceFallback, reply.Text)
}

func TestGenerateWithoutClient(t *testing.T) {
	g := NewResponseGenerator(nil, nil, DefaultGenerationParams(), nil)
	reply := g.Generate(context.Background(), TurnInput{Utterance: "hello"})
	assert.True(t, reply.UsedFallback)
	assert.NotEmpty(t, reply.Text)
}

func TestBuildMessagesSkipsWelcome(t *testing.T) {
	history := []models.ConversationTurn{
		{ID: 0, Sender: models.SenderAssistant, Content: "welcome", Welcome: true},
		{ID: 1, Sender: models.SenderUser, Content: "hi"},
		{ID: 1, Sender: models.SenderAssistant, Content: "hello!"},
	}
	msgs := BuildMessages(history, "show analytics")

	assert.Equal(t, []intelligence.Message{
		{Role: intelligence.RoleUser, Content: "hi"},
		{Role: intelligence.RoleAssistant, Content: "hello!"},
		{Role: intelligence.RoleUser, Content: "show analytics"},
	}, msgs)
}

func TestBuildSystemPrompt(t *testing.T) {
	pc := models.PageContext{
		Path:     "/analytics",
		PageType: models.PageAnalytics,
		SampledData: models.SampledData{
			CarbonFootprint: &models.CarbonFootprint{TotalTonnes: 12.5},
		},
	}
	prompt := BuildSystemPrompt(pc, true)
	assert.True(t, strings.HasPrefix(prompt, persona))
	assert.Contains(t, prompt, "Current page: analytics (/analytics)")
	assert.Contains(t, prompt, "The user is signed in.")
	assert.Contains(t, prompt, `"totalTonnes":12.5`)

	prompt = BuildSystemPrompt(models.PageContext{PageType: models.PageHome}, false)
	assert.Contains(t, prompt, "not signed in")
	assert.NotContains(t, prompt, "Relevant data")
}

func TestGenerateFallsBackOnTimeout(t *testing.T) {
	bus := &recordingBus{}
	params := DefaultGenerationParams()
	params.Timeout = 50 * time.Millisecond
	g := NewResponseGenerator(newBlockingClient("too late"), NewExecutor(bus, 0, nil), params, nil)

	start := time.Now()
	reply := g.Generate(context.Background(), TurnInput{SessionID: "s1", Utterance: "what about carbon?"})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, reply.UsedFallback)
	assert.Equal(t, carbonFallback, reply.Text)
	assert.Len(t, bus.ofKind(models.EventNotice), 1)
}
