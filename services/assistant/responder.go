package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"waly/models"
	"waly/services/intelligence"

	"go.uber.org/zap"
)

const llmUnavailableNotice = "Waly is running in limited mode right now. Answers may be less detailed."

// GenerationParams are the fixed sampling bounds sent with every request.
type GenerationParams struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
	Timeout     time.Duration
}

func DefaultGenerationParams() GenerationParams {
	return GenerationParams{Temperature: 0.7, TopP: 0.9, MaxTokens: 500, Timeout: 20 * time.Second}
}

// Reply is the generated assistant text for one turn.
type Reply struct {
	Text         string
	UsedFallback bool
}

// ResponseGenerator asks the language model for a reply and degrades to the
// local fallback table on any failure. A nil client means fallback-only.
type ResponseGenerator struct {
	client   intelligence.LLMClient
	notifier Notifier
	params   GenerationParams
	logger   *zap.Logger
}

func NewResponseGenerator(client intelligence.LLMClient, notifier Notifier, params GenerationParams, logger *zap.Logger) *ResponseGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseGenerator{client: client, notifier: notifier, params: params, logger: logger}
}

// TurnInput is everything the generator needs for one reply.
type TurnInput struct {
	SessionID     string
	Utterance     string
	History       []models.ConversationTurn
	Context       models.PageContext
	Authenticated bool
}

// Generate always returns a non-empty reply.
func (g *ResponseGenerator) Generate(ctx context.Context, in TurnInput) (reply Reply) {
	if g.client == nil {
		return Reply{Text: FallbackResponse(in.Utterance), UsedFallback: true}
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("responder: llm client panicked", zap.String("session_id", in.SessionID), zap.Any("panic", r))
			reply = g.fallback(in, fmt.Errorf("llm client panic: %v", r))
		}
	}()

	if g.params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.params.Timeout)
		defer cancel()
	}

	text, err := g.client.Complete(ctx, intelligence.CompletionRequest{
		SystemPrompt: BuildSystemPrompt(in.Context, in.Authenticated),
		Messages:     BuildMessages(in.History, in.Utterance),
		Temperature:  g.params.Temperature,
		TopP:         g.params.TopP,
		MaxTokens:    g.params.MaxTokens,
	})
	if err != nil {
		return g.fallback(in, err)
	}
	if strings.TrimSpace(text) == "" {
		return g.fallback(in, intelligence.ErrEmptyCompletion)
	}
	return Reply{Text: text}
}

func (g *ResponseGenerator) fallback(in TurnInput, cause error) Reply {
	g.logger.Warn("responder: llm unavailable, using fallback",
		zap.String("session_id", in.SessionID),
		zap.String("provider", g.client.Name()),
		zap.Error(cause))
	if g.notifier != nil {
		g.notifier.Notify(in.SessionID, models.NoticeWarning, llmUnavailableNotice)
	}
	return Reply{Text: FallbackResponse(in.Utterance), UsedFallback: true}
}

// BuildMessages maps the transcript to model roles, skipping the synthetic
// welcome turn, and appends the new utterance.
func BuildMessages(history []models.ConversationTurn, utterance string) []intelligence.Message {
	msgs := make([]intelligence.Message, 0, len(history)+1)
	for _, turn := range history {
		if turn.Welcome {
			continue
		}
		role := intelligence.RoleUser
		if turn.Sender == models.SenderAssistant {
			role = intelligence.RoleAssistant
		}
		msgs = append(msgs, intelligence.Message{Role: role, Content: turn.Content})
	}
	return append(msgs, intelligence.Message{Role: intelligence.RoleUser, Content: utterance})
}

const persona = `You are Waly, the friendly sustainability assistant of an ESG tracking dashboard.
You help users understand their environmental, social and governance metrics, carbon footprint,
industry benchmarks and compliance status. Keep answers short, concrete and encouraging.

You can move the user around the app. To open a page, include exactly one marker of the form
[NAVIGATE:<page>] in your answer, where <page> is one of: dashboard, analytics, benchmark,
compliance, data, reports, goals, settings, insights, about, auth. Only navigate when the user
asks to go somewhere or clearly needs a page to continue.`

// BuildSystemPrompt combines the persona with the current page context.
func BuildSystemPrompt(pc models.PageContext, authenticated bool) string {
	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\nCurrent page: ")
	sb.WriteString(string(pc.PageType))
	if pc.Path != "" {
		sb.WriteString(" (" + pc.Path + ")")
	}
	if authenticated {
		sb.WriteString("\nThe user is signed in.")
	} else {
		sb.WriteString("\nThe user is not signed in; offer to help them sign in or sign up when relevant.")
	}

	if sample, err := json.Marshal(pc.SampledData); err == nil && string(sample) != "{}" {
		sb.WriteString("\nRelevant data on this page (JSON): ")
		sb.Write(sample)
	}
	return sb.String()
}
