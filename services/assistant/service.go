// File: services/assistant/service.go
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"waly/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssistantService is the conversational surface used by the HTTP handlers.
type AssistantService interface {
	OpenSession(ctx context.Context, userID string) (*models.SessionResponse, error)
	ProcessUserInput(ctx context.Context, req models.ChatRequest, userID string) (*models.ChatResponse, error)
	ResolveContext(ctx context.Context, path, userID string) models.PageContext
	Transcript(ctx context.Context, sessionID, userID string) (*models.TranscriptResponse, error)
	ResetSession(ctx context.Context, sessionID, userID string) error
	EvictIdle(maxIdle time.Duration) int
}

// DefaultAssistantService runs one agent turn: resolve context, classify,
// dispatch, generate, commit.
type DefaultAssistantService struct {
	resolver  *ContextResolver
	executor  *Executor
	responder *ResponseGenerator
	store     SessionStore
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewDefaultAssistantService(
	resolver *ContextResolver,
	executor *Executor,
	responder *ResponseGenerator,
	store SessionStore,
	logger *zap.Logger,
) (*DefaultAssistantService, error) {
	if resolver == nil || executor == nil || responder == nil || store == nil {
		return nil, fmt.Errorf("assistant service initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAssistantService{
		resolver:  resolver,
		executor:  executor,
		responder: responder,
		store:     store,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}, nil
}

func (s *DefaultAssistantService) OpenSession(ctx context.Context, userID string) (*models.SessionResponse, error) {
	sess := newSession(uuid.New().String(), userID, s.now())

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	if err := sess.persist(ctx, s.store); err != nil {
		s.logger.Warn("assistant: failed to persist new session", zap.String("session_id", sess.ID()), zap.Error(err))
	}
	s.logger.Info("assistant: session opened", zap.String("session_id", sess.ID()), zap.Bool("authenticated", userID != ""))
	return &models.SessionResponse{SessionID: sess.ID(), Welcome: sess.welcome()}, nil
}

func (s *DefaultAssistantService) ProcessUserInput(ctx context.Context, req models.ChatRequest, userID string) (*models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	sess, err := s.session(ctx, req.SessionID, userID)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With(zap.String("session_id", sess.ID()))

	// 1) Context and intent
	pc := s.resolver.Resolve(ctx, req.Path, userID)
	intent := Classify(message, pc)

	// 2) Record the user turn
	turnID, history := sess.beginTurn(message, s.now())
	logger.Debug("assistant: turn started",
		zap.Uint64("turn_id", turnID),
		zap.String("page_type", string(pc.PageType)),
		zap.Any("intent", intent))

	// 3) Dispatch, then reply
	navigatedTo := s.executor.Execute(sess.ID(), intent)

	reply := s.responder.Generate(ctx, TurnInput{
		SessionID:     sess.ID(),
		Utterance:     message,
		History:       history,
		Context:       pc,
		Authenticated: userID != "",
	})

	// One navigation per turn: a classified target wins over a marker in the reply.
	if navigatedTo == "" {
		if path, ok := s.executor.NavigateFromText(sess.ID(), reply.Text); ok {
			navigatedTo = path
		}
	} else if _, ok := ExtractNavigation(reply.Text); ok {
		logger.Debug("assistant: reply navigation marker suppressed", zap.String("navigated_to", navigatedTo))
	}

	text := StripNavigationMarkers(reply.Text)
	if text == "" {
		text = fmt.Sprintf("On it! Opening %s for you.", describePath(navigatedTo))
	}

	// 4) Commit in turn order and persist
	sess.commitReply(turnID, text, s.now())
	if err := sess.persist(ctx, s.store); err != nil {
		logger.Warn("assistant: failed to persist session", zap.Error(err))
	}

	return &models.ChatResponse{
		SessionID:    sess.ID(),
		TurnID:       turnID,
		Intent:       intent,
		Reply:        text,
		UsedFallback: reply.UsedFallback,
		NavigatedTo:  navigatedTo,
	}, nil
}

func (s *DefaultAssistantService) ResolveContext(ctx context.Context, path, userID string) models.PageContext {
	return s.resolver.Resolve(ctx, path, userID)
}

func (s *DefaultAssistantService) Transcript(ctx context.Context, sessionID, userID string) (*models.TranscriptResponse, error) {
	sess, err := s.session(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &models.TranscriptResponse{SessionID: snap.ID, Transcript: snap.Transcript, Memory: snap.Memory}, nil
}

// ResetSession closes the session before deleting it, so a turn still in
// flight cannot write it back.
func (s *DefaultAssistantService) ResetSession(ctx context.Context, sessionID, userID string) error {
	sess, err := s.session(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	sess.close()
	err = s.store.Delete(ctx, sessionID)

	s.mu.Lock()
	if s.sessions[sessionID] == sess {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	return err
}

// EvictIdle drops live sessions idle for longer than maxIdle. Their last
// snapshot stays in the store until it expires there.
func (s *DefaultAssistantService) EvictIdle(maxIdle time.Duration) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > maxIdle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("assistant: idle sessions evicted", zap.Int("count", evicted))
	}
	if sweeper, ok := s.store.(interface{ Sweep(time.Time) int }); ok {
		sweeper.Sweep(now)
	}
	return evicted
}

// session returns the live session, loading it from the store on a miss.
func (s *DefaultAssistantService) session(ctx context.Context, sessionID, userID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		snap, err := s.store.Load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if existing, found := s.sessions[sessionID]; found {
			sess = existing
		} else {
			sess = sessionFromSnapshot(*snap, s.now())
			s.sessions[sessionID] = sess
		}
		s.mu.Unlock()
	}

	if sess.isClosed() {
		return nil, ErrSessionNotFound
	}
	if sess.userID != "" && sess.userID != userID {
		return nil, ErrSessionForbidden
	}
	return sess, nil
}
