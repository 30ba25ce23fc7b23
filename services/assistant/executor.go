package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"waly/models"
	"waly/services/events"

	"go.uber.org/zap"
)

var navigateMarker = regexp.MustCompile(`\[NAVIGATE:\s*([^\]\s]+)\s*\]`)

// Notifier surfaces a transient, non-blocking notice to the session's UI.
type Notifier interface {
	Notify(sessionID string, level models.NoticeLevel, message string)
}

// Executor turns intents into navigation and action events. It never returns
// errors to the caller; failures are logged.
type Executor struct {
	bus    events.Publisher
	delay  time.Duration
	logger *zap.Logger
}

// NewExecutor builds an executor that navigates after delay, so the reply can
// render before the page changes. A non-positive delay navigates inline.
func NewExecutor(bus events.Publisher, delay time.Duration, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{bus: bus, delay: delay, logger: logger}
}

// Execute performs the intent and returns the path navigation was scheduled
// to, or "" when the intent carried no navigation. When an intent carries both
// a target and an action, the action event follows the navigation so the
// listener on the destination page receives it.
func (e *Executor) Execute(sessionID string, intent models.Intent) string {
	if intent.IsEmpty() {
		return ""
	}

	event, hasEvent := e.actionEvent(sessionID, intent)
	if intent.NavigateTo == "" {
		if hasEvent {
			e.publish(event)
		}
		return ""
	}

	e.schedule(func() {
		e.navigate(sessionID, intent.NavigateTo)
		if hasEvent {
			e.publish(event)
		}
	})
	return intent.NavigateTo
}

// NavigateFromText acts on a [NAVIGATE:<segment>] marker in generated text.
func (e *Executor) NavigateFromText(sessionID, text string) (string, bool) {
	path, ok := ExtractNavigation(text)
	if !ok {
		return "", false
	}
	e.schedule(func() { e.navigate(sessionID, path) })
	return path, true
}

// Notify publishes a waly-notice event.
func (e *Executor) Notify(sessionID string, level models.NoticeLevel, message string) {
	e.publish(models.ActionEvent{
		Kind:      models.EventNotice,
		SessionID: sessionID,
		Detail:    models.NoticeDetail{Level: level, Message: message},
	})
}

func (e *Executor) actionEvent(sessionID string, intent models.Intent) (models.ActionEvent, bool) {
	event := models.ActionEvent{SessionID: sessionID}
	switch intent.PerformAction {
	case "":
		return event, false
	case models.ActionLogin, models.ActionSignup:
		event.Kind = models.EventAuthAction
		event.Detail = models.AuthActionDetail{Action: intent.PerformAction, Params: intent.ActionParams}
	case models.ActionFillForm:
		event.Kind = models.EventFillForm
		event.Detail = models.FillFormDetail{Fields: models.FormFields{
			Email:         intent.ActionParams.Email,
			Name:          intent.ActionParams.Name,
			NeedsPassword: intent.ActionParams.NeedsPassword,
		}}
	case models.ActionShowChart, models.ActionRunBenchmark:
		event.Kind = models.EventAction
		event.Detail = models.ActionDetail{Action: intent.PerformAction, Params: intent.ActionParams}
	default:
		e.logger.Warn("executor: unknown action ignored",
			zap.String("session_id", sessionID),
			zap.String("action", string(intent.PerformAction)))
		return event, false
	}
	return event, true
}

func (e *Executor) schedule(fn func()) {
	if e.delay <= 0 {
		fn()
		return
	}
	time.AfterFunc(e.delay, fn)
}

func (e *Executor) navigate(sessionID, path string) {
	e.publish(models.ActionEvent{
		Kind:      models.EventNavigate,
		SessionID: sessionID,
		Detail:    models.NavigateDetail{Path: path},
	})
	e.Notify(sessionID, models.NoticeInfo, fmt.Sprintf("Navigating to %s", describePath(path)))
	e.logger.Info("executor: navigation dispatched", zap.String("session_id", sessionID), zap.String("path", path))
}

func (e *Executor) publish(event models.ActionEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("executor: event dispatch failed",
				zap.String("session_id", event.SessionID),
				zap.String("kind", string(event.Kind)),
				zap.Any("panic", r))
		}
	}()
	if e.bus == nil {
		return
	}
	e.bus.Publish(event)
}

// ExtractNavigation returns the path requested by the first navigation marker
// in text. The segment "dashboard" maps to the root path.
func ExtractNavigation(text string) (string, bool) {
	m := navigateMarker.FindStringSubmatch(text)
	if len(m) != 2 {
		return "", false
	}
	segment := strings.Trim(m[1], "/")
	if segment == "" || strings.EqualFold(segment, "dashboard") {
		return "/", true
	}
	return "/" + segment, true
}

// StripNavigationMarkers removes markers so they are never shown to the user.
func StripNavigationMarkers(text string) string {
	return strings.TrimSpace(navigateMarker.ReplaceAllString(text, ""))
}

func describePath(path string) string {
	if path == "/" {
		return "the dashboard"
	}
	return strings.TrimPrefix(path, "/")
}
