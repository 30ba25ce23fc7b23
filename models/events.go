package models

import "time"

// ActionEventKind names the event channels UI listeners subscribe to.
type ActionEventKind string

const (
	EventFillForm   ActionEventKind = "waly-fill-form"
	EventAuthAction ActionEventKind = "waly-auth-action"
	EventAction     ActionEventKind = "waly-action"
	EventNavigate   ActionEventKind = "waly-navigate"
	EventNotice     ActionEventKind = "waly-notice"
)

// ActionEvent is the executor to listener contract. Detail is one of the
// *Detail types below, matching Kind.
type ActionEvent struct {
	Kind      ActionEventKind `json:"kind"`
	SessionID string          `json:"sessionId"`
	Detail    any             `json:"detail"`
	EmittedAt time.Time       `json:"emittedAt"`
}

// FormFields are the best-effort values extracted for a form autofill.
type FormFields struct {
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	NeedsPassword bool   `json:"needsPassword,omitempty"`
}

type FillFormDetail struct {
	Fields FormFields `json:"fields"`
}

type AuthActionDetail struct {
	Action Action       `json:"action"`
	Params ActionParams `json:"params"`
}

type ActionDetail struct {
	Action Action       `json:"action"`
	Params ActionParams `json:"params"`
}

type NavigateDetail struct {
	Path string `json:"path"`
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

type NoticeDetail struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}
