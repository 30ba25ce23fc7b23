package models

// ChatRequest is the payload of POST /api/waly/chat.
type ChatRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Path      string `json:"path"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is returned once the assistant reply for a turn is committed.
type ChatResponse struct {
	SessionID    string `json:"sessionId"`
	TurnID       uint64 `json:"turnId"`
	Intent       Intent `json:"intent"`
	Reply        string `json:"reply"`
	UsedFallback bool   `json:"usedFallback"`
	NavigatedTo  string `json:"navigatedTo,omitempty"`
}

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	SessionID string           `json:"sessionId"`
	Welcome   ConversationTurn `json:"welcome"`
}

// TranscriptResponse exposes the transcript and memory of a session.
type TranscriptResponse struct {
	SessionID  string             `json:"sessionId"`
	Transcript []ConversationTurn `json:"transcript"`
	Memory     MemoryState        `json:"memory"`
}
