package models

import "time"

// PageType is the coarse category of a dashboard page.
type PageType string

const (
	PageHome         PageType = "home"
	PageAnalytics    PageType = "analytics"
	PageBenchmarking PageType = "benchmarking"
	PageCompliance   PageType = "compliance"
	PageAbout        PageType = "about"
	PageAuth         PageType = "auth"
	PageUnknown      PageType = "unknown"
)

// SampledData is a bounded snapshot of ESG data relevant to the current page.
// It is read-only once attached to a PageContext.
type SampledData struct {
	ESGRecords      []ESGRecord           `json:"esgRecords,omitempty"`
	Emissions       []CarbonEmission      `json:"emissions,omitempty"`
	CarbonFootprint *CarbonFootprint      `json:"carbonFootprint,omitempty"`
	Benchmarks      []Benchmark           `json:"benchmarks,omitempty"`
	Frameworks      []ComplianceFramework `json:"frameworks,omitempty"`
}

// PageContext is recomputed whenever the path changes or the assistant opens.
type PageContext struct {
	Path        string      `json:"path"`
	PageType    PageType    `json:"pageType"`
	SampledData SampledData `json:"sampledData"`
	ResolvedAt  time.Time   `json:"resolvedAt"`
}

// Action is the closed set of in-app actions the assistant can trigger.
type Action string

const (
	ActionLogin        Action = "login"
	ActionSignup       Action = "signup"
	ActionFillForm     Action = "fillForm"
	ActionShowChart    Action = "showChart"
	ActionRunBenchmark Action = "runBenchmark"
)

// ActionParams carries the optional parameters of an Action. Which fields are
// set depends on the action: Email/Name/NeedsPassword for fillForm, Type for
// showChart.
type ActionParams struct {
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	NeedsPassword bool   `json:"needsPassword,omitempty"`
	Type          string `json:"type,omitempty"`
}

// Intent is the classified meaning of one utterance. The zero value means the
// utterance is purely conversational.
type Intent struct {
	NavigateTo    string       `json:"navigateTo,omitempty"`
	PerformAction Action       `json:"performAction,omitempty"`
	ActionParams  ActionParams `json:"actionParams,omitempty"`
}

// IsEmpty reports whether the intent carries neither navigation nor action.
func (i Intent) IsEmpty() bool {
	return i.NavigateTo == "" && i.PerformAction == ""
}

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ConversationTurn is one entry of the visible transcript.
type ConversationTurn struct {
	ID        uint64    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Welcome   bool      `json:"welcome,omitempty"`
}

// UserPreferences maps an inferred preference keyword to presence.
type UserPreferences map[string]bool

// MemoryState is the light personalization memory kept across turns.
type MemoryState struct {
	RecentTopics []string        `json:"recentTopics"`
	Preferences  UserPreferences `json:"preferences"`
}

// SessionSnapshot is what a session store persists between requests.
type SessionSnapshot struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId,omitempty"`
	Transcript []ConversationTurn `json:"transcript"`
	Memory     MemoryState        `json:"memory"`
	NextTurnID uint64             `json:"nextTurnId"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
