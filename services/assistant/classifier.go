package assistant

import (
	"regexp"
	"strings"

	"waly/models"
)

// utterance keeps the raw text for extraction and the lowercased text for matching.
type utterance struct {
	raw   string
	lower string
}

func (u utterance) mentions(phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(u.lower, p) {
			return true
		}
	}
	return false
}

// classifierRule refines the intent built so far. Exclusive rules are only
// consulted while no earlier rule has produced an actionable intent.
type classifierRule struct {
	name      string
	exclusive bool
	apply     func(u utterance, pc models.PageContext, in models.Intent) (models.Intent, bool)
}

var classifierRules = []classifierRule{
	{name: "navigation", apply: applyNavigation},
	{name: "auth", apply: applyAuth},
	{name: "page-action", exclusive: true, apply: applyPageAction},
	{name: "form-fill", exclusive: true, apply: applyFormFill},
}

var navigationTriggers = []string{"go to", "take me to", "navigate to", "show me the"}

// navigationRoutes is in priority order: the first keyword found wins.
var navigationRoutes = []struct {
	keyword string
	path    string
}{
	{"dashboard", "/"},
	{"home", "/"},
	{"analytics", "/analytics"},
	{"compliance", "/compliance"},
	{"benchmark", "/benchmark"},
	{"benchmarking", "/benchmark"},
	{"data", "/data"},
	{"reports", "/reports"},
	{"goals", "/goals"},
	{"settings", "/settings"},
	{"insights", "/insights"},
	{"sign up", "/signup"},
	{"sign in", "/auth"},
	{"login", "/auth"},
	{"register", "/signup"},
	{"about", "/about"},
}

var authRules = []struct {
	phrases []string
	action  models.Action
}{
	{[]string{"sign me up", "create account", "register me"}, models.ActionSignup},
	{[]string{"log me in", "sign me in"}, models.ActionLogin},
}

var formTriggers = []string{"fill form", "fill out form"}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	namePattern  = regexp.MustCompile(`(?i)name[:\s]+([a-zA-Z\s]+)`)
)

// Classify turns an utterance into an Intent. It is pure: the same inputs
// always produce the same Intent.
func Classify(text string, pc models.PageContext) models.Intent {
	u := utterance{raw: text, lower: strings.ToLower(text)}
	var intent models.Intent
	for _, r := range classifierRules {
		if r.exclusive && !intent.IsEmpty() {
			continue
		}
		if next, ok := r.apply(u, pc, intent); ok {
			intent = next
		}
	}
	return intent
}

func applyNavigation(u utterance, _ models.PageContext, in models.Intent) (models.Intent, bool) {
	if !u.mentions(navigationTriggers...) {
		return in, false
	}
	for _, route := range navigationRoutes {
		if strings.Contains(u.lower, route.keyword) {
			in.NavigateTo = route.path
			return in, true
		}
	}
	return in, false
}

func applyAuth(u utterance, _ models.PageContext, in models.Intent) (models.Intent, bool) {
	for _, r := range authRules {
		if u.mentions(r.phrases...) {
			in.NavigateTo = "/auth"
			in.PerformAction = r.action
			return in, true
		}
	}
	return in, false
}

func applyPageAction(u utterance, pc models.PageContext, in models.Intent) (models.Intent, bool) {
	switch pc.PageType {
	case models.PageAnalytics:
		if u.mentions("show chart", "view emissions") {
			in.PerformAction = models.ActionShowChart
			in.ActionParams = models.ActionParams{Type: "emissions"}
			return in, true
		}
	case models.PageBenchmarking:
		if u.mentions("compare with competitors") {
			in.PerformAction = models.ActionRunBenchmark
			return in, true
		}
	}
	return in, false
}

// applyFormFill extracts fields best-effort; a field that does not match is
// simply left empty.
func applyFormFill(u utterance, _ models.PageContext, in models.Intent) (models.Intent, bool) {
	if !u.mentions(formTriggers...) {
		return in, false
	}
	var params models.ActionParams
	if u.mentions("email") {
		params.Email = emailPattern.FindString(u.raw)
	}
	if u.mentions("name") {
		if m := namePattern.FindStringSubmatch(u.raw); len(m) == 2 {
			params.Name = strings.TrimSpace(m[1])
		}
	}
	if u.mentions("password") {
		params.NeedsPassword = true
	}
	in.PerformAction = models.ActionFillForm
	in.ActionParams = params
	return in, true
}
