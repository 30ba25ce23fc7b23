package assistant

import "strings"

const (
	carbonFallback = "I can't reach my full knowledge base right now, but your carbon footprint " +
		"lives on the Analytics page. It breaks emissions down by scope 1, 2 and 3 so you can " +
		"see where to cut first."
	complianceFallback = "I'm running in limited mode at the moment. For ESG compliance, the " +
		"Compliance page tracks your progress against frameworks such as GRI and CSRD, " +
		"including upcoming deadlines."
	genericFallback = "Sorry, I'm having trouble connecting right now, so I can only help with " +
		"basics. I can still take you to Analytics, Benchmarking or Compliance, or help you " +
		"sign in. Just ask!"
)

var fallbackRules = []struct {
	keywords []string
	reply    string
}{
	{[]string{"carbon", "emission"}, carbonFallback},
	{[]string{"esg", "compliance"}, complianceFallback},
}

// FallbackResponse answers locally when the language model is unavailable.
// It always returns a non-empty string.
func FallbackResponse(text string) string {
	lower := strings.ToLower(text)
	for _, r := range fallbackRules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.reply
			}
		}
	}
	return genericFallback
}
