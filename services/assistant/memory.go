package assistant

import (
	"strings"

	"waly/models"
)

const maxRecentTopics = 5

// UpdateMemory returns the memory after one user utterance. The input state is
// not modified.
func UpdateMemory(state models.MemoryState, utterance string) models.MemoryState {
	next := models.MemoryState{
		RecentTopics: make([]string, 0, maxRecentTopics),
		Preferences:  make(models.UserPreferences, len(state.Preferences)+1),
	}
	for k, v := range state.Preferences {
		next.Preferences[k] = v
	}

	topic := strings.TrimSpace(utterance)
	if topic != "" {
		next.RecentTopics = append(next.RecentTopics, topic)
	}
	for _, t := range state.RecentTopics {
		if len(next.RecentTopics) == maxRecentTopics {
			break
		}
		next.RecentTopics = append(next.RecentTopics, t)
	}

	lower := strings.ToLower(utterance)
	if strings.Contains(lower, "prefer") || strings.Contains(lower, "like") {
		if fields := strings.Fields(lower); len(fields) > 0 {
			next.Preferences[fields[len(fields)-1]] = true
		}
	}
	return next
}
