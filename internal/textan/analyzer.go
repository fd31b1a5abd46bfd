// Package textan derives lightweight metrics from task descriptions:
// a complexity score, urgency keyword hits, a suggested priority, and a
// time-estimation factor. The scores feed task metrics and let the worker
// re-rank work before processing it.
package textan

import "strings"

// Priority bounds used across TaskForge.
const (
	PriorityMin = 1
	PriorityMax = 5

	// UrgentPriority is the floor applied when urgency keywords are present.
	UrgentPriority = 4

	// longDescriptionWords is the word count above which a description is
	// considered complex enough to bump priority by one.
	longDescriptionWords = 50
)

// urgencyKeywords mark a description as time-sensitive.
var urgencyKeywords = []string{"urgent", "asap", "critical", "important", "blocker", "deadline"}

// Complexity scores a description in [0,1] from its length, sentence count,
// and vocabulary diversity. Empty text scores 0.
func Complexity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := 0
	for _, part := range strings.Split(text, ".") {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}

	score := clamp01(float64(len(words))/100)*0.3 +
		clamp01(float64(sentences)/10)*0.3 +
		(float64(len(unique))/float64(len(words)))*0.4

	return clamp01(score)
}

// UrgencyKeywords counts urgency-marker occurrences in the text, repeats
// included. Matching is case-insensitive.
func UrgencyKeywords(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, kw := range urgencyKeywords {
		n += strings.Count(lower, kw)
	}
	return n
}

// SuggestPriority reconsiders a task's priority from its description.
// Urgency keywords raise the priority to at least UrgentPriority; long
// descriptions bump it by one. The result is clamped to [PriorityMin,
// PriorityMax].
func SuggestPriority(description string, current int) int {
	priority := current
	if priority < PriorityMin {
		priority = PriorityMin
	}

	if UrgencyKeywords(description) > 0 && priority < UrgentPriority {
		priority = UrgentPriority
	}

	if len(strings.Fields(description)) > longDescriptionWords {
		priority++
	}

	if priority > PriorityMax {
		priority = PriorityMax
	}
	return priority
}

// TimeEstimationFactor blends complexity and keyword density into a rough
// effort multiplier: half the doubled complexity score plus a fifth of the
// keyword saturation, giving [0,1.2]. A plain short note scores near 0.
func TimeEstimationFactor(complexity float64, keywordCount int) float64 {
	complexityFactor := clamp01(complexity) * 2
	keywordFactor := clamp01(float64(keywordCount) / 3)
	return complexityFactor*0.5 + keywordFactor*0.2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
