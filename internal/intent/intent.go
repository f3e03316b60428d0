// Package intent classifies an utterance into a coarse intent by counting
// trigger substrings per label.
package intent

import (
	"strings"

	"futurechat/internal/logging"
)

// Label is the closed set of intents.
type Label string

const (
	Question   Label = "question"
	Request    Label = "request"
	Teaching   Label = "teaching"
	Casual     Label = "casual"
	Comparison Label = "comparison"
	Unknown    Label = "unknown"
)

// Order is the tie-break order. Earlier labels win equal scores.
var Order = []Label{Question, Request, Teaching, Casual, Comparison}

// DefaultTriggers maps each label to the substrings that vote for it.
// Matching is against the lower-cased raw input, so a trigger may carry
// surrounding spaces or punctuation when a bare stem would be too greedy.
var DefaultTriggers = map[Label][]string{
	Question: {
		"что", "как", "где", "когда", "почему", "зачем", "кто", "какой", "какая",
		"какое", "сколько", "?", "what", "why", "where",
	},
	Request: {
		"помоги", "помочь", "сделай", "покажи", "расскажи", "объясни", "подскажи",
		"нужно", "пожалуйста", "можешь", "please", "help me",
	},
	Teaching: {
		"научи", "запомни", "учти", "знай", "на самом деле", "remember", "learn",
	},
	Casual: {
		"привет", "здравствуй", "спасибо", "хорошо", "отлично", "круто", "супер",
		"ладно", "как дела", "дела", "до свидания", "hello", "thanks", "bye", "хаха",
	},
	Comparison: {
		"лучше", "хуже", "сравни", "разниц", "отличается", "отличие", " или ",
		" vs ", "versus", "compare",
	},
}

// Classifier scores utterances against a trigger table.
type Classifier struct {
	triggers map[Label][]string
}

// NewClassifier returns a classifier over DefaultTriggers.
func NewClassifier() *Classifier {
	return &Classifier{triggers: DefaultTriggers}
}

// NewClassifierWithTriggers returns a classifier over a custom table.
// Labels missing from the table score zero.
func NewClassifierWithTriggers(triggers map[Label][]string) *Classifier {
	return &Classifier{triggers: triggers}
}

// Scores returns the trigger hit count of every label in Order.
func (c *Classifier) Scores(raw string) map[Label]int {
	text := strings.ToLower(raw)
	scores := make(map[Label]int, len(Order))
	for _, label := range Order {
		n := 0
		for _, trig := range c.triggers[label] {
			if trig != "" && strings.Contains(text, trig) {
				n++
			}
		}
		scores[label] = n
	}
	return scores
}

// Classify returns the label with the strictly highest score, the earliest
// label in Order on ties, and Unknown when nothing matched.
func (c *Classifier) Classify(raw string) Label {
	scores := c.Scores(raw)
	best := Unknown
	bestScore := 0
	for _, label := range Order {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}
	logging.IntentDebug("classified %q as %s (scores=%v)", raw, best, scores)
	return best
}

var defaultClassifier = NewClassifier()

// Classify classifies raw with the default trigger table.
func Classify(raw string) Label {
	return defaultClassifier.Classify(raw)
}
