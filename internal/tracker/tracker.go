// Package tracker derives context replies from recent conversation history:
// continuation requests, backreferences and follow-ups on the current topic.
//
// The tracker holds no conversation state of its own. Every call re-derives
// the topic from the turns it is given.
package tracker

import (
	"strings"

	"futurechat/internal/history"
	"futurechat/internal/logging"
	"futurechat/internal/phrase"
	"futurechat/internal/textnorm"
)

// DefaultWindow is how many recent turns feed topic extraction.
const DefaultWindow = 5

// Rule names which context rule produced a signal.
type Rule string

const (
	RuleContinuation  Rule = "continuation"
	RuleBackreference Rule = "backreference"
	RuleTopic         Rule = "topic"
)

// Signal is a context-derived reply.
type Signal struct {
	Reply string
	Rule  Rule
	Topic Topic
}

var (
	continuationTemplates = []string{
		"Продолжим тему %s! Это действительно интересно, и там еще много всего 🔄",
		"Раз тебе интересно про %s, копнем глубже! 🔍",
		"О, %s - отличная тема, чтобы продолжить! Что именно хочешь узнать? 🤓",
		"Давай дальше про %s! Спрашивай, что непонятно 📚",
	}
	backreferenceTemplates = []string{
		"Ты про «%s»? Давай разберемся подробнее! 🤔",
		"Если я правильно понял, речь о «%s». Что именно важно? 💭",
		"Возвращаясь к «%s»: что бы ты хотел уточнить? 🔁",
	}
	topicTemplates = []string{
		"Кстати, это связано с темой %s, которую мы обсуждали! 🔗",
		"Похоже, мы все еще про %s. Продолжай, мне интересно! 😊",
		"Это отлично продолжает разговор про %s! ✨",
	}
)

// Tracker applies the context rules. Safe for concurrent use.
type Tracker struct {
	picker *phrase.Picker
	window int
}

// New returns a tracker that draws reply templates from picker.
func New(picker *phrase.Picker) *Tracker {
	if picker == nil {
		picker = phrase.NewPicker(0)
	}
	return &Tracker{picker: picker, window: DefaultWindow}
}

// Topic extracts the dominant topic from the last window user utterances.
func (t *Tracker) Topic(turns []history.Turn) Topic {
	return ExtractTopic(recent(turns, t.window))
}

// ExtractTopic scores normalized text of turns against TopicKeywords.
func ExtractTopic(turns []history.Turn) Topic {
	parts := make([]string, 0, len(turns))
	for _, turn := range turns {
		parts = append(parts, turn.User)
	}
	text := textnorm.Normalize(strings.Join(parts, " "))
	if text == "" {
		return General
	}
	tokens := textnorm.Tokens(text)

	best, bestHits := General, 0
	for _, topic := range TopicOrder {
		if hits := countHits(text, tokens, TopicKeywords[topic]); hits > bestHits {
			best, bestHits = topic, hits
		}
	}
	return best
}

// Analyze runs the context rules in order and returns the first that fires.
func (t *Tracker) Analyze(raw string, turns []history.Turn) (Signal, bool) {
	if len(turns) == 0 {
		return Signal{}, false
	}
	lowered := strings.ToLower(raw)
	normalized := textnorm.Normalize(raw)
	topic := t.Topic(turns)

	for _, trigger := range ContinuationTriggers {
		if strings.Contains(lowered, trigger) {
			logging.ContextDebug("Continuation trigger %q on topic %s", trigger, topic)
			return Signal{
				Reply: t.picker.Pickf(continuationTemplates, string(topic)),
				Rule:  RuleContinuation,
				Topic: topic,
			}, true
		}
	}

	tokens := textnorm.Tokens(normalized)
	for _, tok := range tokens {
		if _, ok := BackreferenceTokens[tok]; !ok {
			continue
		}
		prev := strings.TrimSpace(turns[len(turns)-1].User)
		if prev == "" {
			break
		}
		logging.ContextDebug("Backreference %q to %q", tok, prev)
		return Signal{
			Reply: t.picker.Pickf(backreferenceTemplates, prev),
			Rule:  RuleBackreference,
			Topic: topic,
		}, true
	}

	if topic != General && countHits(normalized, tokens, RelatedKeywords[topic]) > 0 {
		logging.ContextDebug("Input relates to tracked topic %s", topic)
		return Signal{
			Reply: t.picker.Pickf(topicTemplates, string(topic)),
			Rule:  RuleTopic,
			Topic: topic,
		}, true
	}
	return Signal{}, false
}

func recent(turns []history.Turn, n int) []history.Turn {
	if len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}

// countHits counts keywords present in text: phrases by substring, single
// words as a prefix of some token.
func countHits(text string, tokens []string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(text, kw) {
				hits++
			}
			continue
		}
		for _, tok := range tokens {
			if strings.HasPrefix(tok, kw) {
				hits++
				break
			}
		}
	}
	return hits
}
