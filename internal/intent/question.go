package intent

import (
	"strings"

	"futurechat/internal/textnorm"
)

// QuestionKind is the subtype used to shape an "I don't know yet" reply.
type QuestionKind string

const (
	KindDefinition QuestionKind = "definition"
	KindHowTo      QuestionKind = "how_to"
	KindWhy        QuestionKind = "why"
	KindGeneral    QuestionKind = "general"
)

type questionPattern struct {
	kind     QuestionKind
	prefixes []string
}

// Checked in order; the first pattern found wins.
var questionPatterns = []questionPattern{
	{KindDefinition, []string{"что такое", "что значит", "что означает", "кто такой", "кто такая", "what is"}},
	{KindWhy, []string{"почему", "зачем", "why"}},
	{KindHowTo, []string{"как сделать", "каким образом", "как ", "how to", "how do"}},
}

// QuestionInfo describes what a question asks about.
type QuestionInfo struct {
	Kind    QuestionKind
	Subject string // normalized text after the question phrase, may be empty
}

// AnalyzeQuestion finds the question subtype and its subject.
func AnalyzeQuestion(raw string) QuestionInfo {
	text := strings.ToLower(raw)
	for _, p := range questionPatterns {
		for _, prefix := range p.prefixes {
			idx := strings.Index(text, prefix)
			if idx < 0 {
				continue
			}
			subject := textnorm.Normalize(text[idx+len(prefix):])
			return QuestionInfo{Kind: p.kind, Subject: subject}
		}
	}
	return QuestionInfo{Kind: KindGeneral, Subject: textnorm.Normalize(raw)}
}
