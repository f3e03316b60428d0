// Package arbiter picks the single reply for a turn from the context,
// knowledge and external signals.
//
// Selection is an ordered cascade per intent, not an argmax: a source with
// a lower confidence wins whenever its step comes first and clears its
// floor.
package arbiter

import (
	"futurechat/internal/intent"
	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
	"futurechat/internal/matcher"
	"futurechat/internal/phrase"
	"futurechat/internal/style"
)

// Source is the provenance of a selected reply. Diagnostics only.
type Source string

const (
	SourceContext   Source = "context"
	SourceKnowledge Source = "knowledge"
	SourceExternal  Source = "external"
	SourceGenerated Source = "generated"
)

// Input carries every signal gathered for one turn.
type Input struct {
	Intent    intent.Label
	Context   string // empty when no context rule fired
	Knowledge knowledge.Result
	External  matcher.Result
	Raw       string
}

// Decision is the selected, decorated reply.
type Decision struct {
	Text   string
	Source Source
	Tier   style.Tier
}

// Step is one rung of a cascade. A Step with Strict set requires
// confidence > Min; otherwise it requires confidence >= Min.
type Step struct {
	Source  Source
	Min     float64
	Strict  bool
	Enhance bool // decorate the reply at the turn's tier
}

var questionCascade = []Step{
	{Source: SourceExternal, Min: 0.7, Enhance: true},
	{Source: SourceKnowledge, Min: 0.8},
	{Source: SourceExternal, Min: 0.5, Enhance: true},
	{Source: SourceKnowledge, Min: 0, Strict: true},
}

// Cascades lists the source priority per intent.
var Cascades = map[intent.Label][]Step{
	intent.Teaching: {
		{Source: SourceKnowledge, Min: 0.6},
		{Source: SourceExternal, Min: 0.4, Enhance: true},
	},
	intent.Question: questionCascade,
	intent.Casual: {
		{Source: SourceExternal, Min: 0.5},
		{Source: SourceKnowledge, Min: 0, Strict: true},
	},
	intent.Request: {
		{Source: SourceKnowledge, Min: 0.7},
		{Source: SourceExternal, Min: 0.6, Enhance: true},
	},
	intent.Comparison: questionCascade,
	intent.Unknown:    questionCascade,
}

// Arbiter selects replies. Safe for concurrent use.
type Arbiter struct {
	picker     *phrase.Picker
	decorator  *style.Decorator
	thresholds style.Thresholds
}

// New returns an arbiter. Zero thresholds mean style.DefaultThresholds.
func New(picker *phrase.Picker, decorator *style.Decorator, thresholds style.Thresholds) *Arbiter {
	if picker == nil {
		picker = phrase.NewPicker(0)
	}
	if decorator == nil {
		decorator = style.NewDecorator(picker)
	}
	if thresholds == (style.Thresholds{}) {
		thresholds = style.DefaultThresholds()
	}
	return &Arbiter{picker: picker, decorator: decorator, thresholds: thresholds}
}

// Select runs the cascade for in.Intent. A context reply always wins.
func (a *Arbiter) Select(in Input) Decision {
	if in.Context != "" {
		return Decision{
			Text:   a.decorator.Decorate(in.Context, in.Intent, style.High),
			Source: SourceContext,
			Tier:   style.High,
		}
	}

	know := in.Knowledge.Confidence
	if len(in.Knowledge.Replies) == 0 {
		know = 0
	}
	ext := in.External.Confidence
	if in.External.Reply == "" {
		ext = 0
	}
	tier := a.thresholds.TierOf(know, ext)

	cascade, ok := Cascades[in.Intent]
	if !ok {
		cascade = questionCascade
	}
	for _, s := range cascade {
		conf := know
		if s.Source == SourceExternal {
			conf = ext
		}
		if !clears(conf, s) {
			continue
		}
		d := Decision{Source: s.Source, Tier: tier}
		switch s.Source {
		case SourceKnowledge:
			d.Text = a.picker.Pick(in.Knowledge.Replies)
		case SourceExternal:
			d.Text = in.External.Reply
			if s.Enhance {
				d.Text = a.decorator.Decorate(d.Text, in.Intent, tier)
			}
		}
		logging.EngineDebug("Arbiter %s: %s (know=%.2f ext=%.2f)", in.Intent, s.Source, know, ext)
		return d
	}

	logging.EngineDebug("Arbiter %s: generated (know=%.2f ext=%.2f)", in.Intent, know, ext)
	return Decision{Text: a.generate(in), Source: SourceGenerated, Tier: tier}
}

func clears(conf float64, s Step) bool {
	if s.Strict {
		return conf > s.Min
	}
	return conf >= s.Min && conf > 0
}

func (a *Arbiter) generate(in Input) string {
	switch in.Intent {
	case intent.Teaching:
		return a.picker.Pick(teachingAcks)
	case intent.Casual:
		return a.picker.Pick(casualFillers)
	case intent.Request:
		return a.picker.Pick(helpfulFillers)
	default:
		return a.ContextualUnknown(in.Raw)
	}
}
