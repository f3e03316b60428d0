// Package style decorates selected replies with tone templates by intent and
// confidence tier.
package style

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"futurechat/internal/intent"
	"futurechat/internal/logging"
	"futurechat/internal/phrase"
)

// Tier is a coarse confidence bucket.
type Tier string

const (
	High   Tier = "high"
	Medium Tier = "medium"
	Low    Tier = "low"
)

// Thresholds are the tier cut points: conf >= High is high, conf >= Medium
// is medium, anything else is low.
type Thresholds struct {
	High   float64 `yaml:"high" json:"high"`
	Medium float64 `yaml:"medium" json:"medium"`
}

// DefaultThresholds returns the 0.8 / 0.5 cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.8, Medium: 0.5}
}

// TierFor buckets conf.
func (th Thresholds) TierFor(conf float64) Tier {
	switch {
	case conf >= th.High:
		return High
	case conf >= th.Medium:
		return Medium
	default:
		return Low
	}
}

// TierOf buckets the larger of the knowledge and external confidences.
func (th Thresholds) TierOf(knowledge, external float64) Tier {
	if external > knowledge {
		return th.TierFor(external)
	}
	return th.TierFor(knowledge)
}

// Openings are prepended at the high tier. Unknown has none.
var Openings = map[intent.Label][]string{
	intent.Question: {
		"Отличный вопрос! ",
		"Хороший вопрос! ",
		"Интересный вопрос! ",
		"Давай разберемся: ",
	},
	intent.Request: {
		"Конечно! ",
		"С удовольствием! ",
		"Без проблем! ",
		"Сейчас помогу: ",
	},
	intent.Teaching: {
		"Спасибо, что делишься! ",
		"Интересно! ",
		"Запомню! ",
	},
	intent.Casual: {
		"О, ",
		"Слушай, ",
		"Знаешь, ",
	},
	intent.Comparison: {
		"Если сравнивать, ",
		"Хм, сравним: ",
		"Тут есть нюансы: ",
	},
}

// Hedges are prepended below the high tier.
var Hedges = map[Tier][]string{
	Medium: {
		"Кажется, ",
		"Возможно, ",
		"Если я правильно понимаю, ",
	},
	Low: {
		"Не совсем уверен, но ",
		"Может быть, ",
		"Я еще учусь, но ",
	},
}

// Trailers are appended below the high tier.
var Trailers = map[Tier][]string{
	Medium: {
		" Надеюсь, это поможет! 😊",
		" Поправь меня, если что 🙂",
	},
	Low: {
		" Это то, что ты имел в виду? 🤔",
		" Можешь переформулировать, если я не понял.",
		" Я еще учусь понимать такие вопросы 📖",
	},
}

// Decorator applies Openings, Hedges and Trailers. Safe for concurrent use.
type Decorator struct {
	picker *phrase.Picker
}

// NewDecorator returns a decorator drawing phrases from picker.
func NewDecorator(picker *phrase.Picker) *Decorator {
	if picker == nil {
		picker = phrase.NewPicker(0)
	}
	return &Decorator{picker: picker}
}

// Decorate returns reply with tone templates for label and tier applied.
func (d *Decorator) Decorate(reply string, label intent.Label, tier Tier) string {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return reply
	}

	prefixed := false
	if tier == High {
		if opening := d.picker.Pick(Openings[label]); opening != "" {
			reply = opening + strings.ToLower(reply)
			prefixed = true
		}
	}
	if tier != High {
		if hedge := d.picker.Pick(Hedges[tier]); hedge != "" && !prefixed {
			reply = hedge + lowerFirst(reply)
		}
		if trailer := d.picker.Pick(Trailers[tier]); trailer != "" {
			reply += trailer
		}
	}
	logging.Get(logging.CategoryStyle).Debug("Decorated %s/%s reply", label, tier)
	return reply
}

// lowerFirst lower-cases the first rune so a hedge reads as one sentence.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
