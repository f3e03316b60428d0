package knowledge

import (
	"strings"
	"unicode/utf8"

	"futurechat/internal/textnorm"
)

const (
	ScoreExact          = 1.0
	ScoreVariantInInput = 0.9
	ScoreInputInVariant = 0.8
	InterrogativeBonus  = 0.2

	// MaxOverlapScore keeps token-overlap strictly below an exact match and
	// the result inside [0,1].
	MaxOverlapScore = 0.95

	minInputRunesForContainment = 3
)

// Interrogatives earn the overlap bonus when shared by variant and input.
var Interrogatives = map[string]struct{}{
	"как": {}, "что": {}, "кто": {}, "где": {}, "когда": {}, "зачем": {}, "почему": {},
}

// ScoreVariant scores one normalized variant against normalized input.
func ScoreVariant(variant, input string) float64 {
	if variant == "" || input == "" {
		return 0
	}
	switch {
	case variant == input:
		return ScoreExact
	case strings.Contains(input, variant):
		return ScoreVariantInInput
	case strings.Contains(variant, input) && utf8.RuneCountInString(input) > minInputRunesForContainment:
		return ScoreInputInVariant
	}

	variantTokens := textnorm.TokenSet(variant)
	if len(variantTokens) == 0 {
		return 0
	}
	inputTokens := textnorm.TokenSet(input)
	common := 0
	bonus := false
	for tok := range variantTokens {
		if _, ok := inputTokens[tok]; !ok {
			continue
		}
		common++
		if _, ok := Interrogatives[tok]; ok {
			bonus = true
		}
	}
	if common == 0 {
		return 0
	}
	score := float64(common) / float64(len(variantTokens))
	if bonus {
		score += InterrogativeBonus
	}
	if score > MaxOverlapScore {
		score = MaxOverlapScore
	}
	return score
}
