// Package sentiment provides a deterministic, offline polarity classifier for
// news text. It is keyword based: no external calls, same input always yields
// the same label.
package sentiment

import "strings"

// Label is the discrete sentiment bucket attached to a news item.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Classification thresholds on the compound score. Fixed policy, not
// configurable per call.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Glyph returns the marker used when rendering a news item to the user.
func (l Label) Glyph() string {
	switch l {
	case Positive:
		return "📈"
	case Negative:
		return "📉"
	default:
		return "⚠️"
	}
}

// bullish / bearish keyword dictionaries (lowercase). Weights express how
// strong a signal the word carries.
var bullishWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7,
	"upbeat": 0.5, "positive": 0.4, "growth": 0.4, "upgrade": 0.6,
	"outperform": 0.6, "buy": 0.5, "strong": 0.4, "recovery": 0.5,
	"breakout": 0.6, "record high": 0.7, "all-time high": 0.7,
	"beat": 0.5, "exceeds": 0.5, "expansion": 0.4, "profit": 0.3,
	"dividend": 0.4, "gain": 0.4, "jump": 0.5, "optimistic": 0.5,
}

var bearishWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6,
	"negative": 0.4, "downgrade": 0.6, "underperform": 0.6,
	"sell": 0.5, "weak": 0.4, "decline": 0.5, "loss": 0.4,
	"selloff": 0.7, "fall": 0.4, "correction": 0.5, "default": 0.7,
	"fraud": 0.8, "scam": 0.8, "investigation": 0.5, "miss": 0.5,
	"warning": 0.5, "concern": 0.3, "lawsuit": 0.6, "recall": 0.5,
	"drop": 0.4, "tumble": 0.6,
}

// placeholders that some news sources emit instead of an actual summary.
var placeholders = map[string]struct{}{
	"n/a": {}, "na": {}, "-": {}, "none": {}, "null": {},
}

// Score computes the compound polarity of text in [-1, 1]. Text with no
// lexicon hits scores 0.
func Score(text string) float64 {
	lower := strings.ToLower(text)

	bullScore := 0.0
	bearScore := 0.0

	for word, weight := range bullishWords {
		if strings.Contains(lower, word) {
			bullScore += weight
		}
	}
	for word, weight := range bearishWords {
		if strings.Contains(lower, word) {
			bearScore += weight
		}
	}

	total := bullScore + bearScore
	if total == 0 {
		return 0
	}

	// Net score normalized to -1..+1.
	return (bullScore - bearScore) / total
}

// FromScore maps a compound score onto a label using the fixed thresholds.
func FromScore(score float64) Label {
	switch {
	case score >= PositiveThreshold:
		return Positive
	case score <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Classify labels a piece of text. Empty or placeholder text is neutral
// regardless of score.
func Classify(text string) Label {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Neutral
	}
	if _, ok := placeholders[strings.ToLower(trimmed)]; ok {
		return Neutral
	}
	return FromScore(Score(trimmed))
}
