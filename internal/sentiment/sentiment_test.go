package sentiment

import "testing"

func TestFromScoreBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Label
	}{
		{0.05, Positive},
		{-0.05, Negative},
		{0.049, Neutral},
		{-0.049, Neutral},
		{0, Neutral},
		{1, Positive},
		{-1, Negative},
	}

	for _, tc := range cases {
		if got := FromScore(tc.score); got != tc.want {
			t.Errorf("FromScore(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestClassifyEmptyAndPlaceholder(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t", "N/A", "n/a", "-", "None"} {
		if got := Classify(text); got != Neutral {
			t.Errorf("Classify(%q) = %s, want neutral", text, got)
		}
	}
}

func TestClassifyDirection(t *testing.T) {
	cases := []struct {
		text string
		want Label
	}{
		{"Shares surge after earnings beat, analysts upgrade to buy", Positive},
		{"Stock plunges amid fraud investigation and weak guidance", Negative},
		{"Company announces annual shareholder meeting date", Neutral},
		{"Strong rally lifts the index to a record high", Positive},
		{"Regulators open investigation into the selloff", Negative},
	}

	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s (score %v)", tc.text, got, tc.want, Score(tc.text))
		}
	}
}

func TestScoreRange(t *testing.T) {
	texts := []string{
		"surge rally breakout upgrade strong buy",
		"crash plunge fraud scam selloff",
		"mixed: rally then selloff, beat then miss",
		"nothing relevant here",
	}
	for _, text := range texts {
		s := Score(text)
		if s < -1 || s > 1 {
			t.Errorf("Score(%q) = %v outside [-1,1]", text, s)
		}
	}
}

func TestGlyphs(t *testing.T) {
	if Positive.Glyph() != "📈" || Negative.Glyph() != "📉" || Neutral.Glyph() != "⚠️" {
		t.Fatalf("unexpected glyph mapping: %s %s %s",
			Positive.Glyph(), Negative.Glyph(), Neutral.Glyph())
	}
}
