package speech

import (
	"context"
	"regexp"
	"strings"
)

// Utterance is everything the speech engine needs for one playback.
type Utterance struct {
	Text   string  `json:"text"`
	Voice  *Voice  `json:"voice,omitempty"`
	Rate   float64 `json:"rate"`
	Volume float64 `json:"volume"`
}

// Synthesizer is the external speech engine. A nil Voice asks for the
// platform default.
type Synthesizer interface {
	Speak(ctx context.Context, u Utterance) error
}

type abbreviation struct {
	pattern     *regexp.Regexp
	replacement string
}

// abbreviations are applied in order.
var abbreviations = []abbreviation{
	{regexp.MustCompile(`\bDr\.`), "Doctor"},
	{regexp.MustCompile(`\bMrs\.`), "Missus"},
	{regexp.MustCompile(`\bMr\.`), "Mister"},
	{regexp.MustCompile(`\bMs\.`), "Miss"},
	{regexp.MustCompile(`\bSt\.`), "Street"},
	{regexp.MustCompile(`\bAve\.`), "Avenue"},
	{regexp.MustCompile(`\bNo\.\s*(\d)`), "Number $1"},
	{regexp.MustCompile(`\betc\.`), "et cetera"},
	{regexp.MustCompile(`\bvs\.`), "versus"},
	{regexp.MustCompile(`\s*&\s*`), " and "},
}

var (
	bracketMarker = regexp.MustCompile(`\[([^\[\]]*)\]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// CleanText removes untranslated [..] markers, keeping the text inside, and
// expands common abbreviations.
func CleanText(text string) string {
	text = bracketMarker.ReplaceAllString(text, "$1")
	for _, a := range abbreviations {
		text = a.pattern.ReplaceAllString(text, a.replacement)
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Clamp limits v to [0, 1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// PrepareUtterance cleans text and clamps rate and volume. ok is false when
// nothing is left to speak.
func PrepareUtterance(text string, voice *Voice, rate, volume float64) (Utterance, bool) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return Utterance{}, false
	}
	return Utterance{
		Text:   cleaned,
		Voice:  voice,
		Rate:   Clamp(rate),
		Volume: Clamp(volume),
	}, true
}
