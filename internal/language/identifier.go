package language

import (
	"context"
	"strings"
	"unicode"
)

// ScriptIdentifier is an offline stand-in for a platform language
// recognizer. It looks at script and language-specific letters only.
type ScriptIdentifier struct{}

// Letters that only occur in one of the supported Latin-script languages.
var distinctiveLetters = []struct {
	code    Code
	letters string
}{
	{Azerbaijani, "əƏ"},
	{Turkish, "ğĞıİşŞ"},
	{German, "ßäÄ"},
	{Spanish, "ñÑ¿¡"},
	{French, "œŒèÈêÊàÀ"},
}

// Identify implements Identifier.
func (ScriptIdentifier) Identify(_ context.Context, text string) (Code, bool) {
	var letters, cyrillic, latin int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	if letters == 0 {
		return "", false
	}
	if cyrillic*2 > letters {
		return Russian, true
	}
	if latin*2 <= letters {
		return "", false
	}
	// Azerbaijani shares ğ, ı and ş with Turkish, so ə is checked first.
	for _, d := range distinctiveLetters {
		if strings.ContainsAny(text, d.letters) {
			return d.code, true
		}
	}
	return English, true
}
