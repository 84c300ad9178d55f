// Package speech picks synthesis voices and prepares text for the external
// speech engine.
package speech

import (
	"fmt"
	"strings"

	"github.com/adverant/nexus/lenslate/internal/language"
	"github.com/adverant/nexus/lenslate/internal/metrics"
)

// Voice is a synthesis voice offered by the platform.
type Voice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// Stage is the selector stage that produced a voice.
type Stage string

const (
	StagePreferred Stage = "preferred"
	StageLocale    Stage = "locale"
	StageFallback  Stage = "fallback"
	StageNone      Stage = "none"
)

// Preference is the static voice configuration for one language.
type Preference struct {
	// PreferredVoiceIDs are tried first, in order.
	PreferredVoiceIDs []string
	// Fallbacks are languages whose voices are acceptable, in order.
	Fallbacks []language.Code
}

// DefaultPreferences covers every supported language. Azerbaijani falls back
// to Turkish, the closest language platforms commonly ship voices for.
var DefaultPreferences = map[language.Code]Preference{
	language.English: {
		PreferredVoiceIDs: []string{"com.apple.voice.enhanced.en-US.Samantha", "com.apple.ttsbundle.Samantha-compact"},
	},
	language.Azerbaijani: {
		Fallbacks: []language.Code{language.Turkish, language.English},
	},
	language.Russian: {
		PreferredVoiceIDs: []string{"com.apple.voice.enhanced.ru-RU.Milena", "com.apple.ttsbundle.Milena-compact"},
		Fallbacks:         []language.Code{language.English},
	},
	language.German: {
		PreferredVoiceIDs: []string{"com.apple.voice.enhanced.de-DE.Anna", "com.apple.ttsbundle.Anna-compact"},
		Fallbacks:         []language.Code{language.English},
	},
	language.Turkish: {
		PreferredVoiceIDs: []string{"com.apple.voice.compact.tr-TR.Yelda"},
		Fallbacks:         []language.Code{language.Azerbaijani, language.English},
	},
	language.French: {
		PreferredVoiceIDs: []string{"com.apple.voice.compact.fr-FR.Thomas"},
		Fallbacks:         []language.Code{language.English},
	},
	language.Spanish: {
		PreferredVoiceIDs: []string{"com.apple.voice.compact.es-ES.Monica"},
		Fallbacks:         []language.Code{language.English},
	},
}

// Selector walks the voice fallback chain
type Selector struct {
	preferences map[language.Code]Preference
	metrics     *metrics.Collector
}

// NewSelector creates a selector. Nil preferences means DefaultPreferences.
func NewSelector(preferences map[language.Code]Preference, collector *metrics.Collector) *Selector {
	if preferences == nil {
		preferences = DefaultPreferences
	}
	return &Selector{preferences: preferences, metrics: collector}
}

// Select returns the first voice matched by, in order: a preferred voice ID,
// a voice whose locale matches code, then voices of each fallback language.
// Ties within a stage go to the earliest voice in voices.
func (s *Selector) Select(code language.Code, voices []Voice) (Voice, Stage, bool) {
	voice, stage, ok := s.selectVoice(code, voices)
	s.metrics.RecordVoiceSelection(string(stage))
	return voice, stage, ok
}

func (s *Selector) selectVoice(code language.Code, voices []Voice) (Voice, Stage, bool) {
	if len(voices) == 0 {
		return Voice{}, StageNone, false
	}

	pref := s.preferences[code]
	for _, id := range pref.PreferredVoiceIDs {
		for _, v := range voices {
			if v.ID == id {
				return v, StagePreferred, true
			}
		}
	}

	if v, ok := firstForLocale(code, voices); ok {
		return v, StageLocale, true
	}

	for _, fallback := range pref.Fallbacks {
		if v, ok := firstForLocale(fallback, voices); ok {
			return v, StageFallback, true
		}
	}

	return Voice{}, StageNone, false
}

func firstForLocale(code language.Code, voices []Voice) (Voice, bool) {
	for _, v := range voices {
		if language.MatchesLocale(code, v.Locale) {
			return v, true
		}
	}
	return Voice{}, false
}

// ParseVoices reads "id=locale" pairs, the format of the SPEECH_VOICES
// setting. The ID doubles as the display name.
func ParseVoices(entries []string) ([]Voice, error) {
	voices := make([]Voice, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, locale, ok := strings.Cut(entry, "=")
		id, locale = strings.TrimSpace(id), strings.TrimSpace(locale)
		if !ok || id == "" || locale == "" {
			return nil, fmt.Errorf("invalid voice %q, expected id=locale", entry)
		}
		voices = append(voices, Voice{ID: id, Name: id, Locale: locale})
	}
	return voices, nil
}
