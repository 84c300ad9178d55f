package speech

import (
	"context"
	"fmt"

	"github.com/adverant/nexus/lenslate/internal/language"
	"github.com/adverant/nexus/lenslate/internal/logging"
)

// SpeakerConfig holds speaker configuration
type SpeakerConfig struct {
	Synthesizer Synthesizer
	Selector    *Selector
	Voices      []Voice
	Rate        float64
	Volume      float64
}

// Playback describes one utterance handed to the synthesizer
type Playback struct {
	Utterance Utterance `json:"utterance"`
	Stage     Stage     `json:"voice_stage"`
}

// Speaker selects a voice for a translation and hands the cleaned text to
// the synthesizer.
type Speaker struct {
	synth    Synthesizer
	selector *Selector
	voices   []Voice
	rate     float64
	volume   float64
}

// NewSpeaker creates a speaker. A nil Selector uses the default preferences.
func NewSpeaker(cfg *SpeakerConfig) (*Speaker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.Synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}

	selector := cfg.Selector
	if selector == nil {
		selector = NewSelector(nil, nil)
	}

	return &Speaker{
		synth:    cfg.Synthesizer,
		selector: selector,
		voices:   append([]Voice(nil), cfg.Voices...),
		rate:     cfg.Rate,
		volume:   cfg.Volume,
	}, nil
}

// Speak plays text in language code. It returns nil without calling the
// synthesizer when nothing is left to speak after cleaning. When no voice
// matches, the utterance carries a nil Voice and the platform default applies.
func (s *Speaker) Speak(ctx context.Context, code language.Code, text string) (*Playback, error) {
	var voice *Voice
	selected, stage, ok := s.selector.Select(code, s.voices)
	if ok {
		voice = &selected
	}

	u, ok := PrepareUtterance(text, voice, s.rate, s.volume)
	if !ok {
		return nil, nil
	}

	playback := &Playback{Utterance: u, Stage: stage}
	if err := s.synth.Speak(ctx, u); err != nil {
		return playback, fmt.Errorf("speech synthesis failed: %w", err)
	}
	return playback, nil
}

// LogSynthesizer writes utterances to a logger instead of producing audio
type LogSynthesizer struct {
	Logger *logging.Logger
}

// Speak implements Synthesizer.
func (l LogSynthesizer) Speak(ctx context.Context, u Utterance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	voiceID := ""
	if u.Voice != nil {
		voiceID = u.Voice.ID
	}
	if l.Logger != nil {
		l.Logger.Info("Speaking", "text", u.Text, "voice", voiceID, "rate", u.Rate, "volume", u.Volume)
	}
	return nil
}
