package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adverant/nexus/lenslate/internal/language"
	"github.com/adverant/nexus/lenslate/internal/logging"
)

type recordingSynthesizer struct {
	spoken []Utterance
	err    error
}

func (r *recordingSynthesizer) Speak(_ context.Context, u Utterance) error {
	r.spoken = append(r.spoken, u)
	return r.err
}

func TestSpeakerHandsUtteranceToSynthesizer(t *testing.T) {
	t.Parallel()

	synth := &recordingSynthesizer{}
	speaker, err := NewSpeaker(&SpeakerConfig{
		Synthesizer: synth,
		Voices:      platformVoices,
		Rate:        2,
		Volume:      0.8,
	})
	require.NoError(t, err)

	playback, err := speaker.Speak(context.Background(), language.Azerbaijani, "[Çıxış] & Giriş")
	require.NoError(t, err)
	require.Equal(t, StageFallback, playback.Stage)

	require.Len(t, synth.spoken, 1)
	u := synth.spoken[0]
	require.Equal(t, "Çıxış and Giriş", u.Text)
	require.Equal(t, "com.apple.voice.compact.tr-TR.Yelda", u.Voice.ID)
	require.Equal(t, 1.0, u.Rate)
	require.Equal(t, 0.8, u.Volume)
}

func TestSpeakerWithoutVoiceUsesPlatformDefault(t *testing.T) {
	t.Parallel()

	synth := &recordingSynthesizer{}
	speaker, err := NewSpeaker(&SpeakerConfig{Synthesizer: synth, Rate: 0.5, Volume: 1})
	require.NoError(t, err)

	playback, err := speaker.Speak(context.Background(), language.French, "Sortie")
	require.NoError(t, err)
	require.Equal(t, StageNone, playback.Stage)
	require.Nil(t, synth.spoken[0].Voice)
}

func TestSpeakerSkipsEmptyText(t *testing.T) {
	t.Parallel()

	synth := &recordingSynthesizer{}
	speaker, err := NewSpeaker(&SpeakerConfig{Synthesizer: synth})
	require.NoError(t, err)

	playback, err := speaker.Speak(context.Background(), language.English, "[ ]")
	require.NoError(t, err)
	require.Nil(t, playback)
	require.Empty(t, synth.spoken)
}

func TestSpeakerReportsSynthesisFailure(t *testing.T) {
	t.Parallel()

	synth := &recordingSynthesizer{err: errors.New("audio session unavailable")}
	speaker, err := NewSpeaker(&SpeakerConfig{Synthesizer: synth, Voices: platformVoices})
	require.NoError(t, err)

	playback, err := speaker.Speak(context.Background(), language.English, "Exit")
	require.Error(t, err)
	require.Contains(t, err.Error(), "audio session unavailable")
	require.NotNil(t, playback)
}

func TestNewSpeakerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewSpeaker(nil)
	require.Error(t, err)

	_, err = NewSpeaker(&SpeakerConfig{})
	require.Error(t, err)
}

func TestLogSynthesizer(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	synth := LogSynthesizer{Logger: logging.FromZap(zap.New(core), "speech")}

	voice := &Voice{ID: "yelda", Locale: "tr-TR"}
	require.NoError(t, synth.Speak(context.Background(), Utterance{Text: "Salam", Voice: voice, Rate: 0.5, Volume: 1}))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "Salam", entries[0].ContextMap()["text"])
	require.Equal(t, "yelda", entries[0].ContextMap()["voice"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, synth.Speak(ctx, Utterance{Text: "Salam"}), context.Canceled)
}
