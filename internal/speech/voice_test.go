package speech

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/adverant/nexus/lenslate/internal/language"
	"github.com/adverant/nexus/lenslate/internal/metrics"
)

var platformVoices = []Voice{
	{ID: "com.apple.voice.compact.en-GB.Daniel", Name: "Daniel", Locale: "en-GB"},
	{ID: "com.apple.voice.enhanced.en-US.Samantha", Name: "Samantha", Locale: "en-US"},
	{ID: "com.apple.voice.compact.tr-TR.Yelda", Name: "Yelda", Locale: "tr-TR"},
	{ID: "com.apple.voice.compact.de-DE.Helena", Name: "Helena", Locale: "de_DE"},
	{ID: "com.apple.voice.compact.ru-RU.Milena", Name: "Milena", Locale: "ru-RU"},
}

func TestSelect(t *testing.T) {
	t.Parallel()

	selector := NewSelector(nil, nil)

	tests := []struct {
		name   string
		code   language.Code
		voices []Voice
		wantID string
		stage  Stage
		ok     bool
	}{
		{name: "preferred voice", code: language.English, voices: platformVoices, wantID: "com.apple.voice.enhanced.en-US.Samantha", stage: StagePreferred, ok: true},
		{name: "locale match", code: language.German, voices: platformVoices, wantID: "com.apple.voice.compact.de-DE.Helena", stage: StageLocale, ok: true},
		{name: "related language", code: language.Azerbaijani, voices: platformVoices, wantID: "com.apple.voice.compact.tr-TR.Yelda", stage: StageFallback, ok: true},
		{name: "default language", code: language.Azerbaijani, voices: platformVoices[:2], wantID: "com.apple.voice.compact.en-GB.Daniel", stage: StageFallback, ok: true},
		{name: "nothing matches", code: language.French, voices: platformVoices[2:3], stage: StageNone},
		{name: "no voices", code: language.English, stage: StageNone},
		{name: "unknown language", code: "xx", voices: platformVoices, stage: StageNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voice, stage, ok := selector.Select(tt.code, tt.voices)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.stage, stage)
			require.Equal(t, tt.wantID, voice.ID)
		})
	}
}

func TestSelectLocaleNeedsExactPrefix(t *testing.T) {
	t.Parallel()

	selector := NewSelector(map[language.Code]Preference{}, nil)

	_, _, ok := selector.Select(language.English, []Voice{{ID: "x", Locale: "eng-US"}})
	require.False(t, ok)

	voice, stage, ok := selector.Select(language.English, []Voice{{ID: "y", Locale: "EN"}})
	require.True(t, ok)
	require.Equal(t, StageLocale, stage)
	require.Equal(t, "y", voice.ID)
}

func TestSelectIsDeterministic(t *testing.T) {
	t.Parallel()

	selector := NewSelector(nil, nil)
	first, _, _ := selector.Select(language.Russian, platformVoices)
	for i := 0; i < 20; i++ {
		again, _, _ := selector.Select(language.Russian, platformVoices)
		require.Equal(t, first, again)
	}
}

func TestSelectRecordsStage(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector(prometheus.NewRegistry())
	selector := NewSelector(nil, collector)

	selector.Select(language.Azerbaijani, platformVoices)
	selector.Select(language.French, nil)

	require.Equal(t, 1.0, testutil.ToFloat64(collector.VoiceSelections.WithLabelValues(string(StageFallback))))
	require.Equal(t, 1.0, testutil.ToFloat64(collector.VoiceSelections.WithLabelValues(string(StageNone))))
}

func TestParseVoices(t *testing.T) {
	t.Parallel()

	voices, err := ParseVoices([]string{" samantha = en-US ", "", "yelda=tr-TR"})
	require.NoError(t, err)
	require.Equal(t, []Voice{
		{ID: "samantha", Name: "samantha", Locale: "en-US"},
		{ID: "yelda", Name: "yelda", Locale: "tr-TR"},
	}, voices)

	for _, bad := range []string{"samantha", "=en-US", "samantha="} {
		_, err := ParseVoices([]string{bad})
		require.Error(t, err, bad)
	}
}
