package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.InDelta(t, 0.7, cfg.MinConfidence, 1e-9)
	require.Equal(t, 3, cfg.MinTextLength)
	require.InDelta(t, 0.04, cfg.MinTextHeight, 1e-9)
	require.Equal(t, 6, cfg.MaxRegions)
	require.Equal(t, 500*time.Millisecond, cfg.DetectionInterval)
	require.Equal(t, 50, cfg.HistoryLimit)
	require.Equal(t, "en", cfg.FallbackLanguage)
	require.Equal(t, []string{"eng"}, cfg.TesseractLanguages)
	require.Empty(t, cfg.DictionaryPath)
	require.False(t, cfg.IsProduction())
}

func TestIsProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MAX_REGIONS", "4")
	t.Setenv("THINK_TIME", "0s")
	t.Setenv("TESSERACT_LANGUAGES", "eng,aze,rus")
	t.Setenv("SPEECH_VOICES", "v1=az-AZ,v2=tr-TR")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 4, cfg.MaxRegions)
	require.Zero(t, cfg.ThinkTime)
	require.Equal(t, []string{"eng", "aze", "rus"}, cfg.TesseractLanguages)
	require.Equal(t, []string{"v1=az-AZ", "v2=tr-TR"}, cfg.SpeechVoices)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("MIN_CONFIDENCE", "1.5")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "MIN_CONFIDENCE")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			MinConfidence:    0.7,
			MinTextLength:    3,
			MinTextHeight:    0.04,
			MaxRegions:       6,
			HistoryLimit:     50,
			FallbackLanguage: "en",
			TargetLanguage:   "az",
			SpeechRate:       0.5,
			SpeechVolume:     1,
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero regions", func(c *Config) { c.MaxRegions = 0 }, "MAX_REGIONS"},
		{"negative interval", func(c *Config) { c.DetectionInterval = -time.Second }, "DETECTION_INTERVAL"},
		{"history limit", func(c *Config) { c.HistoryLimit = 0 }, "HISTORY_LIMIT"},
		{"missing fallback", func(c *Config) { c.FallbackLanguage = "" }, "FALLBACK_LANGUAGE"},
		{"loud volume", func(c *Config) { c.SpeechVolume = 2 }, "SPEECH_VOLUME"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.want == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.want)
		})
	}
}
