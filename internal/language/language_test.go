package language

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/adverant/nexus/lenslate/internal/errors"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]Code{
		"en":         English,
		"az-Latn-AZ": Azerbaijani,
		"ru_RU":      Russian,
		" DE ":       German,
		"tr-TR":      Turkish,
	}
	for tag, want := range cases {
		got, err := Parse(tag)
		require.NoError(t, err, tag)
		require.Equal(t, want, got, tag)
	}
}

func TestParseRejectsUnsupported(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"", "ja", "not a tag!"} {
		_, err := Parse(tag)
		require.Error(t, err, tag)
		require.True(t, errors.Is(err, apperrors.ErrUnsupportedLanguage), tag)
	}
}

func TestSupportedCatalogue(t *testing.T) {
	t.Parallel()

	all := Supported()
	require.Equal(t, English, all[0].Code)
	for _, d := range all {
		require.True(t, d.Code.IsSupported())
		require.NotEmpty(t, d.DisplayName)
		info, ok := Info(d.Code)
		require.True(t, ok)
		require.Equal(t, d, info)
	}
	_, ok := Info("xx")
	require.False(t, ok)
}

func TestMatchesLocale(t *testing.T) {
	t.Parallel()

	require.True(t, MatchesLocale(Azerbaijani, "az-AZ"))
	require.True(t, MatchesLocale(English, "EN_us"))
	require.True(t, MatchesLocale(German, "de"))
	require.False(t, MatchesLocale(English, "eng-GB"))
	require.False(t, MatchesLocale(Azerbaijani, "tr-TR"))
}

func TestScriptIdentifier(t *testing.T) {
	t.Parallel()

	id := ScriptIdentifier{}
	ctx := context.Background()

	cases := []struct {
		text string
		want Code
		ok   bool
	}{
		{"Hello world", English, true},
		{"Доброе утро", Russian, true},
		{"Yaxşı səhər", Azerbaijani, true},
		{"Günaydın, nasılsın", Turkish, true},
		{"Straße", German, true},
		{"12345 !!", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := id.Identify(ctx, tc.text)
		require.Equal(t, tc.ok, ok, tc.text)
		require.Equal(t, tc.want, got, tc.text)
	}
}
