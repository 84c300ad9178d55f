package translation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/adverant/nexus/lenslate/internal/errors"
	"github.com/adverant/nexus/lenslate/internal/language"
)

const yamlDictionary = `
metadata:
  version: "2.0"
  supported_languages: [en, az]
  last_updated: "2026-01-10"
words:
  Hello:
    az: Salam
  hello:
    az: Duplicate
  " Exit ":
    AZ: Çıxış
phrases:
  "Good   Morning":
    az: Sabahınız xeyir
`

func TestParseDictionaryYAML(t *testing.T) {
	t.Parallel()

	dict, err := ParseDictionary([]byte(yamlDictionary), "test.yaml")
	require.NoError(t, err)

	meta := dict.Metadata()
	require.Equal(t, "2.0", meta.Version)
	require.Equal(t, []string{"en", "az"}, meta.SupportedLanguages)
	require.Equal(t, 3, meta.TotalEntries)
	require.Equal(t, 2, dict.WordCount())
	require.Equal(t, 1, dict.PhraseCount())

	got, ok := dict.LookupWord("hello", language.Azerbaijani)
	require.True(t, ok)
	require.Equal(t, "Salam", got, "first occurrence wins")

	got, ok = dict.LookupWord("exit", language.Azerbaijani)
	require.True(t, ok)
	require.Equal(t, "Çıxış", got)

	got, ok = dict.LookupPhrase("good_morning", language.Azerbaijani)
	require.True(t, ok)
	require.Equal(t, "Sabahınız xeyir", got)

	_, ok = dict.LookupWord("hello", language.Russian)
	require.False(t, ok)
	_, ok = dict.LookupWord("missing", language.Azerbaijani)
	require.False(t, ok)
}

func TestParseDictionaryJSON(t *testing.T) {
	t.Parallel()

	doc := "{\n\t\"metadata\": {\"version\": \"1\", \"total_entries\": 99},\n\t\"words\": {\"Open\": {\"az\": \"Açıq\", \"ru\": \"\"}},\n\t\"phrases\": {}\n}"

	dict, err := ParseDictionary([]byte(doc), "test.json")
	require.NoError(t, err)
	require.Equal(t, 99, dict.Metadata().TotalEntries)

	got, ok := dict.LookupWord("open", language.Azerbaijani)
	require.True(t, ok)
	require.Equal(t, "Açıq", got)

	_, ok = dict.LookupWord("open", language.Russian)
	require.False(t, ok, "empty translations are treated as missing")
}

func TestParseDictionaryMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: "   "},
		{name: "syntax", doc: `{"words": {`},
		{name: "scalar root", doc: `"just a string"`},
		{name: "missing phrases", doc: `{"words": {}}`},
		{name: "missing words", doc: `{"phrases": {}}`},
		{name: "words not a mapping", doc: `{"words": ["a", "b"], "phrases": {}}`},
		{name: "entry not a mapping", doc: `{"words": {"hello": "Salam"}, "phrases": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, err := ParseDictionary([]byte(tt.doc), "broken")
			require.Nil(t, dict)
			require.ErrorIs(t, err, apperrors.ErrDictionaryMalformed)
		})
	}
}

func TestParseDictionaryNullTables(t *testing.T) {
	t.Parallel()

	dict, err := ParseDictionary([]byte("words:\nphrases:\n"), "nulls")
	require.NoError(t, err)
	require.Zero(t, dict.WordCount())
	require.Zero(t, dict.PhraseCount())
}

func TestKeys(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello", WordKey("  HeLLo "))
	require.Equal(t, "good_morning", PhraseKey("Good \t Morning"))
	require.Equal(t, "çıxış", WordKey("Çıxış"))
	require.Equal(t, "привет", WordKey("Привет"))
}

func TestFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "dictionary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDictionary), 0o600))

	table, err := FileLoader{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.0", table.Metadata().Version)

	table, err = FileLoader{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	require.Nil(t, table)
	require.ErrorIs(t, err, apperrors.ErrDictionaryMissing)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FileLoader{Path: path}.Load(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	table, err := EmbeddedLoader{}.Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, table.Metadata().Version)
	require.Positive(t, table.Metadata().TotalEntries)

	got, ok := table.LookupWord("hello", language.Azerbaijani)
	require.True(t, ok)
	require.Equal(t, "Salam", got)

	got, ok = table.LookupPhrase("good_morning", language.German)
	require.True(t, ok)
	require.Equal(t, "Guten Morgen", got)
}
