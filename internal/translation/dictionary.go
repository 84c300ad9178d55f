package translation

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	apperrors "github.com/adverant/nexus/lenslate/internal/errors"
	"github.com/adverant/nexus/lenslate/internal/language"
)

// PhraseJoiner replaces whitespace runs in phrase keys.
const PhraseJoiner = "_"

//go:embed assets/dictionary.json
var bundledDictionary []byte

// Metadata describes a dictionary document.
type Metadata struct {
	Version            string   `yaml:"version" json:"version"`
	SupportedLanguages []string `yaml:"supported_languages" json:"supported_languages"`
	LastUpdated        string   `yaml:"last_updated" json:"last_updated"`
	TotalEntries       int      `yaml:"total_entries" json:"total_entries"`
}

// Table is the read side of a loaded dictionary. Keys passed in must already
// be normalised with WordKey or PhraseKey.
type Table interface {
	Metadata() Metadata
	LookupPhrase(key string, target language.Code) (string, bool)
	LookupWord(key string, target language.Code) (string, bool)
}

type entries map[string]map[language.Code]string

// Dictionary is an immutable word and phrase table. Keys are normalised
// when the document is parsed.
type Dictionary struct {
	metadata Metadata
	words    entries
	phrases  entries
}

var _ Table = (*Dictionary)(nil)

// Metadata implements Table.
func (d *Dictionary) Metadata() Metadata { return d.metadata }

// LookupPhrase implements Table.
func (d *Dictionary) LookupPhrase(key string, target language.Code) (string, bool) {
	return d.phrases.lookup(key, target)
}

// LookupWord implements Table.
func (d *Dictionary) LookupWord(key string, target language.Code) (string, bool) {
	return d.words.lookup(key, target)
}

// WordCount returns the number of word entries.
func (d *Dictionary) WordCount() int { return len(d.words) }

// PhraseCount returns the number of phrase entries.
func (d *Dictionary) PhraseCount() int { return len(d.phrases) }

func (e entries) lookup(key string, target language.Code) (string, bool) {
	targets, ok := e[key]
	if !ok {
		return "", false
	}
	translation, ok := targets[target]
	if !ok || translation == "" {
		return "", false
	}
	return translation, true
}

// WordKey normalises text into a word-table key.
func WordKey(text string) string {
	return cases.Lower(xlanguage.Und).String(strings.TrimSpace(text))
}

// PhraseKey normalises text into a phrase-table key.
func PhraseKey(text string) string {
	return strings.Join(strings.Fields(WordKey(text)), PhraseJoiner)
}

// ParseDictionary reads a JSON or YAML dictionary document. Keys that
// normalise to the same value keep the first occurrence in document order.
func ParseDictionary(data []byte, source string) (*Dictionary, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, apperrors.NewDictionaryMalformedError(source, fmt.Errorf("empty document"))
	}
	// Tabs are only whitespace in valid JSON, but YAML rejects them as indentation.
	if trimmed[0] == '{' {
		trimmed = bytes.ReplaceAll(trimmed, []byte("\t"), []byte(" "))
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, apperrors.NewDictionaryMalformedError(source, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, apperrors.NewDictionaryMalformedError(source, fmt.Errorf("top level must be a mapping"))
	}

	dict := &Dictionary{}
	var sawWords, sawPhrases bool
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		var err error
		switch key {
		case "metadata":
			err = value.Decode(&dict.metadata)
		case "words":
			sawWords = true
			dict.words, err = decodeEntries(value, WordKey)
		case "phrases":
			sawPhrases = true
			dict.phrases, err = decodeEntries(value, PhraseKey)
		}
		if err != nil {
			return nil, apperrors.NewDictionaryMalformedError(source, fmt.Errorf("%s: %w", key, err))
		}
	}

	if !sawWords || !sawPhrases {
		return nil, apperrors.NewDictionaryMalformedError(source, fmt.Errorf("words and phrases tables are required"))
	}
	if dict.metadata.TotalEntries == 0 {
		dict.metadata.TotalEntries = len(dict.words) + len(dict.phrases)
	}

	return dict, nil
}

func decodeEntries(node *yaml.Node, normalize func(string) string) (entries, error) {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return entries{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	out := make(entries, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := normalize(node.Content[i].Value)
		if key == "" {
			continue
		}
		if _, dup := out[key]; dup {
			continue
		}

		var raw map[string]string
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Content[i+1].Line, err)
		}
		targets := make(map[language.Code]string, len(raw))
		for code, translation := range raw {
			targets[language.Code(strings.ToLower(strings.TrimSpace(code)))] = translation
		}
		out[key] = targets
	}
	return out, nil
}

// Loader produces a dictionary table. Reload calls it again.
type Loader interface {
	Load(ctx context.Context) (Table, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (Table, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (Table, error) { return f(ctx) }

// FileLoader reads a dictionary document from disk.
type FileLoader struct {
	Path string
}

// Load implements Loader.
func (l FileLoader) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewDictionaryMissingError(l.Path, err)
		}
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	dict, err := ParseDictionary(data, l.Path)
	if err != nil {
		return nil, err
	}
	return dict, nil
}

// EmbeddedLoader loads the dictionary bundled into the binary.
type EmbeddedLoader struct{}

// Load implements Loader.
func (EmbeddedLoader) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dict, err := ParseDictionary(bundledDictionary, "bundled")
	if err != nil {
		return nil, err
	}
	return dict, nil
}
