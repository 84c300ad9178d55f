// Package language holds the closed set of languages the core translates
// between, plus the boundary to the external language identification service.
package language

import (
	"context"
	"strings"

	xlanguage "golang.org/x/text/language"

	apperrors "github.com/adverant/nexus/lenslate/internal/errors"
)

// Code is an ISO 639-1 language code from the supported set.
type Code string

const (
	English     Code = "en"
	Azerbaijani Code = "az"
	Russian     Code = "ru"
	German      Code = "de"
	Turkish     Code = "tr"
	French      Code = "fr"
	Spanish     Code = "es"
)

// Details carries presentation fields for a language.
type Details struct {
	Code        Code
	DisplayName string
	Flag        string
}

// catalogue order is the order Supported reports.
var catalogue = []Details{
	{Code: English, DisplayName: "English", Flag: "🇬🇧"},
	{Code: Azerbaijani, DisplayName: "Azərbaycan", Flag: "🇦🇿"},
	{Code: Russian, DisplayName: "Русский", Flag: "🇷🇺"},
	{Code: German, DisplayName: "Deutsch", Flag: "🇩🇪"},
	{Code: Turkish, DisplayName: "Türkçe", Flag: "🇹🇷"},
	{Code: French, DisplayName: "Français", Flag: "🇫🇷"},
	{Code: Spanish, DisplayName: "Español", Flag: "🇪🇸"},
}

var byCode = func() map[Code]Details {
	m := make(map[Code]Details, len(catalogue))
	for _, d := range catalogue {
		m[d.Code] = d
	}
	return m
}()

// Supported returns every supported language in catalogue order.
func Supported() []Details {
	return append([]Details(nil), catalogue...)
}

// Info returns the presentation details for code.
func Info(code Code) (Details, bool) {
	d, ok := byCode[code]
	return d, ok
}

// IsSupported reports whether code belongs to the catalogue.
func (c Code) IsSupported() bool {
	_, ok := byCode[c]
	return ok
}

// String implements fmt.Stringer.
func (c Code) String() string { return string(c) }

// Parse maps any BCP-47 tag ("az", "az-Latn-AZ", "en_US") to a supported Code.
func Parse(tag string) (Code, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if cleaned == "" {
		return "", apperrors.NewUnsupportedLanguageError(tag)
	}
	parsed, err := xlanguage.Parse(cleaned)
	if err != nil {
		return "", apperrors.NewUnsupportedLanguageError(tag)
	}
	base, _ := parsed.Base()
	code := Code(base.String())
	if !code.IsSupported() {
		return "", apperrors.NewUnsupportedLanguageError(tag)
	}
	return code, nil
}

// MatchesLocale reports whether a locale identifier such as "az-AZ" or
// "en_US" has exactly code as its language prefix.
func MatchesLocale(code Code, locale string) bool {
	prefix := locale
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		prefix = locale[:i]
	}
	return strings.EqualFold(prefix, string(code))
}

// Identifier guesses the language of a string. ok is false when the
// identifier has no guess; any guess it returns is accepted as-is.
type Identifier interface {
	Identify(ctx context.Context, text string) (code Code, ok bool)
}

// IdentifierFunc adapts a function to Identifier.
type IdentifierFunc func(ctx context.Context, text string) (Code, bool)

// Identify implements Identifier.
func (f IdentifierFunc) Identify(ctx context.Context, text string) (Code, bool) {
	return f(ctx, text)
}
