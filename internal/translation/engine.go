/**
 * Translation Resolution Engine - offline dictionary lookup with caching
 *
 * Resolution order, first match wins:
 *   1. phrase table, key lowercased with whitespace runs joined by "_"
 *   2. word table, key lowercased
 *   3. word-by-word over whitespace tokens (multi-token input only)
 *   4. bracket-wrapped echo of the input
 *
 * Keys are normalised when the dictionary is loaded, so no scan over the
 * table is ever needed. Cache hits return immediately; fresh resolutions run
 * one at a time behind the think-time delay and are committed to cache and
 * history together.
 */

package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/adverant/nexus/lenslate/internal/errors"
	"github.com/adverant/nexus/lenslate/internal/language"
	"github.com/adverant/nexus/lenslate/internal/logging"
	"github.com/adverant/nexus/lenslate/internal/metrics"
)

var tracer = otel.Tracer("github.com/adverant/nexus/lenslate/internal/translation")

// UnavailablePlaceholder is returned while no dictionary is loaded.
const UnavailablePlaceholder = "dictionary not loaded"

// DefaultThinkTime is the simulated backend delay for fresh resolutions.
const DefaultThinkTime = 300 * time.Millisecond

// Tier is the dictionary tier that produced a translation.
type Tier string

const (
	TierPhrase      Tier = "phrase"
	TierWord        Tier = "word"
	TierWordByWord  Tier = "word_by_word"
	TierNone        Tier = "none"
	TierUnavailable Tier = "unavailable"
)

// Confidence returns the upper bound on confidence for the tier.
func (t Tier) Confidence() float64 {
	switch t {
	case TierPhrase, TierWord:
		return 0.9
	case TierWordByWord:
		return 0.5
	default:
		return 0.0
	}
}

// Result is an immutable resolution outcome.
type Result struct {
	OriginalText   string        `json:"original_text"`
	TranslatedText string        `json:"translated_text"`
	SourceLanguage language.Code `json:"source_language"`
	TargetLanguage language.Code `json:"target_language"`
	Confidence     float64       `json:"confidence"`
	Tier           Tier          `json:"tier"`
	Timestamp      time.Time     `json:"timestamp"`
	FromCache      bool          `json:"from_cache"`
}

// Request asks for text to be resolved. An empty Source is identified.
type Request struct {
	Text   string
	Source language.Code
	Target language.Code
}

// EngineConfig holds engine configuration
type EngineConfig struct {
	Loader           Loader
	Identifier       language.Identifier
	FallbackLanguage language.Code
	SourceLanguage   language.Code
	TargetLanguage   language.Code
	ThinkTime        time.Duration
	HistoryLimit     int
	Metrics          *metrics.Collector
	Logger           *logging.Logger

	// Now is the clock; time.Now when nil
	Now func() time.Time
}

// Engine resolves text against a dictionary table
type Engine struct {
	loader     Loader
	identifier language.Identifier
	fallback   language.Code
	thinkTime  time.Duration
	metrics    *metrics.Collector
	logger     *logging.Logger
	now        func() time.Time
	state      *State

	// slot admits one fresh resolution at a time
	slot chan struct{}

	tableMu sync.RWMutex
	table   Table
}

// NewEngine creates an engine and performs the initial dictionary load. A
// load failure is not returned: the engine reports StatusUnavailable until
// Reload succeeds.
func NewEngine(ctx context.Context, cfg *EngineConfig) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.Loader == nil {
		return nil, fmt.Errorf("dictionary loader is required")
	}

	if !cfg.FallbackLanguage.IsSupported() {
		return nil, apperrors.NewUnsupportedLanguageError(string(cfg.FallbackLanguage))
	}

	if !cfg.TargetLanguage.IsSupported() {
		return nil, apperrors.NewUnsupportedLanguageError(string(cfg.TargetLanguage))
	}

	if cfg.SourceLanguage != "" && !cfg.SourceLanguage.IsSupported() {
		return nil, apperrors.NewUnsupportedLanguageError(string(cfg.SourceLanguage))
	}

	if cfg.ThinkTime < 0 {
		return nil, fmt.Errorf("think time must not be negative, got %v", cfg.ThinkTime)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		loader:     cfg.Loader,
		identifier: cfg.Identifier,
		fallback:   cfg.FallbackLanguage,
		thinkTime:  cfg.ThinkTime,
		metrics:    cfg.Metrics,
		logger:     logger,
		now:        now,
		state:      NewState(cfg.SourceLanguage, cfg.TargetLanguage, cfg.HistoryLimit),
		slot:       make(chan struct{}, 1),
	}

	if err := e.Reload(ctx); err != nil {
		logger.Error("Dictionary unavailable, resolutions will return a placeholder", "error", err)
	}

	return e, nil
}

// State returns the shared engine state.
func (e *Engine) State() *State {
	return e.state
}

// Reload re-reads the dictionary and replaces the table as a whole. Cache
// and history are left alone. On failure the previous table, if any, stays
// in use.
func (e *Engine) Reload(ctx context.Context) error {
	table, err := e.loader.Load(ctx)
	e.metrics.RecordDictionaryLoad(err)

	if err != nil {
		if e.currentTable() == nil {
			e.state.setStatus(StatusUnavailable)
		}
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	e.tableMu.Lock()
	e.table = table
	e.tableMu.Unlock()
	e.state.setStatus(StatusReady)

	meta := table.Metadata()
	e.logger.Info("Dictionary loaded",
		"version", meta.Version,
		"total_entries", meta.TotalEntries,
		"languages", meta.SupportedLanguages)

	return nil
}

// Translate resolves text using the state's active language pair.
func (e *Engine) Translate(ctx context.Context, text string) (*Result, error) {
	source, target := e.state.Languages()
	return e.Resolve(ctx, Request{Text: text, Source: source, Target: target})
}

// Resolve produces a translation for req. Missing dictionary entries are not
// errors; errors are returned for empty input, unsupported languages and a
// ctx that ends before a fresh resolution completes.
func (e *Engine) Resolve(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperrors.NewEmptyInputError()
	}

	if !req.Target.IsSupported() {
		return nil, apperrors.NewUnsupportedLanguageError(string(req.Target))
	}

	if req.Source != "" && !req.Source.IsSupported() {
		return nil, apperrors.NewUnsupportedLanguageError(string(req.Source))
	}

	ctx, span := tracer.Start(ctx, "translation.Resolve", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	source := e.resolveSource(ctx, req.Source, text)
	span.SetAttributes(
		attribute.String("translation.source", string(source)),
		attribute.String("translation.target", string(req.Target)),
		attribute.Int("translation.text_length", len(text)),
	)

	if e.currentTable() == nil {
		span.SetAttributes(attribute.String("translation.tier", string(TierUnavailable)))
		e.logger.Debug("Returning placeholder", "error", apperrors.NewDictionaryNotLoadedError(nil))
		return &Result{
			OriginalText:   text,
			TranslatedText: UnavailablePlaceholder,
			SourceLanguage: source,
			TargetLanguage: req.Target,
			Confidence:     0.0,
			Tier:           TierUnavailable,
			Timestamp:      e.now(),
		}, nil
	}

	if result, ok := e.cached(text, source, req.Target); ok {
		span.SetAttributes(attribute.Bool("translation.cache_hit", true))
		return result, nil
	}

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		err := apperrors.NewResolutionCanceledError(text, ctx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled waiting for resolution slot")
		return nil, err
	}
	defer func() { <-e.slot }()

	e.state.setInProgress(true)
	defer e.state.setInProgress(false)

	// Another request may have resolved the same key while this one waited.
	if result, ok := e.cached(text, source, req.Target); ok {
		span.SetAttributes(attribute.Bool("translation.cache_hit", true))
		return result, nil
	}

	start := e.now()
	if err := e.think(ctx); err != nil {
		err = apperrors.NewResolutionCanceledError(text, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled during resolution")
		return nil, err
	}

	// Read after waiting so a Reload that finished meanwhile is honoured
	translated, tier := resolveText(e.currentTable(), text, req.Target)
	result := Result{
		OriginalText:   text,
		TranslatedText: translated,
		SourceLanguage: source,
		TargetLanguage: req.Target,
		Confidence:     scoreConfidence(text, translated, tier),
		Tier:           tier,
		Timestamp:      e.now(),
	}
	e.state.Commit(result)

	e.metrics.RecordResolution(string(tier), e.now().Sub(start))
	span.SetAttributes(
		attribute.Bool("translation.cache_hit", false),
		attribute.String("translation.tier", string(tier)),
		attribute.Float64("translation.confidence", result.Confidence),
	)
	span.SetStatus(codes.Ok, "")
	e.logger.Debug("Resolved text",
		"source", source,
		"target", req.Target,
		"tier", tier,
		"confidence", result.Confidence)

	return &result, nil
}

// currentTable returns the loaded table. Once set it is never reset to nil.
func (e *Engine) currentTable() Table {
	e.tableMu.RLock()
	defer e.tableMu.RUnlock()
	return e.table
}

func (e *Engine) cached(text string, source, target language.Code) (*Result, bool) {
	result, ok := e.state.Lookup(text, source, target)
	if !ok {
		return nil, false
	}
	e.metrics.RecordCacheHit()
	result.Timestamp = e.now()
	result.FromCache = true
	return &result, true
}

func (e *Engine) resolveSource(ctx context.Context, source language.Code, text string) language.Code {
	if source != "" {
		return source
	}
	if e.identifier != nil {
		if guess, ok := e.identifier.Identify(ctx, text); ok && guess.IsSupported() {
			return guess
		}
	}
	return e.fallback
}

func (e *Engine) think(ctx context.Context) error {
	if e.thinkTime <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(e.thinkTime)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func resolveText(table Table, text string, target language.Code) (string, Tier) {
	if translated, tier, ok := lookup(table, text, target); ok {
		return translated, tier
	}

	tokens := strings.Fields(text)
	if len(tokens) > 1 {
		parts := make([]string, len(tokens))
		for i, token := range tokens {
			parts[i] = token
			prefix, core, suffix := splitPunct(token)
			if core == "" {
				continue
			}
			if translated, _, ok := lookup(table, core, target); ok {
				parts[i] = prefix + translated + suffix
			}
		}
		if joined := strings.Join(parts, " "); joined != strings.Join(tokens, " ") {
			return joined, TierWordByWord
		}
	}

	return "[" + text + "]", TierNone
}

func lookup(table Table, text string, target language.Code) (string, Tier, bool) {
	if translated, ok := table.LookupPhrase(PhraseKey(text), target); ok {
		return translated, TierPhrase, true
	}
	if translated, ok := table.LookupWord(WordKey(text), target); ok {
		return translated, TierWord, true
	}
	return "", TierNone, false
}

// splitPunct separates leading and trailing punctuation from a token.
func splitPunct(token string) (prefix, core, suffix string) {
	isPunct := func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }
	core = strings.TrimLeftFunc(token, isPunct)
	prefix = token[:len(token)-len(core)]
	trimmed := strings.TrimRightFunc(core, isPunct)
	suffix = core[len(trimmed):]
	return prefix, trimmed, suffix
}

// scoreConfidence applies the output-shape rule: a bracket echo scores 0.0,
// output still containing the input scores 0.5, anything else 0.9. The tier
// caps the result so word-by-word output never reports full confidence.
func scoreConfidence(input, output string, tier Tier) float64 {
	shape := 0.9
	switch {
	case strings.HasPrefix(output, "[") && strings.HasSuffix(output, "]"):
		shape = 0.0
	case strings.Contains(output, input):
		shape = 0.5
	}
	if c := tier.Confidence(); c < shape {
		return c
	}
	return shape
}
