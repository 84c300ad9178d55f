package translation

import (
	"sync"

	"github.com/adverant/nexus/lenslate/internal/language"
)

// Status reports whether the engine has a dictionary to resolve against.
type Status string

const (
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
)

// DefaultHistoryLimit caps the history when no limit is configured.
const DefaultHistoryLimit = 50

type cacheKey struct {
	text   string
	source language.Code
	target language.Code
}

// State is the engine state shared with presentation code: the active
// language pair, the in-progress flag, dictionary status, cache and history.
// All methods are safe for concurrent use.
type State struct {
	mu           sync.RWMutex
	source       language.Code
	target       language.Code
	inProgress   bool
	status       Status
	cache        map[cacheKey]Result
	history      []Result
	historyLimit int
}

// NewState creates a state for the given language pair. An empty source
// means the source language is identified per request.
func NewState(source, target language.Code, historyLimit int) *State {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &State{
		source:       source,
		target:       target,
		status:       StatusLoading,
		cache:        make(map[cacheKey]Result),
		history:      make([]Result, 0, historyLimit),
		historyLimit: historyLimit,
	}
}

// Languages returns the active source and target languages.
func (s *State) Languages() (source, target language.Code) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source, s.target
}

// SetLanguages replaces the active language pair.
func (s *State) SetLanguages(source, target language.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source, s.target = source, target
}

// SwapLanguages exchanges source and target. It does nothing and returns
// false while the source is auto-detected.
func (s *State) SwapLanguages() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == "" {
		return false
	}
	s.source, s.target = s.target, s.source
	return true
}

func (s *State) InProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress
}

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// History returns a copy of the history, newest first.
func (s *State) History() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Result(nil), s.history...)
}

func (s *State) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Lookup returns the cached result for (text, source, target).
func (s *State) Lookup(text string, source, target language.Code) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.cache[cacheKey{text: text, source: source, target: target}]
	return result, ok
}

// Commit stores result in the cache and prepends it to the history in one
// step, dropping the oldest history entry once the limit is exceeded.
func (s *State) Commit(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey{text: result.OriginalText, source: result.SourceLanguage, target: result.TargetLanguage}
	s.cache[key] = result

	s.history = append(s.history, Result{})
	copy(s.history[1:], s.history)
	s.history[0] = result
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

// Clear drops the cache and the history together.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[cacheKey]Result)
	s.history = make([]Result, 0, s.historyLimit)
}

func (s *State) setInProgress(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = v
}

func (s *State) setStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}
