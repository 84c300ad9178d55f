/**
 * Region Filter - turns raw OCR observations into a small ranked set
 *
 * Every observation must pass the confidence, length, height and readability
 * predicates. Survivors are ranked by confidence (ties keep input order) and
 * capped at MaxResults. The filter is a pure function of its inputs.
 */

package processor

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// RejectionReason names the predicate an observation failed
type RejectionReason string

const (
	RejectLowConfidence   RejectionReason = "low_confidence"
	RejectTooShort        RejectionReason = "too_short"
	RejectTooSmall        RejectionReason = "too_small"
	RejectSingleCharacter RejectionReason = "single_character"
	RejectLowAlphaRatio   RejectionReason = "low_alpha_ratio"
	RejectSeparator       RejectionReason = "separator_pattern"
	RejectNumericHeavy    RejectionReason = "numeric_heavy"
	RejectOutOfRange      RejectionReason = "out_of_range"
)

// FilterConfig holds the filter thresholds
type FilterConfig struct {
	MinConfidence float64
	MinLength     int     // runes, after trimming
	MinTextHeight float64 // fraction of frame height
	MaxResults    int

	// Readability heuristic
	AllowedSingleCharacters []string
	MinAlphaRatio           float64
	MaxDigitRatio           float64
	RejectPatterns          []*regexp.Regexp

	// NewID issues region identifiers; uuid.NewString when nil
	NewID func() string
}

// defaultRejectPatterns match separator rules and barcode-like digit runs
var defaultRejectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\|{2,}`),
	regexp.MustCompile(`-{2,}`),
	regexp.MustCompile(`={2,}`),
	regexp.MustCompile(`_{2,}`),
	regexp.MustCompile(`[0-9]{8,}`),
}

// DefaultFilterConfig returns the standard thresholds
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinConfidence:           0.7,
		MinLength:               3,
		MinTextHeight:           0.04,
		MaxResults:              6,
		AllowedSingleCharacters: []string{"I", "A", "a"},
		MinAlphaRatio:           0.5,
		MaxDigitRatio:           0.8,
		RejectPatterns:          defaultRejectPatterns,
	}
}

// FilterReport summarises one filtering pass
type FilterReport struct {
	Observed  int
	Accepted  int
	Truncated int
	Rejected  map[RejectionReason]int
}

// Filter returns the ranked, capped regions that pass every predicate
func Filter(observations []TextObservation, cfg FilterConfig) []RankedRegion {
	regions, _ := FilterWithReport(observations, cfg)
	return regions
}

// FilterWithReport is Filter plus per-reason rejection counts
func FilterWithReport(observations []TextObservation, cfg FilterConfig) ([]RankedRegion, FilterReport) {
	report := FilterReport{
		Observed: len(observations),
		Rejected: map[RejectionReason]int{},
	}
	if len(observations) == 0 {
		return []RankedRegion{}, report
	}

	survivors := make([]TextObservation, 0, len(observations))
	for _, obs := range observations {
		if reason, ok := Evaluate(obs, cfg); !ok {
			report.Rejected[reason]++
			continue
		}
		survivors = append(survivors, obs)
	}

	// Stable sort keeps input order among equal confidences
	slices.SortStableFunc(survivors, func(a, b TextObservation) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		default:
			return 0
		}
	})

	if cfg.MaxResults > 0 && len(survivors) > cfg.MaxResults {
		report.Truncated = len(survivors) - cfg.MaxResults
		survivors = survivors[:cfg.MaxResults]
	}

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	regions := make([]RankedRegion, 0, len(survivors))
	for _, obs := range survivors {
		regions = append(regions, RankedRegion{
			ID:          newID(),
			Text:        strings.TrimSpace(obs.Text),
			BoundingBox: obs.BoundingBox,
			Confidence:  obs.Confidence,
		})
	}
	report.Accepted = len(regions)

	return regions, report
}

// Evaluate applies all predicates to a single observation
func Evaluate(obs TextObservation, cfg FilterConfig) (RejectionReason, bool) {
	if !unitInterval(obs.Confidence) || !unitInterval(obs.BoundingBox.Height) {
		return RejectOutOfRange, false
	}

	if !(obs.Confidence >= cfg.MinConfidence) {
		return RejectLowConfidence, false
	}

	text := strings.TrimSpace(obs.Text)
	length := utf8.RuneCountInString(text)
	allowedSingle := length == 1 && slices.Contains(cfg.AllowedSingleCharacters, text)

	// Allow-listed single characters are exempt from the length threshold
	if length < cfg.MinLength && !allowedSingle {
		return RejectTooShort, false
	}

	if !(obs.BoundingBox.Height >= cfg.MinTextHeight) {
		return RejectTooSmall, false
	}

	return checkReadability(text, length, allowedSingle, cfg)
}

// unitInterval reports whether v is a number in [0, 1]; NaN is not
func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// checkReadability rejects detections that do not look like words
func checkReadability(text string, length int, allowedSingle bool, cfg FilterConfig) (RejectionReason, bool) {
	if length == 0 {
		return RejectTooShort, false
	}

	if length == 1 && !allowedSingle {
		return RejectSingleCharacter, false
	}

	var letters, digits int
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}

	// Checked before the alpha ratio so serials are reported as numeric
	if float64(digits)/float64(length) > cfg.MaxDigitRatio {
		return RejectNumericHeavy, false
	}

	if float64(letters)/float64(length) < cfg.MinAlphaRatio {
		return RejectLowAlphaRatio, false
	}

	for _, pattern := range cfg.RejectPatterns {
		if pattern.MatchString(text) {
			return RejectSeparator, false
		}
	}

	return "", true
}
