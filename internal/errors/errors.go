package errors

import (
	"fmt"
	"time"
)

/**
 * Structured error types for the lenslate core
 *
 * Only conditions a caller can act on are modelled here. Missing dictionary
 * entries, empty OCR cycles and absent voices are regular results, not errors.
 */

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Dictionary errors
	ErrorDictionaryNotLoaded ErrorCode = "DICTIONARY_NOT_LOADED"
	ErrorDictionaryMalformed ErrorCode = "DICTIONARY_MALFORMED"
	ErrorDictionaryMissing   ErrorCode = "DICTIONARY_MISSING"

	// Recognition errors
	ErrorOCRFailed ErrorCode = "OCR_FAILED"

	// Resolution errors
	ErrorUnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	ErrorEmptyInput          ErrorCode = "EMPTY_INPUT"
	ErrorResolutionCanceled  ErrorCode = "RESOLUTION_CANCELED"
)

// PipelineError represents a structured error raised by the core
type PipelineError struct {
	Code      ErrorCode
	Message   string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is matches any PipelineError carrying the same code, so callers can test
// against the sentinel values below with errors.Is.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons
var (
	ErrDictionaryNotLoaded = &PipelineError{Code: ErrorDictionaryNotLoaded}
	ErrDictionaryMalformed = &PipelineError{Code: ErrorDictionaryMalformed}
	ErrDictionaryMissing   = &PipelineError{Code: ErrorDictionaryMissing}
	ErrOCRFailed           = &PipelineError{Code: ErrorOCRFailed}
	ErrUnsupportedLanguage = &PipelineError{Code: ErrorUnsupportedLanguage}
	ErrEmptyInput          = &PipelineError{Code: ErrorEmptyInput}
	ErrResolutionCanceled  = &PipelineError{Code: ErrorResolutionCanceled}
)

// Factory functions for common errors

func NewDictionaryNotLoadedError(cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorDictionaryNotLoaded,
		Message:   "Dictionary is not loaded",
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewDictionaryMalformedError(source string, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorDictionaryMalformed,
		Message:   fmt.Sprintf("Dictionary document is malformed: %s", source),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"source": source,
		},
		Cause: cause,
	}
}

func NewDictionaryMissingError(path string, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorDictionaryMissing,
		Message:   fmt.Sprintf("Dictionary file not found: %s", path),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}

func NewOCRFailedError(sequence uint64, engine string, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorOCRFailed,
		Message:   fmt.Sprintf("OCR failed for frame %d", sequence),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"frame_sequence": sequence,
			"ocr_engine":     engine,
		},
		Cause: cause,
	}
}

func NewUnsupportedLanguageError(tag string) *PipelineError {
	return &PipelineError{
		Code:      ErrorUnsupportedLanguage,
		Message:   fmt.Sprintf("Unsupported language: %q", tag),
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"language_tag": tag,
		},
	}
}

func NewEmptyInputError() *PipelineError {
	return &PipelineError{
		Code:      ErrorEmptyInput,
		Message:   "Input text is empty",
		Timestamp: time.Now(),
	}
}

func NewResolutionCanceledError(text string, cause error) *PipelineError {
	return &PipelineError{
		Code:      ErrorResolutionCanceled,
		Message:   "Resolution canceled before completion",
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"text_length": len(text),
		},
		Cause: cause,
	}
}

// ToMap converts error to map for structured logging
func (e *PipelineError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
