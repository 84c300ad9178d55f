/**
 * Configuration for the lenslate core
 *
 * Loads configuration from environment variables (optionally seeded from
 * .env.lenslate by the entry point).
 */

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds core configuration
type Config struct {
	// Dictionary configuration; empty path selects the bundled dictionary
	DictionaryPath string `env:"DICTIONARY_PATH"`

	// Observation filter thresholds
	MinConfidence     float64       `env:"MIN_CONFIDENCE" envDefault:"0.7"`
	MinTextLength     int           `env:"MIN_TEXT_LENGTH" envDefault:"3"`
	MinTextHeight     float64       `env:"MIN_TEXT_HEIGHT" envDefault:"0.04"`
	MaxRegions        int           `env:"MAX_REGIONS" envDefault:"6"`
	DetectionInterval time.Duration `env:"DETECTION_INTERVAL" envDefault:"500ms"`

	// Resolution engine
	ThinkTime        time.Duration `env:"THINK_TIME" envDefault:"300ms"`
	HistoryLimit     int           `env:"HISTORY_LIMIT" envDefault:"50"`
	FallbackLanguage string        `env:"FALLBACK_LANGUAGE" envDefault:"en"`
	SourceLanguage   string        `env:"SOURCE_LANGUAGE" envDefault:"en"`
	TargetLanguage   string        `env:"TARGET_LANGUAGE" envDefault:"az"`

	// Tesseract configuration
	TesseractLanguages []string `env:"TESSERACT_LANGUAGES" envSeparator:"," envDefault:"eng"`

	// Speech playback; voices are "id=locale" pairs reported by the platform
	SpeechVoices []string `env:"SPEECH_VOICES" envSeparator:","`
	SpeechRate   float64  `env:"SPEECH_RATE" envDefault:"0.5"`
	SpeechVolume float64  `env:"SPEECH_VOLUME" envDefault:"1.0"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("MIN_CONFIDENCE must be between 0 and 1, got %v", c.MinConfidence)
	}

	if c.MinTextLength < 1 {
		return fmt.Errorf("MIN_TEXT_LENGTH must be at least 1, got %d", c.MinTextLength)
	}

	if c.MinTextHeight < 0 || c.MinTextHeight > 1 {
		return fmt.Errorf("MIN_TEXT_HEIGHT must be between 0 and 1, got %v", c.MinTextHeight)
	}

	if c.MaxRegions < 1 || c.MaxRegions > 100 {
		return fmt.Errorf("MAX_REGIONS must be between 1 and 100, got %d", c.MaxRegions)
	}

	if c.DetectionInterval < 0 {
		return fmt.Errorf("DETECTION_INTERVAL must not be negative, got %v", c.DetectionInterval)
	}

	if c.ThinkTime < 0 || c.ThinkTime > 10*time.Second {
		return fmt.Errorf("THINK_TIME must be between 0 and 10s, got %v", c.ThinkTime)
	}

	if c.HistoryLimit < 1 || c.HistoryLimit > 10000 {
		return fmt.Errorf("HISTORY_LIMIT must be between 1 and 10000, got %d", c.HistoryLimit)
	}

	if c.FallbackLanguage == "" {
		return fmt.Errorf("FALLBACK_LANGUAGE is required")
	}

	if c.TargetLanguage == "" {
		return fmt.Errorf("TARGET_LANGUAGE is required")
	}

	if c.SpeechRate < 0 || c.SpeechRate > 1 {
		return fmt.Errorf("SPEECH_RATE must be between 0 and 1, got %v", c.SpeechRate)
	}

	if c.SpeechVolume < 0 || c.SpeechVolume > 1 {
		return fmt.Errorf("SPEECH_VOLUME must be between 0 and 1, got %v", c.SpeechVolume)
	}

	return nil
}

// IsProduction reports whether the process runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
