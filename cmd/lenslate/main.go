/**
 * Lenslate - Main Entry Point
 *
 * Offline sign reader: runs OCR over still frames, keeps the trustworthy text
 * regions and resolves each against the offline dictionary.
 *
 * Pipeline:
 * - Tesseract OCR per frame (one observation per text line)
 * - Observation filter and ranker (confidence, size, readability)
 * - Translation resolution engine (phrase, word, word-by-word)
 * - Voice fallback selector for playback of each translation
 *
 * Usage:
 *   lenslate frame1.png [frame2.jpg ...]
 *
 * Prints one JSON report per frame to stdout; logs go to stderr.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adverant/nexus/lenslate/internal/config"
	"github.com/adverant/nexus/lenslate/internal/language"
	"github.com/adverant/nexus/lenslate/internal/logging"
	"github.com/adverant/nexus/lenslate/internal/metrics"
	"github.com/adverant/nexus/lenslate/internal/processor"
	"github.com/adverant/nexus/lenslate/internal/processor/tesseract"
	"github.com/adverant/nexus/lenslate/internal/speech"
	"github.com/adverant/nexus/lenslate/internal/translation"
)

// regionReport is one translated region in a frame report
type regionReport struct {
	Region      processor.RankedRegion `json:"region"`
	Translation *translation.Result    `json:"translation,omitempty"`
	Utterance   *speech.Utterance      `json:"utterance,omitempty"`
	VoiceStage  speech.Stage           `json:"voice_stage,omitempty"`
}

// frameReport is printed once per input frame
type frameReport struct {
	File     string                `json:"file"`
	Sequence uint64                `json:"sequence"`
	Status   processor.FrameStatus `json:"status"`
	Rejected map[string]int        `json:"rejected,omitempty"`
	Regions  []regionReport        `json:"regions"`
}

func main() {
	// Load environment variables
	envErr := godotenv.Load(".env.lenslate")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := logging.NewLogger("lenslate")
		bootLogger.Error("Failed to load configuration", "error", err)
		bootLogger.Sync()
		os.Exit(1)
	}

	logger := logging.New("lenslate", logging.Options{
		Level:   cfg.LogLevel,
		Console: !cfg.IsProduction(),
	})
	defer logger.Sync()

	if envErr != nil {
		logger.Debug(".env.lenslate not found, using system environment variables")
	}

	if err := run(logger, cfg, os.Args[1:]); err != nil {
		logger.Error("Lenslate failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(logger *logging.Logger, cfg *config.Config, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("usage: lenslate <image> [image ...]")
	}

	var err error
	source := language.Code("")
	if cfg.SourceLanguage != "auto" {
		if source, err = language.Parse(cfg.SourceLanguage); err != nil {
			return err
		}
	}
	target, err := language.Parse(cfg.TargetLanguage)
	if err != nil {
		return err
	}
	fallback, err := language.Parse(cfg.FallbackLanguage)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize resolution engine
	var loader translation.Loader = translation.EmbeddedLoader{}
	if cfg.DictionaryPath != "" {
		loader = translation.FileLoader{Path: cfg.DictionaryPath}
	}
	engine, err := translation.NewEngine(ctx, &translation.EngineConfig{
		Loader:           loader,
		Identifier:       language.ScriptIdentifier{},
		FallbackLanguage: fallback,
		SourceLanguage:   source,
		TargetLanguage:   target,
		ThinkTime:        cfg.ThinkTime,
		HistoryLimit:     cfg.HistoryLimit,
		Metrics:          collector,
		Logger:           logger.Named("translation"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize resolution engine: %w", err)
	}

	// Initialize frame processor
	filter := processor.DefaultFilterConfig()
	filter.MinConfidence = cfg.MinConfidence
	filter.MinLength = cfg.MinTextLength
	filter.MinTextHeight = cfg.MinTextHeight
	filter.MaxResults = cfg.MaxRegions

	frames, err := processor.NewFrameProcessor(&processor.FrameProcessorConfig{
		Engine:   tesseract.NewEngine(&tesseract.Config{Languages: cfg.TesseractLanguages}),
		Filter:   filter,
		Interval: cfg.DetectionInterval,
		Metrics:  collector,
		Logger:   logger.Named("processor"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize frame processor: %w", err)
	}

	voices, err := speech.ParseVoices(cfg.SpeechVoices)
	if err != nil {
		return fmt.Errorf("invalid SPEECH_VOICES: %w", err)
	}
	speaker, err := speech.NewSpeaker(&speech.SpeakerConfig{
		Synthesizer: speech.LogSynthesizer{Logger: logger.Named("speech")},
		Selector:    speech.NewSelector(nil, collector),
		Voices:      voices,
		Rate:        cfg.SpeechRate,
		Volume:      cfg.SpeechVolume,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	logger.Info("Lenslate ready",
		"dictionary_status", engine.State().Status(),
		"source", source,
		"target", target,
		"frames", len(files),
		"voices", len(voices))

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	for i, file := range files {
		if ctx.Err() != nil {
			break
		}

		data, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("Skipping unreadable frame", "file", file, "error", err)
			continue
		}

		// Pace frames so the detection throttle does not drop any of them
		if i > 0 && cfg.DetectionInterval > 0 {
			select {
			case <-time.After(cfg.DetectionInterval):
			case <-ctx.Done():
			}
		}

		result, err := frames.Process(ctx, processor.Frame{
			Sequence:   uint64(i + 1),
			Data:       data,
			CapturedAt: time.Now(),
		})
		if err != nil {
			return err
		}

		report := frameReport{
			File:     file,
			Sequence: result.Sequence,
			Status:   result.Status,
			Regions:  make([]regionReport, 0, len(result.Regions)),
		}
		if len(result.Report.Rejected) > 0 {
			report.Rejected = make(map[string]int, len(result.Report.Rejected))
			for reason, n := range result.Report.Rejected {
				report.Rejected[string(reason)] = n
			}
		}

		for _, region := range result.Regions {
			report.Regions = append(report.Regions, describeRegion(ctx, logger, engine, speaker, region))
		}

		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	logSummary(logger, registry, engine)
	return nil
}

func describeRegion(
	ctx context.Context,
	logger *logging.Logger,
	engine *translation.Engine,
	speaker *speech.Speaker,
	region processor.RankedRegion,
) regionReport {
	out := regionReport{Region: region}

	result, err := engine.Translate(ctx, region.Text)
	if err != nil {
		logger.Warn("Resolution failed", "region", region.ID, "error", err)
		return out
	}
	out.Translation = result

	// Playback problems are reported, never fatal
	playback, err := speaker.Speak(ctx, result.TargetLanguage, result.TranslatedText)
	if err != nil {
		logger.Warn("Speech playback failed", "region", region.ID, "error", err)
	}
	if playback != nil {
		out.Utterance = &playback.Utterance
		out.VoiceStage = playback.Stage
	}

	return out
}

// logSummary logs the counters gathered while processing
func logSummary(logger *logging.Logger, registry *prometheus.Registry, engine *translation.Engine) {
	families, err := registry.Gather()
	if err != nil {
		logger.Warn("Failed to gather metrics", "error", err)
		return
	}

	summary := make([]interface{}, 0, len(families)*2+4)
	for _, family := range families {
		var total float64
		for _, m := range family.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		summary = append(summary, family.GetName(), total)
	}
	summary = append(summary,
		"history_entries", len(engine.State().History()),
		"cache_entries", engine.State().CacheSize())

	logger.Info("Lenslate finished", summary...)
}
