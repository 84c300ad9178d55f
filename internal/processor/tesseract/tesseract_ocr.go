/**
 * Tesseract OCR - offline OCR engine for the observation pipeline
 *
 * Reports one observation per recognised text line with its box normalised
 * to the frame. Lives in its own package so the core pipeline builds without
 * cgo and libtesseract.
 */

package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/adverant/nexus/lenslate/internal/processor"
)

// Engine implements processor.Engine using gosseract
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// Config holds Tesseract configuration
type Config struct {
	// Languages are Tesseract traineddata names, e.g. "eng", "aze", "rus"
	Languages []string
}

// NewEngine creates a new Tesseract OCR engine
func NewEngine(cfg *Config) *Engine {
	languages := []string{"eng"}
	if cfg != nil && len(cfg.Languages) > 0 {
		languages = append([]string(nil), cfg.Languages...)
	}

	return &Engine{
		languages:     languages,
		clientFactory: gosseract.NewClient,
	}
}

// Name implements processor.Engine
func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on one frame
func (e *Engine) Recognize(ctx context.Context, frame processor.Frame) ([]processor.TextObservation, error) {
	if len(frame.Data) == 0 {
		return nil, nil
	}

	dims, _, err := image.DecodeConfig(bytes.NewReader(frame.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %d: %w", frame.Sequence, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	client := e.clientFactory()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("failed to set languages: %w", err)
	}

	if err := client.SetImageFromBytes(frame.Data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	observations := make([]processor.TextObservation, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		observations = append(observations, processor.TextObservation{
			Text:        text,
			BoundingBox: processor.NormalizeBox(box.Box, dims.Width, dims.Height),
			Confidence:  box.Confidence / 100.0,
		})
	}

	return observations, nil
}
