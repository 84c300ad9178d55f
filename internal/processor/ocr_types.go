/**
 * OCR Types - Shared data structures for the observation pipeline
 *
 * Observations come from the external OCR engine; ranked regions are what the
 * presentation layer receives after filtering.
 */

package processor

import (
	"context"
	"image"
	"time"
)

// BoundingBox is a rectangle normalized to the unit square, origin top-left
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextObservation is one raw text detection reported by the OCR engine
type TextObservation struct {
	Text        string      `json:"text"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Confidence  float64     `json:"confidence"`
}

// RankedRegion is a text region that survived filtering. IDs are unique per
// detection cycle and carry no identity across cycles.
type RankedRegion struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Confidence  float64     `json:"confidence"`
}

// Frame is one captured image buffer. Sequence grows monotonically per
// capture session and identifies the most recent buffer.
type Frame struct {
	Sequence   uint64
	Data       []byte
	CapturedAt time.Time
}

// Engine is the OCR boundary: one frame in, zero or more observations out
type Engine interface {
	Name() string
	Recognize(ctx context.Context, frame Frame) ([]TextObservation, error)
}

// NormalizeBox converts a pixel rectangle within a width x height image to
// the unit square, clamping anything outside the image.
func NormalizeBox(rect image.Rectangle, width, height int) BoundingBox {
	if width <= 0 || height <= 0 {
		return BoundingBox{}
	}
	rect = rect.Canon().Intersect(image.Rect(0, 0, width, height))
	if rect.Empty() {
		return BoundingBox{}
	}
	w := float64(width)
	h := float64(height)
	return BoundingBox{
		X:      float64(rect.Min.X) / w,
		Y:      float64(rect.Min.Y) / h,
		Width:  float64(rect.Dx()) / w,
		Height: float64(rect.Dy()) / h,
	}
}
