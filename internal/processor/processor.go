/**
 * Frame Processor - throttled OCR + filtering for a live frame source
 *
 * Frames arriving sooner than the detection interval after the last submitted
 * frame are dropped without OCR. Results for a frame older than the newest
 * submitted frame are discarded. OCR failures count as "no detections".
 * Accepted results replace the published region set as a whole.
 */

package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/adverant/nexus/lenslate/internal/errors"
	"github.com/adverant/nexus/lenslate/internal/logging"
	"github.com/adverant/nexus/lenslate/internal/metrics"
)

// FrameStatus describes what happened to a submitted frame
type FrameStatus string

const (
	FrameProcessed FrameStatus = "processed"
	FrameThrottled FrameStatus = "throttled"
	FrameStale     FrameStatus = "stale"
)

// DefaultDetectionInterval is the minimum spacing between OCR submissions
const DefaultDetectionInterval = 500 * time.Millisecond

// FrameProcessorConfig holds frame processor configuration
type FrameProcessorConfig struct {
	Engine   Engine
	Filter   FilterConfig
	Interval time.Duration
	Metrics  *metrics.Collector
	Logger   *logging.Logger

	// Now is the clock; time.Now when nil
	Now func() time.Time
}

// FrameResult is the outcome of one Process call
type FrameResult struct {
	Sequence uint64
	Status   FrameStatus
	Regions  []RankedRegion
	Report   FilterReport
}

// FrameProcessor runs the OCR engine and the region filter for a frame source
type FrameProcessor struct {
	engine   Engine
	filter   FilterConfig
	interval time.Duration
	metrics  *metrics.Collector
	logger   *logging.Logger
	now      func() time.Time

	mu              sync.Mutex
	submitted       bool
	latestSubmitted uint64
	lastSubmitAt    time.Time
	regions         []RankedRegion
}

// NewFrameProcessor creates a new frame processor
func NewFrameProcessor(cfg *FrameProcessorConfig) (*FrameProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.Engine == nil {
		return nil, fmt.Errorf("OCR engine is required")
	}

	if cfg.Interval < 0 {
		return nil, fmt.Errorf("interval must not be negative, got %v", cfg.Interval)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &FrameProcessor{
		engine:   cfg.Engine,
		filter:   cfg.Filter,
		interval: cfg.Interval,
		metrics:  cfg.Metrics,
		logger:   logger,
		now:      now,
		regions:  []RankedRegion{},
	}, nil
}

// Process runs one detection cycle for frame. It only returns an error when
// ctx ends while OCR is running.
func (p *FrameProcessor) Process(ctx context.Context, frame Frame) (*FrameResult, error) {
	if status, ok := p.admit(frame); !ok {
		p.metrics.RecordSkippedFrame(string(status))
		return &FrameResult{Sequence: frame.Sequence, Status: status, Regions: []RankedRegion{}}, nil
	}

	observations, err := p.engine.Recognize(ctx, frame)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		ocrErr := apperrors.NewOCRFailedError(frame.Sequence, p.engine.Name(), err)
		p.logger.Warn("OCR failed, treating frame as empty",
			"error_code", ocrErr.Code, "sequence", frame.Sequence, "error", ocrErr)
		p.metrics.RecordOCRFailure()
		observations = nil
	}

	regions, report := FilterWithReport(observations, p.filter)

	p.mu.Lock()
	if frame.Sequence < p.latestSubmitted {
		p.mu.Unlock()
		p.logger.Debug("Discarding results for superseded frame",
			"sequence", frame.Sequence, "latest", p.latestSubmitted)
		p.metrics.RecordSkippedFrame(string(FrameStale))
		return &FrameResult{Sequence: frame.Sequence, Status: FrameStale, Regions: []RankedRegion{}, Report: report}, nil
	}
	p.regions = regions
	p.mu.Unlock()

	p.metrics.RecordFrame(report.Observed, report.Accepted, reasonCounts(report))
	p.logger.Debug("Frame processed",
		"sequence", frame.Sequence,
		"observations", report.Observed,
		"regions", report.Accepted,
		"truncated", report.Truncated)

	return &FrameResult{Sequence: frame.Sequence, Status: FrameProcessed, Regions: regions, Report: report}, nil
}

// Regions returns the most recently published region set
func (p *FrameProcessor) Regions() []RankedRegion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RankedRegion(nil), p.regions...)
}

// Stream processes frames in arrival order and emits every published region
// set. The output channel closes when frames closes or ctx ends.
func (p *FrameProcessor) Stream(ctx context.Context, frames <-chan Frame) <-chan []RankedRegion {
	out := make(chan []RankedRegion)

	go func() {
		defer close(out)

		for {
			var frame Frame
			select {
			case <-ctx.Done():
				return
			case f, ok := <-frames:
				if !ok {
					return
				}
				frame = f
			}

			result, err := p.Process(ctx, frame)
			if err != nil {
				return
			}
			if result.Status != FrameProcessed {
				continue
			}

			select {
			case out <- result.Regions:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// admit decides whether frame goes to OCR and records the submission
func (p *FrameProcessor) admit(frame Frame) (FrameStatus, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.submitted && frame.Sequence <= p.latestSubmitted {
		return FrameStale, false
	}

	now := p.now()
	if p.submitted && now.Sub(p.lastSubmitAt) < p.interval {
		return FrameThrottled, false
	}

	p.submitted = true
	p.latestSubmitted = frame.Sequence
	p.lastSubmitAt = now
	return FrameProcessed, true
}

func reasonCounts(report FilterReport) map[string]int {
	counts := make(map[string]int, len(report.Rejected))
	for reason, n := range report.Rejected {
		counts[string(reason)] = n
	}
	return counts
}
