// Package metrics declares the prometheus instruments for the core. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lenslate"

// Collector groups every instrument the core records
type Collector struct {
	FramesProcessed   prometheus.Counter
	FramesSkipped     *prometheus.CounterVec
	OCRFailures       prometheus.Counter
	ObservationsSeen  prometheus.Counter
	RegionsAccepted   prometheus.Counter
	RegionsRejected   *prometheus.CounterVec
	Resolutions       *prometheus.CounterVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	ResolveDuration   prometheus.Histogram
	DictionaryReloads *prometheus.CounterVec
	VoiceSelections   *prometheus.CounterVec
}

// NewCollector creates the instruments and registers them on reg. A nil reg
// leaves them unregistered, which is handy in tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Frames that went through OCR and filtering.",
		}),
		FramesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_skipped_total",
			Help:      "Frames dropped before or after OCR.",
		}, []string{"reason"}),
		OCRFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ocr_failures_total",
			Help:      "OCR calls that returned an error.",
		}),
		ObservationsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_total",
			Help:      "Raw text observations received from OCR.",
		}),
		RegionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_accepted_total",
			Help:      "Observations returned as ranked regions.",
		}),
		RegionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_rejected_total",
			Help:      "Observations rejected by the filter, by reason.",
		}, []string{"reason"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Completed translation resolutions, by match tier.",
		}, []string{"tier"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_cache_hits_total",
			Help:      "Resolutions served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_cache_misses_total",
			Help:      "Resolutions computed from the dictionary.",
		}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Wall time of fresh resolutions including think time.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		DictionaryReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_loads_total",
			Help:      "Dictionary load attempts, by outcome.",
		}, []string{"outcome"}),
		VoiceSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_selections_total",
			Help:      "Voice selections, by the chain stage that matched.",
		}, []string{"stage"}),
	}

	if reg != nil {
		reg.MustRegister(
			c.FramesProcessed,
			c.FramesSkipped,
			c.OCRFailures,
			c.ObservationsSeen,
			c.RegionsAccepted,
			c.RegionsRejected,
			c.Resolutions,
			c.CacheHits,
			c.CacheMisses,
			c.ResolveDuration,
			c.DictionaryReloads,
			c.VoiceSelections,
		)
	}

	return c
}

// RecordFrame records one filtering pass
func (c *Collector) RecordFrame(observed, accepted int, rejected map[string]int) {
	if c == nil {
		return
	}
	c.FramesProcessed.Inc()
	c.ObservationsSeen.Add(float64(observed))
	c.RegionsAccepted.Add(float64(accepted))
	for reason, n := range rejected {
		c.RegionsRejected.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordSkippedFrame records a frame that never produced a region set
func (c *Collector) RecordSkippedFrame(reason string) {
	if c == nil {
		return
	}
	c.FramesSkipped.WithLabelValues(reason).Inc()
}

// RecordOCRFailure records a failed OCR call
func (c *Collector) RecordOCRFailure() {
	if c == nil {
		return
	}
	c.OCRFailures.Inc()
}

// RecordCacheHit records a resolution answered from the cache
func (c *Collector) RecordCacheHit() {
	if c == nil {
		return
	}
	c.CacheHits.Inc()
}

// RecordResolution records a fresh resolution
func (c *Collector) RecordResolution(tier string, duration time.Duration) {
	if c == nil {
		return
	}
	c.CacheMisses.Inc()
	c.Resolutions.WithLabelValues(tier).Inc()
	c.ResolveDuration.Observe(duration.Seconds())
}

// RecordDictionaryLoad records a dictionary load attempt
func (c *Collector) RecordDictionaryLoad(err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.DictionaryReloads.WithLabelValues(outcome).Inc()
}

// RecordVoiceSelection records which selector stage produced a voice
func (c *Collector) RecordVoiceSelection(stage string) {
	if c == nil {
		return
	}
	c.VoiceSelections.WithLabelValues(stage).Inc()
}
