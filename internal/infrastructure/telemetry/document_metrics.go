// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DocumentMetrics provides business metrics for the document pipeline.
// It tracks generation volume, render latency and download activity.
type DocumentMetrics struct {
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	generatedTotal  *Counter
	downloadTotal   *Counter
	renderFailTotal *Counter

	// Distribution metrics
	renderDuration *Histogram

	// Gauge metrics (point-in-time values)
	draftCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	countProvider DocumentCountProvider
}

// DocumentCountProvider provides document counts for periodic gauge
// collection. The interface keeps the telemetry layer from depending on the
// persistence layer directly.
type DocumentCountProvider interface {
	// CountByStatus returns the number of documents per status
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// DocumentMetricsConfig holds configuration for document metrics.
type DocumentMetricsConfig struct {
	Provider        *MeterProvider
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	CountProvider   DocumentCountProvider
}

// NewDocumentMetrics creates a new DocumentMetrics instance.
func NewDocumentMetrics(cfg DocumentMetricsConfig) (*DocumentMetrics, error) {
	if cfg.Provider == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	meter := cfg.Provider.Meter(TracerName)

	dm := &DocumentMetrics{
		logger:        logger,
		stopChan:      make(chan struct{}),
		countProvider: cfg.CountProvider,
	}

	var err error

	dm.generatedTotal, err = NewCounter(
		meter,
		"pae_documents_generated_total",
		"Total number of trade documents generated",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	dm.downloadTotal, err = NewCounter(
		meter,
		"pae_document_downloads_total",
		"Total number of document downloads",
		"{downloads}",
	)
	if err != nil {
		return nil, err
	}

	dm.renderFailTotal, err = NewCounter(
		meter,
		"pae_document_render_failures_total",
		"Total number of failed PDF renders",
		"{failures}",
	)
	if err != nil {
		return nil, err
	}

	dm.renderDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "pae_document_render_duration_seconds",
		Description: "Time spent rendering and converting a document to PDF",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	dm.draftCount, err = NewGauge(
		meter,
		"pae_documents_by_status",
		"Current number of documents per status",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	return dm, nil
}

// RecordGenerated records a successful document generation.
func (dm *DocumentMetrics) RecordGenerated(ctx context.Context, docType string) {
	dm.generatedTotal.Inc(ctx, AttrDocumentType.String(docType))
}

// RecordDownload records a document download.
func (dm *DocumentMetrics) RecordDownload(ctx context.Context, docType string) {
	dm.downloadTotal.Inc(ctx, AttrDocumentType.String(docType))
}

// RecordRenderFailure records a failed render attempt with the failure code.
func (dm *DocumentMetrics) RecordRenderFailure(ctx context.Context, docType, code string) {
	dm.renderFailTotal.Inc(ctx,
		AttrDocumentType.String(docType),
		AttrRenderOutcome.String(code),
	)
}

// RecordRenderDuration records how long rendering a document took.
func (dm *DocumentMetrics) RecordRenderDuration(ctx context.Context, docType string, d time.Duration) {
	dm.renderDuration.RecordDuration(ctx, d, AttrDocumentType.String(docType))
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (dm *DocumentMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	dm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go dm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (dm *DocumentMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dm.collectStatusCounts(ctx)

	for {
		select {
		case <-dm.stopChan:
			dm.logger.Info("Stopping periodic document metrics collection")
			return
		case <-ctx.Done():
			dm.logger.Info("Context cancelled, stopping periodic document metrics collection")
			return
		case <-ticker.C:
			dm.collectStatusCounts(ctx)
		}
	}
}

// collectStatusCounts records the per-status document counts.
func (dm *DocumentMetrics) collectStatusCounts(ctx context.Context) {
	if dm.countProvider == nil {
		dm.logger.Debug("No count provider configured, skipping document gauge collection")
		return
	}

	counts, err := dm.countProvider.CountByStatus(ctx)
	if err != nil {
		dm.logger.Warn("Failed to collect document status counts", zap.Error(err))
		return
	}

	for status, count := range counts {
		dm.draftCount.Record(ctx, count, AttrDocumentStatus.String(status))
	}
}

// Stop stops the periodic collection.
func (dm *DocumentMetrics) Stop() {
	dm.stopOnce.Do(func() {
		close(dm.stopChan)
	})
}

// ErrMeterNil is returned when the meter provider is nil.
var ErrMeterNil = &MetricsError{Op: "NewDocumentMetrics", Err: "meter provider cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
