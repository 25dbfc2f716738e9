package observer

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisEvent represents a dataset analysis event
type AnalysisEvent struct {
	EventType    EventType     `json:"event_type"`
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path,omitempty"`
	Images       int           `json:"images,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	ScanCompleted         EventType = "scan_completed"
	DimensionPassStarted  EventType = "dimension_pass_started"
	ExtractionPassStarted EventType = "extraction_pass_started"
	AggregationStarted    EventType = "aggregation_started"
	ImageProbed           EventType = "image_probed"
	ImageProbeFailed      EventType = "image_probe_failed"
	ImageDecoded          EventType = "image_decoded"
	ImageDecodeFailed     EventType = "image_decode_failed"
	AnalysisCompleted     EventType = "analysis_completed"
	AnalysisFailed        EventType = "analysis_failed"
)

type runIDKey struct{}

// WithRunID tags ctx with the identifier of one analysis run
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the run identifier stored in ctx, if any
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey{}).(string); ok {
		return v
	}
	return ""
}

// Observer defines the interface for event observers.
// OnEvent may be called from several goroutines at once.
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
	}
	if runID := RunID(ctx); runID != "" {
		fields["run_id"] = runID
	}
	if event.Path != "" {
		fields["path"] = event.Path
	}
	if event.Images > 0 {
		fields["images"] = event.Images
	}
	if event.Duration > 0 {
		fields["duration"] = event.Duration
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case ScanCompleted:
		entry.Info("Directory scan completed")
	case DimensionPassStarted, ExtractionPassStarted, AggregationStarted:
		entry.Debug("Phase started")
	case ImageProbed, ImageDecoded:
		entry.Debug("Image processed")
	case ImageProbeFailed, ImageDecodeFailed:
		entry.Warn("Image skipped")
	case AnalysisCompleted:
		entry.Info("Dataset analysis completed")
	case AnalysisFailed:
		entry.Error("Dataset analysis failed")
	default:
		entry.Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// ProgressObserver prints a notice at each phase boundary
type ProgressObserver struct {
	mu  sync.Mutex
	out io.Writer
}

// NewProgressObserver creates a progress observer writing to out
func NewProgressObserver(out io.Writer) Observer {
	return &ProgressObserver{out: out}
}

var progressMessages = map[EventType]string{
	DimensionPassStarted:  "Collecting images sizes information...",
	ExtractionPassStarted: "Collecting images pixels information...",
	AggregationStarted:    "Aggregating pixel information...",
}

// OnEvent prints phase notices and ignores everything else
func (o *ProgressObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	msg, ok := progressMessages[event.EventType]
	if !ok {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.out, msg)
}

// GetObserverName returns the observer name
func (o *ProgressObserver) GetObserverName() string {
	return "progress_observer"
}

// MetricsObserver collects counters from analysis events
type MetricsObserver struct {
	mu             sync.RWMutex
	imagesFound    int64
	probed         int64
	probeFailures  int64
	decoded        int64
	decodeFailures int64
	totalDuration  time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles analysis events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ScanCompleted:
		o.imagesFound += int64(event.Images)
	case ImageProbed:
		o.probed++
	case ImageProbeFailed:
		o.probeFailures++
	case ImageDecoded:
		o.decoded++
	case ImageDecodeFailed:
		o.decodeFailures++
	case AnalysisCompleted:
		o.totalDuration += event.Duration
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return map[string]interface{}{
		"images_found":    o.imagesFound,
		"images_probed":   o.probed,
		"probe_failures":  o.probeFailures,
		"images_decoded":  o.decoded,
		"decode_failures": o.decodeFailures,
		"total_duration":  o.totalDuration,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription
// order before returning, so phase notices are printed in sequence.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event AnalysisEvent) {
	defer func() {
		if r := recover(); r != nil {
			// Log panic but don't crash the application
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
