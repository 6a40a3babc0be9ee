package function

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/trigger-functions/internal/metrics"
	"github.com/angeloszaimis/trigger-functions/internal/request"
	"github.com/angeloszaimis/trigger-functions/internal/resolver"
)

const (
	DefaultKey = "name"

	greetingTemplate = "Hello, %s. This HTTP triggered function executed successfully."

	// ResolvedSourceHeader reports where the greeting name came from.
	ResolvedSourceHeader = "X-Resolved-Source"
)

// Fallback produces the response text when no name was resolved.
type Fallback func() (string, error)

type Options struct {
	Key          string
	MaxBodyBytes int64
}

type Function struct {
	name         string
	key          string
	maxBodyBytes int64
	fallback     Fallback
	logger       *slog.Logger
	collector    *metrics.Collector
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

// New creates a function named name. collector may be nil.
func New(name string, fallback Fallback, opts Options, logger *slog.Logger, collector *metrics.Collector) *Function {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	return &Function{
		name:         name,
		key:          key,
		maxBodyBytes: opts.MaxBodyBytes,
		fallback:     fallback,
		logger:       logger.With(slog.String("function", name)),
		collector:    collector,
	}
}

func (f *Function) Name() string {
	return f.name
}

func (f *Function) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

	f.collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: start,
		Function:  f.name,
	})

	defer func() {
		f.collector.Emit(metrics.MetricEvent{
			Type:       metrics.EventResponseCompleted,
			Timestamp:  time.Now(),
			Function:   f.name,
			Duration:   time.Since(start),
			StatusCode: wrapped.statusCode,
		})
	}()

	f.logger.Info("HTTP trigger function processed a request.",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		wrapped.Header().Set("Allow", "GET, POST")
		http.Error(wrapped, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resolved := resolver.ResolveWith(request.New(r, f.maxBodyBytes), f.key, f.bodyRejected)

	f.collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventValueResolved,
		Timestamp: time.Now(),
		Function:  f.name,
		Source:    string(resolved.Source),
	})

	wrapped.Header().Set(ResolvedSourceHeader, string(resolved.Source))

	if resolved.Found {
		writeText(wrapped, fmt.Sprintf(greetingTemplate, resolved.Value))
		return
	}

	text, err := f.fallback()
	if err != nil {
		f.logger.Error("Failed to build fallback response", slog.Any("err", err))
		http.Error(wrapped, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeText(wrapped, text)
}

func (f *Function) bodyRejected(err error) {
	reason := request.Reason(err)

	f.logger.Debug("Request body contributed no value",
		slog.String("reason", reason),
		slog.Any("err", err))

	f.collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventBodyRejected,
		Timestamp: time.Now(),
		Function:  f.name,
		Reason:    reason,
	})
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
