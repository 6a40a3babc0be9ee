package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter mirrors collector events into Prometheus metrics on its own registry.
type Exporter struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	resolutions    *prometheus.CounterVec
	bodyRejections *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	responses      *prometheus.CounterVec
}

func NewExporter(namespace string) *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests received per function",
			},
			[]string{"function"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Resolved values per function and source",
			},
			[]string{"function", "source"},
		),
		bodyRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "body_rejections_total",
				Help:      "Request bodies that could not be parsed",
			},
			[]string{"function", "reason"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "response_duration_seconds",
				Help:      "Duration of request handling in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"function"},
		),
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "responses_total",
				Help:      "Responses per function and status code",
			},
			[]string{"function", "code"},
		),
	}

	e.registry.MustRegister(
		e.requests,
		e.resolutions,
		e.bodyRejections,
		e.duration,
		e.responses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return e
}

// Registry exposes the underlying registry, mainly for tests.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *Exporter) observe(event MetricEvent) {
	if e == nil {
		return
	}

	switch event.Type {
	case EventRequestReceived:
		e.requests.WithLabelValues(event.Function).Inc()

	case EventValueResolved:
		e.resolutions.WithLabelValues(event.Function, event.Source).Inc()

	case EventBodyRejected:
		e.bodyRejections.WithLabelValues(event.Function, event.Reason).Inc()

	case EventResponseCompleted:
		e.duration.WithLabelValues(event.Function).Observe(event.Duration.Seconds())
		e.responses.WithLabelValues(event.Function, strconv.Itoa(event.StatusCode)).Inc()
	}
}
