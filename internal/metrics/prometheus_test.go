package metrics_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/angeloszaimis/trigger-functions/internal/metrics"
)

var _ = Describe("Exporter", func() {
	var (
		exporter  *metrics.Exporter
		collector *metrics.Collector
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		exporter = metrics.NewExporter("trigger")
		collector = metrics.NewCollector(10, exporter, slog.New(slog.NewTextHandler(io.Discard, nil)))
		collector.Start(ctx)
	})

	AfterEach(func() {
		cancel()
	})

	It("mirrors events into Prometheus counters", func() {
		collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Function: "greet-dataset"})
		collector.Emit(metrics.MetricEvent{Type: metrics.EventValueResolved, Function: "greet-dataset", Source: "body"})
		collector.Emit(metrics.MetricEvent{Type: metrics.EventBodyRejected, Function: "greet-dataset", Reason: "empty"})
		collector.Emit(metrics.MetricEvent{
			Type:       metrics.EventResponseCompleted,
			Function:   "greet-dataset",
			Duration:   5 * time.Millisecond,
			StatusCode: 200,
		})

		Eventually(func() (int, error) {
			return testutil.GatherAndCount(exporter.Registry(),
				"trigger_requests_total",
				"trigger_resolutions_total",
				"trigger_body_rejections_total",
				"trigger_responses_total",
			)
		}).Should(Equal(4))
	})

	It("serves the exposition format", func() {
		collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Function: "greet-arithmetic"})

		Eventually(func() string {
			w := httptest.NewRecorder()
			exporter.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))
			if w.Code != http.StatusOK {
				return ""
			}
			return w.Body.String()
		}).Should(ContainSubstring(`trigger_requests_total{function="greet-arithmetic"} 1`))
	})
})
