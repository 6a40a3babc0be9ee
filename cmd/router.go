package main

import (
	"net/http"

	"github.com/angeloszaimis/trigger-functions/internal/metrics"
)

func setupRouter(routes []route, metricsCollector *metrics.Collector, exporter *metrics.Exporter) *http.ServeMux {
	mux := http.NewServeMux()

	for _, r := range routes {
		mux.Handle("/api/"+r.path, r.handler)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", metricsCollector.Handler(serviceName))
	mux.Handle("/metrics/prometheus", exporter.Handler())

	return mux
}
