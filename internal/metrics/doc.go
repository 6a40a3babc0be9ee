// Package metrics provides real-time metrics collection for the trigger functions.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Request counts per function
//   - Where the resolved value came from (query parameters, body, or nowhere)
//   - Bodies that could not be parsed, by reason
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
//
// Aggregates are served as a JSON snapshot and, through Exporter, in the
// Prometheus exposition format.
package metrics
