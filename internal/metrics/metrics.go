package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex          sync.RWMutex
	requests       map[string]int64
	resolutions    map[string]map[string]int64
	bodyRejections map[string]map[string]int64
	responseTimes  map[string][]time.Duration
	statusCodes    map[string]map[int]int64
	startTime      time.Time
}

type Snapshot struct {
	TotalRequests int64                      `json:"total_requests"`
	Uptime        time.Duration              `json:"uptime"`
	Functions     map[string]FunctionMetrics `json:"functions"`
	Service       string                     `json:"service"`
}

type FunctionMetrics struct {
	Requests       int64            `json:"requests"`
	Resolutions    map[string]int64 `json:"resolutions"`
	BodyRejections map[string]int64 `json:"body_rejections"`
	AvgResponse    time.Duration    `json:"avg_response"`
	P50Response    time.Duration    `json:"p50_response"`
	P95Response    time.Duration    `json:"p95_response"`
	P99Response    time.Duration    `json:"p99_response"`
	StatusCodes    map[int]int64    `json:"status_codes"`
}

func (m *Metrics) IncrementRequests(function string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[function]++
}

func (m *Metrics) RecordResolution(function, source string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	increment(m.resolutions, function, source)
}

func (m *Metrics) RecordBodyRejection(function, reason string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	increment(m.bodyRejections, function, reason)
}

func (m *Metrics) RecordResponse(function string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes[function] = append(m.responseTimes[function], duration)

	if len(m.responseTimes[function]) > maxSamples {
		m.responseTimes[function] = m.responseTimes[function][1:]
	}

	if m.statusCodes[function] == nil {
		m.statusCodes[function] = make(map[int]int64)
	}
	m.statusCodes[function][statusCode]++
}

func (m *Metrics) Snapshot(service string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		Functions: make(map[string]FunctionMetrics),
		Service:   service,
	}

	all := make(map[string]struct{})
	for fn := range m.requests {
		all[fn] = struct{}{}
	}
	for fn := range m.resolutions {
		all[fn] = struct{}{}
	}
	for fn := range m.bodyRejections {
		all[fn] = struct{}{}
	}
	for fn := range m.responseTimes {
		all[fn] = struct{}{}
	}

	for fn := range all {
		snap.TotalRequests += m.requests[fn]

		fm := FunctionMetrics{
			Requests:       m.requests[fn],
			Resolutions:    copyCounts(m.resolutions[fn]),
			BodyRejections: copyCounts(m.bodyRejections[fn]),
			StatusCodes:    make(map[int]int64, len(m.statusCodes[fn])),
		}
		for code, n := range m.statusCodes[fn] {
			fm.StatusCodes[code] = n
		}

		durations := m.responseTimes[fn]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			fm.AvgResponse = average(sorted)
			fm.P50Response = percentile(sorted, 0.50)
			fm.P95Response = percentile(sorted, 0.95)
			fm.P99Response = percentile(sorted, 0.99)
		}

		snap.Functions[fn] = fm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:       make(map[string]int64),
		resolutions:    make(map[string]map[string]int64),
		bodyRejections: make(map[string]map[string]int64),
		responseTimes:  make(map[string][]time.Duration),
		statusCodes:    make(map[string]map[int]int64),
		startTime:      time.Now(),
	}
}

func increment(counts map[string]map[string]int64, outer, inner string) {
	if counts[outer] == nil {
		counts[outer] = make(map[string]int64)
	}
	counts[outer][inner]++
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
