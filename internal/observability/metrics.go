package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	errorCount      map[string]int64
	transitionCount map[string]int64
	trustEventCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		errorCount:      make(map[string]int64),
		transitionCount: make(map[string]int64),
		trustEventCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.inc(m.requestCount, path+"|"+method+"|"+strconv.Itoa(status))
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.inc(m.errorCount, path+"|"+method+"|"+code)
}

// RecordTransition counts a shift transition attempt by edge and outcome
// ("applied", "rejected", "stale", "failed").
func (m *Metrics) RecordTransition(from, to, outcome string) {
	if m == nil {
		return
	}
	m.inc(m.transitionCount, from+"->"+to+"|"+outcome)
}

// RecordTrustEvent counts trust events by type and whether they were stored.
func (m *Metrics) RecordTrustEvent(eventType string, recorded bool) {
	if m == nil {
		return
	}
	m.inc(m.trustEventCount, eventType+"|"+strconv.FormatBool(recorded))
}

// Snapshot is a copy of every counter.
type Snapshot struct {
	Requests    map[string]int64 `json:"requests"`
	Errors      map[string]int64 `json:"errors"`
	Transitions map[string]int64 `json:"transitions"`
	TrustEvents map[string]int64 `json:"trust_events"`
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Requests:    copyCounts(m.requestCount),
		Errors:      copyCounts(m.errorCount),
		Transitions: copyCounts(m.transitionCount),
		TrustEvents: copyCounts(m.trustEventCount),
	}
}

func (m *Metrics) inc(counts map[string]int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts[key]++
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
