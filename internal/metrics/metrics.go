// Package metrics records API traffic for Prometheus and derives the health
// status served by /api/health.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "cryptowatch"

	// recentWindow is how many response times feed the health average.
	recentWindow = 100

	maxErrorRate       = 10.0 // percent
	maxAvgResponseTime = 2 * time.Second
	minCacheHitRate    = 50.0 // percent
	minCacheLookups    = 10
)

// Cache names used as the "cache" label.
const (
	CacheSearch = "search"
	CacheAssets = "assets"
)

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Snapshot is a point-in-time view of the in-process tallies.
type Snapshot struct {
	APIRequests         int64   `json:"apiRequests"`
	APIErrors           int64   `json:"apiErrors"`
	CacheHits           int64   `json:"cacheHits"`
	CacheMisses         int64   `json:"cacheMisses"`
	ErrorRate           float64 `json:"errorRate"`
	CacheHitRate        float64 `json:"cacheHitRate"`
	AverageResponseTime float64 `json:"averageResponseTime"` // milliseconds
}

// Health is the evaluated service status.
type Health struct {
	Status  string   `json:"status"`
	Metrics Snapshot `json:"metrics"`
	Issues  []string `json:"issues"`
}

// Collector owns a private Prometheus registry plus the tallies used for
// health evaluation. It is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	requests        prometheus.Counter
	errors          prometheus.Counter
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	responseSeconds prometheus.Histogram
	rebuilds        *prometheus.CounterVec
	streamClients   prometheus.Gauge

	mu          sync.Mutex
	nRequests   int64
	nErrors     int64
	nHits       int64
	nMisses     int64
	recent      [recentWindow]time.Duration
	recentCount int
	recentNext  int
}

// NewCollector creates a Collector with its metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "api_requests_total",
			Help: "API requests served.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "api_errors_total",
			Help: "API requests answered with a 5xx status.",
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_hits_total",
			Help: "Cache lookups that hit.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_misses_total",
			Help: "Cache lookups that missed.",
		}, []string{"cache"}),
		responseSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "response_seconds",
			Help:    "API response latency.",
			Buckets: prometheus.DefBuckets,
		}),
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "search_index_rebuilds_total",
			Help: "Search index rebuild attempts by result.",
		}, []string{"result"}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stream_clients",
			Help: "Connected live ticker clients.",
		}),
	}

	c.registry.MustRegister(
		c.requests, c.errors, c.cacheHits, c.cacheMisses,
		c.responseSeconds, c.rebuilds, c.streamClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records one served request.
func (c *Collector) RecordRequest(latency time.Duration, failed bool) {
	c.requests.Inc()
	c.responseSeconds.Observe(latency.Seconds())
	if failed {
		c.errors.Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nRequests++
	if failed {
		c.nErrors++
	}
	c.recent[c.recentNext] = latency
	c.recentNext = (c.recentNext + 1) % recentWindow
	if c.recentCount < recentWindow {
		c.recentCount++
	}
}

// RecordCacheHit records a hit on the named cache.
func (c *Collector) RecordCacheHit(cache string) {
	c.cacheHits.WithLabelValues(cache).Inc()
	c.mu.Lock()
	c.nHits++
	c.mu.Unlock()
}

// RecordCacheMiss records a miss on the named cache.
func (c *Collector) RecordCacheMiss(cache string) {
	c.cacheMisses.WithLabelValues(cache).Inc()
	c.mu.Lock()
	c.nMisses++
	c.mu.Unlock()
}

// RecordIndexRebuild records a search index rebuild attempt.
func (c *Collector) RecordIndexRebuild(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.rebuilds.WithLabelValues(result).Inc()
}

// StreamClientConnected and StreamClientDisconnected track live ticker clients.
func (c *Collector) StreamClientConnected()    { c.streamClients.Inc() }
func (c *Collector) StreamClientDisconnected() { c.streamClients.Dec() }

// Snapshot returns the current tallies and derived rates.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		APIRequests: c.nRequests,
		APIErrors:   c.nErrors,
		CacheHits:   c.nHits,
		CacheMisses: c.nMisses,
	}
	if c.nRequests > 0 {
		s.ErrorRate = float64(c.nErrors) / float64(c.nRequests) * 100
	}
	if lookups := c.nHits + c.nMisses; lookups > 0 {
		s.CacheHitRate = float64(c.nHits) / float64(lookups) * 100
	}
	if c.recentCount > 0 {
		var total time.Duration
		for i := 0; i < c.recentCount; i++ {
			total += c.recent[i]
		}
		s.AverageResponseTime = float64(total) / float64(c.recentCount) / float64(time.Millisecond)
	}
	return s
}

// Health evaluates the snapshot: no issues is healthy, one or two degraded,
// more unhealthy.
func (c *Collector) Health() Health {
	s := c.Snapshot()
	issues := []string{}

	if s.ErrorRate > maxErrorRate {
		issues = append(issues, fmt.Sprintf("High error rate: %.2f%%", s.ErrorRate))
	}
	if s.AverageResponseTime > float64(maxAvgResponseTime/time.Millisecond) {
		issues = append(issues, fmt.Sprintf("Slow response time: %.2fms", s.AverageResponseTime))
	}
	if s.CacheHitRate < minCacheHitRate && s.CacheHits+s.CacheMisses > minCacheLookups {
		issues = append(issues, fmt.Sprintf("Low cache hit rate: %.2f%%", s.CacheHitRate))
	}

	status := StatusHealthy
	switch {
	case len(issues) > 2:
		status = StatusUnhealthy
	case len(issues) > 0:
		status = StatusDegraded
	}
	return Health{Status: status, Metrics: s, Issues: issues}
}
