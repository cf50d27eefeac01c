package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cryptowatch/internal/metrics"
	"cryptowatch/internal/search"
)

const apiVersion = "1.0.0"

// HealthReporter evaluates traffic health.
type HealthReporter interface {
	Health() metrics.Health
}

// Pinger checks a backing store.
type Pinger interface {
	Ping() error
}

// IndexReporter exposes the live search index.
type IndexReporter interface {
	IndexStats() (search.IndexStats, bool)
}

// HealthHandler serves the service health report.
type HealthHandler struct {
	reporter    HealthReporter
	db          Pinger
	index       IndexReporter
	environment string
	startedAt   time.Time
	now         func() time.Time
}

// NewHealthHandler creates a new HealthHandler. db and index may be nil.
func NewHealthHandler(reporter HealthReporter, db Pinger, index IndexReporter, environment string) *HealthHandler {
	return &HealthHandler{
		reporter:    reporter,
		db:          db,
		index:       index,
		environment: environment,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

// HealthChecks are the dependency probes.
type HealthChecks struct {
	Database    string             `json:"database"`
	SearchIndex *search.IndexStats `json:"searchIndex,omitempty"`
	Uptime      string             `json:"uptime"`
}

// HealthResponse is the /api/health body.
type HealthResponse struct {
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Version     string           `json:"version"`
	Environment string           `json:"environment"`
	Metrics     metrics.Snapshot `json:"metrics"`
	Issues      []string         `json:"issues"`
	Checks      HealthChecks     `json:"checks"`
}

// Health reports service health
// @Summary     Service health
// @Description Status derived from error rate, latency and cache hit rate, plus dependency checks
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse "Healthy or degraded"
// @Failure     503 {object} HealthResponse "Unhealthy"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.reporter.Health()
	issues := append([]string{}, report.Issues...)
	status := report.Status

	checks := HealthChecks{
		Database: "ok",
		Uptime:   h.now().Sub(h.startedAt).Truncate(time.Second).String(),
	}
	if h.db == nil {
		checks.Database = "disabled"
	} else if err := h.db.Ping(); err != nil {
		checks.Database = "unreachable"
		issues = append(issues, "Database unreachable")
		status = metrics.StatusUnhealthy
	}
	if h.index != nil {
		if stats, ok := h.index.IndexStats(); ok {
			checks.SearchIndex = &stats
		}
	}

	code := http.StatusOK
	if status == metrics.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	c.Header("Cache-Control", "no-cache")
	c.JSON(code, HealthResponse{
		Status:      status,
		Timestamp:   h.now().UTC(),
		Version:     apiVersion,
		Environment: h.environment,
		Metrics:     report.Metrics,
		Issues:      issues,
		Checks:      checks,
	})
}
