// Package http serves the meta endpoints: liveness, wiki readiness, build info and uptime
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"wikipub/internal/core/version"
	"wikipub/internal/modkit/httpkit"
)

// Pinger is the wiki probe behind /ready
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// Wiki may be nil; /ready then reports degraded
	Wiki Pinger

	// ProbeTimeout bounds the wiki ping, 5s when zero
	ProbeTimeout time.Duration
}

// Readiness states
const (
	ReadyOK       = "ok"
	ReadyDegraded = "degraded"
	ReadyFail     = "fail"
)

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 5 * time.Second
	}
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"wikipub-api"`
	Now     string `json:"now"     example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck is the outcome of one dependency probe
type ReadyCheck struct {
	Name      string `json:"name"       example:"wiki"`
	Status    string `json:"status"     example:"ok"`
	LatencyMS int64  `json:"latency_ms" example:"84"`
	Error     string `json:"error,omitempty" example:"query: mediawiki query request failed"`
}

// ReadyResponse summarizes readiness; fail is also signalled with a 503
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name"    example:"wikipub-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func (h *handlers) stamp() string { return h.now().UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Now: h.stamp()}, nil
}

// @Summary Readiness, probing the wiki with a siteinfo query
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	wiki := ReadyCheck{Name: "wiki", Status: ReadyDegraded, Error: "no wiki client configured"}
	if h.deps.Wiki != nil {
		ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.ProbeTimeout)
		defer cancel()

		start := h.now()
		err := h.deps.Wiki.Ping(ctx)
		wiki = ReadyCheck{Name: "wiki", Status: ReadyOK, LatencyMS: h.now().Sub(start).Milliseconds()}
		if err != nil {
			wiki.Status, wiki.Error = ReadyFail, err.Error()
		}
	}

	out := ReadyResponse{Status: wiki.Status, Checks: []ReadyCheck{wiki}, Now: h.stamp()}
	if out.Status == ReadyFail {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// @Summary Build information
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Process start time and uptime in seconds
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
