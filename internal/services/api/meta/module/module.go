// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	modkit "wikipub/internal/modkit"
	"wikipub/internal/modkit/httpkit"
	str "wikipub/internal/platform/strings"

	metahttp "wikipub/internal/services/api/meta/http"
)

// Module serves health, readiness, version and service info
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	deps   metahttp.Deps
}

// Ports optionally injects the wiki probe for /ready
type Ports struct {
	Wiki metahttp.Pinger
}

// New constructs the meta module; without a Wiki port /ready reports degraded
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		deps:   metahttp.Deps{ServiceName: "wikipub-api", StartedAt: time.Now()},
	}
	if p, ok := b.Ports.(Ports); ok {
		m.deps.Wiki = p.Wiki
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, m.deps)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix returns the mount prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
