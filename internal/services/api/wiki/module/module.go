// Package module wires the wiki publish and copy endpoints into the API using modkit
package module

import (
	"crypto/subtle"
	"net/http"

	modkit "wikipub/internal/modkit"
	"wikipub/internal/modkit/httpkit"
	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/net/middleware"
	str "wikipub/internal/platform/strings"

	whttp "wikipub/internal/services/api/wiki/http"
	"wikipub/internal/services/wiki/domain"
)

// Module implements the wiki API module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	token  string

	svc domain.ServicePort
}

// Ports declares the injected service port this module requires
type Ports struct {
	Service domain.ServicePort
}

// caller is the user id stamped on requests that pass the token check
const caller = "api-token"

// New constructs the wiki API module; the Service port must be injected with modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	o := FromConfig(deps.Cfg)
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("wiki-api"),
		modkit.WithPrefix("/wiki"),
		modkit.WithMiddlewares(
			middleware.AllowContentType("application/json"),
			// each request holds a wiki session and may sleep on Retry-After
			middleware.Throttle(o.MaxInFlight, o.Backlog, o.BacklogWait),
		),
	}, opts...)...)

	injected, _ := b.Ports.(Ports)
	if injected.Service == nil {
		panic("wiki API module requires Service port (from services/wiki)")
	}

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		token:  o.Token,
		svc:    injected.Service,
	}
	if m.token == "" {
		deps.Logger("wiki-api").Warn().Msg("WIKI_API_TOKEN unset; publish and copy are unauthenticated")
	}
	return m
}

// tokenCheck accepts exactly the configured token
func tokenCheck(want string) httpkit.TokenFunc {
	return func(got string) (string, error) {
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			return "", perr.Unauthorizedf("invalid bearer token")
		}
		return caller, nil
	}
}

// MountRoutes mounts publish and copy under the module prefix, behind the token check when one is set
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		if m.token == "" {
			whttp.Register(rr, m.svc)
			return
		}
		httpkit.Protected(rr, httpkit.NewPortFunc(tokenCheck(m.token)), func(pr httpkit.Router) {
			whttp.Register(pr, m.svc)
		})
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "wiki-api") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the service port for cross-module lookups
func (m *Module) Ports() any { return m.svc }
