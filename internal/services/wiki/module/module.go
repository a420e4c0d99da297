// Package module wires the wiki client, content renderer and publishing service
package module

import (
	mw "wikipub/internal/adapters/mediawiki"
	"wikipub/internal/core/content"
	"wikipub/internal/core/wikitext"
	"wikipub/internal/modkit"
	"wikipub/internal/modkit/httpkit"
	"wikipub/internal/services/wiki/domain"
	"wikipub/internal/services/wiki/service"
)

// Module defines the wiki publishing module. It mounts no routes itself
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the module from WIKI_* config with non-zero overrides applied
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)

	if overrides.APIURL != "" {
		opts.APIURL = overrides.APIURL
	}
	if overrides.UserAgent != "" {
		opts.UserAgent = overrides.UserAgent
	}
	if overrides.Timeout != 0 {
		opts.Timeout = overrides.Timeout
	}
	if overrides.RatePerSec != 0 {
		opts.RatePerSec = overrides.RatePerSec
	}
	if overrides.Burst != 0 {
		opts.Burst = overrides.Burst
	}
	if overrides.Username != "" {
		opts.Username = overrides.Username
	}
	if overrides.Password != "" {
		opts.Password = overrides.Password
	}
	if overrides.BotName != "" {
		opts.BotName = overrides.BotName
	}
	if overrides.Summary != "" {
		opts.Summary = overrides.Summary
	}
	if overrides.MaxRetries != 0 {
		opts.MaxRetries = overrides.MaxRetries
	}
	if overrides.BackoffBase != 0 {
		opts.BackoffBase = overrides.BackoffBase
	}
	if overrides.BackoffMax != 0 {
		opts.BackoffMax = overrides.BackoffMax
	}
	if overrides.TemplateDir != "" {
		opts.TemplateDir = overrides.TemplateDir
	}
	if overrides.Template != "" {
		opts.Template = overrides.Template
	}

	return Build(deps, opts)
}

// Build constructs the module from fully resolved options
func Build(deps modkit.Deps, opts Options) *Module {
	log := deps.Logger("wiki")

	client := mw.NewClient(mw.Options{
		APIURL:     opts.APIURL,
		UserAgent:  opts.UserAgent,
		Timeout:    opts.Timeout,
		RatePerSec: opts.RatePerSec,
		Burst:      opts.Burst,
		Transport:  deps.Transport,
	})

	// a missing template dir only disables rendering; verbatim content still publishes
	var render domain.Renderer
	if r, err := content.NewRenderer(opts.TemplateDir); err != nil {
		log.Warn().Err(err).Str("dir", opts.TemplateDir).Msg("template rendering disabled")
	} else {
		render = r
	}

	svc := service.New(Dialer(client), render, service.Config{
		WikiBase:    wikitext.WikiBase(client.APIURL()),
		Summary:     opts.Summary,
		Template:    opts.Template,
		BotName:     opts.BotName,
		MaxRetries:  opts.MaxRetries,
		BackoffBase: opts.BackoffBase,
		BackoffMax:  opts.BackoffMax,
	})

	log.Info().
		Str("api_url", client.APIURL()).
		Str("username", opts.Username).
		Bool("password_set", opts.Password != "").
		Int("max_retries", opts.MaxRetries).
		Msg("wiki module ready")

	return &Module{
		deps: deps,
		opts: opts,
		ports: Ports{
			Publisher: svc,
			API:       service.NewAPI(svc, domain.Credential{Identity: opts.Username, Secret: opts.Password}),
			Client:    client,
		},
	}
}

// Dialer adapts the client's session constructor to the service port
func Dialer(c *mw.Client) domain.SessionFactory {
	return func() (domain.Session, error) {
		s, err := c.NewSession()
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "wiki" }

// Prefix returns no prefix; routes live in the API wiki module
func (m *Module) Prefix() string { return "" }

// MountRoutes mounts nothing
func (m *Module) MountRoutes(_ httpkit.Router) {}
