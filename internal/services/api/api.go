// Package api provides the HTTP API for the application
package api

import (
	"net/http"

	"wikipub/internal/platform/config"
	"wikipub/internal/platform/logger"
	phttp "wikipub/internal/platform/net/http"

	"wikipub/internal/modkit"
	"wikipub/internal/modkit/httpkit"
	"wikipub/internal/modkit/module"
	"wikipub/internal/modkit/swaggerkit"

	metamod "wikipub/internal/services/api/meta/module"
	apiwiki "wikipub/internal/services/api/wiki/module"
	wikimod "wikipub/internal/services/wiki/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Transport overrides the outbound wiki transport; nil uses the default
	Transport http.RoundTripper
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Log:       opt.Logger,
		Cfg:       opt.Config,
		Transport: opt.Transport,
	}

	// the worker module owns the wiki client and service; the API modules borrow its ports
	workerWiki := wikimod.New(deps, wikimod.Options{})
	wp := module.MustPortsOf[wikimod.Ports](workerWiki)

	apiWiki := apiwiki.New(
		deps,
		modkit.WithPorts(apiwiki.Ports{
			Service: wp.API,
		}),
	)

	mods := module.NewSet(
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Wiki: wp.Client})),
		workerWiki,
		apiWiki,
	)

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) { mods.Mount(api) })
	deps.Logger("api").Info().Strs("modules", mods.Names()).Msg("api modules mounted")
}
