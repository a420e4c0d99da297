// @title         wikipub API
// @version       0.1.0
// @description   Stage rendered content on a wiki sandbox page and copy pages between titles

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wikipub/internal/platform/config"
	"wikipub/internal/platform/logger"
	phttp "wikipub/internal/platform/net/http"

	"wikipub/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	lo := logger.FromEnv()
	lo.Component = "api"
	logger.Init(lo)
	l := logger.Get()

	// http server (reads CORE_API_ADDR or CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API; wiki settings come from WIKI_*
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("http server stopped")
}
