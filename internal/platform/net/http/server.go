package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"strconv"
	"time"

	"wikipub/internal/platform/config"
	"wikipub/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the net/http server in front of it
type Server struct {
	addr  string
	grace time.Duration
	mux   *chi.Mux
	srv   *stdhttp.Server
}

// NewServer reads, under cfg's prefix:
//
//	ADDR                 listen address, else ":"+PORT (PORT defaults to 4000)
//	READ_HEADER_TIMEOUT  default 10s
//	IDLE_TIMEOUT         default 2m
//	SHUTDOWN_GRACE       how long Run drains in-flight requests, default 15s
//
// There is no write timeout; a publish may legitimately wait out Retry-After
func NewServer(cfg config.Conf) *Server {
	addr := cfg.MayString("ADDR", ":"+strconv.Itoa(cfg.MayInt("PORT", 4000)))
	m := chi.NewRouter()
	return &Server{
		addr:  addr,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 15*time.Second),
		mux:   m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
			IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
		},
	}
}

// Router returns the mux behind the Router facade
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.addr }

// Run listens and serves until ctx ends, then drains for the shutdown grace.
// A listen failure is returned immediately
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.grace).Msg("http draining")
	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
