// Package server runs the HTTP service carrying the timezone channel.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/osa030/schelper/internal/channel"
	"github.com/osa030/schelper/internal/transport/rest"
	"github.com/osa030/schelper/internal/transport/rpc"
	zlog "github.com/rs/zerolog/log"
)

const readHeaderTimeout = 10 * time.Second

type Server struct {
	config     *Config
	channel    *channel.Channel
	httpServer *http.Server
	listener   net.Listener
	errCh      chan error
	wg         sync.WaitGroup
}

func NewServer(cfg *Config, ch *channel.Channel) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		channel: ch,
		errCh:   make(chan error, 1),
	}
	s.httpServer = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(rest.RequestLogger)

	rest.NewRouter(s.channel).SetupRoutes(router)
	rpc.NewHandler(s.channel).SetupRoutes(router)
	return router
}

func (s *Server) Start() error {
	zlog.Info().Msgf("Starting server on %s (channel %s)...", s.config.Listen, s.channel.Name())

	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		zlog.Error().Msgf("Error listening on %s: %v", s.config.Listen, err)
		return errors.Wrapf(err, "error listening on %s", s.config.Listen)
	}
	s.listener = listener

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error().Msgf("Error serving: %v", err)
			s.handleError(errors.Wrap(err, "error serving"))
		}
	}()

	zlog.Info().Msgf("Listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() {
	zlog.Info().Msg("Stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		zlog.Error().Msgf("Error shutting down: %v", err)
	}

	zlog.Info().Msgf("Waiting for background processes...")
	s.wg.Wait()
	zlog.Info().Msg("Server stopped")
}

func (s *Server) handleError(err error) {
	select {
	case s.errCh <- err:
	default:
	}
}

func (s *Server) GetError() <-chan error {
	return s.errCh
}
