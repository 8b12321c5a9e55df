package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SenaryLabs/identity-binding/internal/agent"
	"github.com/SenaryLabs/identity-binding/internal/binding"
	"github.com/SenaryLabs/identity-binding/internal/config"
	"github.com/SenaryLabs/identity-binding/internal/exchange"
	"github.com/SenaryLabs/identity-binding/internal/util"
)

type Router struct {
	Routes       []*echo.Route
	Root         *echo.Group
	Management   *echo.Group
	APIV1Binding *echo.Group
}

// Server is the central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of
// the components in the right order. To add a new component, 3 steps are
// required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config    config.Server
	Clock     time2.Clock
	Agent     agent.Client
	Assembler *binding.Assembler

	ExchangeStore exchange.Store
	ExchangeLoop  *exchange.Loop
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	clock time2.Clock,
	agentClient agent.Client,
	assembler *binding.Assembler,
	store exchange.Store,
	loop *exchange.Loop,
) *Server {
	return &Server{
		Config:        cfg,
		Clock:         clock,
		Agent:         agentClient,
		Assembler:     assembler,
		ExchangeStore: store,
		ExchangeLoop:  loop,
	}
}

func NewServer(config config.Server) *Server {
	return &Server{
		Config: config,
	}
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if s.Config.Exchange.Enabled {
		go func() {
			if err := s.ExchangeLoop.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Exchange notification loop failed")
			}
		}()
		log.Info().
			Str("sender", s.Config.Agent.SenderName).
			Msg("Exchange notification loop started in background")
	} else {
		log.Warn().Msg("Exchange notification loop is disabled")
	}

	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.ExchangeLoop != nil {
		log.Debug().Msg("Stopping exchange notification loop")
		s.ExchangeLoop.Stop()
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")
		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if closer, ok := s.ExchangeStore.(io.Closer); ok {
		log.Debug().Msg("Closing exchange store")
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close exchange store")
			errs = append(errs, err)
		}
	}

	return errs
}
