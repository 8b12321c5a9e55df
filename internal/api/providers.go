package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SenaryLabs/identity-binding/internal/agent"
	"github.com/SenaryLabs/identity-binding/internal/binding"
	"github.com/SenaryLabs/identity-binding/internal/config"
	"github.com/SenaryLabs/identity-binding/internal/exchange"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirements for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NoTest() []*testing.T {
	return nil
}

func NewAgentClient(cfg config.Server) agent.Client {
	return agent.NewHTTPClient(agent.Options{
		Endpoint: cfg.Agent.Endpoint,
		Token:    cfg.Agent.Token,
		Timeout:  time.Duration(cfg.Agent.TimeoutSeconds) * time.Second,
	})
}

func NewKeyResolver(client agent.Client) binding.KeyResolver {
	return agent.NewStateResolver(client)
}

func NewAssembler(resolver binding.KeyResolver, clock time2.Clock) *binding.Assembler {
	return binding.NewAssembler(resolver, clock)
}

// NewExchangeStore selects the marker store. Without a Redis endpoint the
// in-process store is used and markers do not survive a restart.
func NewExchangeStore(cfg config.Server) (exchange.Store, error) {
	if cfg.Redis.Endpoint == "" {
		log.Warn().Msg("No redis endpoint configured, using in-memory exchange store")
		return exchange.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Endpoint,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := time.Duration(cfg.Exchange.MarkerTTLHours) * time.Hour

	return exchange.NewRedisStore(client, ttl), nil
}

func NewExchangeLoop(cfg config.Server, client agent.Client, store exchange.Store, clock time2.Clock) *exchange.Loop {
	return exchange.NewLoop(client, store, clock, exchange.Config{
		SenderName:   cfg.Agent.SenderName,
		PollInterval: time.Duration(cfg.Exchange.PollIntervalSeconds) * time.Second,
		ErrBackoff:   time.Duration(cfg.Exchange.ErrBackoffSeconds) * time.Second,
		AuthBackoff:  time.Duration(cfg.Exchange.AuthBackoffSeconds) * time.Second,
	})
}
