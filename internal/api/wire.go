//go:build wireinject

//go:generate wire

package api

import (
	"github.com/google/wire"

	"github.com/SenaryLabs/identity-binding/internal/config"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewClock,
	NewAgentClient,
	NewKeyResolver,
	NewAssembler,
	NewExchangeStore,
	NewExchangeLoop,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NoTest)
	return new(Server), nil
}
