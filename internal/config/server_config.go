// Package config resolves the full server configuration from environment
// variables. Every knob has a default so a bare environment starts a
// working server against a local agent.
package config

import (
	"github.com/SenaryLabs/identity-binding/internal/util"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
}

type LoggerServer struct {
	Level              string
	PrettyPrintConsole bool
}

// AgentServer configures the identity-agent connection.
type AgentServer struct {
	Endpoint       string
	Token          string
	SenderName     string
	TimeoutSeconds int
}

// ExchangeServer configures the notification-draining loop.
type ExchangeServer struct {
	Enabled             bool
	PollIntervalSeconds int
	ErrBackoffSeconds   int
	AuthBackoffSeconds  int
	MarkerTTLHours      int
}

// RedisServer configures the idempotency marker store. An empty endpoint
// selects the in-process store.
type RedisServer struct {
	Endpoint string
}

type ManagementServer struct {
	Secret string `json:"-"` // sensitive
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Agent      AgentServer
	Exchange   ExchangeServer
	Redis      RedisServer
	Management ManagementServer
}

// DefaultServerConfigFromEnv returns the server config as resolved from
// the current environment.
func DefaultServerConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableCORSMiddleware:           util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
		},
		Logger: LoggerServer{
			Level:              util.GetEnv("SERVER_LOGGER_LEVEL", "info"),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Agent: AgentServer{
			Endpoint:       util.GetEnv("SERVER_AGENT_ENDPOINT", "http://localhost:3901"),
			Token:          util.GetEnv("SERVER_AGENT_TOKEN", ""),
			SenderName:     util.GetEnv("SERVER_AGENT_SENDER_NAME", "wallet"),
			TimeoutSeconds: util.GetEnvAsInt("SERVER_AGENT_TIMEOUT_SECONDS", 30),
		},
		Exchange: ExchangeServer{
			Enabled:             util.GetEnvAsBool("SERVER_EXCHANGE_ENABLED", true),
			PollIntervalSeconds: util.GetEnvAsInt("SERVER_EXCHANGE_POLL_INTERVAL_SECONDS", 2),
			ErrBackoffSeconds:   util.GetEnvAsInt("SERVER_EXCHANGE_ERR_BACKOFF_SECONDS", 5),
			AuthBackoffSeconds:  util.GetEnvAsInt("SERVER_EXCHANGE_AUTH_BACKOFF_SECONDS", 30),
			MarkerTTLHours:      util.GetEnvAsInt("SERVER_EXCHANGE_MARKER_TTL_HOURS", 24),
		},
		Redis: RedisServer{
			Endpoint: util.GetEnv("SERVER_REDIS_ENDPOINT", ""),
		},
		Management: ManagementServer{
			Secret: util.GetEnv("SERVER_MANAGEMENT_SECRET", ""),
		},
	}
}
