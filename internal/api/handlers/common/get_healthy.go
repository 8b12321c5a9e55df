package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SenaryLabs/identity-binding/internal/api"
	"github.com/SenaryLabs/identity-binding/internal/util"
)

const healthCheckTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// getHealthyHandler runs the deep health checks: readiness plus a probe of
// the marker store when it has an external backend.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := authorizeManagement(s, c); err != nil {
			return err
		}

		log := util.LogFromEchoContext(c)

		var str strings.Builder
		healthy := true

		if s.Ready() {
			str.WriteString("Ready: OK\n")
		} else {
			healthy = false
			str.WriteString("Ready: NOT OK\n")
		}

		if p, ok := s.ExchangeStore.(pinger); ok {
			ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				healthy = false
				log.Warn().Err(err).Msg("Exchange store health check failed")
				str.WriteString("Exchange store: NOT OK\n")
			} else {
				str.WriteString("Exchange store: OK\n")
			}
		}

		status := s.ExchangeLoop.Status()
		str.WriteString(fmt.Sprintf("Exchange loop: %s\n", status.State))

		if !healthy {
			return c.String(http.StatusServiceUnavailable, str.String())
		}

		return c.String(http.StatusOK, str.String())
	}
}
