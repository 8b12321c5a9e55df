package common

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SenaryLabs/identity-binding/internal/api"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// getReadyHandler reports whether the server is fully initialized. Plain
// text on purpose; probes should not need a JSON parser.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := authorizeManagement(s, c); err != nil {
			return err
		}

		if !s.Ready() {
			return c.String(http.StatusServiceUnavailable, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}

func authorizeManagement(s *api.Server, c echo.Context) error {
	secret := s.Config.Management.Secret
	if secret == "" {
		return nil
	}

	supplied := c.QueryParam("mgmt-secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(supplied)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}

	return nil
}
