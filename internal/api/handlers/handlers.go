// Package handlers attaches all route handlers to the server's router
// groups.
package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/SenaryLabs/identity-binding/internal/api"
	"github.com/SenaryLabs/identity-binding/internal/api/handlers/binding"
	"github.com/SenaryLabs/identity-binding/internal/api/handlers/common"
)

func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		binding.PostBindingProofRoute(s),
		binding.PostVerifyRoute(s),
	}
}
