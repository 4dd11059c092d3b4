package router

import (
	"github.com/oksasatya/chessup-server/internal/container"
	handlers "github.com/oksasatya/chessup-server/internal/interface/http"
	"github.com/oksasatya/chessup-server/internal/router/modules"
)

// InitModules builds the handlers from the container and registers every
// module. It should be called once during startup.
func InitModules(r *Registry, c *container.Container) {
	svc, logger := c.Service, c.Logger

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, logger), c.Tokens))
	r.Add(modules.NewOpeningModule(handlers.NewOpeningHandler(svc, logger, c.Cfg.MaxUploadBytes), c.Tokens))
	r.Add(modules.NewInboxModule(handlers.NewInboxHandler(svc, logger), c.Tokens))
	if c.Cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
