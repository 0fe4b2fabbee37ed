package router

import (
	"github.com/oksasatya/go-cqrs-user-service/internal/container"
	handlers "github.com/oksasatya/go-cqrs-user-service/internal/interface/http"
	"github.com/oksasatya/go-cqrs-user-service/internal/router/modules"
)

// InitModules wires all feature modules into the router registry.
// Called once during startup after the container is populated.
func InitModules(r *Registry) {
	userHandler := handlers.NewUserHandler(container.GetBus(), container.GetQueries(), container.GetLogger())
	authHandler := handlers.NewAuthHandler(container.GetBus(), container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler))
}
