package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-cqrs-user-service/internal/container"
	handlers "github.com/oksasatya/go-cqrs-user-service/internal/interface/http"
	"github.com/oksasatya/go-cqrs-user-service/internal/interface/middleware"
	"github.com/oksasatya/go-cqrs-user-service/pkg/helpers"
)

// UserModule wires user CRUD routes.
// Public: POST /api/users
// Protected: PUT/DELETE /api/users/:id, GET /api/users, GET /api/users/:id,
// GET /api/failed-messages

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	signupLimiter := middleware.RateLimit(container.GetRedis(), cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIPAndPath())

	rg.POST("/users", signupLimiter, m.Handler.Create)

	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	{
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/:id", m.Handler.Get)
		auth.PUT("/users/:id", m.Handler.Update)
		auth.DELETE("/users/:id", m.Handler.Delete)
		auth.GET("/failed-messages", m.Handler.ListFailures)
	}
}
