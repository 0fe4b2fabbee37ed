package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-cqrs-user-service/internal/container"
	handlers "github.com/oksasatya/go-cqrs-user-service/internal/interface/http"
	"github.com/oksasatya/go-cqrs-user-service/internal/interface/middleware"
)

// AuthModule wires the login and token refresh routes.
// Public: POST /api/login, POST /api/login/refresh

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	loginLimiter := middleware.RateLimit(container.GetRedis(), cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIPAndPath())

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/login/refresh", loginLimiter, m.Handler.Refresh)
}
