package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishekverma0700/eduavaa/internal/container"
	handlers "github.com/abhishekverma0700/eduavaa/internal/interface/http"
	"github.com/abhishekverma0700/eduavaa/internal/interface/middleware"
)

type UnlockModule struct {
	Handler *handlers.UnlockHandler
}

func NewUnlockModule(h *handlers.UnlockHandler) *UnlockModule {
	return &UnlockModule{Handler: h}
}

func (m *UnlockModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users/:userId")
	users.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), nil))
	{
		users.GET("/unlocks", m.Handler.List)
		users.GET("/unlocks/download", m.Handler.Download)
	}
}
