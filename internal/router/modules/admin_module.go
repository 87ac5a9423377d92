package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishekverma0700/eduavaa/internal/container"
	handlers "github.com/abhishekverma0700/eduavaa/internal/interface/http"
	"github.com/abhishekverma0700/eduavaa/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByBucket("admin"), nil))
	{
		admin.GET("/sales", m.Handler.Sales)
	}
}
