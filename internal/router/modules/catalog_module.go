package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishekverma0700/eduavaa/internal/container"
	handlers "github.com/abhishekverma0700/eduavaa/internal/interface/http"
	"github.com/abhishekverma0700/eduavaa/internal/interface/middleware"
)

type CatalogModule struct {
	Handler *handlers.CatalogHandler
}

func NewCatalogModule(h *handlers.CatalogHandler) *CatalogModule {
	return &CatalogModule{Handler: h}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	catalog.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByBucket("catalog"), nil))
	{
		catalog.GET("", m.Handler.Categories)
		catalog.GET("/search", m.Handler.Search)
		catalog.GET("/:category", m.Handler.Category)
	}
}
