package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/pkg/response"
)

type CatalogReader interface {
	Categories() []application.CategorySummary
	Assets(category string) ([]string, error)
	Search(ctx context.Context, q string, size int) ([]application.SearchResult, error)
}

type CatalogHandler struct {
	Svc    CatalogReader
	Logger *logrus.Logger
}

func NewCatalogHandler(svc CatalogReader, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	response.OK(c, gin.H{"categories": h.Svc.Categories()}, "ok")
}

func (h *CatalogHandler) Category(c *gin.Context) {
	key := c.Param("category")
	assets, err := h.Svc.Assets(key)
	if err != nil {
		failService(c, h.Logger, err)
		return
	}
	if assets == nil {
		assets = []string{}
	}
	response.OK(c, gin.H{"category": key, "assets": assets}, "ok")
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,max=200"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func (h *CatalogHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		failBinding(c, err)
		return
	}
	results, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		failService(c, h.Logger, err)
		return
	}
	if results == nil {
		results = []application.SearchResult{}
	}
	response.OK(c, gin.H{"results": results}, "ok")
}
