package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
	"github.com/abhishekverma0700/eduavaa/pkg/response"
)

type UnlockReader interface {
	ListUnlocked(ctx context.Context, userID string) []string
	DownloadURL(ctx context.Context, userID, assetID string) (string, error)
}

type UnlockHandler struct {
	Svc    UnlockReader
	Logger *logrus.Logger
}

func NewUnlockHandler(svc UnlockReader, logger *logrus.Logger) *UnlockHandler {
	return &UnlockHandler{Svc: svc, Logger: logger}
}

// List always answers 200; lookup failures degrade to an empty list.
func (h *UnlockHandler) List(c *gin.Context) {
	notes := h.Svc.ListUnlocked(c.Request.Context(), c.Param("userId"))
	if notes == nil {
		notes = []string{}
	}
	response.OK(c, gin.H{"unlocked_notes": notes}, "ok")
}

type downloadQuery struct {
	Asset string `form:"asset" binding:"required,assetpath"`
}

func (h *UnlockHandler) Download(c *gin.Context) {
	userID := c.Param("userId")
	if !entity.ValidUserID(userID) {
		response.Fail(c, http.StatusBadRequest, "invalid payload", "validation_error", map[string]string{"userId": "is invalid"})
		return
	}
	var q downloadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		failBinding(c, err)
		return
	}
	url, err := h.Svc.DownloadURL(c.Request.Context(), userID, q.Asset)
	if err != nil {
		failService(c, h.Logger, err)
		return
	}
	response.OK(c, gin.H{"url": url}, "ok")
}
