package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
	"github.com/abhishekverma0700/eduavaa/pkg/response"
)

// AdminHeader carries the caller identifier asserted by the identity provider.
const AdminHeader = "X-Admin-UID"

type SalesLister interface {
	ListSales(ctx context.Context, caller string) ([]entity.Sale, error)
}

type AdminHandler struct {
	Svc    SalesLister
	Logger *logrus.Logger
}

func NewAdminHandler(svc SalesLister, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

func (h *AdminHandler) Sales(c *gin.Context) {
	caller := strings.TrimSpace(c.GetHeader(AdminHeader))
	sales, err := h.Svc.ListSales(c.Request.Context(), caller)
	if err != nil {
		failService(c, h.Logger, err)
		return
	}
	if sales == nil {
		sales = []entity.Sale{}
	}
	response.Write(c, response.Success(c, http.StatusOK, gin.H{"sales": sales}, "ok", gin.H{"count": len(sales)}))
}
