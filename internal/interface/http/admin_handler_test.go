package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abhishekverma0700/eduavaa/internal/application"
	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
)

func newAdminRouter(svc *mockSalesService) *gin.Engine {
	logger, _ := newTestLogger()
	h := NewAdminHandler(svc, logger)
	r := gin.New()
	r.GET("/api/admin/sales", h.Sales)
	return r
}

func TestAdminHandler_Sales(t *testing.T) {
	svc := new(mockSalesService)
	sales := []entity.Sale{{
		GrantID:   7,
		UserID:    "u1",
		UserName:  "Student",
		AssetID:   "Notes/a.pdf",
		PaymentID: "pay_1",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	svc.On("ListSales", mock.Anything, "admin-1").Return(sales, nil)

	rr, env := doRequest(t, newAdminRouter(svc), http.MethodGet, "/api/admin/sales", nil, map[string]string{AdminHeader: " admin-1 "})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), env.Meta["count"])

	var got struct {
		Sales []entity.Sale `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Sales, 1)
	assert.Equal(t, "Notes/a.pdf", got.Sales[0].AssetID)
	assert.Equal(t, "Student", got.Sales[0].UserName)
}

func TestAdminHandler_Sales_Forbidden(t *testing.T) {
	svc := new(mockSalesService)
	svc.On("ListSales", mock.Anything, "").Return(nil, application.ErrForbidden)

	rr, env := doRequest(t, newAdminRouter(svc), http.MethodGet, "/api/admin/sales", nil, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "forbidden", env.Error.Code)
	assert.Empty(t, env.Data)
}
