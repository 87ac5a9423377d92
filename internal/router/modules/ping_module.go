package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/abhishekverma0700/eduavaa/internal/interface/http"
)

type PingModule struct{}

func NewPingModule() *PingModule { return &PingModule{} }

func (m *PingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", handlers.Ping)
}
