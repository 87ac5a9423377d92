package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishekverma0700/eduavaa/pkg/response"
)

func Ping(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok", "time": time.Now().UTC()}, "pong")
}
