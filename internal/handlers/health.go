package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Root(c *gin.Context) {
	c.JSON(200, gin.H{"message": "Welcome to TaskFlow API"})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"message":   "TaskFlow API is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
