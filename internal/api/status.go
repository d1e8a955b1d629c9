package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liuxx839/ffe/internal/engine"
)

// Version 应用版本号
const Version = "1.2.0"

// GetStatus 系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":      Version,
		"datasetCount": h.store.Count(),
		"moduleCount":  len(engine.Modules()),
	})
}
