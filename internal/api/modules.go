package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liuxx839/ffe/internal/engine"
	"github.com/liuxx839/ffe/internal/store"
)

// ListModules 列出全部诊断模块
// GET /api/modules
func (h *Handler) ListModules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modules": engine.ModuleNames()})
}

// RunModule 对数据集运行单个诊断模块
// POST /api/datasets/:id/run/:module
func (h *Handler) RunModule(c *gin.Context) {
	ds, err := h.store.GetDataset(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "数据集不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	moduleName := c.Param("module")
	table, err := engine.Run(moduleName, ds.Records)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"module":   moduleName,
		"rowCount": table.RowCount(),
		"table":    table,
	})
}
