// Package api 提供诊断服务的 HTTP 接口。
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/liuxx839/ffe/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.MemoryStore
	exportDir string
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.MemoryStore, exportDir string) *Handler {
	return &Handler{
		store:     st,
		exportDir: exportDir,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据集管理
	router.POST("/datasets", h.UploadDataset)
	router.GET("/datasets", h.ListDatasets)
	router.DELETE("/datasets/:id", h.DeleteDataset)

	// 诊断模块
	router.GET("/modules", h.ListModules)
	router.POST("/datasets/:id/run/:module", h.RunModule)

	// 批量诊断导出
	router.POST("/datasets/:id/export", h.Export)
	router.POST("/datasets/:id/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}
