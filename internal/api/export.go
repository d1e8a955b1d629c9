package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liuxx839/ffe/internal/engine"
	"github.com/liuxx839/ffe/internal/exporter"
	"github.com/liuxx839/ffe/internal/model"
	"github.com/liuxx839/ffe/internal/store"
)

// downloadTTL 导出文件下载令牌有效期
const downloadTTL = 10 * time.Minute

// Export 批量运行全部模块并导出诊断工作簿
// POST /api/datasets/:id/export
func (h *Handler) Export(c *gin.Context) {
	ds, err := h.store.GetDataset(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "数据集不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := engine.RunAll(ds.Records, nil)
	downloadURL, fileName, err := h.writeExportFile(ds, results)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	failed := make([]string, 0)
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"fileName":      fileName,
		"downloadUrl":   downloadURL,
		"failedModules": failed,
	})
}

type exportProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportStream 批量导出（SSE 进度 + 完成后提供下载地址）
// POST /api/datasets/:id/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	ds, err := h.store.GetDataset(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "数据集不存在"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(exportProgressEvent{
		Type:      "start",
		Message:   "开始诊断",
		Data:      map[string]any{"fileName": ds.FileName, "rowCount": ds.RowCount()},
		Timestamp: time.Now(),
	})

	results := engine.RunAll(ds.Records, func(name string, index, total int) {
		send(exportProgressEvent{
			Type:      "progress",
			Message:   "运行 " + name,
			Data:      map[string]any{"index": index, "total": total},
			Timestamp: time.Now(),
		})
	})

	downloadURL, fileName, err := h.writeExportFile(ds, results)
	if err != nil {
		send(exportProgressEvent{
			Type:      "error",
			Message:   "导出失败: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}

	send(exportProgressEvent{
		Type:    "done",
		Message: "诊断完成",
		Data: map[string]any{
			"fileName":    fileName,
			"downloadUrl": downloadURL,
		},
		Timestamp: time.Now(),
	})
}

// writeExportFile 写出工作簿并登记下载令牌
func (h *Handler) writeExportFile(ds *model.Dataset, results []engine.BatchResult) (downloadURL, fileName string, err error) {
	exp := exporter.NewExporter()
	file, err := exp.Export(results)
	if err != nil {
		return "", "", fmt.Errorf("生成诊断工作簿失败: %w", err)
	}
	defer file.Close()

	fileName = exporter.DiagnosisFileName(ds.FileName, time.Now())

	exportDir := h.exportDir
	if exportDir == "" {
		exportDir = os.TempDir()
	}
	filePath := filepath.Join(exportDir, fileName)
	if err := file.SaveAs(filePath); err != nil {
		return "", "", fmt.Errorf("写入导出文件失败: %w", err)
	}

	token := h.downloads.put(filePath, fileName, downloadTTL)
	return "/api/export/download/" + token, fileName, nil
}

// DownloadExport 下载导出的诊断工作簿
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接不存在或已过期"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件已被清理"})
		return
	}

	c.FileAttachment(item.filePath, item.fileName)
}
