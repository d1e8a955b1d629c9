package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liuxx839/ffe/internal/parser"
	"github.com/liuxx839/ffe/internal/store"
)

// datasetSummary 数据集摘要（不含明细）
type datasetSummary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	SchemaName string    `json:"schemaName"`
	UploadedAt time.Time `json:"uploadedAt"`
	RowCount   int       `json:"rowCount"`
}

// UploadDataset 上传并解析 Excel 数据集
// POST /api/datasets
func (h *Handler) UploadDataset(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	uploadedFile := files[0]

	// 保存到临时目录再解析
	tempFilePath := filepath.Join(os.TempDir(),
		fmt.Sprintf("ffe_upload_%d_%s", time.Now().UnixNano(), filepath.Base(uploadedFile.Filename)))
	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(tempFilePath)

	result, err := parser.ParseFile(tempFilePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "解析失败: " + err.Error()})
		return
	}

	ds := h.store.AddDataset(uploadedFile.Filename, result.SchemaName, result.Records)
	c.JSON(http.StatusOK, datasetSummary{
		ID:         ds.ID,
		FileName:   ds.FileName,
		SchemaName: ds.SchemaName,
		UploadedAt: ds.UploadedAt,
		RowCount:   ds.RowCount(),
	})
}

// ListDatasets 列出全部数据集
// GET /api/datasets
func (h *Handler) ListDatasets(c *gin.Context) {
	datasets := h.store.ListDatasets()
	summaries := make([]datasetSummary, 0, len(datasets))
	for _, ds := range datasets {
		summaries = append(summaries, datasetSummary{
			ID:         ds.ID,
			FileName:   ds.FileName,
			SchemaName: ds.SchemaName,
			UploadedAt: ds.UploadedAt,
			RowCount:   ds.RowCount(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"datasets": summaries})
}

// DeleteDataset 删除数据集
// DELETE /api/datasets/:id
func (h *Handler) DeleteDataset(c *gin.Context) {
	if err := h.store.DeleteDataset(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrDatasetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "数据集不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
