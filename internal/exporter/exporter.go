// Package exporter 将批量诊断结果写为多 Sheet 的 Excel 工作簿。
// 一个模块一个 Sheet，Sheet 名即模块名，列顺序与规则返回的表格一致。
package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/liuxx839/ffe/internal/engine"
)

// Exporter 诊断结果导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 生成诊断工作簿
// 失败的模块也保留对应 Sheet，首格写入错误信息，保证批量输出完整可追溯。
func (e *Exporter) Export(results []engine.BatchResult) (*excelize.File, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("没有可导出的诊断结果")
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}

	for i, result := range results {
		sheet := result.Name
		if i == 0 {
			// excelize 新建工作簿自带 Sheet1，复用为第一个模块
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("重命名 Sheet 失败: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("创建 Sheet %s 失败: %w", sheet, err)
			}
		}

		if result.Err != nil {
			if err := f.SetCellValue(sheet, "A1", "模块执行失败: "+result.Err.Error()); err != nil {
				_ = f.Close()
				return nil, err
			}
			continue
		}

		if err := writeTableSheet(f, sheet, result, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeTableSheet(f *excelize.File, sheet string, result engine.BatchResult, headerStyle int) error {
	table := result.Table
	// 表头
	for col, name := range table.Header {
		cellRef, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellRef, name); err != nil {
			return fmt.Errorf("写入 %s 表头失败: %w", sheet, err)
		}
	}
	if len(table.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(table.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("设置 %s 表头样式失败: %w", sheet, err)
		}
	}

	// 数据行
	for rowIdx, row := range table.Rows {
		cellRef, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("写入 %s 第 %d 行失败: %w", sheet, rowIdx+2, err)
		}
	}
	return nil
}

// DiagnosisFileName 构造诊断输出文件名: <源文件名>_<时间戳>_diagnosis.xlsx
func DiagnosisFileName(sourceName string, at time.Time) string {
	base := sourceName
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		base = "ffe"
	}
	return fmt.Sprintf("%s_%s_diagnosis.xlsx", base, at.Format("20060102_150405"))
}
