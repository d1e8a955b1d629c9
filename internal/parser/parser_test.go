package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook 构造内存中的测试工作簿
func buildWorkbook(t *testing.T, headers []string, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	hs := make([]interface{}, len(headers))
	for i, h := range headers {
		hs[i] = h
	}
	if err := f.SetSheetRow("Sheet1", "A1", &hs); err != nil {
		t.Fatalf("写入表头失败: %v", err)
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("坐标转换失败: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cellName, &row); err != nil {
			t.Fatalf("写入数据行失败: %v", err)
		}
	}
	return f
}

func reportRow(mr, province, city string, target float64) []interface{} {
	return []interface{}{
		mr, "N_" + mr, "南京",
		"DM01", "DM一", "南京", "江苏",
		"RM01", "RM一", "南京", "江苏",
		"PT_A", province, city, "H001",
		target, 400.0, 300.0, 350.0,
		1200.0, 600.0,
	}
}

func TestParse_ReportSchema(t *testing.T) {
	f := buildWorkbook(t, reportHeaders(), [][]interface{}{
		reportRow("MR01", "江苏", "南京", 500),
		reportRow("MR02", "江苏", "苏州", 600),
	})

	result, err := NewParser(f).Parse("")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if result.SchemaName != "report" {
		t.Fatalf("应识别为 report 方案，实际 %s", result.SchemaName)
	}
	if len(result.Records) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d", len(result.Records))
	}

	r := result.Records[0]
	if r.MRPos != "MR01" || r.Province != "江苏" || r.City != "南京" {
		t.Fatalf("文本字段解析错误: %+v", r)
	}
	if r.TargetQ2 != 500 || r.LastYearQ2Actual != 400 || r.R6MSales != 1200 || r.HospitalPotential != 600 {
		t.Fatalf("数值字段解析错误: %+v", r)
	}
	if r.DMPos != "DM01" || r.RMPos != "RM01" || r.PTGroup != "PT_A" {
		t.Fatalf("组织字段解析错误: %+v", r)
	}
}

func TestParse_WarehouseSchema(t *testing.T) {
	row := []interface{}{
		"MR01", "代表一", "南京",
		"DM01", "DM一", "南京", "江苏",
		"RM01", "RM一", "南京", "江苏",
		"PT_A", "江苏", "南京", "H001",
		"1,500", 400.0, 300.0, 350.0,
		1200.0, 600.0,
	}
	f := buildWorkbook(t, warehouseHeaders(), [][]interface{}{row})

	result, err := NewParser(f).Parse("")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if result.SchemaName != "warehouse" {
		t.Fatalf("应识别为 warehouse 方案，实际 %s", result.SchemaName)
	}
	r := result.Records[0]
	// 千分位数值也能解析
	if r.TargetQ2 != 1500 {
		t.Fatalf("千分位指标解析错误: %v", r.TargetQ2)
	}
	if r.HospitalCode != "H001" || r.RMPos != "RM01" {
		t.Fatalf("字段解析错误: %+v", r)
	}
}

func TestParse_SkipEmptyRows(t *testing.T) {
	f := buildWorkbook(t, reportHeaders(), [][]interface{}{
		reportRow("MR01", "江苏", "南京", 500),
		make([]interface{}, 21), // 整行为空
		reportRow("MR02", "江苏", "苏州", 600),
	})

	result, err := NewParser(f).Parse("")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("空行应跳过，期望 2 条记录，实际 %d", len(result.Records))
	}
}

func TestParse_MissingColumns(t *testing.T) {
	headers := reportHeaders()[:15] // 缺少数值列
	f := buildWorkbook(t, headers, [][]interface{}{
		{"MR01", "代表一", "南京", "DM01", "DM一", "南京", "江苏",
			"RM01", "RM一", "南京", "江苏", "PT_A", "江苏", "南京", "H001"},
	})

	if _, err := NewParser(f).Parse(""); err == nil {
		t.Fatalf("缺少必需字段应报错")
	}
}

func TestParse_NoDataRows(t *testing.T) {
	f := buildWorkbook(t, reportHeaders(), nil)
	if _, err := NewParser(f).Parse(""); err == nil {
		t.Fatalf("只有表头应报错")
	}
}
