package exporter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/liuxx839/ffe/internal/engine"
	"github.com/liuxx839/ffe/internal/model"
)

func sampleRecords() []*model.SalesRecord {
	return []*model.SalesRecord{
		{
			MRPos: "MR01", MRName: "代表一", MRBaseCity: "南京",
			DMPos: "DM01", DMName: "DM一", DMBaseCity: "南京", DMBaseProvince: "江苏",
			RMPos: "RM01", RMName: "RM一", RMBaseCity: "南京", RMBaseProvince: "江苏",
			PTGroup: "PT_A", Province: "江苏", City: "南京", HospitalCode: "H001",
			TargetQ2: 500, LastYearQ2Actual: 400, LastYearQ1Actual: 300, CurYearQ1Actual: 350,
			R6MSales: 1200, HospitalPotential: 600,
		},
		{
			MRPos: "MR02", MRName: "代表二", MRBaseCity: "苏州",
			DMPos: "DM01", DMName: "DM一", DMBaseCity: "南京", DMBaseProvince: "江苏",
			RMPos: "RM01", RMName: "RM一", RMBaseCity: "南京", RMBaseProvince: "江苏",
			PTGroup: "PT_A", Province: "江苏", City: "苏州", HospitalCode: "H002",
			TargetQ2: 600, LastYearQ2Actual: 500, LastYearQ1Actual: 400, CurYearQ1Actual: 450,
			R6MSales: 900, HospitalPotential: 300,
		},
	}
}

func TestExport_AllModules(t *testing.T) {
	results := engine.RunAll(sampleRecords(), nil)

	f, err := NewExporter().Export(results)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	defer f.Close()

	// 每个模块一个 Sheet，顺序与批量运行一致
	if got := f.GetSheetList(); !reflect.DeepEqual(got, engine.ModuleNames()) {
		t.Fatalf("Sheet 列表不符: %v", got)
	}

	// 首个 Sheet 表头首列
	v, err := f.GetCellValue(engine.ModuleMRCityCoverage, "A1")
	if err != nil {
		t.Fatalf("读取单元格失败: %v", err)
	}
	if v != "mr_pos" {
		t.Fatalf("表头首列应为 mr_pos，实际 %q", v)
	}

	// 数据行存在
	v, err = f.GetCellValue(engine.ModuleMRCityCoverage, "A2")
	if err != nil {
		t.Fatalf("读取单元格失败: %v", err)
	}
	if v != "MR01" {
		t.Fatalf("首行数据应为 MR01，实际 %q", v)
	}
}

func TestExport_FailedModuleSheet(t *testing.T) {
	results := []engine.BatchResult{
		{Name: "正常模块", Table: model.NewTable("col")},
		{Name: "失败模块", Err: errors.New("测试错误")},
	}

	f, err := NewExporter().Export(results)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	defer f.Close()

	v, err := f.GetCellValue("失败模块", "A1")
	if err != nil {
		t.Fatalf("读取单元格失败: %v", err)
	}
	if v != "模块执行失败: 测试错误" {
		t.Fatalf("失败模块应写入错误信息，实际 %q", v)
	}
}

func TestExport_Empty(t *testing.T) {
	if _, err := NewExporter().Export(nil); err == nil {
		t.Fatalf("空结果应报错")
	}
}

func TestDiagnosisFileName(t *testing.T) {
	at := time.Date(2024, 7, 15, 9, 30, 0, 0, time.Local)
	got := DiagnosisFileName("sales_2024.xlsx", at)
	want := "sales_2024_20240715_093000_diagnosis.xlsx"
	if got != want {
		t.Fatalf("文件名不符: %q != %q", got, want)
	}

	// 无扩展名/空文件名的兜底
	if got := DiagnosisFileName("", at); got != "ffe_20240715_093000_diagnosis.xlsx" {
		t.Fatalf("空文件名兜底错误: %q", got)
	}
}
