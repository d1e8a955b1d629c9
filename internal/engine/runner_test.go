package engine

import (
	"reflect"
	"testing"

	"github.com/liuxx839/ffe/internal/model"
)

func TestModuleNames_Order(t *testing.T) {
	want := []string{
		ModuleMRCityCoverage,
		ModulePersonnelDeployment,
		ModuleDMDeployment,
		ModuleRMDeployment,
		ModulePTGroupMetrics,
		ModuleMRPerformance,
		ModuleDMCityCoverage,
		ModuleRMCoverage,
	}
	got := ModuleNames()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("模块顺序不符: %v", got)
	}
}

func TestRun_UnknownModule(t *testing.T) {
	if _, err := Run("不存在的模块", fullOrgRecords()); err == nil {
		t.Fatalf("未知模块应返回错误")
	}
}

func TestRun_SingleModule(t *testing.T) {
	table, err := Run(ModuleMRCityCoverage, fullOrgRecords())
	if err != nil {
		t.Fatalf("运行失败: %v", err)
	}
	if table == nil || len(table.Rows) == 0 {
		t.Fatalf("结果表不应为空")
	}
	if table.Header[0] != "mr_pos" {
		t.Fatalf("表头首列应为 mr_pos，实际 %s", table.Header[0])
	}
}

func TestRunAll(t *testing.T) {
	records := fullOrgRecords()

	var progressed []string
	results := RunAll(records, func(name string, index, total int) {
		if total != 8 {
			t.Fatalf("进度回调 total 应为 8，实际 %d", total)
		}
		progressed = append(progressed, name)
	})

	if len(results) != 8 {
		t.Fatalf("期望 8 个模块结果，实际 %d", len(results))
	}
	if !reflect.DeepEqual(progressed, ModuleNames()) {
		t.Fatalf("进度回调顺序不符: %v", progressed)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("模块 %s 执行失败: %v", r.Name, r.Err)
		}
		if r.Table == nil || len(r.Table.Rows) == 0 {
			t.Fatalf("模块 %s 结果表为空", r.Name)
		}
	}
}

func TestRunAll_Idempotent(t *testing.T) {
	records := fullOrgRecords()
	first := RunAll(records, nil)
	second := RunAll(records, nil)
	if len(first) != len(second) {
		t.Fatalf("两次运行模块数不一致")
	}
	for i := range first {
		if !reflect.DeepEqual(first[i].Table, second[i].Table) {
			t.Fatalf("模块 %s 重复运行结果不一致", first[i].Name)
		}
	}
}

func TestRunGuarded_RecoversPanic(t *testing.T) {
	_, err := runGuarded(func() *model.Table {
		panic("越界")
	})
	if err == nil {
		t.Fatalf("panic 应转换为错误")
	}
}
