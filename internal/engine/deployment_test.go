package engine

import (
	"math"
	"testing"

	"github.com/liuxx839/ffe/internal/model"
)

func provinceRecord(province, mr string, target, prior float64) *model.SalesRecord {
	return &model.SalesRecord{
		Province: province, MRPos: mr, MRName: "N_" + mr,
		TargetQ2: target, LastYearQ2Actual: prior,
	}
}

func TestCheckPersonnelDeployment(t *testing.T) {
	// 江苏: 指标 1000 / 上年 800 / 2 人 -> 人效 2000, 增长 0.25
	// 浙江: 指标 4000 / 上年 2000 / 2 人 -> 人效 8000, 增长 1.0
	// 整体: 5000/4*4 = 5000, 增长 5000/2800-1 ≈ 0.7857
	records := []*model.SalesRecord{
		provinceRecord("江苏", "MR01", 600, 500),
		provinceRecord("江苏", "MR02", 400, 300),
		provinceRecord("浙江", "MR03", 2500, 1000),
		provinceRecord("浙江", "MR04", 1500, 1000),
	}

	rows := CheckPersonnelDeployment(records)
	if len(rows) != 2 {
		t.Fatalf("期望 2 个省份，实际 %d", len(rows))
	}

	js := rows[0]
	if js.Province != "江苏" {
		t.Fatalf("省份应按名称排序，首行应为 江苏，实际 %s", js.Province)
	}
	if js.MRCount != 2 || js.Target != 1000 || js.PriorActual != 800 {
		t.Fatalf("江苏汇总错误: %+v", js)
	}
	if math.Abs(js.Productivity-2000) > 1e-9 {
		t.Fatalf("江苏人效应为 2000，实际 %v", js.Productivity)
	}
	if math.Abs(js.GrowthRate-0.25) > 1e-9 {
		t.Fatalf("江苏增长率应为 0.25，实际 %v", js.GrowthRate)
	}
	// 人效与增长率均严格低于整体 -> 违规
	if js.Violation != "Y" {
		t.Fatalf("江苏应标记违规 Y，实际 %s", js.Violation)
	}

	zj := rows[1]
	if zj.Violation != "N" {
		t.Fatalf("浙江人效高于整体，应为 N，实际 %s", zj.Violation)
	}
}

func TestCheckPersonnelDeployment_ZeroPrior(t *testing.T) {
	// 上年实际为 0 时增长率为 +Inf，不得触发违规
	records := []*model.SalesRecord{
		provinceRecord("江苏", "MR01", 100, 0),
		provinceRecord("浙江", "MR02", 5000, 1000),
	}
	rows := CheckPersonnelDeployment(records)
	for _, r := range rows {
		if r.Province == "江苏" {
			if !math.IsInf(r.GrowthRate, 1) {
				t.Fatalf("除零增长率应为 +Inf，实际 %v", r.GrowthRate)
			}
			if r.Violation != "N" {
				t.Fatalf("非有限增长率不得判违规，实际 %s", r.Violation)
			}
		}
	}
}

func dmRecord(dm, mr string, target float64) *model.SalesRecord {
	return &model.SalesRecord{
		DMPos: dm, DMName: "N_" + dm, MRPos: mr, TargetQ2: target,
	}
}

func TestEvaluateDMDeployment_SpanRange(t *testing.T) {
	mkDM := func(dm string, mrCount int) []*model.SalesRecord {
		var rs []*model.SalesRecord
		for i := 0; i < mrCount; i++ {
			rs = append(rs, dmRecord(dm, dm+"_MR"+string(rune('A'+i)), 100))
		}
		return rs
	}

	var records []*model.SalesRecord
	records = append(records, mkDM("DM05", 5)...)  // 低于下限
	records = append(records, mkDM("DM06", 6)...)  // 下限恰好
	records = append(records, mkDM("DM10", 10)...) // 上限恰好
	records = append(records, mkDM("DM11", 11)...) // 超上限

	rows := EvaluateDMDeployment(records)
	want := map[string]string{"DM05": "No", "DM06": "Yes", "DM10": "Yes", "DM11": "No"}
	for _, r := range rows {
		if r.SpanRangeCheck != want[r.Pos] {
			t.Fatalf("%s span=%d 区间检查应为 %s，实际 %s", r.Pos, r.Span, want[r.Pos], r.SpanRangeCheck)
		}
	}
}

func TestEvaluateDMDeployment_ViolationBoundary(t *testing.T) {
	// DM_A 幅度 6 (<7 触发检查)，产出恰为全体平均的 70%：严格小于不成立 -> No
	// 全体平均 = (700+1300)/2 = 1000，70% = 700 = DM_A 产出
	var records []*model.SalesRecord
	mrsA := []float64{100, 100, 100, 100, 100, 200}
	for i, target := range mrsA {
		records = append(records, dmRecord("DM_A", "A_MR"+string(rune('0'+i)), target))
	}
	for i := 0; i < 8; i++ {
		records = append(records, dmRecord("DM_B", "B_MR"+string(rune('0'+i)), 162.5))
	}

	rows := EvaluateDMDeployment(records)
	for _, r := range rows {
		if r.Pos == "DM_A" {
			if r.Span != 6 || r.Productivity != 700 {
				t.Fatalf("DM_A 汇总错误: %+v", r)
			}
			if r.Violation != "No" {
				t.Fatalf("产出恰为 70%% 阈值不应违规（严格小于），实际 %s", r.Violation)
			}
		}
	}
}

func TestEvaluateDMDeployment_Violation(t *testing.T) {
	// DM_A 幅度 3 且产出远低于全体平均 70% -> Yes
	var records []*model.SalesRecord
	for i := 0; i < 3; i++ {
		records = append(records, dmRecord("DM_A", "A_MR"+string(rune('0'+i)), 10))
	}
	for i := 0; i < 8; i++ {
		records = append(records, dmRecord("DM_B", "B_MR"+string(rune('0'+i)), 500))
	}
	rows := EvaluateDMDeployment(records)
	for _, r := range rows {
		if r.Pos == "DM_A" && r.Violation != "Yes" {
			t.Fatalf("DM_A 应违规，实际 %s", r.Violation)
		}
		if r.Pos == "DM_B" && r.Violation != "No" {
			t.Fatalf("DM_B 不应违规，实际 %s", r.Violation)
		}
	}
}

func rmRecord(rm, dm string, target float64) *model.SalesRecord {
	return &model.SalesRecord{
		RMPos: rm, RMName: "N_" + rm, DMPos: dm, TargetQ2: target,
	}
}

func TestEvaluateRMDeployment_SpanRange(t *testing.T) {
	// RM 标准区间 6-8，与 DM 的 6-10 不同
	mkRM := func(rm string, dmCount int) []*model.SalesRecord {
		var rs []*model.SalesRecord
		for i := 0; i < dmCount; i++ {
			rs = append(rs, rmRecord(rm, rm+"_DM"+string(rune('A'+i)), 100))
		}
		return rs
	}

	var records []*model.SalesRecord
	records = append(records, mkRM("RM05", 5)...)
	records = append(records, mkRM("RM06", 6)...)
	records = append(records, mkRM("RM08", 8)...)
	records = append(records, mkRM("RM09", 9)...)

	rows := EvaluateRMDeployment(records)
	want := map[string]string{"RM05": "No", "RM06": "Yes", "RM08": "Yes", "RM09": "No"}
	for _, r := range rows {
		if r.SpanRangeCheck != want[r.Pos] {
			t.Fatalf("%s span=%d 区间检查应为 %s，实际 %s", r.Pos, r.Span, want[r.Pos], r.SpanRangeCheck)
		}
	}
}

func TestEvaluateRMDeployment_ViolationSpanThreshold(t *testing.T) {
	// RM 违规检查的幅度阈值为 6：幅度 6 即使产出极低也不触发，幅度 5 触发
	var records []*model.SalesRecord
	for i := 0; i < 6; i++ {
		records = append(records, rmRecord("RM_SIX", "S_DM"+string(rune('0'+i)), 1))
	}
	for i := 0; i < 5; i++ {
		records = append(records, rmRecord("RM_FIVE", "F_DM"+string(rune('0'+i)), 1))
	}
	for i := 0; i < 7; i++ {
		records = append(records, rmRecord("RM_BIG", "B_DM"+string(rune('0'+i)), 1000))
	}

	rows := EvaluateRMDeployment(records)
	for _, r := range rows {
		switch r.Pos {
		case "RM_SIX":
			if r.Violation != "No" {
				t.Fatalf("幅度 6 不触发 RM 违规检查，实际 %s", r.Violation)
			}
		case "RM_FIVE":
			if r.Violation != "Yes" {
				t.Fatalf("幅度 5 且产出低应违规，实际 %s", r.Violation)
			}
		}
	}
}
