package engine

import (
	"sort"

	"github.com/liuxx839/ffe/internal/model"
)

// 人员配置规则常量
// DM 与 RM 的区间/违规阈值历史上即不对称，属既定业务口径，禁止合并。
const (
	dmSpanMin          = 6  // DM 管理幅度下限
	dmSpanMax          = 10 // DM 管理幅度上限
	dmViolationSpan    = 7  // span < 7 时才触发 DM 产出率检查
	rmSpanMin          = 6  // RM 管理幅度下限
	rmSpanMax          = 8  // RM 管理幅度上限
	rmViolationSpan    = 6  // span < 6 时才触发 RM 产出率检查
	productivityFactor = 0.7
	annualizeFactor    = 4 // 季度指标年化倍数（省级人效口径）
)

// ProvinceRow 省级人员配置检查结果行
type ProvinceRow struct {
	Province     string  `json:"province"`
	PriorActual  float64 `json:"priorActual"`  // 上年 Q2 实际销售合计
	Target       float64 `json:"target"`       // 本年 Q2 指标合计
	MRCount      int     `json:"mrCount"`      // 省内 MR 人数（去重）
	Productivity float64 `json:"productivity"` // (指标/人数)*4
	GrowthRate   float64 `json:"growthRate"`   // 指标/上年实际 - 1
	Violation    string  `json:"violation"`    // Y/N
}

// CheckPersonnelDeployment 省级人员配置检查
// 人效与增长率同时严格低于整体水平的省份标记违规。整体水平由各省合计值
// 计算（合计指标 ÷ 合计人数），即"汇总后再平均"，并非逐行平均的同义口径。
func CheckPersonnelDeployment(records []*model.SalesRecord) []ProvinceRow {
	type provAgg struct {
		prior  float64
		target float64
		mrs    map[string]struct{}
	}
	aggs := make(map[string]*provAgg)
	var totalPrior float64
	for _, r := range records {
		a, ok := aggs[r.Province]
		if !ok {
			a = &provAgg{mrs: make(map[string]struct{})}
			aggs[r.Province] = a
		}
		a.prior += r.LastYearQ2Actual
		a.target += r.TargetQ2
		a.mrs[r.MRPos] = struct{}{}
		totalPrior += r.LastYearQ2Actual
	}

	var totalTarget float64
	var totalMRCount int
	rows := make([]ProvinceRow, 0, len(aggs))
	for province, a := range aggs {
		mrCount := len(a.mrs)
		rows = append(rows, ProvinceRow{
			Province:     province,
			PriorActual:  a.prior,
			Target:       a.target,
			MRCount:      mrCount,
			Productivity: a.target / float64(mrCount) * annualizeFactor,
			GrowthRate:   growthRate(a.target, a.prior),
		})
		totalTarget += a.target
		totalMRCount += mrCount
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Province < rows[j].Province })

	// 整体人效/增长率（各省人数为去重后求和，跨省任职的 MR 会按省计入）
	overallProductivity := totalTarget / float64(totalMRCount) * annualizeFactor
	overallGrowth := growthRate(totalTarget, totalPrior)

	for i := range rows {
		low := ltFinite(rows[i].Productivity, overallProductivity) &&
			ltFinite(rows[i].GrowthRate, overallGrowth)
		if low {
			rows[i].Violation = "Y"
		} else {
			rows[i].Violation = "N"
		}
	}
	return rows
}

// PersonnelDeploymentTable 转换为输出表格
func PersonnelDeploymentTable(rows []ProvinceRow) *model.Table {
	t := model.NewTable(
		"province", "prior_year_q2_actual", "q2_target", "mr_count",
		"productivity", "growth_rate", "violation",
	)
	for _, r := range rows {
		t.Append(r.Province, cell(r.PriorActual), cell(r.Target), r.MRCount,
			cell(r.Productivity), cell(r.GrowthRate), r.Violation)
	}
	return t
}

// ManagerRow DM/RM 配置评估结果行
type ManagerRow struct {
	Pos            string  `json:"pos"`
	Name           string  `json:"name"`
	Span           int     `json:"span"`           // 管理幅度（直接下级去重数）
	SpanRangeCheck string  `json:"spanRangeCheck"` // 幅度是否落在标准区间
	Productivity   float64 `json:"productivity"`   // 辖区 Q2 指标合计
	Violation      string  `json:"violation"`
}

// EvaluateDMDeployment DM 配置评估
// 管理幅度 = 去重 MR 数，标准区间 6-10；幅度 < 7 且产出低于全体 DM 平均值
// 70% 时标记违规（边界为严格小于）。
func EvaluateDMDeployment(records []*model.SalesRecord) []ManagerRow {
	return evaluateManagerDeployment(records, managerRule{
		pos:           func(r *model.SalesRecord) string { return r.DMPos },
		name:          func(r *model.SalesRecord) string { return r.DMName },
		subordinate:   func(r *model.SalesRecord) string { return r.MRPos },
		spanMin:       dmSpanMin,
		spanMax:       dmSpanMax,
		violationSpan: dmViolationSpan,
	})
}

// EvaluateRMDeployment RM 配置评估
// 管理幅度 = 去重 DM 数，标准区间 6-8；违规检查的幅度阈值为 6，与 DM 规则
// 刻意不一致。
func EvaluateRMDeployment(records []*model.SalesRecord) []ManagerRow {
	return evaluateManagerDeployment(records, managerRule{
		pos:           func(r *model.SalesRecord) string { return r.RMPos },
		name:          func(r *model.SalesRecord) string { return r.RMName },
		subordinate:   func(r *model.SalesRecord) string { return r.DMPos },
		spanMin:       rmSpanMin,
		spanMax:       rmSpanMax,
		violationSpan: rmViolationSpan,
	})
}

// managerRule DM/RM 共用的配置评估参数
type managerRule struct {
	pos           func(*model.SalesRecord) string
	name          func(*model.SalesRecord) string
	subordinate   func(*model.SalesRecord) string
	spanMin       int
	spanMax       int
	violationSpan int
}

func evaluateManagerDeployment(records []*model.SalesRecord, rule managerRule) []ManagerRow {
	type mgrAgg struct {
		name         string
		subordinates map[string]struct{}
		target       float64
	}
	aggs := make(map[string]*mgrAgg)
	var totalTarget float64
	for _, r := range records {
		pos := rule.pos(r)
		a, ok := aggs[pos]
		if !ok {
			a = &mgrAgg{name: rule.name(r), subordinates: make(map[string]struct{})}
			aggs[pos] = a
		}
		a.subordinates[rule.subordinate(r)] = struct{}{}
		a.target += r.TargetQ2
		totalTarget += r.TargetQ2
	}

	// 全体平均产出 = 指标总计 ÷ 管理者人数（去重）
	overall := totalTarget / float64(len(aggs))

	rows := make([]ManagerRow, 0, len(aggs))
	for pos, a := range aggs {
		span := len(a.subordinates)
		row := ManagerRow{
			Pos:            pos,
			Name:           a.name,
			Span:           span,
			SpanRangeCheck: yesNo(span >= rule.spanMin && span <= rule.spanMax),
			Productivity:   a.target,
		}
		row.Violation = yesNo(span < rule.violationSpan &&
			ltFinite(a.target, productivityFactor*overall))
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Pos < rows[j].Pos })
	return rows
}

// DMDeploymentTable 转换为输出表格
func DMDeploymentTable(rows []ManagerRow) *model.Table {
	return managerTable("dm_pos", "dm_name", rows)
}

// RMDeploymentTable 转换为输出表格
func RMDeploymentTable(rows []ManagerRow) *model.Table {
	return managerTable("rm_pos", "rm_name", rows)
}

func managerTable(posCol, nameCol string, rows []ManagerRow) *model.Table {
	t := model.NewTable(posCol, nameCol, "span_of_control", "span_range_check",
		"productivity", "violation")
	for _, r := range rows {
		t.Append(r.Pos, r.Name, r.Span, r.SpanRangeCheck, cell(r.Productivity), r.Violation)
	}
	return t
}
