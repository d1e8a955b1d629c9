package engine

import (
	"math"
	"sort"

	"github.com/liuxx839/ffe/internal/model"
)

// MR 绩效评估常量
const (
	indexLowBound  = 0.5 // 产出指数低位线（严格小于）
	indexMediumMax = 0.7 // 中位区间上限（含）
)

// MRPerformanceRow MR 绩效评估结果行
type MRPerformanceRow struct {
	MRPos      string  `json:"mrPos"`
	MRName     string  `json:"mrName"`
	LastYearQ1 float64 `json:"lastYearQ1"`
	LastYearQ2 float64 `json:"lastYearQ2"`
	CurYearQ1  float64 `json:"curYearQ1"`
	Target     float64 `json:"target"`
	PTGroup    string  `json:"ptGroup"`

	Q2AvgProductivity   float64 `json:"q2AvgProductivity"` // 所属 PT 组基准
	Q2GroupGrowthRate   float64 `json:"q2GroupGrowthRate"`
	Q2ProductivityIndex float64 `json:"q2ProductivityIndex"` // 个人指标 / 组人均
	Q2Growth            float64 `json:"q2Growth"`
	Q2IndexLow          string  `json:"q2IndexLow"`
	Q2GrowthLowIndexMed string  `json:"q2GrowthLowIndexMed"`

	Q1AvgProductivity   float64 `json:"q1AvgProductivity"`
	Q1GroupGrowthRate   float64 `json:"q1GroupGrowthRate"`
	Q1ProductivityIndex float64 `json:"q1ProductivityIndex"`
	Q1Growth            float64 `json:"q1Growth"`
	Q1IndexLow          string  `json:"q1IndexLow"`
	Q1GrowthLowIndexMed string  `json:"q1GrowthLowIndexMed"`
}

// EvaluateMRPerformance MR 绩效评估
// 按 MR 汇总四个季度口径后关联其 PT 组基准（源数据默认一人一组，取首次出现
// 的组），计算产出指数与增长并打标：
//   - 产出指数 < 0.5 为低位（严格小于，恰为 0.5 不标记）；
//   - 增长低于组增长率且产出指数落在 [0.5, 0.7] 闭区间为中位预警。
func EvaluateMRPerformance(records []*model.SalesRecord, ptMetrics []PTGroupRow) []MRPerformanceRow {
	ptIndex := make(map[string]PTGroupRow, len(ptMetrics))
	for _, p := range ptMetrics {
		ptIndex[p.PTGroup] = p
	}

	type mrAgg struct {
		name                     string
		lyq1, lyq2, tyq1, target float64
		ptGroup                  string
		hasGroup                 bool
	}
	aggs := make(map[string]*mrAgg)
	for _, r := range records {
		a, ok := aggs[r.MRPos]
		if !ok {
			a = &mrAgg{name: r.MRName}
			aggs[r.MRPos] = a
		}
		a.lyq1 += r.LastYearQ1Actual
		a.lyq2 += r.LastYearQ2Actual
		a.tyq1 += r.CurYearQ1Actual
		a.target += r.TargetQ2
		if !a.hasGroup {
			a.ptGroup = r.PTGroup
			a.hasGroup = true
		}
	}

	rows := make([]MRPerformanceRow, 0, len(aggs))
	for pos, a := range aggs {
		row := MRPerformanceRow{
			MRPos:      pos,
			MRName:     a.name,
			LastYearQ1: a.lyq1,
			LastYearQ2: a.lyq2,
			CurYearQ1:  a.tyq1,
			Target:     a.target,
			PTGroup:    a.ptGroup,
		}

		pt, ok := ptIndex[a.ptGroup]
		if !ok {
			// 组基准缺失时指标置为未定义，不触发任何预警
			pt = PTGroupRow{
				Q2AvgProductivity: math.NaN(), Q1AvgProductivity: math.NaN(),
				Q2GrowthRate: math.NaN(), Q1GrowthRate: math.NaN(),
			}
		}

		row.Q2AvgProductivity = pt.Q2AvgProductivity
		row.Q2GroupGrowthRate = pt.Q2GrowthRate
		row.Q2ProductivityIndex = a.target / pt.Q2AvgProductivity
		row.Q2Growth = growthRate(a.target, a.lyq2)
		row.Q2IndexLow = yesNo(ltFinite(row.Q2ProductivityIndex, indexLowBound))
		row.Q2GrowthLowIndexMed = yesNo(ltFinite(row.Q2Growth, pt.Q2GrowthRate) &&
			betweenFinite(row.Q2ProductivityIndex, indexLowBound, indexMediumMax))

		row.Q1AvgProductivity = pt.Q1AvgProductivity
		row.Q1GroupGrowthRate = pt.Q1GrowthRate
		row.Q1ProductivityIndex = a.tyq1 / pt.Q1AvgProductivity
		row.Q1Growth = growthRate(a.tyq1, a.lyq1)
		row.Q1IndexLow = yesNo(ltFinite(row.Q1ProductivityIndex, indexLowBound))
		row.Q1GrowthLowIndexMed = yesNo(ltFinite(row.Q1Growth, pt.Q1GrowthRate) &&
			betweenFinite(row.Q1ProductivityIndex, indexLowBound, indexMediumMax))

		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MRPos < rows[j].MRPos })
	return rows
}

// MRPerformanceTable 转换为输出表格
func MRPerformanceTable(rows []MRPerformanceRow) *model.Table {
	t := model.NewTable(
		"mr_pos", "mr_name",
		"prior_year_q1_actual", "prior_year_q2_actual",
		"current_year_q1_actual", "q2_target", "pt_group",
		"q2_avg_productivity", "q2_growth_rate",
		"Q2_Productivity_Index", "Q2_Growth",
		"Q2_Productivity_Index_Low", "Q2_Growth_Low_and_Productivity_Index_Medium",
		"q1_avg_productivity", "q1_growth_rate",
		"Q1_Productivity_Index", "Q1_Growth",
		"Q1_Productivity_Index_Low", "Q1_Growth_Low_and_Productivity_Index_Medium",
	)
	for _, r := range rows {
		t.Append(
			r.MRPos, r.MRName,
			cell(r.LastYearQ1), cell(r.LastYearQ2),
			cell(r.CurYearQ1), cell(r.Target), r.PTGroup,
			cell(r.Q2AvgProductivity), cell(r.Q2GroupGrowthRate),
			cell(r.Q2ProductivityIndex), cell(r.Q2Growth),
			r.Q2IndexLow, r.Q2GrowthLowIndexMed,
			cell(r.Q1AvgProductivity), cell(r.Q1GroupGrowthRate),
			cell(r.Q1ProductivityIndex), cell(r.Q1Growth),
			r.Q1IndexLow, r.Q1GrowthLowIndexMed,
		)
	}
	return t
}
