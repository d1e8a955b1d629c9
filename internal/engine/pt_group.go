package engine

import (
	"sort"

	"github.com/liuxx839/ffe/internal/model"
)

// PTGroupRow PT 分组指标行
type PTGroupRow struct {
	PTGroup           string  `json:"ptGroup"`
	LastYearQ1        float64 `json:"lastYearQ1"` // 上年 Q1 实际销售合计
	LastYearQ2        float64 `json:"lastYearQ2"` // 上年 Q2 实际销售合计
	CurYearQ1         float64 `json:"curYearQ1"`  // 本年 Q1 实际销售合计
	Target            float64 `json:"target"`     // 本年 Q2 指标合计
	NumPeople         int     `json:"numPeople"`  // 组内 MR 人数（去重）
	Q2AvgProductivity float64 `json:"q2AvgProductivity"`
	Q1AvgProductivity float64 `json:"q1AvgProductivity"`
	Q2GrowthRate      float64 `json:"q2GrowthRate"`
	Q1GrowthRate      float64 `json:"q1GrowthRate"`
}

// CalculatePTGroupMetrics PT 分组指标计算
// 按 PT 分组汇总四个季度口径的销售/指标并计算人均产出与增长率，
// 是 MR Performance 评估的基准输入。
func CalculatePTGroupMetrics(records []*model.SalesRecord) []PTGroupRow {
	type ptAgg struct {
		lyq1, lyq2, tyq1, target float64
		mrs                      map[string]struct{}
	}
	aggs := make(map[string]*ptAgg)
	for _, r := range records {
		a, ok := aggs[r.PTGroup]
		if !ok {
			a = &ptAgg{mrs: make(map[string]struct{})}
			aggs[r.PTGroup] = a
		}
		a.lyq1 += r.LastYearQ1Actual
		a.lyq2 += r.LastYearQ2Actual
		a.tyq1 += r.CurYearQ1Actual
		a.target += r.TargetQ2
		a.mrs[r.MRPos] = struct{}{}
	}

	rows := make([]PTGroupRow, 0, len(aggs))
	for group, a := range aggs {
		num := len(a.mrs)
		rows = append(rows, PTGroupRow{
			PTGroup:           group,
			LastYearQ1:        a.lyq1,
			LastYearQ2:        a.lyq2,
			CurYearQ1:         a.tyq1,
			Target:            a.target,
			NumPeople:         num,
			Q2AvgProductivity: a.target / float64(num),
			Q1AvgProductivity: a.tyq1 / float64(num),
			Q2GrowthRate:      growthRate(a.target, a.lyq2),
			Q1GrowthRate:      growthRate(a.tyq1, a.lyq1),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PTGroup < rows[j].PTGroup })
	return rows
}

// PTGroupMetricsTable 转换为输出表格
func PTGroupMetricsTable(rows []PTGroupRow) *model.Table {
	t := model.NewTable(
		"pt_group", "prior_year_q1_actual", "prior_year_q2_actual",
		"current_year_q1_actual", "q2_target", "num_people",
		"q2_avg_productivity", "q1_avg_productivity",
		"q2_growth_rate", "q1_growth_rate",
	)
	for _, r := range rows {
		t.Append(r.PTGroup, cell(r.LastYearQ1), cell(r.LastYearQ2),
			cell(r.CurYearQ1), cell(r.Target), r.NumPeople,
			cell(r.Q2AvgProductivity), cell(r.Q1AvgProductivity),
			cell(r.Q2GrowthRate), cell(r.Q1GrowthRate))
	}
	return t
}
