// Package engine 实现诊断规则引擎：每条规则都是对销售明细的纯函数变换，
// 入参只读，返回全新的汇总表，规则之间除 "PT Group Metrics → MR Performance"
// 外互不依赖。
package engine

import "math"

// Yes/No 标记值。Personnel Deployment 使用 Y/N 简写，其余规则使用 Yes/No，
// 均为历史报表口径，不做统一。
const (
	flagYes = "Yes"
	flagNo  = "No"
)

// yesNo 返回 Yes/No 标记
func yesNo(b bool) string {
	if b {
		return flagYes
	}
	return flagNo
}

// growthRate 计算增长率 cur/base - 1
// base 为 0 时自然产生 ±Inf / NaN，由 cell 在输出时标记，不在此处兜底。
func growthRate(cur, base float64) float64 {
	return cur/base - 1
}

// cell 将浮点值转换为输出单元格
// 非有限值（除零产生的 Inf/NaN）以显式字符串标记，避免导出/JSON 序列化失败，
// 也避免被误读成普通数值。
func cell(v float64) any {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return v
}

// ltFinite 严格小于比较，任一侧非有限时返回 false
// 规则口径：除零产生的未定义指标不得被判定为违规。
func ltFinite(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return a < b
}

// betweenFinite 闭区间判断，a 非有限时返回 false
func betweenFinite(a, lo, hi float64) bool {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return false
	}
	return a >= lo && a <= hi
}
