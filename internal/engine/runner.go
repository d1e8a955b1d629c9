package engine

import (
	"fmt"

	"github.com/liuxx839/ffe/internal/model"
)

// 模块名，同时作为导出 Excel 的 sheet 名
const (
	ModuleMRCityCoverage      = "MR City Coverage"
	ModulePersonnelDeployment = "Personnel Deployment"
	ModuleDMDeployment        = "DM Deployment"
	ModuleRMDeployment        = "RM Deployment"
	ModulePTGroupMetrics      = "PT Group Metrics"
	ModuleMRPerformance       = "MR Performance"
	ModuleDMCityCoverage      = "DM City Coverage"
	ModuleRMCoverage          = "RM Coverage"
)

// Module 一个可独立运行的诊断模块
type Module struct {
	Name string
	run  func(records []*model.SalesRecord) *model.Table
}

// Modules 返回全部诊断模块（固定顺序，即批量导出的 sheet 顺序）
// MR Performance 单独运行时自行重算 PT 分组基准；批量运行由 RunAll 复用。
func Modules() []Module {
	return []Module{
		{ModuleMRCityCoverage, func(rs []*model.SalesRecord) *model.Table {
			return MRCityCoverageTable(EvaluateMRCityCoverage(rs))
		}},
		{ModulePersonnelDeployment, func(rs []*model.SalesRecord) *model.Table {
			return PersonnelDeploymentTable(CheckPersonnelDeployment(rs))
		}},
		{ModuleDMDeployment, func(rs []*model.SalesRecord) *model.Table {
			return DMDeploymentTable(EvaluateDMDeployment(rs))
		}},
		{ModuleRMDeployment, func(rs []*model.SalesRecord) *model.Table {
			return RMDeploymentTable(EvaluateRMDeployment(rs))
		}},
		{ModulePTGroupMetrics, func(rs []*model.SalesRecord) *model.Table {
			return PTGroupMetricsTable(CalculatePTGroupMetrics(rs))
		}},
		{ModuleMRPerformance, func(rs []*model.SalesRecord) *model.Table {
			return MRPerformanceTable(EvaluateMRPerformance(rs, CalculatePTGroupMetrics(rs)))
		}},
		{ModuleDMCityCoverage, func(rs []*model.SalesRecord) *model.Table {
			return DMCityCoverageTable(EvaluateDMCityCoverage(rs))
		}},
		{ModuleRMCoverage, func(rs []*model.SalesRecord) *model.Table {
			return RMCoverageTable(EvaluateRMCoverage(rs))
		}},
	}
}

// ModuleNames 返回全部模块名（固定顺序）
func ModuleNames() []string {
	mods := Modules()
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}

// Run 运行单个模块
func Run(name string, records []*model.SalesRecord) (*model.Table, error) {
	for _, m := range Modules() {
		if m.Name == name {
			return runModule(m, records)
		}
	}
	return nil, fmt.Errorf("未知的诊断模块: %s", name)
}

// BatchResult 批量运行中单个模块的结果
type BatchResult struct {
	Name  string       `json:"name"`
	Table *model.Table `json:"table,omitempty"`
	Err   error        `json:"-"`
}

// ProgressFunc 批量运行进度回调
type ProgressFunc func(name string, index, total int)

// RunAll 批量运行全部模块
// 单个模块失败只记录在对应结果上，其余模块照常产出（部分失败语义）。
// PT 分组基准只计算一次，供 MR Performance 复用。
func RunAll(records []*model.SalesRecord, progress ProgressFunc) []BatchResult {
	mods := Modules()
	results := make([]BatchResult, 0, len(mods))

	var ptMetrics []PTGroupRow
	ptReady := false

	for i, m := range mods {
		if progress != nil {
			progress(m.Name, i, len(mods))
		}

		var table *model.Table
		var err error
		switch m.Name {
		case ModulePTGroupMetrics:
			table, err = runGuarded(func() *model.Table {
				ptMetrics = CalculatePTGroupMetrics(records)
				ptReady = true
				return PTGroupMetricsTable(ptMetrics)
			})
		case ModuleMRPerformance:
			table, err = runGuarded(func() *model.Table {
				pt := ptMetrics
				if !ptReady {
					pt = CalculatePTGroupMetrics(records)
				}
				return MRPerformanceTable(EvaluateMRPerformance(records, pt))
			})
		default:
			table, err = runModule(m, records)
		}

		results = append(results, BatchResult{Name: m.Name, Table: table, Err: err})
	}
	return results
}

func runModule(m Module, records []*model.SalesRecord) (*model.Table, error) {
	return runGuarded(func() *model.Table { return m.run(records) })
}

// runGuarded 将规则内的 panic 转换为错误，隔离单模块失败
func runGuarded(fn func() *model.Table) (table *model.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("模块执行失败: %v", r)
		}
	}()
	return fn(), nil
}
