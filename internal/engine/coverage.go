package engine

import (
	"sort"

	"github.com/liuxx839/ffe/internal/model"
)

// CoverageRow DM/RM 辖区覆盖评估结果行
// DM 口径下 Area 为城市，RM 口径下 Area 为省份。
type CoverageRow struct {
	Pos              string  `json:"pos"`
	Name             string  `json:"name"`
	BaseCity         string  `json:"baseCity"`
	BaseProvince     string  `json:"baseProvince"`
	Province         string  `json:"province"`
	Area             string  `json:"area"`
	Sales            float64 `json:"sales"`     // R6M 实际销售（不去重求和）
	Potential        float64 `json:"potential"` // 医院潜力（按医院编码去重后求和）
	NumAreas         int     `json:"numAreas"`
	TopSalesArea     string  `json:"topSalesArea"`
	TopPotentialArea string  `json:"topPotentialArea"`
	BaseAligned      string  `json:"baseAligned"`
	CrossProvince    string  `json:"crossProvince"`    // 本行区域是否跨出驻地省份
	CrossProvinceAll string  `json:"crossProvinceAll"` // 该岗位任一区域跨省
	MultipleRMs      string  `json:"multipleRMs"`      // 仅 RM 口径：省份被 >=2 个 RM 覆盖
}

// multipleRMsBound 同一省份被视为多头覆盖的 RM 数下限
const multipleRMsBound = 2

// coverageDim 辖区覆盖评估的口径参数
type coverageDim struct {
	pos          func(*model.SalesRecord) string
	name         func(*model.SalesRecord) string
	baseCity     func(*model.SalesRecord) string
	baseProvince func(*model.SalesRecord) string
	area         func(*model.SalesRecord) string // 城市（DM）或省份（RM）
	alignBase    func(*CoverageRow) string       // 驻地匹配的比较基准
}

// EvaluateDMCityCoverage DM 城市覆盖评估
// 销售额按 (DM, 省份, 城市) 全量求和；医院潜力先按 (DM, 城市, 医院编码)
// 去重再求和，同一医院多条销售明细只计一次潜力。两份汇总按分组键做并集
// 合并后统计覆盖城市数、最优城市、驻地匹配与跨省标记。
func EvaluateDMCityCoverage(records []*model.SalesRecord) []CoverageRow {
	return evaluateCoverage(records, coverageDim{
		pos:          func(r *model.SalesRecord) string { return r.DMPos },
		name:         func(r *model.SalesRecord) string { return r.DMName },
		baseCity:     func(r *model.SalesRecord) string { return r.DMBaseCity },
		baseProvince: func(r *model.SalesRecord) string { return r.DMBaseProvince },
		area:         func(r *model.SalesRecord) string { return r.City },
		alignBase:    func(row *CoverageRow) string { return row.BaseCity },
	})
}

// EvaluateRMCoverage RM 省份覆盖评估
// 与 DM 城市覆盖同构，粒度上升为省份：潜力按 (RM, 省份, 医院编码) 去重，
// 驻地匹配比较 RM 驻地省份。另对每个省份统计覆盖它的 RM 数，>=2 标记
// multiple_rms（辖区重叠信号）。
func EvaluateRMCoverage(records []*model.SalesRecord) []CoverageRow {
	rows := evaluateCoverage(records, coverageDim{
		pos:          func(r *model.SalesRecord) string { return r.RMPos },
		name:         func(r *model.SalesRecord) string { return r.RMName },
		baseCity:     func(r *model.SalesRecord) string { return r.RMBaseCity },
		baseProvince: func(r *model.SalesRecord) string { return r.RMBaseProvince },
		area:         func(r *model.SalesRecord) string { return r.Province },
		alignBase:    func(row *CoverageRow) string { return row.BaseProvince },
	})

	// 省份被多个 RM 覆盖的标记
	rmsByProvince := make(map[string]map[string]struct{})
	for i := range rows {
		set, ok := rmsByProvince[rows[i].Province]
		if !ok {
			set = make(map[string]struct{})
			rmsByProvince[rows[i].Province] = set
		}
		set[rows[i].Pos] = struct{}{}
	}
	for i := range rows {
		rows[i].MultipleRMs = yesNo(len(rmsByProvince[rows[i].Province]) >= multipleRMsBound)
	}
	return rows
}

type coverageKey struct {
	Pos          string
	Name         string
	BaseCity     string
	BaseProvince string
	Province     string
	Area         string
}

type dedupKey struct {
	Pos      string
	Area     string
	Hospital string
}

func evaluateCoverage(records []*model.SalesRecord, dim coverageDim) []CoverageRow {
	sums := make(map[coverageKey]*CoverageRow)
	seen := make(map[dedupKey]struct{})
	for _, r := range records {
		k := coverageKey{
			Pos:          dim.pos(r),
			Name:         dim.name(r),
			BaseCity:     dim.baseCity(r),
			BaseProvince: dim.baseProvince(r),
			Province:     r.Province,
			Area:         dim.area(r),
		}
		row, ok := sums[k]
		if !ok {
			row = &CoverageRow{
				Pos:          k.Pos,
				Name:         k.Name,
				BaseCity:     k.BaseCity,
				BaseProvince: k.BaseProvince,
				Province:     k.Province,
				Area:         k.Area,
			}
			sums[k] = row
		}
		row.Sales += r.R6MSales

		// 潜力按 (岗位, 区域, 医院编码) 去重，首条明细计入
		dk := dedupKey{Pos: k.Pos, Area: k.Area, Hospital: r.HospitalCode}
		if _, dup := seen[dk]; !dup {
			seen[dk] = struct{}{}
			row.Potential += r.HospitalPotential
		}
	}

	rows := make([]CoverageRow, 0, len(sums))
	for _, row := range sums {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		if a.Province != b.Province {
			return a.Province < b.Province
		}
		return a.Area < b.Area
	})

	// 岗位级汇总：覆盖区域数、最优区域、跨省标记
	// 最大值并列时取排序后最先出现的区域（确定性平局规则）。
	type posAgg struct {
		areas            map[string]struct{}
		topSalesArea     string
		topSales         float64
		topPotentialArea string
		topPotential     float64
		cross            bool
		seen             bool
	}
	aggs := make(map[string]*posAgg)
	for i := range rows {
		row := &rows[i]
		a, ok := aggs[row.Pos]
		if !ok {
			a = &posAgg{areas: make(map[string]struct{})}
			aggs[row.Pos] = a
		}
		a.areas[row.Area] = struct{}{}
		if !a.seen || row.Sales > a.topSales {
			a.topSales = row.Sales
			a.topSalesArea = row.Area
		}
		if !a.seen || row.Potential > a.topPotential {
			a.topPotential = row.Potential
			a.topPotentialArea = row.Area
		}
		if row.BaseProvince != row.Province {
			a.cross = true
		}
		a.seen = true
	}

	for i := range rows {
		row := &rows[i]
		a := aggs[row.Pos]
		row.NumAreas = len(a.areas)
		row.TopSalesArea = a.topSalesArea
		row.TopPotentialArea = a.topPotentialArea
		base := dim.alignBase(row)
		row.BaseAligned = yesNo(base == a.topSalesArea || base == a.topPotentialArea)
		row.CrossProvince = yesNo(row.BaseProvince != row.Province)
		row.CrossProvinceAll = yesNo(a.cross)
	}
	return rows
}

// DMCityCoverageTable 转换为输出表格
func DMCityCoverageTable(rows []CoverageRow) *model.Table {
	t := model.NewTable(
		"dm_pos", "dm_name", "dm_base_city", "dm_base_province",
		"province", "city", "r6m_sales", "hospital_potential",
		"num_cities_covered", "top_sales_city", "top_potential_city",
		"base_city_aligned", "cross_province", "cross_province_all",
	)
	for _, r := range rows {
		t.Append(
			r.Pos, r.Name, r.BaseCity, r.BaseProvince,
			r.Province, r.Area, cell(r.Sales), cell(r.Potential),
			r.NumAreas, r.TopSalesArea, r.TopPotentialArea,
			r.BaseAligned, r.CrossProvince, r.CrossProvinceAll,
		)
	}
	return t
}

// RMCoverageTable 转换为输出表格
func RMCoverageTable(rows []CoverageRow) *model.Table {
	t := model.NewTable(
		"rm_pos", "rm_name", "rm_base_city", "rm_base_province",
		"province", "r6m_sales", "hospital_potential",
		"num_provinces_covered", "top_sales_province", "top_potential_province",
		"base_province_aligned", "cross_province", "cross_province_all",
		"multiple_rms",
	)
	for _, r := range rows {
		t.Append(
			r.Pos, r.Name, r.BaseCity, r.BaseProvince,
			r.Province, cell(r.Sales), cell(r.Potential),
			r.NumAreas, r.TopSalesArea, r.TopPotentialArea,
			r.BaseAligned, r.CrossProvince, r.CrossProvinceAll,
			r.MultipleRMs,
		)
	}
	return t
}
