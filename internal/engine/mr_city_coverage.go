package engine

import (
	"sort"

	"github.com/liuxx839/ffe/internal/model"
)

// MRCityRow MR 城市覆盖评估结果行（一行对应一个 MR-城市 组合）
type MRCityRow struct {
	MRPos            string  `json:"mrPos"`
	MRName           string  `json:"mrName"`
	BaseCity         string  `json:"baseCity"`
	Province         string  `json:"province"`
	City             string  `json:"city"`
	Sales            float64 `json:"sales"`            // R6M 实际销售（城市内求和）
	Potential        float64 `json:"potential"`        // 医院潜力（城市内求和）
	NumCities        int     `json:"numCities"`        // 该 MR 覆盖城市数
	MultiCity        string  `json:"multiCity"`        // 覆盖城市数 > 3
	TopSalesCity     string  `json:"topSalesCity"`     // 销售最高城市
	TopPotentialCity string  `json:"topPotentialCity"` // 潜力最高城市
	BaseCityAligned  string  `json:"baseCityAligned"`  // 驻地与最优城市一致
}

type mrCityKey struct {
	MRPos    string
	MRName   string
	Province string
	City     string
	BaseCity string
}

// EvaluateMRCityCoverage MR 城市覆盖与驻地匹配评估
// 按 (MR, 省份, 城市, 驻地城市) 汇总销售与潜力，统计覆盖城市数（>3 视为多城市
// 覆盖），找出销售/潜力最高城市，并检查 MR 驻地是否命中其一。
//
// 同组内最大值并列时取分组键字典序最先的一行（确定性平局规则）。
func EvaluateMRCityCoverage(records []*model.SalesRecord) []MRCityRow {
	sums := make(map[mrCityKey]*MRCityRow)
	for _, r := range records {
		k := mrCityKey{r.MRPos, r.MRName, r.Province, r.City, r.MRBaseCity}
		row, ok := sums[k]
		if !ok {
			row = &MRCityRow{
				MRPos:    k.MRPos,
				MRName:   k.MRName,
				BaseCity: k.BaseCity,
				Province: k.Province,
				City:     k.City,
			}
			sums[k] = row
		}
		row.Sales += r.R6MSales
		row.Potential += r.HospitalPotential
	}

	rows := make([]MRCityRow, 0, len(sums))
	for _, row := range sums {
		rows = append(rows, *row)
	}
	sortMRCityRows(rows)

	// 按 MR 汇总覆盖城市数与最优城市
	type mrAgg struct {
		cities           map[string]struct{}
		topSalesCity     string
		topSales         float64
		topPotentialCity string
		topPotential     float64
		seen             bool
	}
	aggs := make(map[string]*mrAgg)
	for i := range rows {
		row := &rows[i]
		a, ok := aggs[row.MRPos]
		if !ok {
			a = &mrAgg{cities: make(map[string]struct{})}
			aggs[row.MRPos] = a
		}
		a.cities[row.City] = struct{}{}
		if !a.seen || row.Sales > a.topSales {
			a.topSales = row.Sales
			a.topSalesCity = row.City
		}
		if !a.seen || row.Potential > a.topPotential {
			a.topPotential = row.Potential
			a.topPotentialCity = row.City
		}
		a.seen = true
	}

	for i := range rows {
		row := &rows[i]
		a := aggs[row.MRPos]
		row.NumCities = len(a.cities)
		row.MultiCity = yesNo(row.NumCities > 3)
		row.TopSalesCity = a.topSalesCity
		row.TopPotentialCity = a.topPotentialCity
		row.BaseCityAligned = yesNo(row.BaseCity == a.topSalesCity || row.BaseCity == a.topPotentialCity)
	}

	return rows
}

func sortMRCityRows(rows []MRCityRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.MRPos != b.MRPos {
			return a.MRPos < b.MRPos
		}
		if a.Province != b.Province {
			return a.Province < b.Province
		}
		return a.City < b.City
	})
}

// MRCityCoverageTable 转换为输出表格
func MRCityCoverageTable(rows []MRCityRow) *model.Table {
	t := model.NewTable(
		"mr_pos", "mr_name", "mr_base_city", "province", "city",
		"r6m_sales", "hospital_potential",
		"num_cities_covered", "multi_city_coverage",
		"top_sales_city", "top_potential_city", "base_city_aligned",
	)
	for _, r := range rows {
		t.Append(
			r.MRPos, r.MRName, r.BaseCity, r.Province, r.City,
			cell(r.Sales), cell(r.Potential),
			r.NumCities, r.MultiCity,
			r.TopSalesCity, r.TopPotentialCity, r.BaseCityAligned,
		)
	}
	return t
}
