package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Field 内部字段标识
type Field string

const (
	FieldMRPos          Field = "mr_pos"
	FieldMRName         Field = "mr_name"
	FieldMRBaseCity     Field = "mr_base_city"
	FieldDMPos          Field = "dm_pos"
	FieldDMName         Field = "dm_name"
	FieldDMBaseCity     Field = "dm_base_city"
	FieldDMBaseProvince Field = "dm_base_province"
	FieldRMPos          Field = "rm_pos"
	FieldRMName         Field = "rm_name"
	FieldRMBaseCity     Field = "rm_base_city"
	FieldRMBaseProvince Field = "rm_base_province"
	FieldPTGroup        Field = "pt_group"
	FieldProvince       Field = "province"
	FieldCity           Field = "city"
	FieldHospitalCode   Field = "hospital_code"
	FieldTargetQ2       Field = "target_q2"
	FieldLastYearQ2     Field = "last_year_q2_actual"
	FieldLastYearQ1     Field = "last_year_q1_actual"
	FieldCurYearQ1      Field = "cur_year_q1_actual"
	FieldR6MSales       Field = "r6m_sales"
	FieldPotential      Field = "hospital_potential"
)

// Schema 列名方案：源文件列名 -> 内部字段
// 同一套诊断规则通过列名方案适配不同导出口径的源文件，避免按列名复制规则。
type Schema struct {
	Name    string
	columns map[Field]string // 字段 -> 源列名（展示用原始写法）
	lookup  map[string]Field // 规范化列名 -> 字段
}

// NewSchema 创建列名方案
func NewSchema(name string, columns map[Field]string) *Schema {
	s := &Schema{
		Name:    name,
		columns: columns,
		lookup:  make(map[string]Field, len(columns)),
	}
	for field, col := range columns {
		s.lookup[NormalizeColumnName(col)] = field
	}
	return s
}

// Resolve 按规范化列名解析字段
func (s *Schema) Resolve(columnName string) (Field, bool) {
	f, ok := s.lookup[NormalizeColumnName(columnName)]
	return f, ok
}

// MapColumns 将表头映射为 列下标 -> 字段，并校验必需字段齐全
// 缺失字段立即报错（快速失败），错误信息列出全部缺失列名。
func (s *Schema) MapColumns(headers []string) (map[int]Field, error) {
	mappings := make(map[int]Field)
	found := make(map[Field]bool, len(s.columns))
	for idx, col := range headers {
		if f, ok := s.Resolve(col); ok {
			// 同名列以首个为准
			if !found[f] {
				mappings[idx] = f
				found[f] = true
			}
		}
	}

	var missing []string
	for field, col := range s.columns {
		if !found[field] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("缺少必需字段: %s", strings.Join(missing, ", "))
	}
	return mappings, nil
}

// matchCount 表头中能解析的列数（用于方案识别）
func (s *Schema) matchCount(headers []string) int {
	n := 0
	for _, col := range headers {
		if _, ok := s.Resolve(col); ok {
			n++
		}
	}
	return n
}

// ReportSchema 报表口径列名方案（中文地理列 + 历史报表列名）
// 目标列在部分源文件中带前导空格（" 24Q2 Final Target"），由列名规范化吸收。
func ReportSchema() *Schema {
	return NewSchema("report", map[Field]string{
		FieldMRPos:          "MR_Pos",
		FieldMRName:         "MR_Name",
		FieldMRBaseCity:     "MR_Base City",
		FieldDMPos:          "DM_POS",
		FieldDMName:         "DM_Name",
		FieldDMBaseCity:     "DM_Base City",
		FieldDMBaseProvince: "DM_Base Province",
		FieldRMPos:          "RM_POS",
		FieldRMName:         "RM_Name",
		FieldRMBaseCity:     "RM_Base City",
		FieldRMBaseProvince: "RM_Base Province",
		FieldPTGroup:        "PT_Group",
		FieldProvince:       "省份",
		FieldCity:           "城市",
		FieldHospitalCode:   "医院编码",
		FieldTargetQ2:       "24Q2 Final Target",
		FieldLastYearQ2:     "2023Q2 Actual",
		FieldLastYearQ1:     "2023Q1 Actual",
		FieldCurYearQ1:      "2024Q1 Actual",
		FieldR6MSales:       "R6M Sales Actual",
		FieldPotential:      "医院潜力",
	})
}

// WarehouseSchema 数仓口径列名方案（snake_case 导出列名）
func WarehouseSchema() *Schema {
	return NewSchema("warehouse", map[Field]string{
		FieldMRPos:          "mr_pos",
		FieldMRName:         "mr_name",
		FieldMRBaseCity:     "mr_base_city_name",
		FieldDMPos:          "dm_pos",
		FieldDMName:         "dm_name",
		FieldDMBaseCity:     "dm_base_city_name",
		FieldDMBaseProvince: "dm_base_province_name",
		FieldRMPos:          "rm_position_cd",
		FieldRMName:         "rm_name",
		FieldRMBaseCity:     "rm_base_city_name",
		FieldRMBaseProvince: "rm_base_province_name",
		FieldPTGroup:        "pt_group",
		FieldProvince:       "hco_province_name",
		FieldCity:           "hco_city_name",
		FieldHospitalCode:   "hco_cd",
		FieldTargetQ2:       "tyq2_target",
		FieldLastYearQ2:     "lyq2_actual_sales",
		FieldLastYearQ1:     "lyq1_actual_sales",
		FieldCurYearQ1:      "tyq1_actual_sales",
		FieldR6MSales:       "r6m_actual_sales",
		FieldPotential:      "hco_potential_value",
	})
}

// DetectSchema 根据表头识别列名方案
// 取命中列数最多的方案；一个都对不上时报错。
func DetectSchema(headers []string) (*Schema, error) {
	best := (*Schema)(nil)
	bestCount := 0
	for _, s := range []*Schema{ReportSchema(), WarehouseSchema()} {
		if n := s.matchCount(headers); n > bestCount {
			best = s
			bestCount = n
		}
	}
	if best == nil {
		return nil, fmt.Errorf("无法识别列名方案，表头未命中任何已知列名")
	}
	return best, nil
}
