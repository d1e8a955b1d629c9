// Package parser 解析上传的 Excel 明细表为销售记录。
// 列名通过 Schema 适配，规则引擎只依赖内部字段，不感知源文件口径。
package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/liuxx839/ffe/internal/model"
)

// Parser 销售明细表解析器
type Parser struct {
	file *excelize.File
}

// NewParser 创建解析器
func NewParser(file *excelize.File) *Parser {
	return &Parser{file: file}
}

// ParseResult 解析结果
type ParseResult struct {
	SchemaName string
	Records    []*model.SalesRecord
}

// Parse 解析指定 Sheet；sheetName 为空时取第一个 Sheet
// 第一行视为表头，自动识别列名方案；必需字段缺失时立即失败。
func (p *Parser) Parse(sheetName string) (*ParseResult, error) {
	if sheetName == "" {
		sheets := p.file.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("工作簿中没有 Sheet")
		}
		sheetName = sheets[0]
	}

	rows, err := p.file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取 Sheet %s 失败: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Sheet %s 没有数据行", sheetName)
	}

	headers := rows[0]
	schema, err := DetectSchema(headers)
	if err != nil {
		return nil, err
	}

	mappings, err := schema.MapColumns(headers)
	if err != nil {
		return nil, err
	}

	var records []*model.SalesRecord
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		record := parseRow(rows[rowIdx], mappings)
		if record != nil {
			records = append(records, record)
		}
	}

	return &ParseResult{SchemaName: schema.Name, Records: records}, nil
}

// parseRow 解析单行数据，整行为空时返回 nil
func parseRow(row []string, mappings map[int]Field) *model.SalesRecord {
	record := &model.SalesRecord{}
	empty := true
	for colIdx, field := range mappings {
		if colIdx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[colIdx])
		if value == "" {
			continue
		}
		empty = false
		setFieldValue(record, field, value)
	}
	if empty {
		return nil
	}
	return record
}

// setFieldValue 设置字段值
func setFieldValue(record *model.SalesRecord, field Field, value string) {
	switch field {
	case FieldMRPos:
		record.MRPos = value
	case FieldMRName:
		record.MRName = value
	case FieldMRBaseCity:
		record.MRBaseCity = value
	case FieldDMPos:
		record.DMPos = value
	case FieldDMName:
		record.DMName = value
	case FieldDMBaseCity:
		record.DMBaseCity = value
	case FieldDMBaseProvince:
		record.DMBaseProvince = value
	case FieldRMPos:
		record.RMPos = value
	case FieldRMName:
		record.RMName = value
	case FieldRMBaseCity:
		record.RMBaseCity = value
	case FieldRMBaseProvince:
		record.RMBaseProvince = value
	case FieldPTGroup:
		record.PTGroup = value
	case FieldProvince:
		record.Province = value
	case FieldCity:
		record.City = value
	case FieldHospitalCode:
		record.HospitalCode = value
	case FieldTargetQ2:
		record.TargetQ2 = parseFloat(value)
	case FieldLastYearQ2:
		record.LastYearQ2Actual = parseFloat(value)
	case FieldLastYearQ1:
		record.LastYearQ1Actual = parseFloat(value)
	case FieldCurYearQ1:
		record.CurYearQ1Actual = parseFloat(value)
	case FieldR6MSales:
		record.R6MSales = parseFloat(value)
	case FieldPotential:
		record.HospitalPotential = parseFloat(value)
	}
}

// ParseFile 打开并解析 Excel 文件的第一个 Sheet
func ParseFile(path string) (*ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开 Excel 文件失败: %w", err)
	}
	defer f.Close()

	return NewParser(f).Parse("")
}
