package model

// Table 规则输出的表格结果
// Header 的列顺序即导出/下发时的列顺序，规则返回后不再调整。
type Table struct {
	Header []string `json:"header"`
	Rows   [][]any  `json:"rows"`
}

// NewTable 创建带表头的空表
func NewTable(header ...string) *Table {
	return &Table{
		Header: header,
		Rows:   make([][]any, 0, 64),
	}
}

// Append 追加一行
func (t *Table) Append(cells ...any) {
	t.Rows = append(t.Rows, cells)
}

// RowCount 数据行数
func (t *Table) RowCount() int {
	return len(t.Rows)
}
