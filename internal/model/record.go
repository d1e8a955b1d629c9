package model

import "time"

// SalesRecord 销售记录数据模型
// 一行对应一条 MR-医院/城市 的销售明细，(岗位, 城市, 医院编码) 组合在源数据中唯一。
type SalesRecord struct {
	// MR 信息
	MRPos      string `json:"mrPos"`      // MR 岗位编码
	MRName     string `json:"mrName"`     // MR 姓名
	MRBaseCity string `json:"mrBaseCity"` // MR 驻地城市

	// DM 信息
	DMPos          string `json:"dmPos"`          // DM 岗位编码
	DMName         string `json:"dmName"`         // DM 姓名
	DMBaseCity     string `json:"dmBaseCity"`     // DM 驻地城市
	DMBaseProvince string `json:"dmBaseProvince"` // DM 驻地省份

	// RM 信息
	RMPos          string `json:"rmPos"`          // RM 岗位编码
	RMName         string `json:"rmName"`         // RM 姓名
	RMBaseCity     string `json:"rmBaseCity"`     // RM 驻地城市
	RMBaseProvince string `json:"rmBaseProvince"` // RM 驻地省份

	// 分组
	PTGroup string `json:"ptGroup"` // PT 分组（同组 MR 互为考核基准）

	// 地理信息
	Province     string `json:"province"`     // 医院所在省份
	City         string `json:"city"`         // 医院所在城市
	HospitalCode string `json:"hospitalCode"` // 医院编码

	// 业绩指标
	TargetQ2          float64 `json:"targetQ2"`          // 本年 Q2 最终指标
	LastYearQ2Actual  float64 `json:"lastYearQ2Actual"`  // 上年 Q2 实际销售
	LastYearQ1Actual  float64 `json:"lastYearQ1Actual"`  // 上年 Q1 实际销售
	CurYearQ1Actual   float64 `json:"curYearQ1Actual"`   // 本年 Q1 实际销售
	R6MSales          float64 `json:"r6mSales"`          // 滚动 6 个月实际销售
	HospitalPotential float64 `json:"hospitalPotential"` // 医院潜力值
}

// Dataset 一次上传并解析完成的数据集
type Dataset struct {
	ID         string         `json:"id"`         // 数据集ID
	FileName   string         `json:"fileName"`   // 源文件名
	SchemaName string         `json:"schemaName"` // 识别出的列名方案
	UploadedAt time.Time      `json:"uploadedAt"` // 上传时间
	Records    []*SalesRecord `json:"-"`          // 明细记录（不随 JSON 下发）
}

// RowCount 记录行数
func (d *Dataset) RowCount() int {
	return len(d.Records)
}
