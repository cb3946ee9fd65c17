package dto

// ── 成绩分析报告 DTO ──
// 字段命名与原 API 保持一致，均值与比例按原系统格式化为两位小数字符串

// ReportSummary 总体统计
type ReportSummary struct {
	TotalStudents int     `json:"totalStudents"`
	AvgScore      string  `json:"avgScore"`
	MaxScore      float64 `json:"maxScore"`
	MinScore      float64 `json:"minScore"`
	ScoreGap      float64 `json:"scoreGap"`
}

// ReportDistribution 成绩分布
// 优秀 ≥90，良好 [80,90)，及格 [60,80)，不及格 <60
type ReportDistribution struct {
	Excellent     int    `json:"excellent"`
	Good          int    `json:"good"`
	Pass          int    `json:"pass"`
	Fail          int    `json:"fail"`
	ExcellentRate string `json:"excellentRate"`
	PassRate      string `json:"passRate"`
}

// ClassAnalysis 单个班级的统计
type ClassAnalysis struct {
	Class        string  `json:"class"`
	StudentCount int     `json:"studentCount"`
	AvgScore     string  `json:"avgScore"`
	MaxScore     float64 `json:"maxScore"`
	MinScore     float64 `json:"minScore"`
}

// RankedStudent 排名条目
type RankedStudent struct {
	Rank      int     `json:"rank"`
	Name      string  `json:"name"`
	StudentID string  `json:"studentId"`
	Class     string  `json:"class"`
	Score     float64 `json:"score"`
}

// AnalysisReport 完整分析报告
type AnalysisReport struct {
	Summary       ReportSummary      `json:"summary"`
	Distribution  ReportDistribution `json:"distribution"`
	ClassAnalysis []ClassAnalysis    `json:"classAnalysis"`
	TopStudents   []RankedStudent    `json:"topStudents"`
	Suggestions   []string           `json:"suggestions"`
}

// NoDataReport 无学生数据时的报告占位
type NoDataReport struct {
	TotalStudents int    `json:"totalStudents"`
	Message       string `json:"message"`
}
