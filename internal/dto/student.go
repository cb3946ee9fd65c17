package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求
// Score 用指针区分"未填写"和 0 分
type CreateStudentRequest struct {
	Name      string   `json:"name"      binding:"required"`
	StudentID string   `json:"studentId" binding:"required"`
	Class     string   `json:"class"     binding:"required"`
	Score     *float64 `json:"score"     binding:"required,gte=0,lte=100"`
}

// UpdateStudentRequest 更新学生请求（部分字段）
// 仅覆盖请求中出现的字段
type UpdateStudentRequest struct {
	Name      *string  `json:"name"      binding:"omitempty,min=1"`
	StudentID *string  `json:"studentId" binding:"omitempty,min=1"`
	Class     *string  `json:"class"     binding:"omitempty,min=1"`
	Score     *float64 `json:"score"     binding:"omitempty,gte=0,lte=100"`
}

// FilterStudentsRequest 筛选学生请求
// 省略的条件不参与过滤；分数区间为闭区间
type FilterStudentsRequest struct {
	Class    string   `form:"class"`
	MinScore *float64 `form:"minScore" binding:"omitempty,gte=0,lte=100"`
	MaxScore *float64 `form:"maxScore" binding:"omitempty,gte=0,lte=100"`
}
