package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/dto"
	"github.com/AIxinyan/student-management-system/internal/service"
	"github.com/AIxinyan/student-management-system/pkg/response"
)

// StudentHandler 学生管理接口处理器
type StudentHandler struct {
	svc       service.StudentService
	reportSvc service.ReportService
	logger    *zap.Logger
}

// NewStudentHandler 创建 StudentHandler 实例
func NewStudentHandler(svc service.StudentService, reportSvc service.ReportService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{svc: svc, reportSvc: reportSvc, logger: logger}
}

// Create 创建学生
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请填写所有必填字段")
		return
	}

	student, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentIDExists):
			response.BadRequest(c, err.Error())
		default:
			h.logger.Error("创建学生失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.Created(c, student, "学生信息创建成功")
}

// List 获取全部学生
// GET /api/v1/students
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("获取学生列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, students, "获取学生列表成功")
}

// Get 获取单个学生
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, err.Error())
		default:
			h.logger.Error("获取学生失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, student, "获取学生信息成功")
}

// Update 更新学生（部分字段）
// PUT /api/v1/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式不正确")
		return
	}

	student, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrStudentIDTaken):
			response.BadRequest(c, err.Error())
		default:
			h.logger.Error("更新学生失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, student, "学生信息更新成功")
}

// Delete 删除学生
// DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, err.Error())
		default:
			h.logger.Error("删除学生失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil, "学生信息删除成功")
}

// Filter 按条件筛选学生
// GET /api/v1/students/filter/search?class=xxx&minScore=0&maxScore=100
func (h *StudentHandler) Filter(c *gin.Context) {
	var req dto.FilterStudentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "筛选条件格式不正确")
		return
	}

	students, err := h.svc.Filter(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("筛选学生失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, students, "筛选成功")
}

// Report 生成成绩分析报告
// GET /api/v1/students/analysis/report
func (h *StudentHandler) Report(c *gin.Context) {
	report, err := h.reportSvc.Analysis(c.Request.Context())
	if err != nil {
		h.logger.Error("生成分析报告失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	if _, noData := report.(*dto.NoDataReport); noData {
		response.OK(c, report, "分析完成")
		return
	}
	response.OK(c, report, "分析报告生成成功")
}
