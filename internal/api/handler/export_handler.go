package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/service"
	"github.com/AIxinyan/student-management-system/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 成绩单导出接口处理器
type ExportHandler struct {
	svc    service.ExportService
	logger *zap.Logger
}

// NewExportHandler 创建 ExportHandler 实例
func NewExportHandler(svc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

// Export 导出全量学生成绩单（xlsx）
// GET /api/v1/students/export
func (h *ExportHandler) Export(c *gin.Context) {
	buf, filename, err := h.svc.ExportStudents(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExportNoStudents):
			response.BadRequest(c, err.Error())
		default:
			h.logger.Error("导出成绩单失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	// 文件名含中文，按 RFC 5987 编码
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
