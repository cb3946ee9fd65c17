package handler

import (
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Student *StudentHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, logger),
		Student: NewStudentHandler(svc.Student, svc.Report, logger),
		Export:  NewExportHandler(svc.Export, logger),
	}
}
