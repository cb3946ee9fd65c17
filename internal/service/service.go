package service

import (
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/config"
	"github.com/AIxinyan/student-management-system/internal/repository"
	"github.com/AIxinyan/student-management-system/pkg/jwt"
	"github.com/AIxinyan/student-management-system/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Student StudentService
	Report  ReportService
	Export  ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时报告缓存降级为直接计算）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(cfg, repo, jwtMgr, logger),
		Student: NewStudentService(repo, rdb, logger),
		Report:  NewReportService(cfg, repo, rdb, logger),
		Export:  NewExportService(repo, logger),
	}
}
