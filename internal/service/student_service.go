package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/dto"
	"github.com/AIxinyan/student-management-system/internal/model"
	"github.com/AIxinyan/student-management-system/internal/repository"
	"github.com/AIxinyan/student-management-system/pkg/redis"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound = errors.New("未找到该学生")
	ErrStudentIDExists = errors.New("该学号已存在")
	ErrStudentIDTaken  = errors.New("该学号已被其他学生使用")
)

// StudentService 学生管理业务接口
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error)
	// List 返回全部学生，最新创建在前
	List(ctx context.Context) ([]model.Student, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	// Update 部分更新；变更学号时检查是否与其他学生冲突
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*model.Student, error)
	Delete(ctx context.Context, id string) error
	// Filter 组合筛选，按分数降序返回
	Filter(ctx context.Context, req *dto.FilterStudentsRequest) ([]model.Student, error)
}

type studentService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, rdb: rdb, logger: logger}
}

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error) {
	// 学号唯一性预检查；并发窗口由唯一索引兜底
	if _, err := s.repo.Student.GetByStudentID(ctx, req.StudentID); err == nil {
		return nil, ErrStudentIDExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("查询学号失败", zap.Error(err))
		return nil, err
	}

	student := &model.Student{
		Name:      req.Name,
		StudentID: req.StudentID,
		Class:     req.Class,
		Score:     *req.Score,
	}

	if err := s.repo.Student.Create(ctx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrStudentIDExists
		}
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}

	s.invalidateReportCache(ctx)
	return student, nil
}

func (s *studentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}
	return students, nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 变更学号时检查是否与其他学生冲突
	if req.StudentID != nil && *req.StudentID != student.StudentID {
		taken, err := s.repo.Student.StudentIDTakenByOther(ctx, *req.StudentID, id)
		if err != nil {
			s.logger.Error("查询学号失败", zap.Error(err))
			return nil, err
		}
		if taken {
			return nil, ErrStudentIDTaken
		}
		student.StudentID = *req.StudentID
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Class != nil {
		student.Class = *req.Class
	}
	if req.Score != nil {
		student.Score = *req.Score
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrStudentIDTaken
		}
		s.logger.Error("更新学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateReportCache(ctx)
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrStudentNotFound
		}
		s.logger.Error("删除学生失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidateReportCache(ctx)
	return nil
}

func (s *studentService) Filter(ctx context.Context, req *dto.FilterStudentsRequest) ([]model.Student, error) {
	students, err := s.repo.Student.Filter(ctx, req.Class, req.MinScore, req.MaxScore)
	if err != nil {
		s.logger.Error("筛选学生失败", zap.Error(err))
		return nil, err
	}
	return students, nil
}

// invalidateReportCache 学生数据变更后清除分析报告缓存
// Redis 不可用或清除失败不影响写入结果，缓存过期自然兜底
func (s *studentService) invalidateReportCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateReportCache(ctx); err != nil {
		s.logger.Warn("清除报告缓存失败", zap.Error(err))
	}
}
