package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AIxinyan/student-management-system/config"
	"github.com/AIxinyan/student-management-system/internal/dto"
	"github.com/AIxinyan/student-management-system/internal/model"
	"github.com/AIxinyan/student-management-system/internal/repository"
	"github.com/AIxinyan/student-management-system/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrUsernameTaken      = errors.New("该用户名已被注册")
	ErrStudentNotEnrolled = errors.New("系统未录入学生信息，请找管理员！")
	ErrUserNotFound       = errors.New("用户不存在，请先注册")
	ErrWrongPassword      = errors.New("密码错误")
	ErrAdminCredentials   = errors.New("管理员用户名或密码错误")
	ErrInvalidLoginType   = errors.New("无效的登录类型")
)

// 登录类型
const (
	LoginTypeAdmin = "admin"
	LoginTypeUser  = "user"
)

// AuthService 认证业务接口
type AuthService interface {
	// Register 注册新用户；仅当学生表已录入同名学生时放行
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login 登录；管理员与普通用户为两条独立通道，由 loginType 区分
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// CheckUsername 检查用户名是否已被占用
	CheckUsername(ctx context.Context, username string) (bool, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	// 1. 用户名是否已被注册
	exists, err := s.repo.User.ExistsUsername(ctx, req.Username)
	if err != nil {
		s.logger.Error("查询用户名失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	// 2. 注册门槛：学生表中必须存在同名学生
	if _, err := s.repo.Student.GetByName(ctx, req.Username); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotEnrolled
		}
		s.logger.Error("查询学生信息失败", zap.Error(err))
		return nil, err
	}

	// 3. 密码哈希后入库
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         "user",
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	return &dto.AuthResponse{
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	switch req.LoginType {
	case LoginTypeAdmin:
		// 管理员通道：凭据来自配置，不查用户表
		if req.Username != s.cfg.Admin.Username || req.Password != s.cfg.Admin.Password {
			return nil, ErrAdminCredentials
		}

		token, err := s.jwtMgr.GenerateToken(req.Username, "admin")
		if err != nil {
			s.logger.Error("生成 Token 失败", zap.Error(err))
			return nil, err
		}

		return &dto.AuthResponse{
			Username: req.Username,
			Role:     "admin",
			Token:    token,
		}, nil

	case LoginTypeUser:
		user, err := s.repo.User.GetByUsername(ctx, req.Username)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrUserNotFound
			}
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrWrongPassword
		}

		token, err := s.jwtMgr.GenerateToken(user.Username, user.Role)
		if err != nil {
			s.logger.Error("生成 Token 失败", zap.Error(err))
			return nil, err
		}

		return &dto.AuthResponse{
			Username: user.Username,
			Role:     user.Role,
			Token:    token,
		}, nil

	default:
		return nil, ErrInvalidLoginType
	}
}

func (s *authService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.repo.User.ExistsUsername(ctx, username)
	if err != nil {
		s.logger.Error("检查用户名失败", zap.Error(err))
		return false, err
	}
	return exists, nil
}
