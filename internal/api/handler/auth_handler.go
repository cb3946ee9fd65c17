package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/dto"
	"github.com/AIxinyan/student-management-system/internal/service"
	"github.com/AIxinyan/student-management-system/pkg/response"
)

// AuthHandler 认证接口处理器
type AuthHandler struct {
	svc    service.AuthService
	logger *zap.Logger
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(svc service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 绑定失败后结构体仍保留已解析的字段，据此区分两类提示
		if req.Username == "" || req.Password == "" {
			response.BadRequest(c, "用户名和密码不能为空")
		} else {
			response.BadRequest(c, "密码至少6位")
		}
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrStudentNotEnrolled):
			// 注册门槛：学生表未录入时拒绝
			response.Forbidden(c, err.Error())
		default:
			h.logger.Error("注册失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.Created(c, resp, "注册成功，即将跳转到登录页面")
}

// Login 用户/管理员登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请填写完整的登录信息")
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminCredentials),
			errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrWrongPassword):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, service.ErrInvalidLoginType):
			response.BadRequest(c, err.Error())
		default:
			h.logger.Error("登录失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, resp, "登录成功")
}

// CheckUsername 检查用户名是否已被注册
// GET /api/v1/auth/check-username/:username
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "用户名不能为空")
		return
	}

	exists, err := h.svc.CheckUsername(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("检查用户名失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	// 保持与原接口一致的扁平结构
	c.JSON(http.StatusOK, gin.H{"success": true, "exists": exists})
}
