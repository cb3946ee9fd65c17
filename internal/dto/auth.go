package dto

// ── 认证模块 DTO ──

// RegisterRequest 用户注册请求
// 密码长度下限与原系统保持一致（6 位）
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求
// loginType 决定走管理员通道还是普通用户通道
type LoginRequest struct {
	Username  string `json:"username"  binding:"required"`
	Password  string `json:"password"  binding:"required"`
	LoginType string `json:"loginType" binding:"required"`
}

// AuthResponse 注册/登录成功响应
// Token 仅登录返回，由后续请求通过 Authorization 头携带
type AuthResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token,omitempty"`
}
