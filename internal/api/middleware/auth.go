package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AIxinyan/student-management-system/pkg/jwt"
	"github.com/AIxinyan/student-management-system/pkg/response"
)

// 认证上下文键
const (
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"
)

// JWTAuth 会话认证
// 从 Authorization: Bearer <token> 解析会话并注入用户名与角色
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, "无效的登录凭证")
			}
			c.Abort()
			return
		}

		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// RoleAuth 角色校验，需在 JWTAuth 之后挂载
func RoleAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "无权限执行该操作")
		c.Abort()
	}
}
