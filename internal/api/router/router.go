package router

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/config"
	"github.com/AIxinyan/student-management-system/internal/api/handler"
	"github.com/AIxinyan/student-management-system/internal/api/middleware"
	"github.com/AIxinyan/student-management-system/pkg/jwt"
	"github.com/AIxinyan/student-management-system/pkg/redis"
)

// 登录/注册接口限流参数
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// New 组装路由与中间件
func New(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Security(),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
		middleware.BodyLimit(cfg.Server.BodyLimit),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "服务运行正常"})
	})

	// ── 前端静态页面 ──
	if cfg.Server.WebDir != "" {
		registerWebPages(r, cfg.Server.WebDir)
	}

	// ── API ──
	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(rdb, logger, authRateLimit, authRateWindow))
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/check-username/:username", h.Auth.CheckUsername)
	}

	students := api.Group("/students")
	students.Use(middleware.JWTAuth(jwtMgr))
	{
		// 查询接口对所有登录用户开放
		students.GET("", h.Student.List)
		students.GET("/filter/search", h.Student.Filter)
		students.GET("/analysis/report", h.Student.Report)
		students.GET("/:id", h.Student.Get)

		// 写操作与导出仅管理员可用
		admin := students.Group("")
		admin.Use(middleware.RoleAuth("admin"))
		{
			admin.POST("", h.Student.Create)
			admin.PUT("/:id", h.Student.Update)
			admin.DELETE("/:id", h.Student.Delete)
			admin.GET("/export", h.Export.Export)
		}
	}

	return r
}

// registerWebPages 托管前端页面，根路径跳转到登录页
func registerWebPages(r *gin.Engine, webDir string) {
	pages := []string{"login.html", "register.html", "admin.html", "user.html"}
	for _, page := range pages {
		r.StaticFile("/"+page, filepath.Join(webDir, page))
	}
	r.Static("/js", filepath.Join(webDir, "js"))
	r.Static("/css", filepath.Join(webDir, "css"))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login.html")
	})
}
