package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/config"
	"github.com/AIxinyan/student-management-system/internal/api/handler"
	"github.com/AIxinyan/student-management-system/internal/api/router"
	"github.com/AIxinyan/student-management-system/internal/repository"
	"github.com/AIxinyan/student-management-system/internal/service"
	"github.com/AIxinyan/student-management-system/pkg/database"
	"github.com/AIxinyan/student-management-system/pkg/jwt"
	"github.com/AIxinyan/student-management-system/pkg/logger"
	"github.com/AIxinyan/student-management-system/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// ── 配置 ──
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// ── 日志 ──
	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	// ── MongoDB ──
	ctx := context.Background()
	mongoClient, db, err := database.NewMongo(ctx, &cfg.Mongo, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化 MongoDB 失败", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zapLogger.Error("关闭 MongoDB 连接失败", zap.Error(err))
		}
	}()

	indexCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	if err := database.EnsureIndexes(indexCtx, db, zapLogger); err != nil {
		cancel()
		zapLogger.Fatal("初始化索引失败", zap.Error(err))
	}
	cancel()

	// ── Redis（可选，不可用时降级运行）──
	rdb, err := redis.NewClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis 不可用，报告缓存与限流降级", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// ── 组装依赖 ──
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, zapLogger)
	h := handler.NewHandler(svc, zapLogger)
	engine := router.New(cfg, h, jwtMgr, rdb, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// ── 启动与优雅退出 ──
	go func() {
		zapLogger.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("优雅关闭失败", zap.Error(err))
	}

	zapLogger.Info("服务已退出")
}
