package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/config"
)

// Client Redis 客户端封装
// 当前用于分析报告缓存与登录限流；连接失败时服务降级运行
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 报告缓存 ──

const reportCacheKey = "report:analysis"

// GetReportCache 读取缓存的分析报告 JSON；未命中返回 ("", nil)
func (c *Client) GetReportCache(ctx context.Context) (string, error) {
	val, err := c.rdb.Get(ctx, reportCacheKey).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetReportCache 写入分析报告 JSON
func (c *Client) SetReportCache(ctx context.Context, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, reportCacheKey, payload, ttl).Err()
}

// InvalidateReportCache 学生数据变更后清除报告缓存
func (c *Client) InvalidateReportCache(ctx context.Context) error {
	return c.rdb.Del(ctx, reportCacheKey).Err()
}

// ── 限流 ──

// CheckRateLimit 固定窗口计数限流
// 窗口内首次访问时建 key 并设置过期，超过 limit 返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
