package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/config"
)

// NewMongo 初始化 MongoDB 连接并返回业务数据库句柄
// 连接失败直接返回错误，由调用方决定是否中止启动
func NewMongo(ctx context.Context, cfg *config.MongoConfig, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("MongoDB ping 失败: %w", err)
	}

	logger.Info("MongoDB 连接成功",
		zap.String("uri", cfg.URI),
		zap.String("database", cfg.Database),
	)

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes 创建业务集合的唯一索引
// 学号与用户名的唯一性由存储层兜底，应用层的预检查仍可能与并发写竞争
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection("students").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "studentId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("创建 students.studentId 唯一索引失败: %w", err)
	}

	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("创建 users.username 唯一索引失败: %w", err)
	}

	logger.Info("唯一索引就绪")
	return nil
}
