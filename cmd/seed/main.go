// 造数工具：向学生集合写入一批随机测试数据，便于本地联调与演示。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/config"
	"github.com/AIxinyan/student-management-system/internal/model"
	"github.com/AIxinyan/student-management-system/internal/repository"
	"github.com/AIxinyan/student-management-system/pkg/database"
	"github.com/AIxinyan/student-management-system/pkg/logger"
)

var (
	surnames   = []string{"王", "李", "张", "刘", "陈", "杨", "黄", "赵", "周", "吴", "徐", "孙", "马", "朱", "胡", "郭", "何", "林", "罗", "高"}
	givenNames = []string{"伟", "芳", "娜", "敏", "静", "丽", "强", "磊", "军", "洋", "勇", "艳", "杰", "娟", "涛", "明", "超", "秀英", "华", "建"}
	classes    = []string{"一班", "二班", "三班", "四班", "五班"}
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	count := flag.Int("count", 20, "生成学生数量")
	clearFirst := flag.Bool("clear", false, "写入前清空学生集合")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, db, err := database.NewMongo(ctx, &cfg.Mongo, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化 MongoDB 失败", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	if *clearFirst {
		res, err := db.Collection(model.Student{}.CollectionName()).DeleteMany(ctx, bson.M{})
		if err != nil {
			zapLogger.Fatal("清空学生集合失败", zap.Error(err))
		}
		zapLogger.Info("已清空学生集合", zap.Int64("deleted", res.DeletedCount))
	}

	if err := database.EnsureIndexes(ctx, db, zapLogger); err != nil {
		zapLogger.Fatal("初始化索引失败", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	created := 0
	usedNames := make(map[string]bool)
	for i := 0; created < *count && i < *count*10; i++ {
		name := surnames[rng.Intn(len(surnames))] + givenNames[rng.Intn(len(givenNames))]
		if usedNames[name] {
			continue
		}
		usedNames[name] = true

		student := &model.Student{
			Name:      name,
			StudentID: fmt.Sprintf("2024%03d", created+1),
			Class:     classes[rng.Intn(len(classes))],
			Score:     float64(60+rng.Intn(41)) + float64(rng.Intn(10))/10,
		}
		if student.Score > 100 {
			student.Score = 100
		}

		if err := repo.Student.Create(ctx, student); err != nil {
			zapLogger.Warn("写入学生失败", zap.String("name", name), zap.Error(err))
			continue
		}
		created++
	}

	zapLogger.Info("造数完成", zap.Int("created", created))
}
