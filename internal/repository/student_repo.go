package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AIxinyan/student-management-system/internal/model"
)

// StudentRepository 学生数据访问接口
// 未找到记录时返回 mongo.ErrNoDocuments，由 Service 层翻译为业务错误
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.Student, error)
	GetByName(ctx context.Context, name string) (*model.Student, error)
	// StudentIDTakenByOther 检查学号是否已被 excludeID 之外的学生占用
	StudentIDTakenByOther(ctx context.Context, studentID, excludeID string) (bool, error)
	// List 返回全部学生，按创建时间倒序（最新在前）
	List(ctx context.Context) ([]model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
	// Filter 按班级与分数区间（闭区间）筛选，按分数降序返回
	Filter(ctx context.Context, class string, minScore, maxScore *float64) ([]model.Student, error)
}

// studentRepo StudentRepository 的 mongo-driver 实现
type studentRepo struct {
	col *mongo.Collection
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *mongo.Database) StudentRepository {
	return &studentRepo{col: db.Collection(model.Student{}.CollectionName())}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, student)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		student.ID = oid
	}
	return nil
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// 非法 ID 视同不存在
		return nil, mongo.ErrNoDocuments
	}

	var student model.Student
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	var student model.Student
	if err := r.col.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByName(ctx context.Context, name string) (*model.Student, error) {
	var student model.Student
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) StudentIDTakenByOther(ctx context.Context, studentID, excludeID string) (bool, error) {
	filter := bson.M{"studentId": studentID}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}

	count, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *studentRepo) List(ctx context.Context) ([]model.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []model.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	student.UpdatedAt = time.Now()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": student.ID}, student)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *studentRepo) Filter(ctx context.Context, class string, minScore, maxScore *float64) ([]model.Student, error) {
	filter := bson.M{}
	if class != "" {
		filter["class"] = class
	}
	if minScore != nil || maxScore != nil {
		scoreRange := bson.M{}
		if minScore != nil {
			scoreRange["$gte"] = *minScore
		}
		if maxScore != nil {
			scoreRange["$lte"] = *maxScore
		}
		filter["score"] = scoreRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "score", Value: -1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []model.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}
