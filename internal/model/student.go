package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student 学生档案，对应 students 集合
// studentId 全局唯一（唯一索引兜底），score 取值 [0,100]
type Student struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	Name      string             `bson:"name"                json:"name"`
	StudentID string             `bson:"studentId"           json:"studentId"`
	Class     string             `bson:"class"               json:"class"`
	Score     float64            `bson:"score"               json:"score"`
	CreatedAt time.Time          `bson:"createdAt"           json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"           json:"updatedAt"`
}

// CollectionName 指定集合名
func (Student) CollectionName() string { return "students" }
