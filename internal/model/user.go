package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 注册用户，对应 users 集合
// username 全局唯一；role 创建后不可变更（无修改入口）
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username"      json:"username"`
	PasswordHash string             `bson:"password"      json:"-"`
	Role         string             `bson:"role"          json:"role"` // "user" | "admin"
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// CollectionName 指定集合名
func (User) CollectionName() string { return "users" }
