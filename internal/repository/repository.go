package repository

import "go.mongodb.org/mongo-driver/mongo"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Student StudentRepository
	User    UserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		Student: NewStudentRepo(db),
		User:    NewUserRepo(db),
	}
}
