package service

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/model"
	"github.com/AIxinyan/student-management-system/internal/repository"
)

// ── 内存版 Repository，用于 Service 层单元测试 ──

type mockStudentRepo struct {
	students map[string]*model.Student // key 为 ObjectID hex
	order    []string                  // 插入顺序，模拟 createdAt 排序
	failErr  error                     // 非空时所有方法返回该错误
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

// seed 预置一条学生记录并返回其 ID
func (m *mockStudentRepo) seed(st model.Student) string {
	if st.ID.IsZero() {
		st.ID = primitive.NewObjectID()
	}
	id := st.ID.Hex()
	m.students[id] = &st
	m.order = append(m.order, id)
	return id
}

func (m *mockStudentRepo) Create(ctx context.Context, student *model.Student) error {
	if m.failErr != nil {
		return m.failErr
	}
	student.ID = primitive.NewObjectID()
	id := student.ID.Hex()
	cp := *student
	m.students[id] = &cp
	m.order = append(m.order, id)
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	st, ok := m.students[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *st
	return &cp, nil
}

func (m *mockStudentRepo) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	for _, st := range m.students {
		if st.StudentID == studentID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockStudentRepo) GetByName(ctx context.Context, name string) (*model.Student, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	for _, st := range m.students {
		if st.Name == name {
			cp := *st
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockStudentRepo) StudentIDTakenByOther(ctx context.Context, studentID, excludeID string) (bool, error) {
	if m.failErr != nil {
		return false, m.failErr
	}
	for id, st := range m.students {
		if id != excludeID && st.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) List(ctx context.Context) ([]model.Student, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	// 最新插入在前
	students := make([]model.Student, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		students = append(students, *m.students[m.order[i]])
	}
	return students, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *model.Student) error {
	if m.failErr != nil {
		return m.failErr
	}
	id := student.ID.Hex()
	if _, ok := m.students[id]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *student
	m.students[id] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.students[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.students, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockStudentRepo) Filter(ctx context.Context, class string, minScore, maxScore *float64) ([]model.Student, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var students []model.Student
	for _, id := range m.order {
		st := m.students[id]
		if class != "" && st.Class != class {
			continue
		}
		if minScore != nil && st.Score < *minScore {
			continue
		}
		if maxScore != nil && st.Score > *maxScore {
			continue
		}
		students = append(students, *st)
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].Score > students[j].Score
	})
	return students, nil
}

var errDuplicateUsername = errors.New("用户名已存在")

type mockUserRepo struct {
	users   map[string]*model.User // key 为用户名
	failErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.users[user.Username]; ok {
		return errDuplicateUsername
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	m.users[user.Username] = &cp
	return nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	user, ok := m.users[username]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	if m.failErr != nil {
		return false, m.failErr
	}
	_, ok := m.users[username]
	return ok, nil
}

// newTestRepository 组装内存版 Repository 聚合
func newTestRepository(studentRepo *mockStudentRepo, userRepo *mockUserRepo) *repository.Repository {
	if studentRepo == nil {
		studentRepo = newMockStudentRepo()
	}
	if userRepo == nil {
		userRepo = newMockUserRepo()
	}
	return &repository.Repository{Student: studentRepo, User: userRepo}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
