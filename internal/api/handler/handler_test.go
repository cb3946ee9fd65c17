package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/dto"
	"github.com/AIxinyan/student-management-system/internal/model"
	"github.com/AIxinyan/student-management-system/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 可编程的 Service mock ──

type mockAuthService struct {
	registerFn func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	loginFn    func(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	checkFn    func(ctx context.Context, username string) (bool, error)
}

func (m *mockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	return m.checkFn(ctx, username)
}

type mockStudentService struct {
	createFn func(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error)
	listFn   func(ctx context.Context) ([]model.Student, error)
	getFn    func(ctx context.Context, id string) (*model.Student, error)
	updateFn func(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*model.Student, error)
	deleteFn func(ctx context.Context, id string) error
	filterFn func(ctx context.Context, req *dto.FilterStudentsRequest) ([]model.Student, error)
}

func (m *mockStudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error) {
	return m.createFn(ctx, req)
}

func (m *mockStudentService) List(ctx context.Context) ([]model.Student, error) {
	return m.listFn(ctx)
}

func (m *mockStudentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	return m.getFn(ctx, id)
}

func (m *mockStudentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*model.Student, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockStudentService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockStudentService) Filter(ctx context.Context, req *dto.FilterStudentsRequest) ([]model.Student, error) {
	return m.filterFn(ctx, req)
}

type mockReportService struct {
	analysisFn func(ctx context.Context) (interface{}, error)
}

func (m *mockReportService) Analysis(ctx context.Context) (interface{}, error) {
	return m.analysisFn(ctx)
}

// ── 测试辅助 ──

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, w.Body.String())
	}
	return env
}

// ── 认证接口 ──

func TestRegisterHandler(t *testing.T) {
	authSvc := &mockAuthService{
		registerFn: func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
			return &dto.AuthResponse{Username: req.Username, Role: "user"}, nil
		},
	}
	h := NewAuthHandler(authSvc, zap.NewNop())

	r := gin.New()
	r.POST("/register", h.Register)

	// 正常注册
	w := doRequest(r, http.MethodPost, "/register", `{"username":"张三","password":"123456"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际: %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Message != "注册成功，即将跳转到登录页面" {
		t.Errorf("响应不符: %+v", env)
	}

	// 缺少字段
	w = doRequest(r, http.MethodPost, "/register", `{"username":"张三"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "用户名和密码不能为空" {
		t.Errorf("缺少字段时提示不符: %s", env.Message)
	}

	// 密码过短
	w = doRequest(r, http.MethodPost, "/register", `{"username":"张三","password":"123"}`)
	if env := decodeEnvelope(t, w); env.Message != "密码至少6位" {
		t.Errorf("密码过短时提示不符: %s", env.Message)
	}
}

func TestRegisterHandlerBusinessErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"用户名已被注册", service.ErrUsernameTaken, http.StatusBadRequest, "该用户名已被注册"},
		{"学生未录入", service.ErrStudentNotEnrolled, http.StatusForbidden, "系统未录入学生信息，请找管理员！"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authSvc := &mockAuthService{
				registerFn: func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
					return nil, tc.err
				},
			}
			h := NewAuthHandler(authSvc, zap.NewNop())
			r := gin.New()
			r.POST("/register", h.Register)

			w := doRequest(r, http.MethodPost, "/register", `{"username":"张三","password":"123456"}`)
			if w.Code != tc.status {
				t.Errorf("期望状态码 %d，实际: %d", tc.status, w.Code)
			}
			if env := decodeEnvelope(t, w); env.Success || env.Message != tc.message {
				t.Errorf("响应不符: %+v", env)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
			if req.LoginType == service.LoginTypeAdmin {
				return &dto.AuthResponse{Username: req.Username, Role: "admin", Token: "fake-token"}, nil
			}
			return nil, service.ErrWrongPassword
		},
	}
	h := NewAuthHandler(authSvc, zap.NewNop())
	r := gin.New()
	r.POST("/login", h.Login)

	// 管理员登录成功
	w := doRequest(r, http.MethodPost, "/login", `{"username":"root","password":"000000","loginType":"admin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Message != "登录成功" {
		t.Errorf("期望消息 登录成功，实际: %s", env.Message)
	}
	var resp dto.AuthResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil || resp.Token == "" {
		t.Errorf("登录响应应携带 Token: %s", env.Data)
	}

	// 密码错误走 401
	w = doRequest(r, http.MethodPost, "/login", `{"username":"张三","password":"bad","loginType":"user"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际: %d", w.Code)
	}

	// 缺少 loginType
	w = doRequest(r, http.MethodPost, "/login", `{"username":"root","password":"000000"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "请填写完整的登录信息" {
		t.Errorf("提示不符: %s", env.Message)
	}
}

func TestCheckUsernameHandler(t *testing.T) {
	authSvc := &mockAuthService{
		checkFn: func(ctx context.Context, username string) (bool, error) {
			return username == "张三", nil
		},
	}
	h := NewAuthHandler(authSvc, zap.NewNop())
	r := gin.New()
	r.GET("/check-username/:username", h.CheckUsername)

	w := doRequest(r, http.MethodGet, "/check-username/张三", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	// 扁平结构：{success, exists}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body["success"] != true || body["exists"] != true {
		t.Errorf("响应不符: %v", body)
	}

	// 不存在的用户名
	w = doRequest(r, http.MethodGet, "/check-username/李四", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	body = map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body["exists"] != false {
		t.Errorf("未注册用户名应返回 exists=false: %v", body)
	}
}

// ── 学生接口 ──

func newStudentTestRouter(svc *mockStudentService, reportSvc *mockReportService) *gin.Engine {
	if reportSvc == nil {
		reportSvc = &mockReportService{}
	}
	h := NewStudentHandler(svc, reportSvc, zap.NewNop())

	r := gin.New()
	r.POST("/students", h.Create)
	r.GET("/students", h.List)
	r.GET("/students/filter/search", h.Filter)
	r.GET("/students/analysis/report", h.Report)
	r.GET("/students/:id", h.Get)
	r.PUT("/students/:id", h.Update)
	r.DELETE("/students/:id", h.Delete)
	return r
}

func TestCreateStudentHandler(t *testing.T) {
	svc := &mockStudentService{
		createFn: func(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error) {
			return &model.Student{Name: req.Name, StudentID: req.StudentID, Class: req.Class, Score: *req.Score}, nil
		},
	}
	r := newStudentTestRouter(svc, nil)

	w := doRequest(r, http.MethodPost, "/students", `{"name":"张三","studentId":"2024001","class":"一班","score":88}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "学生信息创建成功" {
		t.Errorf("提示不符: %s", env.Message)
	}

	// 0 分不应被 required 校验拦下
	w = doRequest(r, http.MethodPost, "/students", `{"name":"零分生","studentId":"2024099","class":"三班","score":0}`)
	if w.Code != http.StatusCreated {
		t.Errorf("0 分应合法，实际状态码: %d, body=%s", w.Code, w.Body.String())
	}

	// 缺少字段
	w = doRequest(r, http.MethodPost, "/students", `{"name":"张三"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "请填写所有必填字段" {
		t.Errorf("提示不符: %s", env.Message)
	}

	// 分数超出范围
	w = doRequest(r, http.MethodPost, "/students", `{"name":"张三","studentId":"2024002","class":"一班","score":101}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("分数超出 100 应拒绝，实际: %d", w.Code)
	}

	// 学号重复
	svc.createFn = func(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error) {
		return nil, service.ErrStudentIDExists
	}
	w = doRequest(r, http.MethodPost, "/students", `{"name":"张三","studentId":"2024001","class":"一班","score":88}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "该学号已存在" {
		t.Errorf("提示不符: %s", env.Message)
	}
}

func TestGetStudentHandler(t *testing.T) {
	svc := &mockStudentService{
		getFn: func(ctx context.Context, id string) (*model.Student, error) {
			if id == "missing" {
				return nil, service.ErrStudentNotFound
			}
			return &model.Student{Name: "张三"}, nil
		},
	}
	r := newStudentTestRouter(svc, nil)

	w := doRequest(r, http.MethodGet, "/students/abc", "")
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/students/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "未找到该学生" {
		t.Errorf("提示不符: %s", env.Message)
	}
}

func TestUpdateStudentHandler(t *testing.T) {
	svc := &mockStudentService{
		updateFn: func(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*model.Student, error) {
			switch id {
			case "missing":
				return nil, service.ErrStudentNotFound
			case "conflict":
				return nil, service.ErrStudentIDTaken
			}
			return &model.Student{Name: "张三", Score: *req.Score}, nil
		},
	}
	r := newStudentTestRouter(svc, nil)

	w := doRequest(r, http.MethodPut, "/students/abc", `{"score":92}`)
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "学生信息更新成功" {
		t.Errorf("提示不符: %s", env.Message)
	}

	w = doRequest(r, http.MethodPut, "/students/missing", `{"score":92}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际: %d", w.Code)
	}

	w = doRequest(r, http.MethodPut, "/students/conflict", `{"studentId":"2024002"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "该学号已被其他学生使用" {
		t.Errorf("提示不符: %s", env.Message)
	}
}

func TestDeleteStudentHandler(t *testing.T) {
	svc := &mockStudentService{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return service.ErrStudentNotFound
			}
			return nil
		},
	}
	r := newStudentTestRouter(svc, nil)

	w := doRequest(r, http.MethodDelete, "/students/abc", "")
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "学生信息删除成功" {
		t.Errorf("提示不符: %s", env.Message)
	}

	w = doRequest(r, http.MethodDelete, "/students/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际: %d", w.Code)
	}
}

func TestFilterStudentsHandler(t *testing.T) {
	var captured *dto.FilterStudentsRequest
	svc := &mockStudentService{
		filterFn: func(ctx context.Context, req *dto.FilterStudentsRequest) ([]model.Student, error) {
			captured = req
			return []model.Student{{Name: "张三", Class: "一班", Score: 95}}, nil
		},
	}
	r := newStudentTestRouter(svc, nil)

	w := doRequest(r, http.MethodGet, "/students/filter/search?class=一班&minScore=70", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "筛选成功" {
		t.Errorf("提示不符: %s", env.Message)
	}
	if captured.Class != "一班" || captured.MinScore == nil || *captured.MinScore != 70 || captured.MaxScore != nil {
		t.Errorf("查询参数绑定不符: %+v", captured)
	}
}

func TestReportHandler(t *testing.T) {
	reportSvc := &mockReportService{
		analysisFn: func(ctx context.Context) (interface{}, error) {
			return &dto.NoDataReport{TotalStudents: 0, Message: "暂无学生数据"}, nil
		},
	}
	r := newStudentTestRouter(&mockStudentService{}, reportSvc)

	w := doRequest(r, http.MethodGet, "/students/analysis/report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际: %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Message != "分析完成" {
		t.Errorf("提示不符: %s", env.Message)
	}
	if !strings.Contains(string(env.Data), "暂无学生数据") {
		t.Errorf("无数据占位不符: %s", env.Data)
	}
}
