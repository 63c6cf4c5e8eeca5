package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GunarsK-portfolio/paper-repository/internal/middleware"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Mock Services
// =============================================================================

type mockAuthService struct {
	registerFunc      func(ctx context.Context, req service.RegisterRequest) (int64, error)
	loginFunc         func(ctx context.Context, email, password string) (*service.LoginResponse, error)
	getProfileFunc    func(ctx context.Context, userID int64) (*models.UserProfile, error)
	updateProfileFunc func(ctx context.Context, userID int64, req service.ProfileRequest) (*models.UserProfile, error)
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (int64, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return 0, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID int64, req service.ProfileRequest) (*models.UserProfile, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, req)
	}
	return nil, errors.New("not implemented")
}

type mockPaperService struct {
	createFunc       func(ctx context.Context, actor service.Actor, input service.PaperInput, coAuthorsJSON string, file *service.FileUpload) (*models.Paper, error)
	getFunc          func(ctx context.Context, id int64, actor *service.Actor) (*models.PaperDetail, error)
	updateFunc       func(ctx context.Context, id int64, actor service.Actor, input service.PaperInput, coAuthors *[]service.CoAuthorInput) (*models.Paper, error)
	deleteFunc       func(ctx context.Context, id int64, actor service.Actor) error
	listApprovedFunc func(ctx context.Context, page service.Page) ([]models.PaperView, error)
}

func (m *mockPaperService) Create(ctx context.Context, actor service.Actor, input service.PaperInput, coAuthorsJSON string, file *service.FileUpload) (*models.Paper, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, input, coAuthorsJSON, file)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperService) Get(ctx context.Context, id int64, actor *service.Actor) (*models.PaperDetail, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id, actor)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperService) Update(ctx context.Context, id int64, actor service.Actor, input service.PaperInput, coAuthors *[]service.CoAuthorInput) (*models.Paper, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, actor, input, coAuthors)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperService) Delete(ctx context.Context, id int64, actor service.Actor) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, actor)
	}
	return errors.New("not implemented")
}

func (m *mockPaperService) ListApproved(ctx context.Context, page service.Page) ([]models.PaperView, error) {
	if m.listApprovedFunc != nil {
		return m.listApprovedFunc(ctx, page)
	}
	return nil, errors.New("not implemented")
}

type mockModerationService struct {
	listAllFunc      func(ctx context.Context, page service.Page) ([]models.PaperView, error)
	setStatusFunc    func(ctx context.Context, id int64, actor service.Actor, status string, notes *string) (*models.StatusChange, error)
	pendingCountFunc func(ctx context.Context) (int64, error)
	historyFunc      func(ctx context.Context, id int64) ([]models.StatusChange, error)
}

func (m *mockModerationService) ListAll(ctx context.Context, page service.Page) ([]models.PaperView, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx, page)
	}
	return nil, errors.New("not implemented")
}

func (m *mockModerationService) SetStatus(ctx context.Context, id int64, actor service.Actor, status string, notes *string) (*models.StatusChange, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, actor, status, notes)
	}
	return nil, errors.New("not implemented")
}

func (m *mockModerationService) PendingCount(ctx context.Context) (int64, error) {
	if m.pendingCountFunc != nil {
		return m.pendingCountFunc(ctx)
	}
	return 0, errors.New("not implemented")
}

func (m *mockModerationService) History(ctx context.Context, id int64) ([]models.StatusChange, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

type mockSearchService struct {
	searchFunc func(ctx context.Context, query service.SearchQuery) ([]models.PaperView, error)
}

func (m *mockSearchService) Search(ctx context.Context, query service.SearchQuery) ([]models.PaperView, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return nil, errors.New("not implemented")
}

type mockReferenceService struct {
	departmentsFunc func(ctx context.Context) ([]models.Department, error)
	facultiesFunc   func(ctx context.Context) ([]models.Faculty, error)
	categoriesFunc  func(ctx context.Context) ([]models.Category, error)
	stats           models.Stats
}

func (m *mockReferenceService) Departments(ctx context.Context) ([]models.Department, error) {
	if m.departmentsFunc != nil {
		return m.departmentsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReferenceService) Faculties(ctx context.Context) ([]models.Faculty, error) {
	if m.facultiesFunc != nil {
		return m.facultiesFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReferenceService) Categories(ctx context.Context) ([]models.Category, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReferenceService) Stats(ctx context.Context) models.Stats {
	return m.stats
}

// =============================================================================
// Test Helpers
// =============================================================================

const testSecret = "handler-test-secret-with-32-bytes!!"

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func newTestJWTService(t *testing.T) service.JWTService {
	t.Helper()
	jwtService, err := service.NewJWTService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return jwtService
}

// testRouter mounts a single handler, behind Authenticate when auth is set.
type testRouter struct {
	t          *testing.T
	engine     *gin.Engine
	jwtService service.JWTService
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return &testRouter{t: t, engine: gin.New(), jwtService: newTestJWTService(t)}
}

func (r *testRouter) public(method, path string, handler gin.HandlerFunc) *testRouter {
	r.engine.Handle(method, path, middleware.OptionalAuth(r.jwtService), handler)
	return r
}

func (r *testRouter) protected(method, path string, handler gin.HandlerFunc) *testRouter {
	r.engine.Handle(method, path, middleware.Authenticate(r.jwtService), handler)
	return r
}

func (r *testRouter) token(id int64, role string) string {
	r.t.Helper()
	token, err := r.jwtService.GenerateToken(&models.User{ID: id, Role: role, Email: "user@example.com"})
	if err != nil {
		r.t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

func (r *testRouter) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		bodyBytes, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, w.Code, w.Body.String())
	}
}

func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Error != want {
		t.Errorf("error = %q, want %q", body.Error, want)
	}
}
