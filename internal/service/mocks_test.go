package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
	"github.com/GunarsK-portfolio/paper-repository/internal/storage"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByEmailFunc   func(ctx context.Context, email string) (*models.User, error)
	findProfileFunc   func(ctx context.Context, id int64) (*models.UserProfile, error)
	existsByEmailFunc func(ctx context.Context, email string) (bool, error)
	createFunc        func(ctx context.Context, user *models.User) error
	updateProfileFunc func(ctx context.Context, id int64, update repository.ProfileUpdate) (int64, error)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	if m.findProfileFunc != nil {
		return m.findProfileFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFunc != nil {
		return m.existsByEmailFunc(ctx, email)
	}
	return false, errors.New("not implemented")
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id int64, update repository.ProfileUpdate) (int64, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, update)
	}
	return 0, errors.New("not implemented")
}

// =============================================================================
// Mock PaperRepository
// =============================================================================

type mockPaperRepository struct {
	createFunc               func(ctx context.Context, paper *models.Paper, coAuthors []models.CoAuthor) error
	findByIDFunc             func(ctx context.Context, id int64) (*models.Paper, error)
	findDetailFunc           func(ctx context.Context, id int64) (*models.PaperDetail, error)
	listFunc                 func(ctx context.Context, filter repository.PaperFilter) ([]models.PaperView, error)
	updateFunc               func(ctx context.Context, id int64, update repository.PaperUpdate, coAuthors []models.CoAuthor) (*models.Paper, error)
	deleteFunc               func(ctx context.Context, id int64) (*models.Paper, error)
	updateStatusFunc         func(ctx context.Context, id int64, update repository.StatusUpdate) (*models.StatusChange, error)
	listStatusHistoryFunc    func(ctx context.Context, id int64) ([]models.StatusChange, error)
	countByStatusFunc        func(ctx context.Context, status string) (int64, error)
	countDistinctAuthorsFunc func(ctx context.Context, status string) (int64, error)
	listFileURLsFunc         func(ctx context.Context) ([]string, error)
}

func (m *mockPaperRepository) Create(ctx context.Context, paper *models.Paper, coAuthors []models.CoAuthor) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, paper, coAuthors)
	}
	return errors.New("not implemented")
}

func (m *mockPaperRepository) FindByID(ctx context.Context, id int64) (*models.Paper, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperRepository) FindDetail(ctx context.Context, id int64) (*models.PaperDetail, error) {
	if m.findDetailFunc != nil {
		return m.findDetailFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperRepository) List(ctx context.Context, filter repository.PaperFilter) ([]models.PaperView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperRepository) Update(ctx context.Context, id int64, update repository.PaperUpdate, coAuthors []models.CoAuthor) (*models.Paper, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update, coAuthors)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperRepository) Delete(ctx context.Context, id int64) (*models.Paper, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperRepository) UpdateStatus(ctx context.Context, id int64, update repository.StatusUpdate) (*models.StatusChange, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, update)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperRepository) ListStatusHistory(ctx context.Context, id int64) ([]models.StatusChange, error) {
	if m.listStatusHistoryFunc != nil {
		return m.listStatusHistoryFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaperRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, status)
	}
	return 0, errors.New("not implemented")
}

func (m *mockPaperRepository) CountDistinctAuthors(ctx context.Context, status string) (int64, error) {
	if m.countDistinctAuthorsFunc != nil {
		return m.countDistinctAuthorsFunc(ctx, status)
	}
	return 0, errors.New("not implemented")
}

func (m *mockPaperRepository) ListFileURLs(ctx context.Context) ([]string, error) {
	if m.listFileURLsFunc != nil {
		return m.listFileURLsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Mock ReferenceRepository
// =============================================================================

type mockReferenceRepository struct {
	listDepartmentsFunc  func(ctx context.Context) ([]models.Department, error)
	listFacultiesFunc    func(ctx context.Context) ([]models.Faculty, error)
	listCategoriesFunc   func(ctx context.Context) ([]models.Category, error)
	countDepartmentsFunc func(ctx context.Context) (int64, error)
}

func (m *mockReferenceRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	if m.listDepartmentsFunc != nil {
		return m.listDepartmentsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReferenceRepository) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	if m.listFacultiesFunc != nil {
		return m.listFacultiesFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReferenceRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.listCategoriesFunc != nil {
		return m.listCategoriesFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReferenceRepository) CountDepartments(ctx context.Context) (int64, error) {
	if m.countDepartmentsFunc != nil {
		return m.countDepartmentsFunc(ctx)
	}
	return 0, errors.New("not implemented")
}

// =============================================================================
// Mock FileStore
// =============================================================================

type mockFileStore struct {
	saved   map[string]string
	removed []string
	saveErr error
	remErr  error
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{saved: map[string]string{}}
}

func (m *mockFileStore) Save(ctx context.Context, originalName string, r io.Reader) (*storage.StoredFile, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	name := "paper-1-abcdef12.pdf"
	m.saved[name] = string(data)
	return &storage.StoredFile{Name: name, URL: "/uploads/" + name, Size: int64(len(data))}, nil
}

func (m *mockFileStore) Remove(name string) error {
	m.removed = append(m.removed, name)
	return m.remErr
}

func (m *mockFileStore) Path(name string) string {
	return "/tmp/uploads/" + name
}

func (m *mockFileStore) List() ([]storage.FileInfo, error) {
	return nil, nil
}

func (m *mockFileStore) NameFromURL(fileURL string) (string, bool) {
	return strings.CutPrefix(fileURL, "/uploads/")
}

// =============================================================================
// Mock Cache
// =============================================================================

type mockCache struct {
	deleted [][]string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("cache unavailable")
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}) error {
	return errors.New("cache unavailable")
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	m.deleted = append(m.deleted, keys)
	return nil
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}

func assertAppError(t *testing.T, err error, wantStatus int, wantMessage string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %d %q, got nil error", wantStatus, wantMessage)
	}
	if got := apperror.HTTPStatus(err); got != wantStatus {
		t.Errorf("HTTPStatus() = %d, want %d (err: %v)", got, wantStatus, err)
	}
	if got := apperror.Message(err); got != wantMessage {
		t.Errorf("Message() = %q, want %q", got, wantMessage)
	}
}
