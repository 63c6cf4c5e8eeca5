package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/service"
)

func setupAuthRouter(t *testing.T, mockService *mockAuthService) *testRouter {
	handler := NewAuthHandler(mockService, newTestLogger())
	return newTestRouter(t).
		public(http.MethodPost, "/api/auth/register", handler.Register).
		public(http.MethodPost, "/api/auth/login", handler.Login).
		protected(http.MethodGet, "/api/auth/profile", handler.GetProfile).
		protected(http.MethodPut, "/api/auth/profile", handler.UpdateProfile)
}

// =============================================================================
// Register Handler Tests
// =============================================================================

func TestRegister_Success(t *testing.T) {
	mockService := &mockAuthService{
		registerFunc: func(ctx context.Context, req service.RegisterRequest) (int64, error) {
			if req.Email != "ada@example.com" || req.Name != "Ada" {
				t.Errorf("unexpected request: %+v", req)
			}
			return 42, nil
		},
	}
	router := setupAuthRouter(t, mockService)

	w := router.do(jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "secret",
	}), "")

	assertStatus(t, w, http.StatusCreated)
	var response RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.ID != 42 || response.Message != "User registered successfully" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestRegister_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"duplicate", apperror.Conflict("User already exists"), http.StatusBadRequest, "User already exists"},
		{"validation", apperror.Validation("Missing required fields"), http.StatusBadRequest, "Missing required fields"},
		{"internal", apperror.Internal("Registration failed", errors.New("pq: broken pipe")), http.StatusInternalServerError, "Registration failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(t, &mockAuthService{
				registerFunc: func(ctx context.Context, req service.RegisterRequest) (int64, error) {
					return 0, tt.err
				},
			})

			w := router.do(jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
				"name":     "x",
				"email":    "x@example.com",
				"password": "secret",
			}), "")

			assertStatus(t, w, tt.wantStatus)
			assertErrorBody(t, w, tt.wantError)
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	router := setupAuthRouter(t, &mockAuthService{})

	w := router.do(jsonRequest(http.MethodPost, "/api/auth/register", "invalid json"), "")

	assertStatus(t, w, http.StatusBadRequest)
	assertErrorBody(t, w, "Invalid request body")
}

func TestRegister_BindingRules(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]string
		wantError string
	}{
		{"missing name", map[string]string{"email": "ada@example.com", "password": "secret"}, "Missing required fields"},
		{"missing password", map[string]string{"name": "Ada", "email": "ada@example.com"}, "Missing required fields"},
		{"missing field outranks bad email", map[string]string{"email": "nope", "password": "secret"}, "Missing required fields"},
		{"invalid email", map[string]string{"name": "Ada", "email": "not-an-email", "password": "secret"}, "Invalid email address"},
		{"display name email", map[string]string{"name": "Ada", "email": "Ada <ada@example.com>", "password": "secret"}, "Invalid email address"},
		{"unknown role", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret", "role": "superuser"}, "Invalid role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(t, &mockAuthService{
				registerFunc: func(ctx context.Context, req service.RegisterRequest) (int64, error) {
					t.Error("Register() must not be called")
					return 0, nil
				},
			})

			w := router.do(jsonRequest(http.MethodPost, "/api/auth/register", tt.body), "")

			assertStatus(t, w, http.StatusBadRequest)
			assertErrorBody(t, w, tt.wantError)
		})
	}
}

func TestRegister_AcceptsKnownRoles(t *testing.T) {
	for _, role := range []string{"", models.RoleAuthor, models.RoleAdmin} {
		t.Run("role="+role, func(t *testing.T) {
			router := setupAuthRouter(t, &mockAuthService{
				registerFunc: func(ctx context.Context, req service.RegisterRequest) (int64, error) {
					if req.Role != role {
						t.Errorf("role = %q, want %q", req.Role, role)
					}
					return 1, nil
				},
			})

			w := router.do(jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
				"name":     "Ada",
				"email":    "ada@example.com",
				"password": "secret",
				"role":     role,
			}), "")

			assertStatus(t, w, http.StatusCreated)
		})
	}
}

// =============================================================================
// Login Handler Tests
// =============================================================================

func TestLogin_Success(t *testing.T) {
	mockService := &mockAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*service.LoginResponse, error) {
			return &service.LoginResponse{
				Message: "Login successful",
				Token:   "token_123",
				User:    &models.UserProfile{User: models.User{ID: 1, Email: email, PasswordHash: "hash"}},
			}, nil
		},
	}
	router := setupAuthRouter(t, mockService)

	w := router.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "secret",
	}), "")

	assertStatus(t, w, http.StatusOK)
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["token"] != "token_123" {
		t.Errorf("token = %v", body["token"])
	}
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("user missing from response: %v", body)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password hash must never be serialized")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := setupAuthRouter(t, &mockAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*service.LoginResponse, error) {
			return nil, service.ErrInvalidCredentials
		},
	})

	w := router.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	}), "")

	assertStatus(t, w, http.StatusUnauthorized)
	assertErrorBody(t, w, "Invalid credentials")
}

func TestLogin_MissingFields(t *testing.T) {
	router := setupAuthRouter(t, &mockAuthService{})

	for _, body := range []map[string]string{
		{"password": "secret"},
		{"email": "ada@example.com"},
	} {
		w := router.do(jsonRequest(http.MethodPost, "/api/auth/login", body), "")
		assertStatus(t, w, http.StatusBadRequest)
		assertErrorBody(t, w, "Missing required fields")
	}
}

// =============================================================================
// Profile Handler Tests
// =============================================================================

func TestGetProfile_UsesTokenIdentity(t *testing.T) {
	router := setupAuthRouter(t, &mockAuthService{
		getProfileFunc: func(ctx context.Context, userID int64) (*models.UserProfile, error) {
			if userID != 9 {
				t.Errorf("userID = %d, want 9", userID)
			}
			return &models.UserProfile{User: models.User{ID: userID}}, nil
		},
	})

	w := router.do(jsonRequest(http.MethodGet, "/api/auth/profile", nil), router.token(9, models.RoleAuthor))

	assertStatus(t, w, http.StatusOK)
}

func TestGetProfile_RequiresToken(t *testing.T) {
	router := setupAuthRouter(t, &mockAuthService{})

	w := router.do(jsonRequest(http.MethodGet, "/api/auth/profile", nil), "")
	assertStatus(t, w, http.StatusUnauthorized)
	assertErrorBody(t, w, "Access token required")

	w = router.do(jsonRequest(http.MethodGet, "/api/auth/profile", nil), "not-a-jwt")
	assertStatus(t, w, http.StatusForbidden)
	assertErrorBody(t, w, "Invalid or expired token")
}

func TestUpdateProfile(t *testing.T) {
	router := setupAuthRouter(t, &mockAuthService{
		updateProfileFunc: func(ctx context.Context, userID int64, req service.ProfileRequest) (*models.UserProfile, error) {
			if req.Designation != models.DesignationFaculty || req.DepartmentID != 2 {
				t.Errorf("unexpected request: %+v", req)
			}
			return &models.UserProfile{User: models.User{ID: userID, Name: req.Name}}, nil
		},
	})

	w := router.do(jsonRequest(http.MethodPut, "/api/auth/profile", map[string]interface{}{
		"name":          "Ada",
		"department_id": 2,
		"faculty_id":    1,
		"designation":   "faculty",
	}), router.token(3, models.RoleAuthor))

	assertStatus(t, w, http.StatusOK)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	router := setupAuthRouter(t, &mockAuthService{
		updateProfileFunc: func(ctx context.Context, userID int64, req service.ProfileRequest) (*models.UserProfile, error) {
			return nil, apperror.NotFound("User not found")
		},
	})

	w := router.do(jsonRequest(http.MethodPut, "/api/auth/profile", map[string]interface{}{
		"name":          "Ada",
		"department_id": 2,
		"faculty_id":    1,
		"designation":   "student",
	}), router.token(3, models.RoleAuthor))

	assertStatus(t, w, http.StatusNotFound)
	assertErrorBody(t, w, "User not found")
}

func TestUpdateProfile_BindingRules(t *testing.T) {
	valid := func() map[string]interface{} {
		return map[string]interface{}{
			"name":          "Ada",
			"department_id": 2,
			"faculty_id":    1,
			"designation":   "student",
		}
	}
	missingFaculty := valid()
	delete(missingFaculty, "faculty_id")
	negativeDepartment := valid()
	negativeDepartment["department_id"] = -1
	badDesignation := valid()
	badDesignation["designation"] = "dean"

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantError string
	}{
		{"missing faculty", missingFaculty, "Missing required fields"},
		{"negative department", negativeDepartment, "Missing required fields"},
		{"unknown designation", badDesignation, "Invalid designation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(t, &mockAuthService{
				updateProfileFunc: func(ctx context.Context, userID int64, req service.ProfileRequest) (*models.UserProfile, error) {
					t.Error("UpdateProfile() must not be called")
					return nil, nil
				},
			})

			w := router.do(jsonRequest(http.MethodPut, "/api/auth/profile", tt.body), router.token(3, models.RoleAuthor))

			assertStatus(t, w, http.StatusBadRequest)
			assertErrorBody(t, w, tt.wantError)
		})
	}
}
