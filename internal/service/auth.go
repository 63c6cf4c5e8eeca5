package service

import (
	"context"
	"errors"
	"strings"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/metrics"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

var ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")

// RegisterRequest carries a new account.
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role" binding:"omitempty,oneof=author admin"`
	DepartmentID *int64 `json:"department_id"`
	FacultyID    *int64 `json:"faculty_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message   string              `json:"message"`
	Token     string              `json:"token"`
	ExpiresIn int64               `json:"expires_in"`
	User      *models.UserProfile `json:"user"`
}

// ProfileRequest carries the editable profile fields.
type ProfileRequest struct {
	Name         string `json:"name" binding:"required"`
	DepartmentID int64  `json:"department_id" binding:"required,gt=0"`
	FacultyID    int64  `json:"faculty_id" binding:"required,gt=0"`
	Designation  string `json:"designation" binding:"required,oneof=student faculty"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (int64, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, req ProfileRequest) (*models.UserProfile, error)
}

type authService struct {
	userRepo          repository.UserRepository
	jwtService        JWTService
	allowAdminSignups bool
	metrics           *metrics.Metrics
	log               *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, allowAdminSignups bool, m *metrics.Metrics, log *logrus.Logger) AuthService {
	return &authService{
		userRepo:          userRepo,
		jwtService:        jwtService,
		allowAdminSignups: allowAdminSignups,
		metrics:           m,
		log:               log,
	}
}

// Register creates an account and returns its id. An empty role means author. The
// admin role is refused unless admin self-registration was enabled at startup.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return 0, apperror.Validation("Missing required fields")
	}

	role := req.Role
	if role == "" {
		role = models.RoleAuthor
	}
	if role == models.RoleAdmin && !s.allowAdminSignups {
		return 0, apperror.Validation("Admin registration is disabled")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return 0, apperror.Internal("Registration failed", err)
	}
	if exists {
		return 0, apperror.Conflict("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return 0, apperror.Internal("Registration failed", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Designation:  models.DesignationStudent,
		DepartmentID: req.DepartmentID,
		FacultyID:    req.FacultyID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperror.Conflict("User already exists")
		}
		return 0, apperror.Internal("Registration failed", err)
	}

	return user.ID, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.RecordLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal("Database error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, apperror.Internal("Login failed", err)
	}

	profile, err := s.userRepo.FindProfile(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}

	s.metrics.RecordLogin(true)
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user logged in")

	return &LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresIn: int64(s.jwtService.GetExpiry().Seconds()),
		User:      profile,
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.userRepo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Database error", err)
	}
	return profile, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, req ProfileRequest) (*models.UserProfile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("Missing required fields")
	}

	rows, err := s.userRepo.UpdateProfile(ctx, userID, repository.ProfileUpdate{
		Name:         name,
		DepartmentID: req.DepartmentID,
		FacultyID:    req.FacultyID,
		Designation:  req.Designation,
	})
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	if rows == 0 {
		return nil, apperror.NotFound("User not found")
	}

	return s.GetProfile(ctx, userID)
}
