// Package repository provides data access layer for the paper repository service.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"gorm.io/gorm"
)

// ProfileUpdate holds the mutable profile fields.
type ProfileUpdate struct {
	Name         string
	DepartmentID int64
	FacultyID    int64
	Designation  string
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindProfile(ctx context.Context, id int64) (*models.UserProfile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email %s: %w", email, err)
	}
	return &user, nil
}

func (r *userRepository) FindProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	result := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.*, d.name AS department_name, f.name AS faculty_name").
		Joins("LEFT JOIN departments d ON u.department_id = d.id").
		Joins("LEFT JOIN faculties f ON u.faculty_id = f.id").
		Where("u.id = ?", id).
		Limit(1).
		Scan(&profile)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find profile for user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to find profile for user %d: %w", id, gorm.ErrRecordNotFound)
	}
	return &profile, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateProfile returns the number of rows updated so callers can detect a vanished user.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":          update.Name,
			"department_id": update.DepartmentID,
			"faculty_id":    update.FacultyID,
			"designation":   update.Designation,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update user id %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}
