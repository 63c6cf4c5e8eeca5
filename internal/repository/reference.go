package repository

import (
	"context"
	"fmt"

	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"gorm.io/gorm"
)

// ReferenceRepository reads departments, faculties and paper categories.
type ReferenceRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListFaculties(ctx context.Context) ([]models.Faculty, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CountDepartments(ctx context.Context) (int64, error)
}

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new ReferenceRepository instance.
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments := []models.Department{}
	if err := r.db.WithContext(ctx).Order("name").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (r *referenceRepository) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	faculties := []models.Faculty{}
	if err := r.db.WithContext(ctx).Order("name").Find(&faculties).Error; err != nil {
		return nil, fmt.Errorf("failed to list faculties: %w", err)
	}
	return faculties, nil
}

// ListCategories returns the distinct non-empty categories of approved papers.
func (r *referenceRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Paper{}).
		Distinct("category_text").
		Where("status = ? AND category_text IS NOT NULL AND category_text <> ''", models.StatusApproved).
		Order("category_text").
		Pluck("category_text", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{ID: name, Name: name})
	}
	return categories, nil
}

func (r *referenceRepository) CountDepartments(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Department{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count departments: %w", err)
	}
	return count, nil
}
