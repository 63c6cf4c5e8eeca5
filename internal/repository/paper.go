package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"gorm.io/gorm"
)

// Paper listing orders.
const (
	OrderByPublicationDate = "publication_date"
	OrderByCreatedAt       = "created_at"
)

const paperViewColumns = "p.*, u.name AS author_name, d.name AS department_name, f.name AS faculty_name"

// PaperFilter narrows a paper listing. Zero values disable a filter.
type PaperFilter struct {
	Status     string
	Query      string
	Department string
	Category   string
	Year       int
	OrderBy    string
	Limit      int
	Offset     int
}

// PaperUpdate holds the mutable metadata of a paper.
type PaperUpdate struct {
	Title               string
	Abstract            string
	Keywords            string
	Category            string
	DepartmentID        int64
	FacultyID           *int64
	PublicationDate     time.Time
	DOI                 *string
	CorrespondingAuthor string
	Supervisor          *string
	CoSupervisor        *string
}

// StatusUpdate describes a moderation decision.
type StatusUpdate struct {
	Status    string
	Notes     *string
	ChangedBy int64
}

// PaperRepository defines the interface for paper data operations.
type PaperRepository interface {
	Create(ctx context.Context, paper *models.Paper, coAuthors []models.CoAuthor) error
	FindByID(ctx context.Context, id int64) (*models.Paper, error)
	FindDetail(ctx context.Context, id int64) (*models.PaperDetail, error)
	List(ctx context.Context, filter PaperFilter) ([]models.PaperView, error)
	Update(ctx context.Context, id int64, update PaperUpdate, coAuthors []models.CoAuthor) (*models.Paper, error)
	Delete(ctx context.Context, id int64) (*models.Paper, error)
	UpdateStatus(ctx context.Context, id int64, update StatusUpdate) (*models.StatusChange, error)
	ListStatusHistory(ctx context.Context, id int64) ([]models.StatusChange, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountDistinctAuthors(ctx context.Context, status string) (int64, error)
	ListFileURLs(ctx context.Context) ([]string, error)
}

type paperRepository struct {
	db *gorm.DB
}

// NewPaperRepository creates a new PaperRepository instance.
func NewPaperRepository(db *gorm.DB) PaperRepository {
	return &paperRepository{db: db}
}

// Create inserts the paper and its co-authors in one transaction.
func (r *paperRepository) Create(ctx context.Context, paper *models.Paper, coAuthors []models.CoAuthor) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(paper).Error; err != nil {
			return err
		}
		return insertCoAuthors(tx, paper.ID, coAuthors)
	})
	if err != nil {
		return fmt.Errorf("failed to create paper: %w", err)
	}
	return nil
}

func (r *paperRepository) FindByID(ctx context.Context, id int64) (*models.Paper, error) {
	var paper models.Paper
	if err := r.db.WithContext(ctx).First(&paper, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find paper by id %d: %w", id, err)
	}
	return &paper, nil
}

func (r *paperRepository) FindDetail(ctx context.Context, id int64) (*models.PaperDetail, error) {
	var detail models.PaperDetail
	result := r.viewQuery(ctx, paperViewColumns+", u.email AS author_email").
		Where("p.id = ?", id).
		Limit(1).
		Scan(&detail)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find paper detail %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to find paper detail %d: %w", id, gorm.ErrRecordNotFound)
	}

	coAuthors := []models.CoAuthor{}
	err := r.db.WithContext(ctx).
		Where("paper_id = ?", id).
		Order("author_order, id").
		Find(&coAuthors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load co-authors for paper %d: %w", id, err)
	}
	detail.CoAuthors = coAuthors

	return &detail, nil
}

func (r *paperRepository) List(ctx context.Context, filter PaperFilter) ([]models.PaperView, error) {
	query := r.viewQuery(ctx, paperViewColumns)

	if filter.Status != "" {
		query = query.Where("p.status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		query = query.Where(
			"LOWER(p.title) LIKE ? ESCAPE '!' OR LOWER(p.abstract) LIKE ? ESCAPE '!' OR "+
				"LOWER(p.keywords) LIKE ? ESCAPE '!' OR LOWER(p.category_text) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Department != "" {
		query = query.Where("d.name = ?", filter.Department)
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		query = query.Where("LOWER(p.category_text) LIKE ? ESCAPE '!'", likePattern(c))
	}
	if filter.Year != 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("p.publication_date >= ? AND p.publication_date < ?", start, start.AddDate(1, 0, 0))
	}

	switch filter.OrderBy {
	case OrderByCreatedAt:
		query = query.Order("p.created_at DESC").Order("p.id DESC")
	default:
		query = query.Order("p.publication_date DESC").Order("p.id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	papers := []models.PaperView{}
	if err := query.Scan(&papers).Error; err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}
	return papers, nil
}

// Update overwrites the paper metadata and bumps its version. A non-nil coAuthors
// slice replaces the existing co-author list in the same transaction.
func (r *paperRepository) Update(ctx context.Context, id int64, update PaperUpdate, coAuthors []models.CoAuthor) (*models.Paper, error) {
	var paper models.Paper
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Paper{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"title":                update.Title,
				"abstract":             update.Abstract,
				"keywords":             update.Keywords,
				"category_text":        update.Category,
				"department_id":        update.DepartmentID,
				"faculty_id":           update.FacultyID,
				"publication_date":     update.PublicationDate,
				"doi":                  update.DOI,
				"corresponding_author": update.CorrespondingAuthor,
				"supervisor":           update.Supervisor,
				"co_supervisor":        update.CoSupervisor,
				"version":              gorm.Expr("version + 1"),
				"updated_at":           time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if coAuthors != nil {
			if err := tx.Where("paper_id = ?", id).Delete(&models.CoAuthor{}).Error; err != nil {
				return err
			}
			if err := insertCoAuthors(tx, id, coAuthors); err != nil {
				return err
			}
		}

		return tx.First(&paper, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update paper id %d: %w", id, err)
	}
	return &paper, nil
}

// Delete removes the paper with its co-authors and moderation history, returning
// the deleted row so the caller can release its file.
func (r *paperRepository) Delete(ctx context.Context, id int64) (*models.Paper, error) {
	var paper models.Paper
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&paper, id).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id = ?", id).Delete(&models.CoAuthor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id = ?", id).Delete(&models.StatusChange{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Paper{}, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete paper id %d: %w", id, err)
	}
	return &paper, nil
}

// UpdateStatus applies a moderation decision and records it in the status history.
func (r *paperRepository) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) (*models.StatusChange, error) {
	var change models.StatusChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paper models.Paper
		if err := tx.Select("id", "status").First(&paper, id).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		err := tx.Model(&models.Paper{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":      update.Status,
				"admin_notes": update.Notes,
				"updated_at":  now,
			}).Error
		if err != nil {
			return err
		}

		change = models.StatusChange{
			PaperID:   id,
			OldStatus: paper.Status,
			NewStatus: update.Status,
			ChangedBy: update.ChangedBy,
			Notes:     update.Notes,
			CreatedAt: now,
		}
		return tx.Create(&change).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update status of paper %d: %w", id, err)
	}
	return &change, nil
}

func (r *paperRepository) ListStatusHistory(ctx context.Context, id int64) ([]models.StatusChange, error) {
	history := []models.StatusChange{}
	err := r.db.WithContext(ctx).
		Where("paper_id = ?", id).
		Order("created_at, id").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list status history of paper %d: %w", id, err)
	}
	return history, nil
}

func (r *paperRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Paper{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s papers: %w", status, err)
	}
	return count, nil
}

func (r *paperRepository) CountDistinctAuthors(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Paper{}).
		Where("status = ?", status).
		Distinct("author_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count authors of %s papers: %w", status, err)
	}
	return count, nil
}

func (r *paperRepository) ListFileURLs(ctx context.Context) ([]string, error) {
	var urls []string
	if err := r.db.WithContext(ctx).Model(&models.Paper{}).Pluck("file_url", &urls).Error; err != nil {
		return nil, fmt.Errorf("failed to list file urls: %w", err)
	}
	return urls, nil
}

func (r *paperRepository) viewQuery(ctx context.Context, columns string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("papers AS p").
		Select(columns).
		Joins("LEFT JOIN users u ON p.author_id = u.id").
		Joins("LEFT JOIN departments d ON p.department_id = d.id").
		Joins("LEFT JOIN faculties f ON p.faculty_id = f.id")
}

func insertCoAuthors(tx *gorm.DB, paperID int64, coAuthors []models.CoAuthor) error {
	if len(coAuthors) == 0 {
		return nil
	}
	rows := make([]models.CoAuthor, len(coAuthors))
	for i, ca := range coAuthors {
		ca.ID = 0
		ca.PaperID = paperID
		rows[i] = ca
	}
	return tx.Create(&rows).Error
}

// likeEscaper makes wildcard characters in user input match literally. '!' is used as
// the escape character because a backslash literal is parsed differently by MySQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern builds a case-insensitive substring pattern for use with ESCAPE '!'.
func likePattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
