package service

import (
	"context"
	"errors"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/cache"
	"github.com/GunarsK-portfolio/paper-repository/internal/metrics"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ModerationService holds the admin-only paper workflow.
type ModerationService interface {
	ListAll(ctx context.Context, page Page) ([]models.PaperView, error)
	SetStatus(ctx context.Context, id int64, actor Actor, status string, notes *string) (*models.StatusChange, error)
	PendingCount(ctx context.Context) (int64, error)
	History(ctx context.Context, id int64) ([]models.StatusChange, error)
}

type moderationService struct {
	paperRepo repository.PaperRepository
	cache     cache.Cache
	metrics   *metrics.Metrics
	log       *logrus.Logger
}

func NewModerationService(paperRepo repository.PaperRepository, c cache.Cache, m *metrics.Metrics, log *logrus.Logger) ModerationService {
	return &moderationService{
		paperRepo: paperRepo,
		cache:     c,
		metrics:   m,
		log:       log,
	}
}

// ListAll returns papers of every status, newest submission first.
func (s *moderationService) ListAll(ctx context.Context, page Page) ([]models.PaperView, error) {
	papers, err := s.paperRepo.List(ctx, repository.PaperFilter{
		OrderBy: repository.OrderByCreatedAt,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	return papers, nil
}

// SetStatus records a moderation decision. Deciding an already decided paper replaces
// the decision and its notes; the history keeps the earlier ones.
func (s *moderationService) SetStatus(ctx context.Context, id int64, actor Actor, status string, notes *string) (*models.StatusChange, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}
	if !models.IsDecision(status) {
		return nil, apperror.Validation("Invalid status")
	}

	change, err := s.paperRepo.UpdateStatus(ctx, id, repository.StatusUpdate{
		Status:    status,
		Notes:     optional(notes),
		ChangedBy: actor.ID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaperNotFound
		}
		return nil, apperror.Internal("Database error", err)
	}

	if err := s.cache.Delete(ctx, cacheKeyCategories, cacheKeyStats); err != nil {
		s.log.WithError(err).Warn("failed to invalidate reference cache")
	}
	s.metrics.RecordDecision(status)
	s.log.WithFields(logrus.Fields{
		"paper_id":   id,
		"admin_id":   actor.ID,
		"old_status": change.OldStatus,
		"new_status": status,
	}).Info("paper status changed")

	return change, nil
}

func (s *moderationService) PendingCount(ctx context.Context) (int64, error) {
	count, err := s.paperRepo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return 0, apperror.Internal("Database error", err)
	}
	return count, nil
}

func (s *moderationService) History(ctx context.Context, id int64) ([]models.StatusChange, error) {
	if _, err := s.paperRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaperNotFound
		}
		return nil, apperror.Internal("Database error", err)
	}

	history, err := s.paperRepo.ListStatusHistory(ctx, id)
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	return history, nil
}
