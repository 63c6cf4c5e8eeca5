package service

import (
	"context"
	"errors"
	"time"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/cache"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	cacheKeyDepartments = "reference:departments"
	cacheKeyFaculties   = "reference:faculties"
	cacheKeyCategories  = "reference:categories"
	cacheKeyStats       = "reference:stats"
)

// ReferenceService serves the lookup lists and public counters, cached when possible.
type ReferenceService interface {
	Departments(ctx context.Context) ([]models.Department, error)
	Faculties(ctx context.Context) ([]models.Faculty, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Stats(ctx context.Context) models.Stats
}

type referenceService struct {
	referenceRepo repository.ReferenceRepository
	paperRepo     repository.PaperRepository
	cache         cache.Cache
	log           *logrus.Logger
	foundingYear  int
	now           func() time.Time
}

func NewReferenceService(referenceRepo repository.ReferenceRepository, paperRepo repository.PaperRepository, c cache.Cache, log *logrus.Logger, foundingYear int) ReferenceService {
	return &referenceService{
		referenceRepo: referenceRepo,
		paperRepo:     paperRepo,
		cache:         c,
		log:           log,
		foundingYear:  foundingYear,
		now:           time.Now,
	}
}

func (s *referenceService) Departments(ctx context.Context) ([]models.Department, error) {
	return cached(ctx, s, cacheKeyDepartments, s.referenceRepo.ListDepartments)
}

func (s *referenceService) Faculties(ctx context.Context) ([]models.Faculty, error) {
	return cached(ctx, s, cacheKeyFaculties, s.referenceRepo.ListFaculties)
}

func (s *referenceService) Categories(ctx context.Context) ([]models.Category, error) {
	return cached(ctx, s, cacheKeyCategories, s.referenceRepo.ListCategories)
}

// Stats never fails: on any aggregation error the counters fall back to zero.
func (s *referenceService) Stats(ctx context.Context) models.Stats {
	var stats models.Stats
	if s.readCache(ctx, cacheKeyStats, &stats) {
		return stats
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to compute stats, serving fallback")
		return models.Stats{Years: s.years()}
	}

	s.writeCache(ctx, cacheKeyStats, stats)
	return stats
}

func (s *referenceService) computeStats(ctx context.Context) (models.Stats, error) {
	papers, err := s.paperRepo.CountByStatus(ctx, models.StatusApproved)
	if err != nil {
		return models.Stats{}, err
	}
	authors, err := s.paperRepo.CountDistinctAuthors(ctx, models.StatusApproved)
	if err != nil {
		return models.Stats{}, err
	}
	departments, err := s.referenceRepo.CountDepartments(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return models.Stats{
		Papers:      papers,
		Authors:     authors,
		Departments: departments,
		Years:       s.years(),
	}, nil
}

func (s *referenceService) years() int {
	return s.now().Year() - s.foundingYear
}

func (s *referenceService) readCache(ctx context.Context, key string, dest interface{}) bool {
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.WithError(err).WithField("key", key).Warn("cache read failed")
	}
	return false
}

func (s *referenceService) writeCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// cached serves key from the cache, loading and storing it on a miss.
func cached[T any](ctx context.Context, s *referenceService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var items []T
	if s.readCache(ctx, key, &items) {
		return items, nil
	}

	items, err := load(ctx)
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}

	s.writeCache(ctx, key, items)
	return items, nil
}
