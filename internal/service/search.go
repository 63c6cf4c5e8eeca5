package service

import (
	"context"
	"strings"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
)

// SearchQuery is the set of optional search filters. Empty fields are ignored.
type SearchQuery struct {
	Query      string
	Department string
	Category   string
	Year       int
	Page       Page
}

type SearchService interface {
	Search(ctx context.Context, query SearchQuery) ([]models.PaperView, error)
}

type searchService struct {
	paperRepo repository.PaperRepository
}

func NewSearchService(paperRepo repository.PaperRepository) SearchService {
	return &searchService{paperRepo: paperRepo}
}

// Search lists approved papers matching every given filter, newest publication first.
func (s *searchService) Search(ctx context.Context, query SearchQuery) ([]models.PaperView, error) {
	papers, err := s.paperRepo.List(ctx, repository.PaperFilter{
		Status:     models.StatusApproved,
		Query:      strings.TrimSpace(query.Query),
		Department: strings.TrimSpace(query.Department),
		Category:   strings.TrimSpace(query.Category),
		Year:       query.Year,
		OrderBy:    repository.OrderByPublicationDate,
		Limit:      query.Page.Limit,
		Offset:     query.Page.Offset,
	})
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	return papers, nil
}
