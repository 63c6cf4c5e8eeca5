package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/cache"
	"github.com/GunarsK-portfolio/paper-repository/internal/metrics"
	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/repository"
	"github.com/GunarsK-portfolio/paper-repository/internal/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	pdfContentType = "application/pdf"
	dateLayout     = "2006-01-02"
)

var errPaperNotFound = apperror.NotFound("Paper not found")

// PaperInput is the editable metadata of a paper.
type PaperInput struct {
	Title               string  `json:"title" form:"title" binding:"required"`
	Abstract            string  `json:"abstract" form:"abstract" binding:"required"`
	Keywords            string  `json:"keywords" form:"keywords" binding:"required"`
	Category            string  `json:"category" form:"category" binding:"required"`
	DepartmentID        int64   `json:"department_id" form:"department_id" binding:"required,gt=0"`
	FacultyID           *int64  `json:"faculty_id" form:"faculty_id"`
	PublicationDate     string  `json:"publication_date" form:"publication_date" binding:"required,datetime=2006-01-02"`
	DOI                 *string `json:"doi" form:"doi"`
	CorrespondingAuthor string  `json:"corresponding_author" form:"corresponding_author" binding:"required"`
	Supervisor          *string `json:"supervisor" form:"supervisor"`
	CoSupervisor        *string `json:"co_supervisor" form:"co_supervisor"`
}

// CoAuthorInput is one entry of a submitted co-author list.
type CoAuthorInput struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// FileUpload is the PDF attached to a submission.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type PaperService interface {
	Create(ctx context.Context, actor Actor, input PaperInput, coAuthorsJSON string, file *FileUpload) (*models.Paper, error)
	Get(ctx context.Context, id int64, actor *Actor) (*models.PaperDetail, error)
	Update(ctx context.Context, id int64, actor Actor, input PaperInput, coAuthors *[]CoAuthorInput) (*models.Paper, error)
	Delete(ctx context.Context, id int64, actor Actor) error
	ListApproved(ctx context.Context, page Page) ([]models.PaperView, error)
}

type paperService struct {
	paperRepo   repository.PaperRepository
	files       storage.FileStore
	cache       cache.Cache
	metrics     *metrics.Metrics
	log         *logrus.Logger
	maxFileSize int64
	inspect     func(path string) (*storage.PDFInfo, error)
}

func NewPaperService(paperRepo repository.PaperRepository, files storage.FileStore, c cache.Cache, m *metrics.Metrics, log *logrus.Logger, maxFileSize int64) PaperService {
	return &paperService{
		paperRepo:   paperRepo,
		files:       files,
		cache:       c,
		metrics:     m,
		log:         log,
		maxFileSize: maxFileSize,
		inspect:     storage.InspectPDF,
	}
}

// FileTooLarge is the error reported for uploads above the size limit.
func FileTooLarge(maxSize int64) error {
	return apperror.Validation(fmt.Sprintf("File too large. Maximum size is %dMB.", maxSize/(1024*1024)))
}

// CheckUpload rejects a declared upload that is not a PDF or exceeds maxSize.
func CheckUpload(file *FileUpload, maxSize int64) error {
	if !isPDF(file.ContentType) {
		return apperror.Validation("Only PDF files are allowed.")
	}
	if file.Size > maxSize {
		return FileTooLarge(maxSize)
	}
	return nil
}

func (s *paperService) Create(ctx context.Context, actor Actor, input PaperInput, coAuthorsJSON string, file *FileUpload) (*models.Paper, error) {
	if file != nil {
		if err := CheckUpload(file, s.maxFileSize); err != nil {
			return nil, err
		}
	}

	meta, err := validatePaperInput(input)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperror.Validation("PDF file is required")
	}

	stored, err := s.files.Save(ctx, file.Name, io.LimitReader(file.Reader, s.maxFileSize+1))
	if err != nil {
		return nil, apperror.Internal("Failed to store file", err)
	}
	if stored.Size > s.maxFileSize {
		s.removeFile(stored.Name)
		return nil, FileTooLarge(s.maxFileSize)
	}

	paper := &models.Paper{
		Title:               meta.Title,
		Abstract:            meta.Abstract,
		Keywords:            meta.Keywords,
		Category:            meta.Category,
		AuthorID:            actor.ID,
		CorrespondingAuthor: meta.CorrespondingAuthor,
		Supervisor:          meta.Supervisor,
		CoSupervisor:        meta.CoSupervisor,
		DepartmentID:        meta.DepartmentID,
		FacultyID:           meta.FacultyID,
		PublicationDate:     meta.PublicationDate,
		DOI:                 meta.DOI,
		FileURL:             stored.URL,
		FileName:            file.Name,
		FileSize:            stored.Size,
		Status:              models.StatusPending,
		Version:             1,
	}
	s.applyPDFInfo(paper, stored.Name)

	coAuthors := s.parseCoAuthors(coAuthorsJSON)
	if err := s.paperRepo.Create(ctx, paper, coAuthors); err != nil {
		s.removeFile(stored.Name)
		return nil, apperror.Internal("Database error", err)
	}

	s.metrics.RecordSubmission()
	s.log.WithFields(logrus.Fields{
		"paper_id":   paper.ID,
		"author_id":  actor.ID,
		"file":       stored.Name,
		"co_authors": len(coAuthors),
	}).Info("paper submitted")

	return paper, nil
}

func (s *paperService) Get(ctx context.Context, id int64, actor *Actor) (*models.PaperDetail, error) {
	detail, err := s.paperRepo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaperNotFound
		}
		return nil, apperror.Internal("Database error", err)
	}
	if !actor.CanView(&detail.Paper) {
		return nil, errPaperNotFound
	}
	return detail, nil
}

func (s *paperService) Update(ctx context.Context, id int64, actor Actor, input PaperInput, coAuthors *[]CoAuthorInput) (*models.Paper, error) {
	if _, err := s.findModifiable(ctx, id, actor, "You can only edit your own papers"); err != nil {
		return nil, err
	}

	meta, err := validatePaperInput(input)
	if err != nil {
		return nil, err
	}

	var replacement []models.CoAuthor
	if coAuthors != nil {
		replacement = normalizeCoAuthors(*coAuthors)
	}

	paper, err := s.paperRepo.Update(ctx, id, repository.PaperUpdate{
		Title:               meta.Title,
		Abstract:            meta.Abstract,
		Keywords:            meta.Keywords,
		Category:            meta.Category,
		DepartmentID:        meta.DepartmentID,
		FacultyID:           meta.FacultyID,
		PublicationDate:     meta.PublicationDate,
		DOI:                 meta.DOI,
		CorrespondingAuthor: meta.CorrespondingAuthor,
		Supervisor:          meta.Supervisor,
		CoSupervisor:        meta.CoSupervisor,
	}, replacement)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaperNotFound
		}
		return nil, apperror.Internal("Database error", err)
	}

	if paper.Status == models.StatusApproved {
		s.invalidateReferenceCache(ctx)
	}
	return paper, nil
}

func (s *paperService) Delete(ctx context.Context, id int64, actor Actor) error {
	if _, err := s.findModifiable(ctx, id, actor, "You can only delete your own papers"); err != nil {
		return err
	}

	paper, err := s.paperRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errPaperNotFound
		}
		return apperror.Internal("Database error", err)
	}

	if name, ok := s.files.NameFromURL(paper.FileURL); ok {
		s.removeFile(name)
	}
	s.invalidateReferenceCache(ctx)

	s.log.WithFields(logrus.Fields{"paper_id": id, "actor_id": actor.ID}).Info("paper deleted")
	return nil
}

func (s *paperService) ListApproved(ctx context.Context, page Page) ([]models.PaperView, error) {
	papers, err := s.paperRepo.List(ctx, repository.PaperFilter{
		Status:  models.StatusApproved,
		OrderBy: repository.OrderByPublicationDate,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
	if err != nil {
		return nil, apperror.Internal("Database error", err)
	}
	return papers, nil
}

func (s *paperService) findModifiable(ctx context.Context, id int64, actor Actor, forbidden string) (*models.Paper, error) {
	paper, err := s.paperRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaperNotFound
		}
		return nil, apperror.Internal("Database error", err)
	}
	if !actor.CanModify(paper) {
		return nil, apperror.Forbidden(forbidden)
	}
	return paper, nil
}

// applyPDFInfo fills the page count and, when absent, the DOI from the stored document.
func (s *paperService) applyPDFInfo(paper *models.Paper, name string) {
	info, err := s.inspect(s.files.Path(name))
	if err != nil {
		s.log.WithError(err).WithField("file", name).Warn("could not inspect uploaded pdf")
		return
	}
	if info.Pages > 0 {
		pages := info.Pages
		paper.PageCount = &pages
	}
	if paper.DOI == nil && info.DOI != "" {
		doi := info.DOI
		paper.DOI = &doi
	}
}

func (s *paperService) parseCoAuthors(raw string) []models.CoAuthor {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var entries []CoAuthorInput
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.WithError(err).Warn("ignoring malformed co_authors payload")
		return nil
	}
	return normalizeCoAuthors(entries)
}

func (s *paperService) removeFile(name string) {
	if err := s.files.Remove(name); err != nil {
		s.log.WithError(err).WithField("file", name).Error("failed to remove uploaded file")
	}
}

func (s *paperService) invalidateReferenceCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheKeyCategories, cacheKeyStats); err != nil {
		s.log.WithError(err).Warn("failed to invalidate reference cache")
	}
}

// normalizeCoAuthors drops unnamed entries and numbers missing orders by position.
func normalizeCoAuthors(entries []CoAuthorInput) []models.CoAuthor {
	coAuthors := make([]models.CoAuthor, 0, len(entries))
	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		order := entry.Order
		if order <= 0 {
			order = i + 1
		}
		coAuthors = append(coAuthors, models.CoAuthor{Name: name, AuthorOrder: order})
	}
	return coAuthors
}

type paperMetadata struct {
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

func validatePaperInput(input PaperInput) (*paperMetadata, error) {
	meta := &paperMetadata{
		Title:               strings.TrimSpace(input.Title),
		Abstract:            strings.TrimSpace(input.Abstract),
		Keywords:            strings.TrimSpace(input.Keywords),
		Category:            strings.TrimSpace(input.Category),
		DepartmentID:        input.DepartmentID,
		FacultyID:           input.FacultyID,
		DOI:                 optional(input.DOI),
		CorrespondingAuthor: strings.TrimSpace(input.CorrespondingAuthor),
		Supervisor:          optional(input.Supervisor),
		CoSupervisor:        optional(input.CoSupervisor),
	}
	publication := strings.TrimSpace(input.PublicationDate)

	if meta.Title == "" || meta.Abstract == "" || meta.Keywords == "" || meta.Category == "" ||
		meta.DepartmentID <= 0 || publication == "" || meta.CorrespondingAuthor == "" {
		return nil, apperror.Validation("Missing required fields")
	}

	date, err := time.Parse(dateLayout, publication)
	if err != nil {
		return nil, apperror.Validation("Invalid publication_date, expected YYYY-MM-DD")
	}
	meta.PublicationDate = date

	if meta.FacultyID != nil && *meta.FacultyID <= 0 {
		meta.FacultyID = nil
	}
	return meta, nil
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isPDF(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), pdfContentType)
}
