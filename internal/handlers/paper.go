package handlers

import (
	"errors"
	"net/http"

	"github.com/GunarsK-portfolio/paper-repository/internal/middleware"
	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead is the allowance for form fields on top of the file size limit.
const multipartOverhead = 1 << 20

// PaperHandler handles paper HTTP requests.
type PaperHandler struct {
	paperService service.PaperService
	maxFileSize  int64
	log          *logrus.Logger
}

// NewPaperHandler creates a new PaperHandler instance.
func NewPaperHandler(paperService service.PaperService, maxFileSize int64, log *logrus.Logger) *PaperHandler {
	return &PaperHandler{
		paperService: paperService,
		maxFileSize:  maxFileSize,
		log:          log,
	}
}

// CreatePaperResponse is returned for a submitted paper.
type CreatePaperResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	FileURL string `json:"fileUrl"`
}

// UpdatePaperRequest is the metadata of an edit plus an optional replacement co-author list.
type UpdatePaperRequest struct {
	service.PaperInput
	CoAuthors *[]service.CoAuthorInput `json:"co_authors"`
}

// List godoc
// @Summary List approved papers
// @Tags papers
// @Produce json
// @Param limit query int false "Maximum number of papers"
// @Param offset query int false "Number of papers to skip"
// @Success 200 {array} models.PaperView
// @Failure 400 {object} ErrorResponse
// @Router /papers [get]
func (h *PaperHandler) List(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	papers, err := h.paperService.ListApproved(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, papers)
}

// Get godoc
// @Summary Get a paper
// @Description Approved papers are public. Pending and rejected papers are visible to their author and admins.
// @Tags papers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Paper ID"
// @Success 200 {object} models.PaperDetail
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /papers/{id} [get]
func (h *PaperHandler) Get(c *gin.Context) {
	id, ok := paperID(c)
	if !ok {
		return
	}

	paper, err := h.paperService.Get(c.Request.Context(), id, middleware.ActorFromContext(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, paper)
}

// Create godoc
// @Summary Submit a paper
// @Description Upload a PDF with its metadata. The paper starts pending approval.
// @Tags papers
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param abstract formData string true "Abstract"
// @Param keywords formData string true "Comma separated keywords"
// @Param category formData string true "Category"
// @Param department_id formData int true "Department ID"
// @Param faculty_id formData int false "Faculty ID"
// @Param publication_date formData string true "Publication date (YYYY-MM-DD)"
// @Param doi formData string false "DOI"
// @Param corresponding_author formData string true "Corresponding author"
// @Param supervisor formData string false "Supervisor"
// @Param co_supervisor formData string false "Co-supervisor"
// @Param co_authors formData string false "JSON array of {name, order}"
// @Param file formData file true "PDF document"
// @Success 201 {object} CreatePaperResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /papers [post]
func (h *PaperHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)

	var input service.PaperInput
	bindErr := c.ShouldBind(&input)
	if bindErr != nil && !isValidationError(bindErr) {
		var tooLarge *http.MaxBytesError
		if errors.As(bindErr, &tooLarge) {
			respondServiceError(c, h.log, service.FileTooLarge(h.maxFileSize))
			return
		}
		RespondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	var upload *service.FileUpload
	fileHeader, err := c.FormFile("file")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			LogAndRespondError(c, h.log, http.StatusInternalServerError, err, "Failed to read upload")
			return
		}
		defer file.Close()
		upload = &service.FileUpload{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      file,
		}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondServiceError(c, h.log, service.FileTooLarge(h.maxFileSize))
			return
		}
		RespondError(c, http.StatusBadRequest, "PDF file is required")
		return
	}

	// a bad upload is reported ahead of bad metadata
	if bindErr != nil {
		if upload != nil {
			if err := service.CheckUpload(upload, h.maxFileSize); err != nil {
				respondServiceError(c, h.log, err)
				return
			}
		}
		RespondError(c, http.StatusBadRequest, bindErrorMessage(bindErr))
		return
	}

	paper, err := h.paperService.Create(c.Request.Context(), actor, input, c.PostForm("co_authors"), upload)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, CreatePaperResponse{
		Message: "Paper submitted successfully and pending approval",
		ID:      paper.ID,
		FileURL: paper.FileURL,
	})
}

// Update godoc
// @Summary Edit a paper
// @Description Overwrite the metadata of a paper. Supplying co_authors replaces the list.
// @Tags papers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Paper ID"
// @Param request body UpdatePaperRequest true "Paper metadata"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /papers/{id} [put]
func (h *PaperHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paperID(c)
	if !ok {
		return
	}

	// metadata rules are applied after the ownership check, so only a malformed body stops here
	var req UpdatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil && !isValidationError(err) {
		RespondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	if _, err := h.paperService.Update(c.Request.Context(), id, actor, req.PaperInput, req.CoAuthors); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Paper updated successfully"})
}

// Delete godoc
// @Summary Delete a paper
// @Tags papers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Paper ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /papers/{id} [delete]
func (h *PaperHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paperID(c)
	if !ok {
		return
	}

	if err := h.paperService.Delete(c.Request.Context(), id, actor); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Paper deleted successfully"})
}
