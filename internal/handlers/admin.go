package handlers

import (
	"net/http"

	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler handles moderation HTTP requests.
type AdminHandler struct {
	moderationService service.ModerationService
	log               *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(moderationService service.ModerationService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
		log:               log,
	}
}

// StatusRequest is a moderation decision. Notes may also be sent as "notes".
type StatusRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
	Notes      *string `json:"notes" swaggerignore:"true"`
}

// notes prefers admin_notes over its alias.
func (r StatusRequest) notes() *string {
	if r.AdminNotes != nil {
		return r.AdminNotes
	}
	return r.Notes
}

// CountResponse carries a single counter.
type CountResponse struct {
	Count int64 `json:"count"`
}

// ListPapers godoc
// @Summary List papers of every status
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum number of papers"
// @Param offset query int false "Number of papers to skip"
// @Success 200 {array} models.PaperView
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/papers [get]
func (h *AdminHandler) ListPapers(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	papers, err := h.moderationService.ListAll(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, papers)
}

// SetStatus godoc
// @Summary Approve or reject a paper
// @Description Records the decision and its admin_notes, replacing earlier notes. Decided papers may be decided again.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Paper ID"
// @Param request body StatusRequest true "Decision"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/papers/{id}/status [put]
func (h *AdminHandler) SetStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paperID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	change, err := h.moderationService.SetStatus(c.Request.Context(), id, actor, req.Status, req.notes())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Paper " + change.NewStatus + " successfully"})
}

// PendingCount godoc
// @Summary Number of papers awaiting a decision
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} CountResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/pending-count [get]
func (h *AdminHandler) PendingCount(c *gin.Context) {
	count, err := h.moderationService.PendingCount(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, CountResponse{Count: count})
}

// History godoc
// @Summary Moderation history of a paper
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Paper ID"
// @Success 200 {array} models.StatusChange
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/papers/{id}/history [get]
func (h *AdminHandler) History(c *gin.Context) {
	id, ok := paperID(c)
	if !ok {
		return
	}

	history, err := h.moderationService.History(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
