package handlers

import (
	"net/http"

	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReferenceHandler serves lookup lists and public counters.
type ReferenceHandler struct {
	referenceService service.ReferenceService
	log              *logrus.Logger
}

func NewReferenceHandler(referenceService service.ReferenceService, log *logrus.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
		log:              log,
	}
}

// Departments godoc
// @Summary List departments
// @Tags reference
// @Produce json
// @Success 200 {array} models.Department
// @Router /departments [get]
func (h *ReferenceHandler) Departments(c *gin.Context) {
	departments, err := h.referenceService.Departments(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// Faculties godoc
// @Summary List faculties
// @Tags reference
// @Produce json
// @Success 200 {array} models.Faculty
// @Router /faculties [get]
func (h *ReferenceHandler) Faculties(c *gin.Context) {
	faculties, err := h.referenceService.Faculties(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, faculties)
}

// Categories godoc
// @Summary List categories of approved papers
// @Tags reference
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *ReferenceHandler) Categories(c *gin.Context) {
	categories, err := h.referenceService.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Stats godoc
// @Summary Repository counters
// @Description Always answers 200. Counters are zero when they cannot be computed.
// @Tags reference
// @Produce json
// @Success 200 {object} models.Stats
// @Router /stats [get]
func (h *ReferenceHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.referenceService.Stats(c.Request.Context()))
}
