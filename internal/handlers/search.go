package handlers

import (
	"net/http"
	"strconv"

	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SearchHandler struct {
	searchService service.SearchService
	log           *logrus.Logger
}

func NewSearchHandler(searchService service.SearchService, log *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		log:           log,
	}
}

// Search godoc
// @Summary Search approved papers
// @Description All filters are optional and combined. q matches title, abstract, keywords or category.
// @Tags search
// @Produce json
// @Param q query string false "Free text"
// @Param department query string false "Department name"
// @Param category query string false "Category substring"
// @Param year query int false "Publication year"
// @Param limit query int false "Maximum number of papers"
// @Param offset query int false "Number of papers to skip"
// @Success 200 {array} models.PaperView
// @Failure 400 {object} ErrorResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	query := service.SearchQuery{
		Query:      c.Query("q"),
		Department: c.Query("department"),
		Category:   c.Query("category"),
	}

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "Invalid year")
			return
		}
		query.Year = year
	}

	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	query.Page = page

	papers, err := h.searchService.Search(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, papers)
}
