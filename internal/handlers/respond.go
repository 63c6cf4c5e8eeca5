// Package handlers contains HTTP request handlers for the paper repository service.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/GunarsK-portfolio/paper-repository/internal/apperror"
	"github.com/GunarsK-portfolio/paper-repository/internal/middleware"
	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of a successful mutation without payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondError writes a JSON error body with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// LogAndRespondError logs err with the request id and responds with message.
func LogAndRespondError(c *gin.Context, log logrus.FieldLogger, status int, err error, message string) {
	log.WithFields(logrus.Fields{
		"request_id": middleware.RequestID(c),
		"path":       c.Request.URL.Path,
		"status":     status,
	}).WithError(err).Error(message)
	_ = c.Error(err)
	RespondError(c, status, message)
}

// respondServiceError translates a service error. Only internal failures are logged.
func respondServiceError(c *gin.Context, log logrus.FieldLogger, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		LogAndRespondError(c, log, status, err, apperror.Message(err))
		return
	}
	RespondError(c, status, apperror.Message(err))
}

// bindErrorMessage names the first broken binding rule. A missing field outranks a
// malformed one; anything that is not a validation failure is a bad body.
func bindErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request body"
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return "Missing required fields"
		}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "email":
		return "Invalid email address"
	case "oneof":
		return "Invalid " + strings.ToLower(fe.Field())
	case "datetime":
		return "Invalid publication_date, expected YYYY-MM-DD"
	default:
		return "Missing required fields"
	}
}

// isValidationError reports whether err came from the binding validator.
func isValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

// paperID parses the :id path parameter. Anything but a positive integer names no paper.
func paperID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusNotFound, "Paper not found")
		return 0, false
	}
	return id, true
}

// pageFromQuery reads the optional limit and offset query parameters.
func pageFromQuery(c *gin.Context) (service.Page, bool) {
	var page service.Page
	for _, param := range []struct {
		name string
		dest *int
	}{{"limit", &page.Limit}, {"offset", &page.Offset}} {
		raw := c.Query(param.name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			RespondError(c, http.StatusBadRequest, "Invalid "+param.name)
			return service.Page{}, false
		}
		*param.dest = value
	}
	return page, true
}

// requireActor returns the authenticated actor. Routes using it sit behind Authenticate.
func requireActor(c *gin.Context) (service.Actor, bool) {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "Access token required")
		return service.Actor{}, false
	}
	return *actor, true
}
