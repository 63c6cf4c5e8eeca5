package handlers

import (
	"net/http"

	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles account HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	log         *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterResponse is returned for a created account.
type RegisterResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Register godoc
// @Summary Register an account
// @Description Create an account. role is "author" (default) or "admin"; admin
// @Description self-registration is refused with 400 unless the server sets ALLOW_ADMIN_REGISTRATION=true.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Account"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	id, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{Message: "User registered successfully", ID: id})
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetProfile godoc
// @Summary Current profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.UserProfile
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update current profile
// @Description Replace name, department, faculty and designation. The email cannot change.
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.ProfileRequest true "Profile"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req service.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), actor.ID, req)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
