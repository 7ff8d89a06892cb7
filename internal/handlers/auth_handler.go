package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/internal/services"
	"github.com/grievance_system/pkg/logger"
	"github.com/grievance_system/pkg/utils"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	service services.AuthService
	logger  *logger.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(service services.AuthService, lg *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: lg}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,max=255"`
	Phone    string  `json:"phone" binding:"required,max=20"`
	Password string  `json:"password" binding:"required"`
	Address  *string `json:"address,omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the user it belongs to.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register godoc
// @Summary Register a citizen account
// @Description Creates a citizen account. Email must be unique.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "Account details"
// @Success 201 {object} utils.SuccessResponse{data=models.User} "Registration successful"
// @Failure 400 {object} utils.APIErrorResponse "Missing or invalid field, or email already registered"
// @Failure 500 {object} utils.APIErrorResponse "Registration failed"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		switch {
		case services.IsValidationError(err), errors.Is(err, services.ErrEmailTaken):
			utils.RespondBadRequestError(c, err.Error())
		default:
			respondUnexpected(c, h.logger, err, "Registration failed")
		}
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, user, "Registration successful")
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} utils.SuccessResponse{data=LoginResponse} "Login successful"
// @Failure 400 {object} utils.APIErrorResponse "Email and password are required"
// @Failure 401 {object} utils.APIErrorResponse "Invalid credentials"
// @Failure 500 {object} utils.APIErrorResponse "Login failed"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, h.service.Login, "Invalid credentials", "Login successful")
}

// AdminLogin godoc
// @Summary Staff log in
// @Description Like login, but only admins and officers are accepted
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} utils.SuccessResponse{data=LoginResponse} "Admin login successful"
// @Failure 400 {object} utils.APIErrorResponse "Email and password are required"
// @Failure 401 {object} utils.APIErrorResponse "Invalid admin credentials"
// @Failure 500 {object} utils.APIErrorResponse "Login failed"
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, h.service.StaffLogin, "Invalid admin credentials", "Admin login successful")
}

type loginFunc func(ctx context.Context, email, password string) (*services.AuthResult, error)

func (h *AuthHandler) login(c *gin.Context, fn loginFunc, invalidMessage, successMessage string) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBadRequestError(c, services.ErrMissingCredentials.Error())
		return
	}

	result, err := fn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondUnauthorizedError(c, invalidMessage)
		case services.IsValidationError(err):
			utils.RespondBadRequestError(c, err.Error())
		default:
			respondUnexpected(c, h.logger, err, "Login failed")
		}
		return
	}

	utils.RespondSuccess(c, http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	}, successMessage)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the bearer token used for this request
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Logged out"
// @Failure 401 {object} utils.APIErrorResponse "Authentication required or token invalid/expired"
// @Failure 500 {object} utils.APIErrorResponse "Logout failed"
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := auth.CurrentClaims(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		respondUnexpected(c, h.logger, err, "Logout failed")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "Logged out")
}
