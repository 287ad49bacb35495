package handler

import (
	"errors"
	"net/http"

	"library-backend/internal/domains/account/model"
	"library-backend/internal/domains/account/service"
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.ServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service service.ServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	reader, err := h.service.RegisterReader(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			response.Conflict(c, "Email already registered")
			return
		}
		response.InternalServerError(c, "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, reader)
}

// Login handles POST /api/v1/auth/login (readers)
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.ReaderLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	res, err := h.service.ReaderLogin(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid email or password")
			return
		}
		response.InternalServerError(c, "Failed to sign in")
		return
	}

	response.Success(c, http.StatusOK, res)
}

// StaffLogin handles POST /api/v1/auth/staff/login
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req model.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	res, err := h.service.StaffLogin(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid username or password")
			return
		}
		response.InternalServerError(c, "Failed to sign in")
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	res, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidToken) {
			response.Unauthorized(c, "Invalid or expired refresh token")
			return
		}
		response.InternalServerError(c, "Failed to refresh token")
		return
	}

	response.Success(c, http.StatusOK, res)
}
