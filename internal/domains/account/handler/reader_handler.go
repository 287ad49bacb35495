package handler

import (
	"errors"
	"net/http"

	"library-backend/internal/domains/account/model"
	"library-backend/internal/domains/account/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReaderHandler struct {
	service service.ServiceInterface
}

// NewReaderHandler creates a new reader handler
func NewReaderHandler(service service.ServiceInterface) *ReaderHandler {
	return &ReaderHandler{
		service: service,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetProfile handles GET /api/v1/readers/me
func (h *ReaderHandler) GetProfile(c *gin.Context) {
	readerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	reader, err := h.service.GetReaderProfile(c.Request.Context(), readerID)
	if err != nil {
		if errors.Is(err, model.ErrReaderNotFound) {
			response.NotFound(c, "Reader not found")
			return
		}
		response.InternalServerError(c, "Failed to get profile")
		return
	}

	response.Success(c, http.StatusOK, reader)
}

// UpdateProfile handles PUT /api/v1/readers/me
func (h *ReaderHandler) UpdateProfile(c *gin.Context) {
	readerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	reader, err := h.service.UpdateReaderProfile(c.Request.Context(), readerID, req)
	if err != nil {
		if errors.Is(err, model.ErrReaderNotFound) {
			response.NotFound(c, "Reader not found")
			return
		}
		response.InternalServerError(c, "Failed to update profile")
		return
	}

	response.Success(c, http.StatusOK, reader)
}

// ListReaders handles GET /api/v1/readers?search=...&page=1&limit=20 (staff)
func (h *ReaderHandler) ListReaders(c *gin.Context) {
	var req model.ListReadersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	req.SetDefaults()

	readers, total, err := h.service.ListReaders(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "Failed to list readers")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, readers, response.NewMeta(req.Page, req.Limit, total))
}

// GetReaderByCode handles GET /api/v1/readers/by-code/:code (staff)
func (h *ReaderHandler) GetReaderByCode(c *gin.Context) {
	code := c.Param("code")
	if len(code) != 13 {
		response.BadRequest(c, "Card code must be 13 digits")
		return
	}

	reader, err := h.service.GetReaderByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, model.ErrReaderNotFound) {
			response.NotFound(c, "Reader not found")
			return
		}
		response.InternalServerError(c, "Failed to look up reader")
		return
	}

	response.Success(c, http.StatusOK, reader)
}
