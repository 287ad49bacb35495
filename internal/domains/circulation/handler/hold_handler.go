package handler

import (
	"errors"
	"net/http"

	"library-backend/internal/domains/circulation/model"
	"library-backend/internal/domains/circulation/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HoldHandler struct {
	service service.ServiceInterface
}

// NewHoldHandler creates a new hold handler
func NewHoldHandler(service service.ServiceInterface) *HoldHandler {
	return &HoldHandler{
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

// PlaceHold handles POST /api/v1/readers/me/holds
func (h *HoldHandler) PlaceHold(c *gin.Context) {
	readerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	var req model.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	hold, err := h.service.PlaceHold(c.Request.Context(), readerID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBookNotFound):
			response.NotFound(c, "Book not found")
		case errors.Is(err, model.ErrDuplicateHold):
			response.Conflict(c, "You already have a hold on this book")
		case errors.Is(err, model.ErrAlreadyBorrowing):
			response.Conflict(c, "You already have this book checked out")
		case errors.Is(err, model.ErrNoCopiesAvailable):
			response.Conflict(c, "No copies available")
		default:
			response.InternalServerError(c, "Failed to place hold")
		}
		return
	}

	response.Success(c, http.StatusCreated, hold)
}

// CancelHold handles DELETE /api/v1/readers/me/holds/:bookId
func (h *HoldHandler) CancelHold(c *gin.Context) {
	readerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID format")
		return
	}

	if err := h.service.CancelHold(c.Request.Context(), readerID, bookID); err != nil {
		response.InternalServerError(c, "Failed to cancel hold")
		return
	}

	// Cancelling an absent hold is still a success
	c.Status(http.StatusNoContent)
}

// CheckHold handles GET /api/v1/readers/me/holds/:bookId
func (h *HoldHandler) CheckHold(c *gin.Context) {
	readerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID format")
		return
	}

	hasHold, err := h.service.HasHold(c.Request.Context(), readerID, bookID)
	if err != nil {
		response.InternalServerError(c, "Failed to check hold")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"book_id":  bookID,
		"has_hold": hasHold,
	})
}

// ListMyHolds handles GET /api/v1/readers/me/holds
func (h *HoldHandler) ListMyHolds(c *gin.Context) {
	readerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	holds, err := h.service.ListReaderHolds(c.Request.Context(), readerID)
	if err != nil {
		response.InternalServerError(c, "Failed to list holds")
		return
	}

	response.Success(c, http.StatusOK, holds)
}

// ListHolds handles GET /api/v1/holds (staff)
func (h *HoldHandler) ListHolds(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	holds, total, err := h.service.ListHolds(c.Request.Context(), page, limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list holds")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, holds, response.NewMeta(page, limit, total))
}
