package handler

import (
	"errors"
	"net/http"
	"strconv"

	"library-backend/internal/domains/circulation/model"
	"library-backend/internal/domains/circulation/service"
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BorrowHandler struct {
	service service.ServiceInterface
}

// NewBorrowHandler creates a new borrow handler
func NewBorrowHandler(service service.ServiceInterface) *BorrowHandler {
	return &BorrowHandler{
		service: service,
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// BorrowBook handles POST /api/v1/borrows (staff)
func (h *BorrowHandler) BorrowBook(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	var req model.BorrowBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	borrow, err := h.service.BorrowBook(c.Request.Context(), staffID, req)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, borrow)
}

// AcceptHold handles POST /api/v1/borrows/accept-hold (staff)
func (h *BorrowHandler) AcceptHold(c *gin.Context) {
	staffID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	var req model.AcceptHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	borrow, err := h.service.AcceptHold(c.Request.Context(), staffID, req)
	if err != nil {
		if errors.Is(err, model.ErrHoldNotFound) {
			response.NotFound(c, "Hold request not found")
			return
		}
		h.respondCheckoutError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, borrow)
}

func (h *BorrowHandler) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	case errors.Is(err, model.ErrReaderNotFound):
		response.NotFound(c, "Reader not found")
	case errors.Is(err, model.ErrStaffNotFound):
		response.NotFound(c, "Staff member not found")
	case errors.Is(err, model.ErrAlreadyBorrowing):
		response.Conflict(c, "Reader already has this book checked out")
	case errors.Is(err, model.ErrNoCopiesAvailable):
		response.Conflict(c, "No copies available")
	case errors.Is(err, model.ErrDueDateOutOfRange):
		response.BadRequest(c, "Due date must fall within the loan period")
	default:
		response.InternalServerError(c, "Failed to check out book")
	}
}

// ReturnBook handles POST /api/v1/borrows/:id/return (staff)
func (h *BorrowHandler) ReturnBook(c *gin.Context) {
	borrowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid borrow ID format")
		return
	}

	borrow, err := h.service.ReturnBook(c.Request.Context(), borrowID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBorrowNotFound):
			response.NotFound(c, "Borrow record not found")
		case errors.Is(err, model.ErrAlreadyReturned):
			response.Conflict(c, "Borrow has already been returned")
		default:
			response.InternalServerError(c, "Failed to return book")
		}
		return
	}

	response.Success(c, http.StatusOK, borrow)
}

// GetBorrow handles GET /api/v1/borrows/:id (staff)
func (h *BorrowHandler) GetBorrow(c *gin.Context) {
	borrowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid borrow ID format")
		return
	}

	borrow, err := h.service.GetBorrow(c.Request.Context(), borrowID)
	if err != nil {
		if errors.Is(err, model.ErrBorrowNotFound) {
			response.NotFound(c, "Borrow record not found")
			return
		}
		response.InternalServerError(c, "Failed to get borrow")
		return
	}

	response.Success(c, http.StatusOK, borrow)
}

// ListBorrows handles GET /api/v1/borrows?reader_id=xxx&book_id=xxx&page=1&limit=20 (staff)
func (h *BorrowHandler) ListBorrows(c *gin.Context) {
	filter := model.ListBorrowsFilter{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}

	if v := c.Query("reader_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid reader ID format")
			return
		}
		filter.ReaderID = &id
	}
	if v := c.Query("book_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid book ID format")
			return
		}
		filter.BookID = &id
	}

	borrows, total, err := h.service.ListBorrows(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, "Failed to list borrows")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, borrows, response.NewMeta(filter.Page, filter.Limit, total))
}

// GetReaderHistory handles GET /api/v1/readers/:id/borrows (staff)
func (h *BorrowHandler) GetReaderHistory(c *gin.Context) {
	readerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid reader ID format")
		return
	}

	borrows, err := h.service.GetReaderHistory(c.Request.Context(), readerID)
	if err != nil {
		response.InternalServerError(c, "Failed to get borrow history")
		return
	}

	response.Success(c, http.StatusOK, borrows)
}

// GetMyHistory handles GET /api/v1/readers/me/borrows (reader)
func (h *BorrowHandler) GetMyHistory(c *gin.Context) {
	readerID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authenticated user")
		return
	}

	borrows, err := h.service.GetReaderHistory(c.Request.Context(), readerID)
	if err != nil {
		response.InternalServerError(c, "Failed to get borrow history")
		return
	}

	response.Success(c, http.StatusOK, borrows)
}

// GetAvailability handles GET /api/v1/books/:id/availability (staff)
func (h *BorrowHandler) GetAvailability(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID format")
		return
	}

	avail, err := h.service.GetAvailability(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "Book not found")
			return
		}
		response.InternalServerError(c, "Failed to get availability")
		return
	}

	response.Success(c, http.StatusOK, avail)
}
