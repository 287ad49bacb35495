package handler

import (
	"errors"
	"io"
	"net/http"

	"library-backend/internal/domains/catalog/model"
	"library-backend/internal/domains/catalog/service"
	circmodel "library-backend/internal/domains/circulation/model"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	service service.ServiceInterface
}

// NewBookHandler creates a new book handler
func NewBookHandler(service service.ServiceInterface) *BookHandler {
	return &BookHandler{
		service: service,
	}
}

// viewerID returns the authenticated reader when one is present. Public
// catalog routes run behind OptionalAuth, so anonymous is normal.
func viewerID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func isStaff(c *gin.Context) bool {
	role := c.GetString(middleware.CtxRole)
	return role == "staff" || role == "admin"
}

// CreateBook handles POST /api/v1/books (staff)
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrISBNAlreadyExists) {
			response.Conflict(c, "A book with this ISBN already exists")
			return
		}
		response.InternalServerError(c, "Failed to create book")
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// GetBook handles GET /api/v1/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID format")
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id, viewerID(c), isStaff(c))
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) || errors.Is(err, circmodel.ErrBookNotFound) {
			response.NotFound(c, "Book not found")
			return
		}
		response.InternalServerError(c, "Failed to get book")
		return
	}

	response.Success(c, http.StatusOK, book)
}

// ListBooks handles GET /api/v1/books?search=...&genre=...&page=1&limit=20
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q model.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	q.SetDefaults()

	books, total, err := h.service.ListBooks(c.Request.Context(), q, viewerID(c), isStaff(c))
	if err != nil {
		response.InternalServerError(c, "Failed to list books")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, response.NewMeta(q.Page, q.Limit, total))
}

// UpdateBook handles PUT /api/v1/books/:id (staff)
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID format")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBookNotFound):
			response.NotFound(c, "Book not found")
		case errors.Is(err, circmodel.ErrCopiesBelowInUse):
			response.Conflict(c, "Copies count cannot drop below the number currently borrowed or held")
		case errors.Is(err, model.ErrISBNAlreadyExists):
			response.Conflict(c, "A book with this ISBN already exists")
		default:
			response.InternalServerError(c, "Failed to update book")
		}
		return
	}

	response.Success(c, http.StatusOK, book)
}

// DeleteBook handles DELETE /api/v1/books/:id (staff)
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID format")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, model.ErrBookNotFound):
			response.NotFound(c, "Book not found")
		case errors.Is(err, model.ErrBookHasClaims):
			response.Conflict(c, "Book still has circulation records")
		default:
			response.InternalServerError(c, "Failed to delete book")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListGenres handles GET /api/v1/genres
func (h *BookHandler) ListGenres(c *gin.Context) {
	genres, err := h.service.ListGenres(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list genres")
		return
	}

	response.Success(c, http.StatusOK, genres)
}

// UploadCover handles POST /api/v1/books/:id/cover (staff, multipart)
func (h *BookHandler) UploadCover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID format")
		return
	}

	file, _, err := c.Request.FormFile("cover")
	if err != nil {
		response.BadRequest(c, "Missing cover file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Failed to read cover file")
		return
	}

	if err := h.service.UploadCover(c.Request.Context(), id, data); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "Book not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"status": "processing"})
}
