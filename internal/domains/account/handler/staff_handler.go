package handler

import (
	"errors"
	"net/http"

	"library-backend/internal/domains/account/model"
	"library-backend/internal/domains/account/service"
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	service service.ServiceInterface
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(service service.ServiceInterface) *StaffHandler {
	return &StaffHandler{
		service: service,
	}
}

// CreateStaff handles POST /api/v1/staff (admin)
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err.Error())
		return
	}

	staff, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrUsernameAlreadyExists) {
			response.Conflict(c, "Username already taken")
			return
		}
		response.InternalServerError(c, "Failed to create staff member")
		return
	}

	response.Success(c, http.StatusCreated, staff)
}

// ListStaff handles GET /api/v1/staff (admin)
func (h *StaffHandler) ListStaff(c *gin.Context) {
	staff, err := h.service.ListStaff(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list staff")
		return
	}

	response.Success(c, http.StatusOK, staff)
}
