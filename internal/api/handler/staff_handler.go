package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/service"
	"nodex/backend/pkg/apperrors"
	"nodex/backend/pkg/response"
)

// StaffHandler serves staff profile and role endpoints.
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler creates the StaffHandler.
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// Create adds one staff member with a functional role.
// POST /api/v1/staff
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.staffSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Me returns the calling staff member's profile.
// GET /api/v1/staff/me
func (h *StaffHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.staffSvc.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Get returns one staff profile with its roles.
// GET /api/v1/staff/:id
func (h *StaffHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "staff id is required")
		return
	}

	resp, err := h.staffSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update edits a staff profile.
// PUT /api/v1/staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "staff id is required")
		return
	}

	var req dto.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.staffSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// List returns staff profiles, optionally per department.
// GET /api/v1/staff
func (h *StaffHandler) List(c *gin.Context) {
	var req dto.StaffListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query: "+err.Error())
		return
	}

	list, total, err := h.staffSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListByRole returns the active holders of one role. Students use it
// to pick the faculty for their subject list.
// GET /api/v1/staff/by-role/:role
func (h *StaffHandler) ListByRole(c *gin.Context) {
	role := c.Param("role")
	department := c.Query("department")

	resp, err := h.staffSvc.ListByRole(c.Request.Context(), role, department)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": resp})
}

// AssignRole grants a role to a staff member.
// PUT /api/v1/staff/:id/roles/:role
func (h *StaffHandler) AssignRole(c *gin.Context) {
	if err := h.staffSvc.AssignRole(c.Request.Context(), c.Param("id"), c.Param("role")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// RevokeRole removes a role from a staff member.
// DELETE /api/v1/staff/:id/roles/:role
func (h *StaffHandler) RevokeRole(c *gin.Context) {
	if err := h.staffSvc.RevokeRole(c.Request.Context(), c.Param("id"), c.Param("role")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *StaffHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 22404, err.Error())
	case errors.Is(err, service.ErrDuplicateEmployeeID):
		response.Conflict(c, 22409, err.Error())
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrDepartmentRequired),
		errors.Is(err, service.ErrInvalidDepartment):
		response.BadRequest(c, 22001, err.Error())
	case errors.Is(err, apperrors.ErrStorageTimeout):
		response.Error(c, http.StatusServiceUnavailable, 22503, "storage timed out, try again")
	default:
		response.InternalError(c)
	}
}
