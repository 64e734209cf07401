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

// SubjectHandler serves the subject catalog endpoints.
type SubjectHandler struct {
	subjectSvc service.SubjectService
}

// NewSubjectHandler creates the SubjectHandler.
func NewSubjectHandler(subjectSvc service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// Create adds one subject.
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.subjectSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get returns one subject.
// GET /api/v1/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "subject id is required")
		return
	}

	resp, err := h.subjectSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// List returns the catalog filtered by department and semester.
// GET /api/v1/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	var req dto.SubjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query: "+err.Error())
		return
	}

	resp, err := h.subjectSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": resp})
}

// Update edits a subject.
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "subject id is required")
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.subjectSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete removes a subject from the catalog.
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "subject id is required")
		return
	}

	if err := h.subjectSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *SubjectHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 23404, err.Error())
	case errors.Is(err, service.ErrDuplicateSubject):
		response.Conflict(c, 23409, err.Error())
	case errors.Is(err, service.ErrInvalidDepartment):
		response.BadRequest(c, 23001, err.Error())
	case errors.Is(err, apperrors.ErrStorageTimeout):
		response.Error(c, http.StatusServiceUnavailable, 23503, "storage timed out, try again")
	default:
		response.InternalError(c)
	}
}
