package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/service"
	"nodex/backend/internal/workflow"
	"nodex/backend/pkg/apperrors"
	"nodex/backend/pkg/response"
)

// ApplicationHandler serves the clearance workflow endpoints.
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler creates the ApplicationHandler.
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// Submit creates a new no due application for the calling student.
// POST /api/v1/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.appSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get returns one application with its stage states. Students can
// only read their own.
// GET /api/v1/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "application id is required")
		return
	}

	resp, err := h.appSvc.Get(c.Request.Context(), userID, role, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListMine returns the calling student's applications.
// GET /api/v1/applications/mine
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.appSvc.ListByStudent(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": resp})
}

// Assignments returns the subject-faculty rows of an application.
// GET /api/v1/applications/:id/subjects
func (h *ApplicationHandler) Assignments(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "application id is required")
		return
	}

	resp, err := h.appSvc.Assignments(c.Request.Context(), userID, role, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": resp})
}

// FacultyQueue returns the calling faculty member's assignment rows.
// GET /api/v1/applications/faculty-queue
func (h *ApplicationHandler) FacultyQueue(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.appSvc.FacultyQueue(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": resp})
}

// Queue returns the applications waiting for the caller's role.
// GET /api/v1/applications/queue
func (h *ApplicationHandler) Queue(c *gin.Context) {
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.StageQueueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query: "+err.Error())
		return
	}
	// Department-scoped verifiers default to their own department.
	if req.Department == "" {
		req.Department = GetDepartment(c)
	}

	list, total, err := h.appSvc.ListQueue(c.Request.Context(), role, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Verify records one verifier decision on an application.
// POST /api/v1/applications/:id/verify
func (h *ApplicationHandler) Verify(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "application id is required")
		return
	}

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.appSvc.Verify(c.Request.Context(), userID, role, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// SubmitPayment records the student's payment reference.
// POST /api/v1/applications/:id/payment
func (h *ApplicationHandler) SubmitPayment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "application id is required")
		return
	}

	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.appSvc.SubmitPayment(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Track returns the admin tracker for a batch+department slice.
// GET /api/v1/applications/tracker
func (h *ApplicationHandler) Track(c *gin.Context) {
	var req dto.TrackerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "batch and department are required")
		return
	}

	resp, err := h.appSvc.Track(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Certificate returns the certificate data for a completed
// application.
// GET /api/v1/applications/:id/certificate
func (h *ApplicationHandler) Certificate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "application id is required")
		return
	}

	resp, err := h.appSvc.Certificate(c.Request.Context(), userID, role, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete removes one application with its dependents.
// DELETE /api/v1/applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "application id is required")
		return
	}

	resp, err := h.appSvc.Delete(c.Request.Context(), userID, role, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// DeleteAll removes every application of a batch+department slice.
// POST /api/v1/applications/delete-all
func (h *ApplicationHandler) DeleteAll(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.DeleteAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.appSvc.DeleteAll(c.Request.Context(), userID, role, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *ApplicationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20404, err.Error())
	case errors.Is(err, service.ErrDuplicateApplication):
		response.Conflict(c, 20409, err.Error())
	case errors.Is(err, service.ErrProfileIncomplete),
		errors.Is(err, service.ErrInvalidDepartment),
		errors.Is(err, service.ErrInvalidBatch),
		errors.Is(err, service.ErrInvalidSubject),
		errors.Is(err, service.ErrInvalidFaculty),
		errors.Is(err, service.ErrNoAssignedSubjects),
		errors.Is(err, service.ErrPaymentNotReady),
		errors.Is(err, service.ErrNotCompleted),
		errors.Is(err, workflow.ErrInvalidRole),
		errors.Is(err, workflow.ErrInvalidDecision),
		errors.Is(err, workflow.ErrStageNotApplicable),
		errors.Is(err, workflow.ErrEmptyComment):
		response.BadRequest(c, 20001, err.Error())
	case errors.Is(err, workflow.ErrStageOrder),
		errors.Is(err, workflow.ErrApplicationClosed),
		errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 20409, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, 10003, "insufficient permissions")
	case errors.Is(err, apperrors.ErrStorageTimeout):
		response.Error(c, http.StatusServiceUnavailable, 20503, "storage timed out, try again")
	default:
		response.InternalError(c)
	}
}
