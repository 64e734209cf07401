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

// importMaxBytes caps the uploaded spreadsheet size.
const importMaxBytes = 10 << 20

// StudentHandler serves student profile endpoints.
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler creates the StudentHandler.
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// Create adds one student.
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.studentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Import bulk-creates students from an uploaded .xlsx file.
// POST /api/v1/students/import
func (h *StudentHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "missing file upload field")
		return
	}
	defer file.Close()

	resp, err := h.studentSvc.Import(c.Request.Context(), http.MaxBytesReader(c.Writer, file, importMaxBytes))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Me returns the calling student's profile.
// GET /api/v1/students/me
func (h *StudentHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.studentSvc.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Get returns one student profile.
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "student id is required")
		return
	}

	resp, err := h.studentSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// CompleteProfile records the calling student's first-login details.
// PUT /api/v1/students/me/profile
func (h *StudentHandler) CompleteProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.studentSvc.CompleteProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// List returns students filtered by department, batch, semester or a
// name/usn keyword.
// GET /api/v1/students
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query: "+err.Error())
		return
	}

	list, total, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// BumpSemester moves a batch+department to a new semester.
// POST /api/v1/students/bump-semester
func (h *StudentHandler) BumpSemester(c *gin.Context) {
	var req dto.BumpSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.studentSvc.BumpSemester(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *StudentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 21404, err.Error())
	case errors.Is(err, service.ErrDuplicateUSN):
		response.Conflict(c, 21409, err.Error())
	case errors.Is(err, service.ErrInvalidUSN),
		errors.Is(err, service.ErrInvalidDepartment),
		errors.Is(err, service.ErrInvalidBatch),
		errors.Is(err, service.ErrBadImportFile),
		errors.Is(err, service.ErrEmptyImport):
		response.BadRequest(c, 21001, err.Error())
	case errors.Is(err, apperrors.ErrStorageTimeout):
		response.Error(c, http.StatusServiceUnavailable, 21503, "storage timed out, try again")
	default:
		response.InternalError(c)
	}
}
