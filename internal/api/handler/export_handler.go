package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"nodex/backend/internal/service"
	"nodex/backend/pkg/response"
)

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTracker downloads the tracker as .xlsx.
// GET /api/v1/export/tracker?batch=2022-26&department=CSE
func (h *ExportHandler) ExportTracker(c *gin.Context) {
	batch := c.Query("batch")
	department := c.Query("department")
	if batch == "" || department == "" {
		response.BadRequest(c, 10001, "batch and department are required")
		return
	}

	f, filename, err := h.exportSvc.TrackerWorkbook(c.Request.Context(), batch, department)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		response.InternalError(c)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDepartment),
		errors.Is(err, service.ErrInvalidBatch):
		response.BadRequest(c, 25001, err.Error())
	default:
		response.InternalError(c)
	}
}
