package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"nodex/backend/internal/model"
	"nodex/backend/internal/repository"
	"nodex/backend/internal/workflow"
)

// ExportService renders administrative views as spreadsheets.
type ExportService interface {
	TrackerWorkbook(ctx context.Context, batch, department string) (*excelize.File, string, error)
}

type exportService struct {
	repo    *repository.Repository
	timeout time.Duration
	logger  *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(repo *repository.Repository, timeout time.Duration, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, timeout: timeout, logger: logger}
}

var trackerColumns = []string{
	"USN", "Name", "Semester", "Status", "Progress (%)",
	"Library", "Hostel", "College Office", "Faculty", "Counsellor",
	"Class Advisor", "HOD", "Payment", "Lab", "Submitted",
}

// TrackerWorkbook builds an .xlsx of every application in a
// batch+department slice, one row per application with the per-stage
// verdicts spelled out. Returns the file and a suggested filename.
func (s *exportService) TrackerWorkbook(ctx context.Context, batch, department string) (*excelize.File, string, error) {
	if !model.ValidDepartment(department) {
		return nil, "", ErrInvalidDepartment
	}
	if !batchPattern.MatchString(batch) {
		return nil, "", ErrInvalidBatch
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	apps, _, err := s.repo.Application.List(sctx, &repository.ApplicationListFilters{
		Batch:      batch,
		Department: department,
	}, 0, trackerLimit)
	if err != nil {
		return nil, "", storageErr(err)
	}

	f := excelize.NewFile()
	sheet := "Tracker"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range trackerColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", err
		}
	}

	for i := range apps {
		app := &apps[i]
		studentType := model.StudentTypeLocal
		usn, name := "", ""
		if app.Student != nil {
			studentType = app.Student.StudentType
			usn = app.Student.USN
			name = app.Student.Name
		}

		row := []any{
			usn, name, app.Semester, app.Status,
			workflow.Progress(app, studentType),
			flagCell(app.LibraryVerified),
			hostelCell(app, studentType),
			flagCell(app.CollegeOfficeVerified),
			flagCell(app.FacultyVerified),
			flagCell(app.CounsellorVerified),
			flagCell(app.ClassAdvisorVerified),
			flagCell(app.HODVerified),
			flagCell(app.PaymentVerified),
			flagCell(app.LabVerified),
			app.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	name := fmt.Sprintf("no-due-tracker-%s-%s.xlsx", department, batch)
	s.logger.Info("tracker exported",
		zap.String("batch", batch),
		zap.String("department", department),
		zap.Int("rows", len(apps)))
	return f, name, nil
}

func flagCell(v *bool) string {
	switch {
	case v == nil:
		return "Pending"
	case *v:
		return "Verified"
	default:
		return "Rejected"
	}
}

func hostelCell(app *model.Application, studentType string) string {
	if studentType != model.StudentTypeHostel {
		return "N/A"
	}
	return flagCell(app.HostelVerified)
}
