package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/model"
	"nodex/backend/internal/repository"
)

var (
	ErrDuplicateUSN  = errors.New("a student with this USN already exists")
	ErrInvalidUSN    = errors.New("usn does not match the university format")
	ErrBadImportFile = errors.New("import file is not a readable spreadsheet")
	ErrEmptyImport   = errors.New("import file contains no student rows")
)

// usnPattern matches university seat numbers like 4AL22CS001.
var usnPattern = regexp.MustCompile(`^[0-9][A-Z]{2}[0-9]{2}[A-Z]{2,4}[0-9]{3}$`)

// importHeader is the expected first row of a student import sheet.
var importHeader = []string{"name", "usn", "department", "semester", "section", "batch"}

// StudentService manages student profiles.
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Import(ctx context.Context, r io.Reader) (*dto.ImportStudentResponse, error)
	Get(ctx context.Context, id string) (*dto.StudentResponse, error)
	GetByUSN(ctx context.Context, usn string) (*dto.StudentResponse, error)
	CompleteProfile(ctx context.Context, id string, req *dto.CompleteProfileRequest) (*dto.StudentResponse, error)
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
	BumpSemester(ctx context.Context, req *dto.BumpSemesterRequest) (*dto.BumpSemesterResponse, error)
}

type studentService struct {
	repo    *repository.Repository
	timeout time.Duration
	logger  *zap.Logger
}

// NewStudentService creates the StudentService.
func NewStudentService(repo *repository.Repository, timeout time.Duration, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, timeout: timeout, logger: logger}
}

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	usn := strings.ToUpper(strings.TrimSpace(req.USN))
	if !usnPattern.MatchString(usn) {
		return nil, ErrInvalidUSN
	}
	if !model.ValidDepartment(req.Department) {
		return nil, ErrInvalidDepartment
	}
	if !batchPattern.MatchString(req.Batch) {
		return nil, ErrInvalidBatch
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.Student.GetByUSN(sctx, usn); err == nil {
		return nil, ErrDuplicateUSN
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err)
	}

	student := &model.StudentProfile{
		Name:        strings.TrimSpace(req.Name),
		USN:         usn,
		Department:  req.Department,
		Semester:    req.Semester,
		Section:     strings.ToUpper(strings.TrimSpace(req.Section)),
		Batch:       req.Batch,
		StudentType: model.StudentTypeLocal,
	}
	if err := s.repo.Student.Create(sctx, student); err != nil {
		return nil, storageErr(err)
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

// Import reads an .xlsx sheet of students and creates all valid rows
// in one transaction. Two phases: every row is validated first, then
// the clean rows are written together, so a bad row never leaves a
// half-imported sheet behind.
func (s *studentService) Import(ctx context.Context, r io.Reader) (*dto.ImportStudentResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrBadImportFile
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, ErrBadImportFile
	}
	if len(rows) <= 1 {
		return nil, ErrEmptyImport
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	resp := &dto.ImportStudentResponse{Total: len(rows) - 1}
	seen := make(map[string]bool, len(rows))
	students := make([]model.StudentProfile, 0, len(rows)-1)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, header on row 1
		student, reason := s.parseImportRow(sctx, row, seen)
		if reason != "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{Row: rowNum, Reason: reason})
			continue
		}
		seen[student.USN] = true
		students = append(students, *student)
	}

	if len(students) > 0 {
		tx, err := s.repo.BeginTx(sctx)
		if err != nil {
			return nil, storageErr(err)
		}
		if err := s.repo.WithTx(tx).Student.BatchCreate(sctx, students); err != nil {
			rollback(tx)
			return nil, storageErr(err)
		}
		if err := commit(tx); err != nil {
			return nil, storageErr(err)
		}
	}
	resp.Success = len(students)

	s.logger.Info("student import finished",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed))
	return resp, nil
}

func (s *studentService) parseImportRow(ctx context.Context, row []string, seen map[string]bool) (*model.StudentProfile, string) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := get(0)
	usn := strings.ToUpper(get(1))
	dept := strings.ToUpper(get(2))
	section := strings.ToUpper(get(4))
	batch := get(5)

	if name == "" {
		return nil, "name is empty"
	}
	if !usnPattern.MatchString(usn) {
		return nil, fmt.Sprintf("invalid usn %q", usn)
	}
	if seen[usn] {
		return nil, fmt.Sprintf("duplicate usn %s in file", usn)
	}
	if !model.ValidDepartment(dept) {
		return nil, fmt.Sprintf("unknown department %q", dept)
	}
	semester, err := strconv.Atoi(get(3))
	if err != nil || semester < 1 || semester > 8 {
		return nil, fmt.Sprintf("semester %q must be 1 to 8", get(3))
	}
	if !batchPattern.MatchString(batch) {
		return nil, fmt.Sprintf("batch %q must look like 2022-26", batch)
	}

	if _, err := s.repo.Student.GetByUSN(ctx, usn); err == nil {
		return nil, fmt.Sprintf("usn %s already exists", usn)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "lookup failed, row skipped"
	}

	return &model.StudentProfile{
		Name:        name,
		USN:         usn,
		Department:  dept,
		Semester:    semester,
		Section:     section,
		Batch:       batch,
		StudentType: model.StudentTypeLocal,
	}, ""
}

func (s *studentService) Get(ctx context.Context, id string) (*dto.StudentResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	student, err := s.repo.Student.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, storageErr(err)
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) GetByUSN(ctx context.Context, usn string) (*dto.StudentResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	student, err := s.repo.Student.GetByUSN(sctx, strings.ToUpper(strings.TrimSpace(usn)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, storageErr(err)
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

// CompleteProfile records the student's first-login details. The
// student type is fixed here; the hostel stage on later applications
// follows from it.
func (s *studentService) CompleteProfile(ctx context.Context, id string, req *dto.CompleteProfileRequest) (*dto.StudentResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	student, err := s.repo.Student.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, storageErr(err)
	}

	student.StudentType = req.StudentType
	if req.Section != "" {
		student.Section = strings.ToUpper(strings.TrimSpace(req.Section))
	}
	student.Email = strings.TrimSpace(req.Email)
	student.Phone = strings.TrimSpace(req.Phone)
	student.ProfileCompleted = true

	if err := s.repo.Student.Update(sctx, student); err != nil {
		return nil, storageErr(err)
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	students, total, err := s.repo.Student.List(sctx, &repository.StudentListFilters{
		Department: req.Department,
		Batch:      req.Batch,
		Semester:   req.Semester,
		Keyword:    req.Keyword,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, storageErr(err)
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, toStudentResponse(&students[i]))
	}
	return result, total, nil
}

// BumpSemester moves every student of a batch+department to a new
// semester, typically at the start of term.
func (s *studentService) BumpSemester(ctx context.Context, req *dto.BumpSemesterRequest) (*dto.BumpSemesterResponse, error) {
	if !model.ValidDepartment(req.Department) {
		return nil, ErrInvalidDepartment
	}
	if !batchPattern.MatchString(req.Batch) {
		return nil, ErrInvalidBatch
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	updated, err := s.repo.Student.BumpSemester(sctx, req.Batch, req.Department, req.Semester)
	if err != nil {
		return nil, storageErr(err)
	}
	s.logger.Info("semester bumped",
		zap.String("batch", req.Batch),
		zap.String("department", req.Department),
		zap.Int("semester", req.Semester),
		zap.Int64("updated", updated))
	return &dto.BumpSemesterResponse{Updated: updated}, nil
}

func toStudentResponse(s *model.StudentProfile) dto.StudentResponse {
	return dto.StudentResponse{
		ID:               s.ID,
		Name:             s.Name,
		USN:              s.USN,
		Department:       s.Department,
		Semester:         s.Semester,
		Section:          s.Section,
		Batch:            s.Batch,
		StudentType:      s.StudentType,
		Email:            s.Email,
		Phone:            s.Phone,
		ProfileCompleted: s.ProfileCompleted,
	}
}
