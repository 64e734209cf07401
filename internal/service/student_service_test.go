package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/model"
)

func setupTestStudentService() (StudentService, *mockStore) {
	store := newMockStore()
	svc := NewStudentService(store.repo(), time.Second, zap.NewNop())
	return svc, store
}

func TestCreateStudentValidation(t *testing.T) {
	svc, _ := setupTestStudentService()

	cases := []struct {
		name string
		req  dto.CreateStudentRequest
		want error
	}{
		{"bad usn", dto.CreateStudentRequest{Name: "A", USN: "NOT-A-USN", Department: "CSE", Semester: 4, Batch: "2022-26"}, ErrInvalidUSN},
		{"bad department", dto.CreateStudentRequest{Name: "A", USN: "4AL22CS001", Department: "NOPE", Semester: 4, Batch: "2022-26"}, ErrInvalidDepartment},
		{"bad batch", dto.CreateStudentRequest{Name: "A", USN: "4AL22CS001", Department: "CSE", Semester: 4, Batch: "22-26"}, ErrInvalidBatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), &tc.req); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateStudentNormalizesUSN(t *testing.T) {
	svc, store := setupTestStudentService()

	resp, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name: "Anita Rao", USN: " 4al22cs001 ", Department: "CSE", Semester: 4, Batch: "2022-26",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resp.USN != "4AL22CS001" {
		t.Errorf("usn = %q, want uppercase trimmed", resp.USN)
	}
	if resp.StudentType != model.StudentTypeLocal {
		t.Errorf("student type = %q, want local default", resp.StudentType)
	}

	_, err = svc.Create(context.Background(), &dto.CreateStudentRequest{
		Name: "Other", USN: "4AL22CS001", Department: "CSE", Semester: 4, Batch: "2022-26",
	})
	if !errors.Is(err, ErrDuplicateUSN) {
		t.Errorf("err = %v, want ErrDuplicateUSN", err)
	}
	if len(store.students.students) != 1 {
		t.Errorf("students = %d, want 1", len(store.students.students))
	}
}

func importSheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{"name", "usn", "department", "semester", "section", "batch"}
	for col, v := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	for r, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestImportStudents(t *testing.T) {
	svc, store := setupTestStudentService()

	buf := importSheet(t, [][]any{
		{"Anita Rao", "4AL22CS001", "CSE", 4, "A", "2022-26"},
		{"Vikram Shet", "4AL22CS002", "cse", 4, "B", "2022-26"},
		{"Bad Row", "BROKEN", "CSE", 4, "A", "2022-26"},
		{"Dup Row", "4AL22CS001", "CSE", 4, "A", "2022-26"},
	})

	resp, err := svc.Import(context.Background(), buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if resp.Total != 4 || resp.Success != 2 || resp.Failed != 2 {
		t.Errorf("total=%d success=%d failed=%d, want 4/2/2", resp.Total, resp.Success, resp.Failed)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(resp.Errors))
	}
	if resp.Errors[0].Row != 4 {
		t.Errorf("first error row = %d, want 4", resp.Errors[0].Row)
	}
	if len(store.students.students) != 2 {
		t.Errorf("stored students = %d, want 2", len(store.students.students))
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	svc, _ := setupTestStudentService()
	if _, err := svc.Import(context.Background(), bytes.NewBufferString("not a spreadsheet")); !errors.Is(err, ErrBadImportFile) {
		t.Errorf("err = %v, want ErrBadImportFile", err)
	}
}

func TestCompleteProfile(t *testing.T) {
	svc, store := setupTestStudentService()
	store.students.students["student-1"] = &model.StudentProfile{
		ID: "student-1", Name: "Anita Rao", USN: "4AL22CS001",
		Department: "CSE", Semester: 4, Batch: "2022-26",
		StudentType: model.StudentTypeLocal,
	}

	resp, err := svc.CompleteProfile(context.Background(), "student-1", &dto.CompleteProfileRequest{
		StudentType: model.StudentTypeHostel,
		Section:     "b",
		Email:       "anita@example.com",
		Phone:       "9876543210",
	})
	if err != nil {
		t.Fatalf("CompleteProfile failed: %v", err)
	}
	if !resp.ProfileCompleted {
		t.Error("profile not marked completed")
	}
	if resp.StudentType != model.StudentTypeHostel {
		t.Errorf("student type = %q, want hostel", resp.StudentType)
	}
	if resp.Section != "B" {
		t.Errorf("section = %q, want B", resp.Section)
	}
}

func TestBumpSemester(t *testing.T) {
	svc, store := setupTestStudentService()
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("student-%d", i)
		store.students.students[id] = &model.StudentProfile{
			ID: id, Name: "S", USN: fmt.Sprintf("4AL22CS%03d", i),
			Department: "CSE", Semester: 4, Batch: "2022-26",
		}
	}
	store.students.students["other"] = &model.StudentProfile{
		ID: "other", Name: "S", USN: "4AL22ME001",
		Department: "MECH", Semester: 4, Batch: "2022-26",
	}

	resp, err := svc.BumpSemester(context.Background(), &dto.BumpSemesterRequest{
		Batch: "2022-26", Department: "CSE", Semester: 5,
	})
	if err != nil {
		t.Fatalf("BumpSemester failed: %v", err)
	}
	if resp.Updated != 3 {
		t.Errorf("updated = %d, want 3", resp.Updated)
	}
	if store.students.students["other"].Semester != 4 {
		t.Error("student outside the scope was bumped")
	}
}
