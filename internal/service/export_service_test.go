package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"nodex/backend/internal/model"
)

func setupTestExportService() (ExportService, *mockStore) {
	store := newMockStore()
	svc := NewExportService(store.repo(), time.Second, zap.NewNop())
	return svc, store
}

func TestTrackerWorkbook(t *testing.T) {
	svc, store := setupTestExportService()
	seedStudent(store, "student-1", model.StudentTypeLocal)
	verified := true
	store.apps.apps["app-1"] = &model.Application{
		ID: "app-1", StudentID: "student-1", Department: "CSE",
		Semester: 6, Batch: "2022-26", Status: model.StatusPending,
		LibraryVerified: &verified,
		VersionedModel:  model.VersionedModel{Version: 1},
	}

	f, name, err := svc.TrackerWorkbook(context.Background(), "2022-26", "CSE")
	if err != nil {
		t.Fatalf("TrackerWorkbook failed: %v", err)
	}
	defer f.Close()

	if name != "no-due-tracker-CSE-2022-26.xlsx" {
		t.Errorf("filename = %q", name)
	}

	sheet := f.GetSheetName(0)
	usn, err := f.GetCellValue(sheet, "A2")
	if err != nil || usn != "4AL22CS001" {
		t.Errorf("A2 = %q (%v), want the student usn", usn, err)
	}
	library, _ := f.GetCellValue(sheet, "F2")
	if library != "Verified" {
		t.Errorf("library cell = %q, want Verified", library)
	}
	hostel, _ := f.GetCellValue(sheet, "G2")
	if hostel != "N/A" {
		t.Errorf("hostel cell = %q, want N/A for a local student", hostel)
	}
}

func TestTrackerWorkbookValidatesScope(t *testing.T) {
	svc, _ := setupTestExportService()
	if _, _, err := svc.TrackerWorkbook(context.Background(), "2022-26", "NOPE"); !errors.Is(err, ErrInvalidDepartment) {
		t.Errorf("err = %v, want ErrInvalidDepartment", err)
	}
	if _, _, err := svc.TrackerWorkbook(context.Background(), "nope", "CSE"); !errors.Is(err, ErrInvalidBatch) {
		t.Errorf("err = %v, want ErrInvalidBatch", err)
	}
}
