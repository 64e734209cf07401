package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/model"
)

func setupTestSubjectService() (SubjectService, *mockStore) {
	store := newMockStore()
	svc := NewSubjectService(store.repo(), time.Second, zap.NewNop())
	return svc, store
}

func TestCreateSubject(t *testing.T) {
	svc, _ := setupTestSubjectService()

	resp, err := svc.Create(context.Background(), &dto.CreateSubjectRequest{
		Code: "cs62", Name: "Compiler Design", Semester: 6, Department: "CSE",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resp.Code != "CS62" {
		t.Errorf("code = %q, want uppercase", resp.Code)
	}

	_, err = svc.Create(context.Background(), &dto.CreateSubjectRequest{
		Code: "CS62", Name: "Duplicate", Semester: 6, Department: "CSE",
	})
	if !errors.Is(err, ErrDuplicateSubject) {
		t.Errorf("err = %v, want ErrDuplicateSubject", err)
	}
}

func TestListSubjectsFiltered(t *testing.T) {
	svc, store := setupTestSubjectService()
	store.subjects.subjects["s1"] = &model.Subject{ID: "s1", Code: "CS61", Name: "A", Semester: 6, Department: "CSE"}
	store.subjects.subjects["s2"] = &model.Subject{ID: "s2", Code: "CS41", Name: "B", Semester: 4, Department: "CSE"}
	store.subjects.subjects["s3"] = &model.Subject{ID: "s3", Code: "ME61", Name: "C", Semester: 6, Department: "MECH"}

	result, err := svc.List(context.Background(), &dto.SubjectListRequest{Department: "CSE", Semester: 6})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(result) != 1 || result[0].Code != "CS61" {
		t.Errorf("result = %+v, want only CS61", result)
	}
}

func TestUpdateSubjectPartial(t *testing.T) {
	svc, store := setupTestSubjectService()
	store.subjects.subjects["s1"] = &model.Subject{ID: "s1", Code: "CS61", Name: "Old", Semester: 6, Department: "CSE"}

	name := "New Name"
	elective := true
	resp, err := svc.Update(context.Background(), "s1", &dto.UpdateSubjectRequest{Name: &name, IsElective: &elective})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.Name != "New Name" || !resp.IsElective || resp.Semester != 6 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDeleteSubjectNotFound(t *testing.T) {
	svc, _ := setupTestSubjectService()
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("err = %v, want ErrSubjectNotFound", err)
	}
}
