package workflow

import (
	"testing"

	"nodex/backend/internal/model"
)

func TestProgress_EmptyApplication(t *testing.T) {
	app := &model.Application{Status: model.StatusPending}
	if got := Progress(app, model.StudentTypeLocal); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := Progress(app, model.StudentTypeHostel); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestProgress_CountsOnlyApplicableStages(t *testing.T) {
	v := true
	app := &model.Application{
		Status:          model.StatusPending,
		LibraryVerified: &v,
		HostelVerified:  &v,
	}

	// local: hostel flag is ignored, 1 of 8 → 13 (12.5 rounds up)
	if got := Progress(app, model.StudentTypeLocal); got != 13 {
		t.Errorf("local: expected 13, got %d", got)
	}
	// hostel: 2 of 9 → 22
	if got := Progress(app, model.StudentTypeHostel); got != 22 {
		t.Errorf("hostel: expected 22, got %d", got)
	}
}

func TestProgress_RejectedFlagDoesNotCount(t *testing.T) {
	v, f := true, false
	app := &model.Application{
		Status:                model.StatusRejected,
		LibraryVerified:       &v,
		CollegeOfficeVerified: &f,
	}
	if got := Progress(app, model.StudentTypeLocal); got != 13 {
		t.Errorf("expected 13 (only library counts), got %d", got)
	}
}

func TestProgress_TableDriven(t *testing.T) {
	tests := []struct {
		name        string
		studentType string
		verified    int
		want        int
	}{
		{"local none", model.StudentTypeLocal, 0, 0},
		{"local half", model.StudentTypeLocal, 4, 50},
		{"local all", model.StudentTypeLocal, 8, 100},
		{"hostel eight of nine", model.StudentTypeHostel, 8, 89},
		{"hostel all", model.StudentTypeHostel, 9, 100},
		{"hostel three", model.StudentTypeHostel, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &model.Application{Status: model.StatusPending}
			stages := ApplicableStages(tt.studentType)
			v := true
			for i := 0; i < tt.verified; i++ {
				switch stages[i] {
				case StageLibrary:
					app.LibraryVerified = &v
				case StageHostel:
					app.HostelVerified = &v
				case StageCollegeOffice:
					app.CollegeOfficeVerified = &v
				case StageFaculty:
					app.FacultyVerified = &v
				case StageCounsellor:
					app.CounsellorVerified = &v
				case StageClassAdvisor:
					app.ClassAdvisorVerified = &v
				case StageHOD:
					app.HODVerified = &v
				case StagePayment:
					app.PaymentVerified = &v
				case StageLab:
					app.LabVerified = &v
				}
			}
			if got := Progress(app, tt.studentType); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestApplicableStages(t *testing.T) {
	if got := len(ApplicableStages(model.StudentTypeLocal)); got != 8 {
		t.Errorf("local students have 8 stages, got %d", got)
	}
	if got := len(ApplicableStages(model.StudentTypeHostel)); got != 9 {
		t.Errorf("hostel students have 9 stages, got %d", got)
	}
	for _, st := range ApplicableStages(model.StudentTypeLocal) {
		if st == StageHostel {
			t.Error("hostel stage must not apply to local students")
		}
	}
}
