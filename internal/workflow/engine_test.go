package workflow

import (
	"errors"
	"testing"

	"nodex/backend/internal/model"
)

// ── test helpers ──

func boolPtr(v bool) *bool       { return &v }
func strPtr(s string) *string    { return &s }
func newApp() *model.Application { return &model.Application{ID: "app-1", Status: model.StatusPending} }

func approve(t *testing.T, app *model.Application, studentType, role string) *Result {
	t.Helper()
	res, err := Evaluate(Input{
		App: app, StudentType: studentType, Role: role,
		Decision: DecisionApprove,
		// default counts make faculty approvals complete
		SubjectsTotal: 1, SubjectsVerified: 1,
	})
	if err != nil {
		t.Fatalf("approve as %s should succeed: %v", role, err)
	}
	applyResult(app, res)
	return res
}

// applyResult mimics the orchestrator's persistence step.
func applyResult(app *model.Application, res *Result) {
	for st, v := range res.Flags {
		val := v
		switch st {
		case StageLibrary:
			app.LibraryVerified = &val
		case StageHostel:
			app.HostelVerified = &val
		case StageCollegeOffice:
			app.CollegeOfficeVerified = &val
		case StageFaculty:
			app.FacultyVerified = &val
		case StageCounsellor:
			app.CounsellorVerified = &val
		case StageClassAdvisor:
			app.ClassAdvisorVerified = &val
		case StageHOD:
			app.HODVerified = &val
		case StagePayment:
			app.PaymentVerified = &val
		case StageLab:
			app.LabVerified = &val
		}
	}
	app.Status = res.Status
}

// ── role gating ──

func TestEvaluate_UnknownRole(t *testing.T) {
	_, err := Evaluate(Input{App: newApp(), StudentType: model.StudentTypeLocal, Role: "registrar", Decision: DecisionApprove})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestEvaluate_AdminOwnsNoStage(t *testing.T) {
	_, err := Evaluate(Input{App: newApp(), StudentType: model.StudentTypeLocal, Role: model.RoleAdmin, Decision: DecisionApprove})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole for admin, got %v", err)
	}
}

func TestEvaluate_BadDecision(t *testing.T) {
	_, err := Evaluate(Input{App: newApp(), StudentType: model.StudentTypeLocal, Role: model.RoleLibrary, Decision: "maybe"})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestEvaluate_HostelStageOnLocalStudent(t *testing.T) {
	_, err := Evaluate(Input{App: newApp(), StudentType: model.StudentTypeLocal, Role: model.RoleHostel, Decision: DecisionApprove})
	if !errors.Is(err, ErrStageNotApplicable) {
		t.Errorf("expected ErrStageNotApplicable, got %v", err)
	}
}

// ── preconditions ──

func TestEvaluate_FacultyBeforeCollegeOffice(t *testing.T) {
	app := newApp()
	_, err := Evaluate(Input{
		App: app, StudentType: model.StudentTypeLocal, Role: model.RoleFaculty,
		Decision: DecisionApprove, SubjectsTotal: 1, SubjectsVerified: 1,
	})
	if !errors.Is(err, ErrStageOrder) {
		t.Errorf("expected ErrStageOrder, got %v", err)
	}
	if app.FacultyVerified != nil {
		t.Error("failed evaluation must not touch flags")
	}
}

func TestEvaluate_HODNeedsAllThree(t *testing.T) {
	app := newApp()
	app.CollegeOfficeVerified = boolPtr(true)
	app.FacultyVerified = boolPtr(true)
	app.CounsellorVerified = boolPtr(true)
	// class advisor still unset

	_, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleHOD, Decision: DecisionApprove})
	if !errors.Is(err, ErrStageOrder) {
		t.Errorf("expected ErrStageOrder, got %v", err)
	}

	app.ClassAdvisorVerified = boolPtr(true)
	if _, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleHOD, Decision: DecisionApprove}); err != nil {
		t.Errorf("hod should be eligible once faculty+counsellor+class_advisor are verified: %v", err)
	}
}

func TestEvaluate_LabNeedsHODAndTransaction(t *testing.T) {
	app := newApp()
	app.LibraryVerified = boolPtr(true)
	app.CollegeOfficeVerified = boolPtr(true)
	app.FacultyVerified = boolPtr(true)
	app.CounsellorVerified = boolPtr(true)
	app.ClassAdvisorVerified = boolPtr(true)

	// hod not verified yet
	_, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleLabInstructor, Decision: DecisionApprove})
	if !errors.Is(err, ErrStageOrder) {
		t.Errorf("expected ErrStageOrder without hod, got %v", err)
	}

	// hod verified but no transaction id
	app.HODVerified = boolPtr(true)
	_, err = Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleLabInstructor, Decision: DecisionApprove})
	if !errors.Is(err, ErrStageOrder) {
		t.Errorf("expected ErrStageOrder without transaction id, got %v", err)
	}

	app.TransactionID = strPtr("TXN-001")
	app.Status = model.StatusPaymentPending
	if _, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleLabInstructor, Decision: DecisionApprove}); err != nil {
		t.Errorf("lab instructor should be eligible: %v", err)
	}
}

// ── fused payment+lab stage ──

func TestEvaluate_LabApprovalSetsBothFlags(t *testing.T) {
	app := newApp()
	app.LibraryVerified = boolPtr(true)
	app.CollegeOfficeVerified = boolPtr(true)
	app.FacultyVerified = boolPtr(true)
	app.CounsellorVerified = boolPtr(true)
	app.ClassAdvisorVerified = boolPtr(true)
	app.HODVerified = boolPtr(true)
	app.TransactionID = strPtr("TXN-001")
	app.Status = model.StatusPaymentPending

	res, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleLabInstructor, Decision: DecisionApprove})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v, ok := res.Flags[StagePayment]; !ok || !v {
		t.Error("payment flag must be set true")
	}
	if v, ok := res.Flags[StageLab]; !ok || !v {
		t.Error("lab flag must be set true")
	}
	if res.Status != model.StatusCompleted {
		t.Errorf("expected completed, got %s", res.Status)
	}
	if res.Progress != 100 {
		t.Errorf("expected 100%%, got %d", res.Progress)
	}
}

func TestEvaluate_LabRejectionClearsBothFlags(t *testing.T) {
	app := newApp()
	app.LibraryVerified = boolPtr(true)
	app.CollegeOfficeVerified = boolPtr(true)
	app.FacultyVerified = boolPtr(true)
	app.CounsellorVerified = boolPtr(true)
	app.ClassAdvisorVerified = boolPtr(true)
	app.HODVerified = boolPtr(true)
	app.TransactionID = strPtr("TXN-001")
	app.Status = model.StatusPaymentPending

	res, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleLabInstructor, Decision: DecisionReject, Comment: "invalid transaction id"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v, ok := res.Flags[StagePayment]; !ok || v {
		t.Error("payment flag must be set false")
	}
	if v, ok := res.Flags[StageLab]; !ok || v {
		t.Error("lab flag must be set false")
	}
	if res.Status != model.StatusRejected {
		t.Errorf("expected rejected, got %s", res.Status)
	}
}

// ── rejection ──

func TestEvaluate_RejectWithoutComment(t *testing.T) {
	for _, comment := range []string{"", "   ", "\t\n"} {
		_, err := Evaluate(Input{App: newApp(), StudentType: model.StudentTypeLocal, Role: model.RoleLibrary, Decision: DecisionReject, Comment: comment})
		if !errors.Is(err, ErrEmptyComment) {
			t.Errorf("comment %q: expected ErrEmptyComment, got %v", comment, err)
		}
	}
}

func TestEvaluate_RejectSetsFlagFalseAndStatusRejected(t *testing.T) {
	app := newApp()
	res, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleCollegeOffice, Decision: DecisionReject, Comment: "missing dues"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v, ok := res.Flags[StageCollegeOffice]; !ok || v {
		t.Error("college office flag must be set false")
	}
	if res.Status != model.StatusRejected {
		t.Errorf("expected rejected, got %s", res.Status)
	}
	if res.Comment != "missing dues" {
		t.Errorf("expected trimmed comment, got %q", res.Comment)
	}

	applyResult(app, res)

	// downstream stages remain untouched
	for _, flag := range []*bool{app.FacultyVerified, app.CounsellorVerified, app.ClassAdvisorVerified, app.HODVerified, app.PaymentVerified, app.LabVerified} {
		if flag != nil {
			t.Error("downstream flags must remain unset after rejection")
		}
	}

	// rejected is absorbing
	_, err = Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleLibrary, Decision: DecisionApprove})
	if !errors.Is(err, ErrApplicationClosed) {
		t.Errorf("expected ErrApplicationClosed on rejected application, got %v", err)
	}
}

// ── idempotence ──

func TestEvaluate_ReapprovalIsIdempotent(t *testing.T) {
	app := newApp()
	app.LibraryVerified = boolPtr(true)

	res, err := Evaluate(Input{App: app, StudentType: model.StudentTypeLocal, Role: model.RoleLibrary, Decision: DecisionApprove})
	if err != nil {
		t.Fatalf("re-approval should not error: %v", err)
	}
	if !res.Idempotent {
		t.Error("re-approval must be flagged idempotent")
	}
	if len(res.Flags) != 0 {
		t.Error("idempotent result must carry no flag updates")
	}
	if res.Status != model.StatusPending {
		t.Errorf("status must be unchanged, got %s", res.Status)
	}
}

// ── faculty assignment completeness ──

func TestEvaluate_FacultyPartialApproval(t *testing.T) {
	app := newApp()
	app.CollegeOfficeVerified = boolPtr(true)

	res, err := Evaluate(Input{
		App: app, StudentType: model.StudentTypeLocal, Role: model.RoleFaculty,
		Decision: DecisionApprove, SubjectsTotal: 3, SubjectsVerified: 2,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !res.FacultyPartial {
		t.Error("expected a partial faculty result")
	}
	if len(res.Flags) != 0 {
		t.Error("partial faculty approval must not flip the application flag")
	}

	res, err = Evaluate(Input{
		App: app, StudentType: model.StudentTypeLocal, Role: model.RoleFaculty,
		Decision: DecisionApprove, SubjectsTotal: 3, SubjectsVerified: 3,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.FacultyPartial {
		t.Error("complete assignment set must finish the faculty stage")
	}
	if v, ok := res.Flags[StageFaculty]; !ok || !v {
		t.Error("faculty flag must be set true")
	}
}

// ── full pipeline scenarios ──

func TestScenario_LocalStudentFullPipeline(t *testing.T) {
	app := newApp()

	approve(t, app, model.StudentTypeLocal, model.RoleLibrary)
	approve(t, app, model.StudentTypeLocal, model.RoleCollegeOffice)
	approve(t, app, model.StudentTypeLocal, model.RoleFaculty)
	approve(t, app, model.StudentTypeLocal, model.RoleCounsellor)
	approve(t, app, model.StudentTypeLocal, model.RoleClassAdvisor)
	approve(t, app, model.StudentTypeLocal, model.RoleHOD)

	// student submits payment details
	app.TransactionID = strPtr("TXN-777")
	app.Status = model.StatusPaymentPending

	res := approve(t, app, model.StudentTypeLocal, model.RoleLabInstructor)

	if app.Status != model.StatusCompleted {
		t.Errorf("expected completed, got %s", app.Status)
	}
	if res.Progress != 100 {
		t.Errorf("expected 100%%, got %d", res.Progress)
	}
}

func TestScenario_HostelStudentMissingHostelStage(t *testing.T) {
	app := newApp()

	approve(t, app, model.StudentTypeHostel, model.RoleLibrary)
	approve(t, app, model.StudentTypeHostel, model.RoleCollegeOffice)
	approve(t, app, model.StudentTypeHostel, model.RoleFaculty)
	approve(t, app, model.StudentTypeHostel, model.RoleCounsellor)
	approve(t, app, model.StudentTypeHostel, model.RoleClassAdvisor)
	approve(t, app, model.StudentTypeHostel, model.RoleHOD)

	app.TransactionID = strPtr("TXN-778")
	app.Status = model.StatusPaymentPending

	res := approve(t, app, model.StudentTypeHostel, model.RoleLabInstructor)

	if app.Status == model.StatusCompleted {
		t.Error("application must not complete with the hostel stage unverified")
	}
	if res.Progress != 89 {
		t.Errorf("expected round(800/9)=89, got %d", res.Progress)
	}

	// hostel signs off last; only now does the application complete
	hres := approve(t, app, model.StudentTypeHostel, model.RoleHostel)
	if app.Status != model.StatusCompleted {
		t.Errorf("expected completed after hostel verification, got %s", app.Status)
	}
	if hres.Progress != 100 {
		t.Errorf("expected 100%%, got %d", hres.Progress)
	}
}
