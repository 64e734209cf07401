package workflow

import (
	"strings"

	"nodex/backend/internal/model"
)

// Input is one verifier action against an application snapshot. The
// engine never touches storage: the orchestrator reads the snapshot,
// asks the engine what should happen, and persists the result.
type Input struct {
	App         *model.Application
	StudentType string
	Role        string
	Decision    Decision
	Comment     string

	// Subject-faculty assignment counts, only consulted for the
	// faculty stage: the application-level flag flips when every
	// assignment row is verified. The orchestrator counts the acting
	// faculty's rows as verified before calling Evaluate.
	SubjectsTotal    int
	SubjectsVerified int
}

// Result is the state the application should move to. Flags holds
// only the stage flags that change.
type Result struct {
	Flags    map[Stage]bool
	Comment  string
	Status   string
	Progress int

	// Idempotent marks a re-approval of an already-true stage: nothing
	// changed, and the caller must not emit notifications or audit
	// entries again.
	Idempotent bool

	// FacultyPartial marks a faculty approval that verified assignment
	// rows without completing the application-level faculty stage.
	FacultyPartial bool
}

// Evaluate applies the verification rules to one action. Pure: no
// I/O, no clock, no mutation of the input application.
func Evaluate(in Input) (*Result, error) {
	if in.Decision != DecisionApprove && in.Decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	stages, err := StagesForRole(in.Role)
	if err != nil {
		return nil, err
	}

	if in.App.Status == model.StatusCompleted || in.App.Status == model.StatusRejected {
		return nil, ErrApplicationClosed
	}

	// The hostel stage exists only for hostel students.
	for _, st := range stages {
		if st == StageHostel && in.StudentType != model.StudentTypeHostel {
			return nil, ErrStageNotApplicable
		}
	}

	// Idempotent re-approval: every owned flag already true.
	if in.Decision == DecisionApprove && allTrue(in.App, stages) {
		return &Result{
			Flags:      map[Stage]bool{},
			Status:     in.App.Status,
			Progress:   Progress(in.App, in.StudentType),
			Idempotent: true,
		}, nil
	}

	// Precondition check before any mutation is proposed.
	for _, st := range stages {
		for _, pre := range prerequisites[st] {
			if pre == StageHostel && in.StudentType != model.StudentTypeHostel {
				continue
			}
			if !stageTrue(in.App, pre) {
				return nil, ErrStageOrder
			}
		}
	}
	// The fused payment+lab pair also needs the payment reference.
	if in.Role == model.RoleLabInstructor {
		if in.App.TransactionID == nil || strings.TrimSpace(*in.App.TransactionID) == "" {
			return nil, ErrStageOrder
		}
	}

	comment := strings.TrimSpace(in.Comment)

	if in.Decision == DecisionReject {
		if comment == "" {
			return nil, ErrEmptyComment
		}
		flags := make(map[Stage]bool, len(stages))
		for _, st := range stages {
			flags[st] = false
		}
		next := applied(in.App, flags)
		return &Result{
			Flags:    flags,
			Comment:  comment,
			Status:   model.StatusRejected,
			Progress: Progress(next, in.StudentType),
		}, nil
	}

	// ── approve ──

	// Faculty approvals complete the stage only when all assignment
	// rows are verified; a partial approval changes no app-level flag.
	if in.Role == model.RoleFaculty && in.SubjectsVerified < in.SubjectsTotal {
		return &Result{
			Flags:          map[Stage]bool{},
			Comment:        comment,
			Status:         in.App.Status,
			Progress:       Progress(in.App, in.StudentType),
			FacultyPartial: true,
		}, nil
	}

	flags := make(map[Stage]bool, len(stages))
	for _, st := range stages {
		flags[st] = true
	}

	next := applied(in.App, flags)
	status := in.App.Status
	if AllVerified(next, in.StudentType) {
		status = model.StatusCompleted
	}

	return &Result{
		Flags:    flags,
		Comment:  comment,
		Status:   status,
		Progress: Progress(next, in.StudentType),
	}, nil
}

func allTrue(app *model.Application, stages []Stage) bool {
	for _, st := range stages {
		if !stageTrue(app, st) {
			return false
		}
	}
	return true
}

// applied returns a copy of the application with the flag updates set.
func applied(app *model.Application, flags map[Stage]bool) *model.Application {
	next := *app
	for st, v := range flags {
		val := v
		switch st {
		case StageLibrary:
			next.LibraryVerified = &val
		case StageHostel:
			next.HostelVerified = &val
		case StageCollegeOffice:
			next.CollegeOfficeVerified = &val
		case StageFaculty:
			next.FacultyVerified = &val
		case StageCounsellor:
			next.CounsellorVerified = &val
		case StageClassAdvisor:
			next.ClassAdvisorVerified = &val
		case StageHOD:
			next.HODVerified = &val
		case StagePayment:
			next.PaymentVerified = &val
		case StageLab:
			next.LabVerified = &val
		}
	}
	return &next
}
