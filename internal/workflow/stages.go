package workflow

import (
	"errors"

	"nodex/backend/internal/model"
)

// Stage is one verifier checkpoint on an application.
type Stage string

const (
	StageLibrary       Stage = "library"
	StageHostel        Stage = "hostel"
	StageCollegeOffice Stage = "college_office"
	StageFaculty       Stage = "faculty"
	StageCounsellor    Stage = "counsellor"
	StageClassAdvisor  Stage = "class_advisor"
	StageHOD           Stage = "hod"
	StagePayment       Stage = "payment"
	StageLab           Stage = "lab"
)

// Decision is a verifier's verdict on a stage.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

var (
	ErrInvalidRole        = errors.New("role does not own any verification stage")
	ErrInvalidDecision    = errors.New("decision must be approve or reject")
	ErrStageNotApplicable = errors.New("stage does not apply to this student")
	ErrStageOrder         = errors.New("prerequisite stages are not yet verified")
	ErrEmptyComment       = errors.New("rejection requires a comment")
	ErrApplicationClosed  = errors.New("application is already completed or rejected")
)

// roleStages maps each verifier role to the stage flags it may set.
// Explicit table, no string matching on role names. The lab instructor
// owns the fused payment+lab pair: one approval sets both.
var roleStages = map[string][]Stage{
	model.RoleLibrary:       {StageLibrary},
	model.RoleHostel:        {StageHostel},
	model.RoleCollegeOffice: {StageCollegeOffice},
	model.RoleFaculty:       {StageFaculty},
	model.RoleCounsellor:    {StageCounsellor},
	model.RoleClassAdvisor:  {StageClassAdvisor},
	model.RoleHOD:           {StageHOD},
	model.RoleLabInstructor: {StagePayment, StageLab},
}

// prerequisites lists the stages that must be true before a stage may
// be acted on. Library, hostel and college office form the ungated
// first tier. The lab pair additionally requires a transaction id,
// checked in Evaluate since it is not itself a stage.
var prerequisites = map[Stage][]Stage{
	StageFaculty:      {StageCollegeOffice},
	StageCounsellor:   {StageCollegeOffice},
	StageClassAdvisor: {StageCollegeOffice},
	StageHOD:          {StageFaculty, StageCounsellor, StageClassAdvisor},
	StagePayment:      {StageHOD},
	StageLab:          {StageHOD},
}

// StagesForRole returns the stages the role owns, or ErrInvalidRole.
func StagesForRole(role string) ([]Stage, error) {
	stages, ok := roleStages[role]
	if !ok {
		return nil, ErrInvalidRole
	}
	return stages, nil
}

// allStages in pipeline order, hostel included.
var allStages = []Stage{
	StageLibrary,
	StageHostel,
	StageCollegeOffice,
	StageFaculty,
	StageCounsellor,
	StageClassAdvisor,
	StageHOD,
	StagePayment,
	StageLab,
}

// ApplicableStages returns the stages that count for the given student
// type: the hostel stage exists only for hostel students.
func ApplicableStages(studentType string) []Stage {
	if studentType == model.StudentTypeHostel {
		return allStages
	}
	stages := make([]Stage, 0, len(allStages)-1)
	for _, st := range allStages {
		if st != StageHostel {
			stages = append(stages, st)
		}
	}
	return stages
}

// StageFlag reads the tri-state flag for a stage off the application.
func StageFlag(app *model.Application, stage Stage) *bool {
	switch stage {
	case StageLibrary:
		return app.LibraryVerified
	case StageHostel:
		return app.HostelVerified
	case StageCollegeOffice:
		return app.CollegeOfficeVerified
	case StageFaculty:
		return app.FacultyVerified
	case StageCounsellor:
		return app.CounsellorVerified
	case StageClassAdvisor:
		return app.ClassAdvisorVerified
	case StageHOD:
		return app.HODVerified
	case StagePayment:
		return app.PaymentVerified
	case StageLab:
		return app.LabVerified
	}
	return nil
}

func stageTrue(app *model.Application, stage Stage) bool {
	v := StageFlag(app, stage)
	return v != nil && *v
}
