package workflow

import "nodex/backend/internal/model"

// Progress computes the clearance percentage for an application:
// round(100 * verified stages / applicable stages), where applicable
// is 8 for local students and 9 for hostel students.
//
// Every view (student dashboard, admin tracker, export) goes through
// this one function so the numbers can never disagree.
func Progress(app *model.Application, studentType string) int {
	stages := ApplicableStages(studentType)
	verified := 0
	for _, st := range stages {
		if stageTrue(app, st) {
			verified++
		}
	}
	// round to nearest integer without pulling in float math
	return (100*verified + len(stages)/2) / len(stages)
}

// AllVerified reports whether every applicable stage flag is true.
func AllVerified(app *model.Application, studentType string) bool {
	for _, st := range ApplicableStages(studentType) {
		if !stageTrue(app, st) {
			return false
		}
	}
	return true
}
