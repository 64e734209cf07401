package dto

// ── application requests ──

// SubjectFacultyPair links one subject to the faculty clearing it.
type SubjectFacultyPair struct {
	SubjectID string `json:"subject_id" binding:"required,uuid"`
	FacultyID string `json:"faculty_id" binding:"required,uuid"`
}

// SubmitApplicationRequest is a student's clearance submission.
type SubmitApplicationRequest struct {
	Department string               `json:"department" binding:"required"`
	Semester   int                  `json:"semester"   binding:"required,min=1,max=8"`
	Batch      string               `json:"batch"      binding:"required"`
	Subjects   []SubjectFacultyPair `json:"subjects"   binding:"required,min=1,dive"`
}

// VerifyRequest is one verifier's decision on an application.
type VerifyRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Comment  string `json:"comment"  binding:"omitempty,max=500"`
}

// SubmitPaymentRequest carries the student's payment reference.
type SubmitPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,min=4,max=100"`
}

// TrackerRequest filters the admin application tracker.
type TrackerRequest struct {
	Batch      string `form:"batch"      binding:"required"`
	Department string `form:"department" binding:"required"`
}

// StageQueueRequest filters a verifier's work queue.
type StageQueueRequest struct {
	PaginationRequest
	Department string `form:"department"`
	Semester   int    `form:"semester" binding:"omitempty,min=1,max=8"`
}

// DeleteAllRequest scopes the bulk administrative delete.
type DeleteAllRequest struct {
	Batch      string `json:"batch"      binding:"required"`
	Department string `json:"department" binding:"required"`
}

// ── application responses ──

// StageView is one stage's state as shown to any role.
type StageView struct {
	Stage    string  `json:"stage"`
	Verified *bool   `json:"verified"`
	Comment  *string `json:"comment,omitempty"`
}

// ApplicationResponse is the full application view.
type ApplicationResponse struct {
	ID              string      `json:"id"`
	StudentID       string      `json:"student_id"`
	StudentName     string      `json:"student_name,omitempty"`
	USN             string      `json:"usn,omitempty"`
	Department      string      `json:"department"`
	Semester        int         `json:"semester"`
	Batch           string      `json:"batch"`
	Status          string      `json:"status"`
	Progress        int         `json:"progress"`
	Stages          []StageView `json:"stages"`
	TransactionID   *string     `json:"transaction_id,omitempty"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

// VerifyResponse is the outcome of one verification action.
type VerifyResponse struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
	Progress      int    `json:"progress"`
	Idempotent    bool   `json:"idempotent,omitempty"`
	// PartialFaculty marks a faculty approval that cleared this
	// faculty's subjects without finishing the faculty stage.
	PartialFaculty bool `json:"partial_faculty,omitempty"`
}

// AssignmentView is one subject-faculty row on an application.
type AssignmentView struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	SubjectID     string `json:"subject_id"`
	SubjectCode   string `json:"subject_code,omitempty"`
	SubjectName   string `json:"subject_name,omitempty"`
	FacultyID     string `json:"faculty_id"`
	FacultyName   string `json:"faculty_name,omitempty"`
	Verified      bool   `json:"verified"`
}

// DeleteResponse reports exactly what a cascade delete removed.
type DeleteResponse struct {
	DeletedApplications       int64 `json:"deleted_applications"`
	DeletedFacultyAssignments int64 `json:"deleted_faculty_assignments"`
	DeletedNotifications      int64 `json:"deleted_notifications"`
}

// TrackerStats summarizes a batch+department slice.
type TrackerStats struct {
	Total      int `json:"total"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Rejected   int `json:"rejected"`
}

// TrackerResponse is the admin tracker view.
type TrackerResponse struct {
	Stats        TrackerStats          `json:"stats"`
	Applications []ApplicationResponse `json:"applications"`
}

// CertificateResponse is the finalized data behind a no-due
// certificate. Rendering happens client-side.
type CertificateResponse struct {
	ApplicationID string      `json:"application_id"`
	StudentName   string      `json:"student_name"`
	USN           string      `json:"usn"`
	Department    string      `json:"department"`
	Semester      int         `json:"semester"`
	Batch         string      `json:"batch"`
	Stages        []StageView `json:"stages"`
	VerifiedOn    string      `json:"verified_on"`
	IssuedAt      string      `json:"issued_at"`
}
