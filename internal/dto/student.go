package dto

// CreateStudentRequest adds one student (admin).
type CreateStudentRequest struct {
	Name       string `json:"name"       binding:"required,min=2,max=100"`
	USN        string `json:"usn"        binding:"required"`
	Department string `json:"department" binding:"required"`
	Semester   int    `json:"semester"   binding:"required,min=1,max=8"`
	Section    string `json:"section"    binding:"omitempty,max=5"`
	Batch      string `json:"batch"      binding:"required"`
}

// CompleteProfileRequest is the student's first-login completion.
type CompleteProfileRequest struct {
	StudentType string `json:"student_type" binding:"required,oneof=local hostel"`
	Section     string `json:"section"      binding:"omitempty,max=5"`
	Email       string `json:"email"        binding:"omitempty,email"`
	Phone       string `json:"phone"        binding:"omitempty,len=10"`
}

// StudentListRequest filters student listings.
type StudentListRequest struct {
	PaginationRequest
	Department string `form:"department"`
	Batch      string `form:"batch"`
	Semester   int    `form:"semester" binding:"omitempty,min=1,max=8"`
	Keyword    string `form:"keyword"`
}

// BumpSemesterRequest moves a whole batch to a new semester.
type BumpSemesterRequest struct {
	Batch      string `json:"batch"      binding:"required"`
	Department string `json:"department" binding:"required"`
	Semester   int    `json:"semester"   binding:"required,min=1,max=8"`
}

// StudentResponse is the student profile view.
type StudentResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	USN              string `json:"usn"`
	Department       string `json:"department"`
	Semester         int    `json:"semester"`
	Section          string `json:"section,omitempty"`
	Batch            string `json:"batch"`
	StudentType      string `json:"student_type"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	ProfileCompleted bool   `json:"profile_completed"`
}

// ImportStudentError is one failed row of a bulk import.
type ImportStudentError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportStudentResponse summarizes a bulk import.
type ImportStudentResponse struct {
	Total   int                  `json:"total"`
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []ImportStudentError `json:"errors,omitempty"`
}

// BumpSemesterResponse reports how many profiles moved.
type BumpSemesterResponse struct {
	Updated int64 `json:"updated"`
}
