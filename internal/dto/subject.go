package dto

// CreateSubjectRequest adds one subject to the catalog.
type CreateSubjectRequest struct {
	Code       string `json:"code"        binding:"required,min=3,max=20"`
	Name       string `json:"name"        binding:"required,min=3,max=200"`
	Semester   int    `json:"semester"    binding:"required,min=1,max=8"`
	Department string `json:"department"  binding:"required"`
	IsElective bool   `json:"is_elective"`
}

// UpdateSubjectRequest edits a subject. Only non-nil fields apply.
type UpdateSubjectRequest struct {
	Name       *string `json:"name"        binding:"omitempty,min=3,max=200"`
	Semester   *int    `json:"semester"    binding:"omitempty,min=1,max=8"`
	IsElective *bool   `json:"is_elective"`
}

// SubjectListRequest filters the subject catalog.
type SubjectListRequest struct {
	Department string `form:"department"`
	Semester   int    `form:"semester" binding:"omitempty,min=1,max=8"`
}

// SubjectResponse is the subject view.
type SubjectResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Semester   int    `json:"semester"`
	Department string `json:"department"`
	IsElective bool   `json:"is_elective"`
}
