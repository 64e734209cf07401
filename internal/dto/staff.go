package dto

// CreateStaffRequest adds one staff member with a functional role.
type CreateStaffRequest struct {
	Name           string `json:"name"            binding:"required,min=2,max=100"`
	EmployeeID     string `json:"employee_id"     binding:"required,min=2,max=30"`
	Role           string `json:"role"            binding:"required"`
	Designation    string `json:"designation"     binding:"omitempty,max=100"`
	Department     string `json:"department"      binding:"omitempty"`
	Email          string `json:"email"           binding:"omitempty,email"`
	Phone          string `json:"phone"           binding:"omitempty,len=10"`
	OfficeLocation string `json:"office_location" binding:"omitempty,max=200"`
}

// UpdateStaffRequest edits a staff profile. Only non-nil fields apply.
type UpdateStaffRequest struct {
	Name           *string `json:"name"            binding:"omitempty,min=2,max=100"`
	Designation    *string `json:"designation"     binding:"omitempty,max=100"`
	Department     *string `json:"department"`
	Email          *string `json:"email"           binding:"omitempty,email"`
	Phone          *string `json:"phone"           binding:"omitempty,len=10"`
	OfficeLocation *string `json:"office_location" binding:"omitempty,max=200"`
	IsActive       *bool   `json:"is_active"`
}

// StaffListRequest filters staff listings.
type StaffListRequest struct {
	PaginationRequest
	Department string `form:"department"`
}

// StaffResponse is the staff profile view.
type StaffResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	EmployeeID     string   `json:"employee_id"`
	Designation    string   `json:"designation,omitempty"`
	Department     string   `json:"department,omitempty"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	OfficeLocation string   `json:"office_location,omitempty"`
	IsActive       bool     `json:"is_active"`
	Roles          []string `json:"roles,omitempty"`
}
