package model

import "time"

// Functional roles a staff member can hold. Student is listed for
// token claims; it never appears in user_roles.
const (
	RoleAdmin         = "admin"
	RoleLibrary       = "library"
	RoleHostel        = "hostel"
	RoleCollegeOffice = "college_office"
	RoleFaculty       = "faculty"
	RoleCounsellor    = "counsellor"
	RoleClassAdvisor  = "class_advisor"
	RoleHOD           = "hod"
	RoleLabInstructor = "lab_instructor"
	RoleStudent       = "student"
)

// StaffRoles are the roles assignable to a staff profile.
var StaffRoles = []string{
	RoleAdmin, RoleLibrary, RoleHostel, RoleCollegeOffice, RoleFaculty,
	RoleCounsellor, RoleClassAdvisor, RoleHOD, RoleLabInstructor,
}

// ValidStaffRole reports whether role is assignable to staff.
func ValidStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

// StaffProfile maps to the staff_profiles table.
type StaffProfile struct {
	ID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeID     string `gorm:"type:varchar(30);not null;uniqueIndex"          json:"employee_id"`
	Designation    string `gorm:"type:varchar(100)"                              json:"designation,omitempty"`
	Department     string `gorm:"type:varchar(10)"                               json:"department,omitempty"`
	Email          string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone          string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	OfficeLocation string `gorm:"type:varchar(200)"                              json:"office_location,omitempty"`
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (StaffProfile) TableName() string { return "staff_profiles" }

// RoleAssignment maps to the user_roles table. One staff profile holds
// one functional role in practice; the model allows several.
type RoleAssignment struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Role      string    `gorm:"type:varchar(20);not null"                      json:"role"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (RoleAssignment) TableName() string { return "user_roles" }
