package model

// Student type values.
const (
	StudentTypeLocal  = "local"
	StudentTypeHostel = "hostel"
)

// StudentProfile maps to the profiles table. Created by the admin
// bulk import, completed by the student on first login.
type StudentProfile struct {
	ID               string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name             string `gorm:"type:varchar(100);not null"                     json:"name"`
	USN              string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"usn"`
	Department       string `gorm:"type:varchar(10);not null"                      json:"department"`
	Semester         int    `gorm:"not null"                                       json:"semester"`
	Section          string `gorm:"type:varchar(5)"                                json:"section,omitempty"`
	Batch            string `gorm:"type:varchar(10);not null"                      json:"batch"`
	StudentType      string `gorm:"type:varchar(10);not null;default:'local'"      json:"student_type"` // local | hostel
	Email            string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone            string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	ProfileCompleted bool   `gorm:"not null;default:false"                         json:"profile_completed"`
	BaseModel
}

// TableName sets the table name.
func (StudentProfile) TableName() string { return "profiles" }
