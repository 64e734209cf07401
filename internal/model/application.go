package model

// Application status values. Rejection absorbs from any non-completed
// state; progress is derived from the stage flags, never from status.
const (
	StatusPending        = "pending"
	StatusPaymentPending = "payment_pending"
	StatusCompleted      = "completed"
	StatusRejected       = "rejected"
)

// Application maps to the applications table. Each stage flag is
// tri-state: nil = not acted on, true = approved, false = rejected.
type Application struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID  string `gorm:"type:uuid;not null;index"                       json:"student_id"`
	Department string `gorm:"type:varchar(10);not null"                      json:"department"`
	Semester   int    `gorm:"not null"                                       json:"semester"`
	Batch      string `gorm:"type:varchar(10);not null"                      json:"batch"`
	Status     string `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`

	LibraryVerified         *bool   `json:"library_verified"`
	LibraryComment          *string `gorm:"type:text" json:"library_comment,omitempty"`
	LibraryVerifiedBy       *string `gorm:"type:uuid" json:"library_verified_by,omitempty"`
	HostelVerified          *bool   `json:"hostel_verified"`
	HostelComment           *string `gorm:"type:text" json:"hostel_comment,omitempty"`
	HostelVerifiedBy        *string `gorm:"type:uuid" json:"hostel_verified_by,omitempty"`
	CollegeOfficeVerified   *bool   `json:"college_office_verified"`
	CollegeOfficeComment    *string `gorm:"type:text" json:"college_office_comment,omitempty"`
	CollegeOfficeVerifiedBy *string `gorm:"type:uuid" json:"college_office_verified_by,omitempty"`
	FacultyVerified         *bool   `json:"faculty_verified"`
	FacultyComment          *string `gorm:"type:text" json:"faculty_comment,omitempty"`
	CounsellorVerified      *bool   `json:"counsellor_verified"`
	CounsellorComment       *string `gorm:"type:text" json:"counsellor_comment,omitempty"`
	CounsellorVerifiedBy    *string `gorm:"type:uuid" json:"counsellor_verified_by,omitempty"`
	ClassAdvisorVerified    *bool   `json:"class_advisor_verified"`
	ClassAdvisorComment     *string `gorm:"type:text" json:"class_advisor_comment,omitempty"`
	ClassAdvisorVerifiedBy  *string `gorm:"type:uuid" json:"class_advisor_verified_by,omitempty"`
	HODVerified             *bool   `gorm:"column:hod_verified" json:"hod_verified"`
	HODComment              *string `gorm:"column:hod_comment;type:text" json:"hod_comment,omitempty"`
	HODVerifiedBy           *string `gorm:"column:hod_verified_by;type:uuid" json:"hod_verified_by,omitempty"`
	PaymentVerified         *bool   `json:"payment_verified"`
	LabVerified             *bool   `json:"lab_verified"`
	LabComment              *string `gorm:"type:text" json:"lab_comment,omitempty"`
	LabVerifiedBy           *string `gorm:"type:uuid" json:"lab_verified_by,omitempty"`

	TransactionID *string `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`

	VersionedModel

	Student *StudentProfile `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
}

// TableName sets the table name.
func (Application) TableName() string { return "applications" }

// SubjectFacultyAssignment maps to application_subject_faculty: the
// faculty member responsible for clearing one subject on one
// application.
type SubjectFacultyAssignment struct {
	ID              string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ApplicationID   string  `gorm:"type:uuid;not null;index"                       json:"application_id"`
	SubjectID       string  `gorm:"type:uuid;not null"                             json:"subject_id"`
	FacultyID       string  `gorm:"type:uuid;not null;index"                       json:"faculty_id"`
	FacultyVerified bool    `gorm:"not null;default:false"                         json:"faculty_verified"`
	Comment         *string `gorm:"type:text"                                      json:"comment,omitempty"`
	BaseModel

	Subject *Subject      `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Faculty *StaffProfile `gorm:"foreignKey:FacultyID;references:ID" json:"faculty,omitempty"`
}

// TableName sets the table name.
func (SubjectFacultyAssignment) TableName() string { return "application_subject_faculty" }
