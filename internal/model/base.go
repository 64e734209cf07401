package model

import "time"

// BaseModel holds the audit timestamps every entity embeds.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// VersionedModel adds an optimistic-lock version column.
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// Departments offered by the college. Kept as a closed list; adding a
// department is a deploy, not a row.
var Departments = []string{"MECH", "CSE", "CIVIL", "EC", "AIML", "CD"}

// ValidDepartment reports whether dept is a known department code.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}
