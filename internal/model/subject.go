package model

import "time"

// Subject maps to the subjects table.
type Subject struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code       string    `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name       string    `gorm:"type:varchar(200);not null"                     json:"name"`
	Semester   int       `gorm:"not null"                                       json:"semester"`
	Department string    `gorm:"type:varchar(10);not null"                      json:"department"`
	IsElective bool      `gorm:"not null;default:false"                         json:"is_elective"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (Subject) TableName() string { return "subjects" }
