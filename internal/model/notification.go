package model

import "time"

// Notification types.
const (
	NotificationApproval  = "approval"
	NotificationRejection = "rejection"
	NotificationInfo      = "info"
	NotificationWarning   = "warning"
	NotificationSuccess   = "success"
)

// Notification maps to the notifications table. Written once by the
// workflow; only the recipient flips the read flag afterwards.
type Notification struct {
	ID                string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Title             string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Message           string    `gorm:"type:text;not null"                             json:"message"`
	Type              string    `gorm:"type:varchar(20);not null"                      json:"type"`
	Read              bool      `gorm:"not null;default:false"                         json:"read"`
	RelatedEntityType *string   `gorm:"type:varchar(30)"                               json:"related_entity_type,omitempty"`
	RelatedEntityID   *string   `gorm:"type:uuid"                                      json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (Notification) TableName() string { return "notifications" }
