package model

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded by the workflow.
const (
	AuditCreateApplication     = "CREATE_APPLICATION"
	AuditVerifyStage           = "VERIFY_STAGE"
	AuditRejectStage           = "REJECT_STAGE"
	AuditSubmitPayment         = "SUBMIT_PAYMENT"
	AuditDeleteApplication     = "DELETE_APPLICATION"
	AuditDeleteAllApplications = "DELETE_ALL_APPLICATIONS"
)

// AuditLogEntry maps to the audit_logs table. Append-only: never
// updated, never deleted, never read back by the workflow.
type AuditLogEntry struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Action    string         `gorm:"type:varchar(50);not null"                      json:"action"`
	ActorID   *string        `gorm:"type:uuid"                                      json:"actor_id,omitempty"`
	Table     string         `gorm:"column:table_name;type:varchar(50);not null"    json:"table_name"`
	RecordID  *string        `gorm:"type:uuid"                                      json:"record_id,omitempty"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (AuditLogEntry) TableName() string { return "audit_logs" }
