package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data-access interface.
type Repository struct {
	Student      StudentRepository
	Staff        StaffRepository
	Role         RoleRepository
	Subject      SubjectRepository
	Application  ApplicationRepository
	Assignment   AssignmentRepository
	Notification NotificationRepository
	Audit        AuditRepository

	db *gorm.DB
}

// NewRepository builds the repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student:      NewStudentRepo(db),
		Staff:        NewStaffRepo(db),
		Role:         NewRoleRepo(db),
		Subject:      NewSubjectRepo(db),
		Application:  NewApplicationRepo(db),
		Assignment:   NewAssignmentRepo(db),
		Notification: NewNotificationRepo(db),
		Audit:        NewAuditRepo(db),
		db:           db,
	}
}

// BeginTx starts a transaction. When the aggregate was assembled
// without a database (mock-backed tests), it returns a nil tx and
// callers skip the commit/rollback calls.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns a Repository whose repos run inside the transaction.
// A nil tx returns the aggregate unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
