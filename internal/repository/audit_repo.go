package repository

import (
	"context"

	"gorm.io/gorm"

	"nodex/backend/internal/model"
)

// AuditRepository is the append-only interface for audit entries. No
// read methods: the workflow never reads the log back.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLogEntry) error
}

type auditRepo struct {
	db *gorm.DB
}

// NewAuditRepo creates the GORM-backed AuditRepository.
func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
