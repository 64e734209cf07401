package repository

import (
	"context"

	"gorm.io/gorm"

	"nodex/backend/internal/model"
)

// RoleRepository is the data-access interface for role assignments.
type RoleRepository interface {
	Assign(ctx context.Context, assignment *model.RoleAssignment) error
	Revoke(ctx context.Context, userID, role string) error
	ListByUser(ctx context.Context, userID string) ([]model.RoleAssignment, error)
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo creates the GORM-backed RoleRepository.
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Assign(ctx context.Context, assignment *model.RoleAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *roleRepo) Revoke(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&model.RoleAssignment{}).Error
}

func (r *roleRepo) ListByUser(ctx context.Context, userID string) ([]model.RoleAssignment, error) {
	var assignments []model.RoleAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *roleRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RoleAssignment{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
