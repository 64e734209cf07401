package repository

import (
	"context"

	"gorm.io/gorm"

	"nodex/backend/internal/model"
)

// StaffRepository is the data-access interface for staff profiles.
type StaffRepository interface {
	Create(ctx context.Context, staff *model.StaffProfile) error
	GetByID(ctx context.Context, id string) (*model.StaffProfile, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.StaffProfile, error)
	Update(ctx context.Context, staff *model.StaffProfile) error
	ListByIDs(ctx context.Context, ids []string, activeOnly bool) ([]model.StaffProfile, error)
	List(ctx context.Context, department string, offset, limit int) ([]model.StaffProfile, int64, error)
	ListActiveByRole(ctx context.Context, role, department string) ([]model.StaffProfile, error)
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo creates the GORM-backed StaffRepository.
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.StaffProfile) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.StaffProfile, error) {
	var staff model.StaffProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.StaffProfile, error) {
	var staff model.StaffProfile
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) Update(ctx context.Context, staff *model.StaffProfile) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepo) ListByIDs(ctx context.Context, ids []string, activeOnly bool) ([]model.StaffProfile, error) {
	var staff []model.StaffProfile
	db := r.db.WithContext(ctx).Where("id IN ?", ids)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepo) List(ctx context.Context, department string, offset, limit int) ([]model.StaffProfile, int64, error) {
	var staff []model.StaffProfile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.StaffProfile{})
	if department != "" {
		db = db.Where("department = ?", department)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// ListActiveByRole returns the active staff holding a functional role,
// optionally narrowed to a department.
func (r *staffRepo) ListActiveByRole(ctx context.Context, role, department string) ([]model.StaffProfile, error) {
	var staff []model.StaffProfile
	db := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.user_id = staff_profiles.id").
		Where("user_roles.role = ?", role).
		Where("staff_profiles.is_active = ?", true)
	if department != "" {
		db = db.Where("staff_profiles.department = ?", department)
	}
	if err := db.Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}
