package repository

import (
	"context"

	"gorm.io/gorm"

	"nodex/backend/internal/model"
)

// AssignmentRepository is the data-access interface for per-subject
// faculty assignments.
type AssignmentRepository interface {
	BatchCreate(ctx context.Context, assignments []model.SubjectFacultyAssignment) error
	ListByApplication(ctx context.Context, applicationID string) ([]model.SubjectFacultyAssignment, error)
	ListByApplicationAndFaculty(ctx context.Context, applicationID, facultyID string) ([]model.SubjectFacultyAssignment, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]model.SubjectFacultyAssignment, error)
	Update(ctx context.Context, assignment *model.SubjectFacultyAssignment) error
	Counts(ctx context.Context, applicationID string) (total int64, verified int64, err error)
	DeleteByApplicationIDs(ctx context.Context, applicationIDs []string) (int64, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates the GORM-backed AssignmentRepository.
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, assignments []model.SubjectFacultyAssignment) error {
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *assignmentRepo) ListByApplication(ctx context.Context, applicationID string) ([]model.SubjectFacultyAssignment, error) {
	var assignments []model.SubjectFacultyAssignment
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Faculty").
		Where("application_id = ?", applicationID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) ListByApplicationAndFaculty(ctx context.Context, applicationID, facultyID string) ([]model.SubjectFacultyAssignment, error) {
	var assignments []model.SubjectFacultyAssignment
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("application_id = ? AND faculty_id = ?", applicationID, facultyID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) ListByFaculty(ctx context.Context, facultyID string) ([]model.SubjectFacultyAssignment, error) {
	var assignments []model.SubjectFacultyAssignment
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("faculty_id = ?", facultyID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.SubjectFacultyAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepo) Counts(ctx context.Context, applicationID string) (int64, int64, error) {
	var total, verified int64
	if err := r.db.WithContext(ctx).Model(&model.SubjectFacultyAssignment{}).
		Where("application_id = ?", applicationID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.SubjectFacultyAssignment{}).
		Where("application_id = ? AND faculty_verified = ?", applicationID, true).
		Count(&verified).Error; err != nil {
		return 0, 0, err
	}
	return total, verified, nil
}

func (r *assignmentRepo) DeleteByApplicationIDs(ctx context.Context, applicationIDs []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("application_id IN ?", applicationIDs).
		Delete(&model.SubjectFacultyAssignment{})
	return res.RowsAffected, res.Error
}
