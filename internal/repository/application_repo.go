package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nodex/backend/internal/model"
	"nodex/backend/pkg/apperrors"
)

// ApplicationListFilters narrows application listings for dashboards.
type ApplicationListFilters struct {
	Batch      string
	Department string
	Semester   int
	Statuses   []string
	StudentID  string
}

// ApplicationRepository is the data-access interface for applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByStudentSemesterBatch(ctx context.Context, studentID string, semester int, batch string) (*model.Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Application, error)
	List(ctx context.Context, filters *ApplicationListFilters, offset, limit int) ([]model.Application, int64, error)
	ListIDs(ctx context.Context, batch, department string) ([]string, error)
	UpdateOptimistic(ctx context.Context, app *model.Application) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo creates the GORM-backed ApplicationRepository.
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByStudentSemesterBatch(ctx context.Context, studentID string, semester int, batch string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND semester = ? AND batch = ?", studentID, semester, batch).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepo) List(ctx context.Context, filters *ApplicationListFilters, offset, limit int) ([]model.Application, int64, error) {
	var apps []model.Application
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Application{})
	if filters != nil {
		if filters.Batch != "" {
			db = db.Where("batch = ?", filters.Batch)
		}
		if filters.Department != "" {
			db = db.Where("department = ?", filters.Department)
		}
		if filters.Semester > 0 {
			db = db.Where("semester = ?", filters.Semester)
		}
		if len(filters.Statuses) > 0 {
			db = db.Where("status IN ?", filters.Statuses)
		}
		if filters.StudentID != "" {
			db = db.Where("student_id = ?", filters.StudentID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Student").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *applicationRepo) ListIDs(ctx context.Context, batch, department string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("batch = ? AND department = ?", batch, department).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateOptimistic writes the full row guarded by the version column.
// A concurrent writer that committed first makes the guard miss, and
// the caller gets ErrOptimisticLock to re-read and retry.
func (r *applicationRepo) UpdateOptimistic(ctx context.Context, app *model.Application) error {
	guardVersion := app.Version
	app.Version++
	app.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ? AND version = ?", app.ID, guardVersion).
		Select("*").Omit("id", "created_at", "Student").
		Updates(app)
	if res.Error != nil {
		app.Version = guardVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		app.Version = guardVersion
		return apperrors.ErrOptimisticLock
	}
	return nil
}

func (r *applicationRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&model.Application{})
	return res.RowsAffected, res.Error
}
