package repository

import (
	"context"

	"gorm.io/gorm"

	"nodex/backend/internal/model"
)

// StudentListFilters narrows student listings.
type StudentListFilters struct {
	Department string
	Batch      string
	Semester   int
	Keyword    string // matches name or USN
}

// StudentRepository is the data-access interface for student profiles.
type StudentRepository interface {
	Create(ctx context.Context, student *model.StudentProfile) error
	BatchCreate(ctx context.Context, students []model.StudentProfile) error
	GetByID(ctx context.Context, id string) (*model.StudentProfile, error)
	GetByUSN(ctx context.Context, usn string) (*model.StudentProfile, error)
	Update(ctx context.Context, student *model.StudentProfile) error
	List(ctx context.Context, filters *StudentListFilters, offset, limit int) ([]model.StudentProfile, int64, error)
	BumpSemester(ctx context.Context, batch, department string, newSemester int) (int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates the GORM-backed StudentRepository.
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.StudentProfile) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) BatchCreate(ctx context.Context, students []model.StudentProfile) error {
	return r.db.WithContext(ctx).Create(&students).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.StudentProfile, error) {
	var student model.StudentProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByUSN(ctx context.Context, usn string) (*model.StudentProfile, error) {
	var student model.StudentProfile
	err := r.db.WithContext(ctx).
		Where("usn = ?", usn).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.StudentProfile) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepo) List(ctx context.Context, filters *StudentListFilters, offset, limit int) ([]model.StudentProfile, int64, error) {
	var students []model.StudentProfile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.StudentProfile{})
	if filters != nil {
		if filters.Department != "" {
			db = db.Where("department = ?", filters.Department)
		}
		if filters.Batch != "" {
			db = db.Where("batch = ?", filters.Batch)
		}
		if filters.Semester > 0 {
			db = db.Where("semester = ?", filters.Semester)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("name ILIKE ? OR usn ILIKE ?", kw, kw)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("usn ASC").
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepo) BumpSemester(ctx context.Context, batch, department string, newSemester int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.StudentProfile{}).
		Where("batch = ? AND department = ?", batch, department).
		Update("semester", newSemester)
	return res.RowsAffected, res.Error
}
