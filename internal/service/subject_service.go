package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/model"
	"nodex/backend/internal/repository"
)

var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrDuplicateSubject = errors.New("a subject with this code already exists")
)

// SubjectService manages the subject catalog students pick from when
// submitting an application.
type SubjectService interface {
	Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	Get(ctx context.Context, id string) (*dto.SubjectResponse, error)
	List(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type subjectService struct {
	repo    *repository.Repository
	timeout time.Duration
	logger  *zap.Logger
}

// NewSubjectService creates the SubjectService.
func NewSubjectService(repo *repository.Repository, timeout time.Duration, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, timeout: timeout, logger: logger}
}

func (s *subjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	if !model.ValidDepartment(req.Department) {
		return nil, ErrInvalidDepartment
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	subject := &model.Subject{
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:       strings.TrimSpace(req.Name),
		Semester:   req.Semester,
		Department: req.Department,
		IsElective: req.IsElective,
	}
	if err := s.repo.Subject.Create(sctx, subject); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSubject
		}
		return nil, storageErr(err)
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) Get(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	subject, err := s.repo.Subject.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, storageErr(err)
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) List(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	subjects, err := s.repo.Subject.List(sctx, req.Department, req.Semester)
	if err != nil {
		return nil, storageErr(err)
	}
	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func (s *subjectService) Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	subject, err := s.repo.Subject.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, storageErr(err)
	}

	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Semester != nil {
		subject.Semester = *req.Semester
	}
	if req.IsElective != nil {
		subject.IsElective = *req.IsElective
	}

	if err := s.repo.Subject.Update(sctx, subject); err != nil {
		return nil, storageErr(err)
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) Delete(ctx context.Context, id string) error {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.Subject.GetByID(sctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return storageErr(err)
	}
	return storageErr(s.repo.Subject.Delete(sctx, id))
}

func toSubjectResponse(subject *model.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{
		ID:         subject.ID,
		Code:       subject.Code,
		Name:       subject.Name,
		Semester:   subject.Semester,
		Department: subject.Department,
		IsElective: subject.IsElective,
	}
}
