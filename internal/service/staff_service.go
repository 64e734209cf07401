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
	ErrStaffNotFound       = errors.New("staff profile not found")
	ErrDuplicateEmployeeID = errors.New("a staff member with this employee id already exists")
	ErrInvalidRole         = errors.New("role is not assignable to staff")
	ErrDepartmentRequired  = errors.New("this role requires a department")
)

// departmentRoles must carry a department: their queues and fan-outs
// are department-scoped.
var departmentRoles = map[string]bool{
	model.RoleFaculty:       true,
	model.RoleCounsellor:    true,
	model.RoleClassAdvisor:  true,
	model.RoleHOD:           true,
	model.RoleLabInstructor: true,
}

// StaffService manages staff profiles and their functional roles.
type StaffService interface {
	Create(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)
	Get(ctx context.Context, id string) (*dto.StaffResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	List(ctx context.Context, req *dto.StaffListRequest) ([]dto.StaffResponse, int64, error)
	ListByRole(ctx context.Context, role, department string) ([]dto.StaffResponse, error)
	AssignRole(ctx context.Context, id, role string) error
	RevokeRole(ctx context.Context, id, role string) error
}

type staffService struct {
	repo    *repository.Repository
	timeout time.Duration
	logger  *zap.Logger
}

// NewStaffService creates the StaffService.
func NewStaffService(repo *repository.Repository, timeout time.Duration, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, timeout: timeout, logger: logger}
}

func (s *staffService) Create(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	if !model.ValidStaffRole(req.Role) {
		return nil, ErrInvalidRole
	}
	if departmentRoles[req.Role] && req.Department == "" {
		return nil, ErrDepartmentRequired
	}
	if req.Department != "" && !model.ValidDepartment(req.Department) {
		return nil, ErrInvalidDepartment
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	employeeID := strings.ToUpper(strings.TrimSpace(req.EmployeeID))
	if _, err := s.repo.Staff.GetByEmployeeID(sctx, employeeID); err == nil {
		return nil, ErrDuplicateEmployeeID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err)
	}

	staff := &model.StaffProfile{
		Name:           strings.TrimSpace(req.Name),
		EmployeeID:     employeeID,
		Designation:    strings.TrimSpace(req.Designation),
		Department:     req.Department,
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		OfficeLocation: strings.TrimSpace(req.OfficeLocation),
		IsActive:       true,
	}

	tx, err := s.repo.BeginTx(sctx)
	if err != nil {
		return nil, storageErr(err)
	}
	txRepo := s.repo.WithTx(tx)
	if err := txRepo.Staff.Create(sctx, staff); err != nil {
		rollback(tx)
		return nil, storageErr(err)
	}
	if err := txRepo.Role.Assign(sctx, &model.RoleAssignment{UserID: staff.ID, Role: req.Role}); err != nil {
		rollback(tx)
		return nil, storageErr(err)
	}
	if err := commit(tx); err != nil {
		return nil, storageErr(err)
	}

	resp := toStaffResponse(staff, []string{req.Role})
	return &resp, nil
}

func (s *staffService) Get(ctx context.Context, id string) (*dto.StaffResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	staff, err := s.repo.Staff.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, storageErr(err)
	}
	roles, err := s.roles(sctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStaffResponse(staff, roles)
	return &resp, nil
}

func (s *staffService) Update(ctx context.Context, id string, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	if req.Department != nil && *req.Department != "" && !model.ValidDepartment(*req.Department) {
		return nil, ErrInvalidDepartment
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	staff, err := s.repo.Staff.GetByID(sctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, storageErr(err)
	}

	if req.Name != nil {
		staff.Name = strings.TrimSpace(*req.Name)
	}
	if req.Designation != nil {
		staff.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Department != nil {
		staff.Department = *req.Department
	}
	if req.Email != nil {
		staff.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		staff.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.OfficeLocation != nil {
		staff.OfficeLocation = strings.TrimSpace(*req.OfficeLocation)
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := s.repo.Staff.Update(sctx, staff); err != nil {
		return nil, storageErr(err)
	}
	roles, err := s.roles(sctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStaffResponse(staff, roles)
	return &resp, nil
}

func (s *staffService) List(ctx context.Context, req *dto.StaffListRequest) ([]dto.StaffResponse, int64, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	staff, total, err := s.repo.Staff.List(sctx, req.Department, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, storageErr(err)
	}

	result := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		roles, err := s.roles(sctx, staff[i].ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, toStaffResponse(&staff[i], roles))
	}
	return result, total, nil
}

// ListByRole returns the active holders of a role, the lookup students
// use to pick faculty for their subject list.
func (s *staffService) ListByRole(ctx context.Context, role, department string) ([]dto.StaffResponse, error) {
	if !model.ValidStaffRole(role) {
		return nil, ErrInvalidRole
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	staff, err := s.repo.Staff.ListActiveByRole(sctx, role, department)
	if err != nil {
		return nil, storageErr(err)
	}
	result := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		result = append(result, toStaffResponse(&staff[i], []string{role}))
	}
	return result, nil
}

func (s *staffService) AssignRole(ctx context.Context, id, role string) error {
	if !model.ValidStaffRole(role) {
		return ErrInvalidRole
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.Staff.GetByID(sctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return storageErr(err)
	}
	has, err := s.repo.Role.HasRole(sctx, id, role)
	if err != nil {
		return storageErr(err)
	}
	if has {
		return nil
	}
	return storageErr(s.repo.Role.Assign(sctx, &model.RoleAssignment{UserID: id, Role: role}))
}

func (s *staffService) RevokeRole(ctx context.Context, id, role string) error {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()
	return storageErr(s.repo.Role.Revoke(sctx, id, role))
}

func (s *staffService) roles(ctx context.Context, id string) ([]string, error) {
	assignments, err := s.repo.Role.ListByUser(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	roles := make([]string, 0, len(assignments))
	for _, a := range assignments {
		roles = append(roles, a.Role)
	}
	return roles, nil
}

func toStaffResponse(staff *model.StaffProfile, roles []string) dto.StaffResponse {
	return dto.StaffResponse{
		ID:             staff.ID,
		Name:           staff.Name,
		EmployeeID:     staff.EmployeeID,
		Designation:    staff.Designation,
		Department:     staff.Department,
		Email:          staff.Email,
		Phone:          staff.Phone,
		OfficeLocation: staff.OfficeLocation,
		IsActive:       staff.IsActive,
		Roles:          roles,
	}
}
