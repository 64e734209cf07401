package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"nodex/backend/internal/model"
	"nodex/backend/internal/repository"
	"nodex/backend/pkg/apperrors"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.StudentProfile
	seq      int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.StudentProfile)}
}

func (m *mockStudentRepo) nextID() string {
	m.seq++
	return fmt.Sprintf("student-%03d", m.seq)
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.StudentProfile) error {
	if student.ID == "" {
		student.ID = m.nextID()
	}
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) BatchCreate(_ context.Context, students []model.StudentProfile) error {
	for i := range students {
		if students[i].ID == "" {
			students[i].ID = m.nextID()
		}
		cp := students[i]
		m.students[cp.ID] = &cp
	}
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.StudentProfile, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUSN(_ context.Context, usn string) (*model.StudentProfile, error) {
	for _, s := range m.students {
		if s.USN == usn {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.StudentProfile) error {
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, filters *repository.StudentListFilters, offset, limit int) ([]model.StudentProfile, int64, error) {
	var result []model.StudentProfile
	for _, s := range m.students {
		if filters != nil {
			if filters.Department != "" && s.Department != filters.Department {
				continue
			}
			if filters.Batch != "" && s.Batch != filters.Batch {
				continue
			}
			if filters.Semester > 0 && s.Semester != filters.Semester {
				continue
			}
			if filters.Keyword != "" &&
				!strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Keyword)) &&
				!strings.Contains(strings.ToLower(s.USN), strings.ToLower(filters.Keyword)) {
				continue
			}
		}
		result = append(result, *s)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockStudentRepo) BumpSemester(_ context.Context, batch, department string, newSemester int) (int64, error) {
	var n int64
	for _, s := range m.students {
		if s.Batch == batch && s.Department == department && s.Semester != newSemester {
			s.Semester = newSemester
			n++
		}
	}
	return n, nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.StaffProfile
	roles *mockRoleRepo
	seq   int
}

func newMockStaffRepo(roles *mockRoleRepo) *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.StaffProfile), roles: roles}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.StaffProfile) error {
	if staff.ID == "" {
		m.seq++
		staff.ID = fmt.Sprintf("staff-%03d", m.seq)
	}
	m.staff[staff.ID] = staff
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.StaffProfile, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.StaffProfile, error) {
	for _, s := range m.staff {
		if s.EmployeeID == employeeID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) Update(_ context.Context, staff *model.StaffProfile) error {
	m.staff[staff.ID] = staff
	return nil
}

func (m *mockStaffRepo) ListByIDs(_ context.Context, ids []string, activeOnly bool) ([]model.StaffProfile, error) {
	var result []model.StaffProfile
	for _, id := range ids {
		s, ok := m.staff[id]
		if !ok {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockStaffRepo) List(_ context.Context, department string, offset, limit int) ([]model.StaffProfile, int64, error) {
	var result []model.StaffProfile
	for _, s := range m.staff {
		if department != "" && s.Department != department {
			continue
		}
		result = append(result, *s)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockStaffRepo) ListActiveByRole(_ context.Context, role, department string) ([]model.StaffProfile, error) {
	var result []model.StaffProfile
	for _, s := range m.staff {
		if !s.IsActive {
			continue
		}
		if department != "" && s.Department != department {
			continue
		}
		for _, a := range m.roles.assignments {
			if a.UserID == s.ID && a.Role == role {
				result = append(result, *s)
				break
			}
		}
	}
	return result, nil
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	assignments []model.RoleAssignment
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{}
}

func (m *mockRoleRepo) Assign(_ context.Context, assignment *model.RoleAssignment) error {
	m.assignments = append(m.assignments, *assignment)
	return nil
}

func (m *mockRoleRepo) Revoke(_ context.Context, userID, role string) error {
	kept := m.assignments[:0]
	for _, a := range m.assignments {
		if a.UserID != userID || a.Role != role {
			kept = append(kept, a)
		}
	}
	m.assignments = kept
	return nil
}

func (m *mockRoleRepo) ListByUser(_ context.Context, userID string) ([]model.RoleAssignment, error) {
	var result []model.RoleAssignment
	for _, a := range m.assignments {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) HasRole(_ context.Context, userID, role string) (bool, error) {
	for _, a := range m.assignments {
		if a.UserID == userID && a.Role == role {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
	seq      int
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	for _, s := range m.subjects {
		if s.Code == subject.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if subject.ID == "" {
		m.seq++
		subject.ID = fmt.Sprintf("subject-%03d", m.seq)
	}
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListByIDs(_ context.Context, ids []string) ([]model.Subject, error) {
	var result []model.Subject
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubjectRepo) List(_ context.Context, department string, semester int) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		if department != "" && s.Department != department {
			continue
		}
		if semester > 0 && s.Semester != semester {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	apps     map[string]*model.Application
	students *mockStudentRepo
	seq      int

	// conflicts forces the next n UpdateOptimistic calls to lose the
	// write race, bumping the stored version like a concurrent writer.
	conflicts int
}

func newMockApplicationRepo(students *mockStudentRepo) *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[string]*model.Application), students: students}
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	if app.ID == "" {
		m.seq++
		app.ID = fmt.Sprintf("app-%03d", m.seq)
	}
	if app.Version == 0 {
		app.Version = 1
	}
	cp := *app
	cp.Student = nil
	m.apps[cp.ID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	stored, ok := m.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *stored
	if s, ok := m.students.students[cp.StudentID]; ok {
		cp.Student = s
	}
	return &cp, nil
}

func (m *mockApplicationRepo) GetByStudentSemesterBatch(_ context.Context, studentID string, semester int, batch string) (*model.Application, error) {
	for _, app := range m.apps {
		if app.StudentID == studentID && app.Semester == semester && app.Batch == batch {
			cp := *app
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Application, error) {
	var result []model.Application
	for _, app := range m.apps {
		if app.StudentID == studentID {
			result = append(result, *app)
		}
	}
	return result, nil
}

func (m *mockApplicationRepo) List(_ context.Context, filters *repository.ApplicationListFilters, offset, limit int) ([]model.Application, int64, error) {
	var result []model.Application
	for _, app := range m.apps {
		if filters != nil {
			if filters.Batch != "" && app.Batch != filters.Batch {
				continue
			}
			if filters.Department != "" && app.Department != filters.Department {
				continue
			}
			if filters.Semester > 0 && app.Semester != filters.Semester {
				continue
			}
			if len(filters.Statuses) > 0 {
				match := false
				for _, st := range filters.Statuses {
					if app.Status == st {
						match = true
						break
					}
				}
				if !match {
					continue
				}
			}
			if filters.StudentID != "" && app.StudentID != filters.StudentID {
				continue
			}
		}
		cp := *app
		if s, ok := m.students.students[cp.StudentID]; ok {
			cp.Student = s
		}
		result = append(result, cp)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockApplicationRepo) ListIDs(_ context.Context, batch, department string) ([]string, error) {
	var ids []string
	for _, app := range m.apps {
		if app.Batch == batch && app.Department == department {
			ids = append(ids, app.ID)
		}
	}
	return ids, nil
}

func (m *mockApplicationRepo) UpdateOptimistic(_ context.Context, app *model.Application) error {
	stored, ok := m.apps[app.ID]
	if !ok {
		return apperrors.ErrOptimisticLock
	}
	if m.conflicts > 0 {
		m.conflicts--
		stored.Version++
		return apperrors.ErrOptimisticLock
	}
	if stored.Version != app.Version {
		return apperrors.ErrOptimisticLock
	}
	app.Version++
	cp := *app
	cp.Student = nil
	m.apps[cp.ID] = &cp
	return nil
}

func (m *mockApplicationRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.apps[id]; ok {
			delete(m.apps, id)
			n++
		}
	}
	return n, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.SubjectFacultyAssignment
	seq         int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.SubjectFacultyAssignment)}
}

func (m *mockAssignmentRepo) BatchCreate(_ context.Context, assignments []model.SubjectFacultyAssignment) error {
	for i := range assignments {
		if assignments[i].ID == "" {
			m.seq++
			assignments[i].ID = fmt.Sprintf("assignment-%03d", m.seq)
		}
		cp := assignments[i]
		m.assignments[cp.ID] = &cp
	}
	return nil
}

func (m *mockAssignmentRepo) ListByApplication(_ context.Context, applicationID string) ([]model.SubjectFacultyAssignment, error) {
	var result []model.SubjectFacultyAssignment
	for _, a := range m.assignments {
		if a.ApplicationID == applicationID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByApplicationAndFaculty(_ context.Context, applicationID, facultyID string) ([]model.SubjectFacultyAssignment, error) {
	var result []model.SubjectFacultyAssignment
	for _, a := range m.assignments {
		if a.ApplicationID == applicationID && a.FacultyID == facultyID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByFaculty(_ context.Context, facultyID string) ([]model.SubjectFacultyAssignment, error) {
	var result []model.SubjectFacultyAssignment
	for _, a := range m.assignments {
		if a.FacultyID == facultyID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.SubjectFacultyAssignment) error {
	cp := *assignment
	m.assignments[cp.ID] = &cp
	return nil
}

func (m *mockAssignmentRepo) Counts(_ context.Context, applicationID string) (int64, int64, error) {
	var total, verified int64
	for _, a := range m.assignments {
		if a.ApplicationID != applicationID {
			continue
		}
		total++
		if a.FacultyVerified {
			verified++
		}
	}
	return total, verified, nil
}

func (m *mockAssignmentRepo) DeleteByApplicationIDs(_ context.Context, applicationIDs []string) (int64, error) {
	var n int64
	for id, a := range m.assignments {
		for _, appID := range applicationIDs {
			if a.ApplicationID == appID {
				delete(m.assignments, id)
				n++
				break
			}
		}
	}
	return n, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	seq           int
	failCreate    bool
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if m.failCreate {
		return fmt.Errorf("notification store unavailable")
	}
	if notification.ID == "" {
		m.seq++
		notification.ID = fmt.Sprintf("notification-%03d", m.seq)
	}
	cp := *notification
	m.notifications[cp.ID] = &cp
	return nil
}

func (m *mockNotificationRepo) BatchCreate(_ context.Context, notifications []model.Notification) error {
	if m.failCreate {
		return fmt.Errorf("notification store unavailable")
	}
	for i := range notifications {
		if notifications[i].ID == "" {
			m.seq++
			notifications[i].ID = fmt.Sprintf("notification-%03d", m.seq)
		}
		cp := notifications[i]
		m.notifications[cp.ID] = &cp
	}
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, *n)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, notification := range m.notifications {
		if notification.UserID == userID && !notification.Read {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.Read = true
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, notification := range m.notifications {
		if notification.UserID == userID && !notification.Read {
			notification.Read = true
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) DeleteByRelated(_ context.Context, entityType string, entityIDs []string) (int64, error) {
	var n int64
	for id, notification := range m.notifications {
		if notification.RelatedEntityType == nil || *notification.RelatedEntityType != entityType {
			continue
		}
		if notification.RelatedEntityID == nil {
			continue
		}
		for _, eid := range entityIDs {
			if *notification.RelatedEntityID == eid {
				delete(m.notifications, id)
				n++
				break
			}
		}
	}
	return n, nil
}

// forUser returns the stored notifications addressed to one user.
func (m *mockNotificationRepo) forUser(userID string) []*model.Notification {
	var result []*model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// ── Mock AuditRepository ──

type mockAuditRepo struct {
	entries []model.AuditLogEntry
}

func newMockAuditRepo() *mockAuditRepo {
	return &mockAuditRepo{}
}

func (m *mockAuditRepo) Create(_ context.Context, entry *model.AuditLogEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

// byAction returns the recorded entries for one action.
func (m *mockAuditRepo) byAction(action string) []model.AuditLogEntry {
	var result []model.AuditLogEntry
	for _, e := range m.entries {
		if e.Action == action {
			result = append(result, e)
		}
	}
	return result
}

// ── aggregate ──

// mockStore bundles every mock repo behind one repository aggregate.
type mockStore struct {
	students      *mockStudentRepo
	staff         *mockStaffRepo
	roles         *mockRoleRepo
	subjects      *mockSubjectRepo
	apps          *mockApplicationRepo
	assignments   *mockAssignmentRepo
	notifications *mockNotificationRepo
	audits        *mockAuditRepo
}

func newMockStore() *mockStore {
	roles := newMockRoleRepo()
	students := newMockStudentRepo()
	return &mockStore{
		students:      students,
		staff:         newMockStaffRepo(roles),
		roles:         roles,
		subjects:      newMockSubjectRepo(),
		apps:          newMockApplicationRepo(students),
		assignments:   newMockAssignmentRepo(),
		notifications: newMockNotificationRepo(),
		audits:        newMockAuditRepo(),
	}
}

func (m *mockStore) repo() *repository.Repository {
	return &repository.Repository{
		Student:      m.students,
		Staff:        m.staff,
		Role:         m.roles,
		Subject:      m.subjects,
		Application:  m.apps,
		Assignment:   m.assignments,
		Notification: m.notifications,
		Audit:        m.audits,
	}
}
