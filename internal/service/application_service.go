package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/model"
	"nodex/backend/internal/repository"
	"nodex/backend/internal/workflow"
	"nodex/backend/pkg/apperrors"
)

// Service-level sentinel errors. Handlers map these to HTTP statuses.
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already exists for this semester and batch")
	ErrStudentNotFound      = errors.New("student profile not found")
	ErrProfileIncomplete    = errors.New("student profile is not completed")
	ErrInvalidDepartment    = errors.New("unknown department code")
	ErrInvalidBatch         = errors.New("batch must look like 2022-26")
	ErrInvalidSubject       = errors.New("one or more subjects do not exist")
	ErrInvalidFaculty       = errors.New("one or more faculty members are invalid or inactive")
	ErrNoAssignedSubjects   = errors.New("no subjects on this application are assigned to you")
	ErrPaymentNotReady      = errors.New("payment can be submitted only after HOD verification")
	ErrNotCompleted         = errors.New("certificate is available only for completed applications")
)

var batchPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// verifyRetries bounds how often a verification is replayed after
// losing an optimistic-lock race.
const verifyRetries = 3

// trackerLimit caps the tracker listing; a batch+department slice is
// a few hundred students at most.
const trackerLimit = 1000

// ApplicationService orchestrates the clearance workflow: it reads
// snapshots, asks the workflow engine what should happen, and persists
// the outcome with its audit and notification side effects.
type ApplicationService interface {
	Submit(ctx context.Context, studentID string, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	Get(ctx context.Context, actorID, role, id string) (*dto.ApplicationResponse, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.ApplicationResponse, error)
	Assignments(ctx context.Context, actorID, role, applicationID string) ([]dto.AssignmentView, error)
	FacultyQueue(ctx context.Context, facultyID string) ([]dto.AssignmentView, error)
	ListQueue(ctx context.Context, role string, req *dto.StageQueueRequest) ([]dto.ApplicationResponse, int64, error)
	Verify(ctx context.Context, verifierID, role, applicationID string, req *dto.VerifyRequest) (*dto.VerifyResponse, error)
	SubmitPayment(ctx context.Context, studentID, applicationID string, req *dto.SubmitPaymentRequest) (*dto.ApplicationResponse, error)
	Track(ctx context.Context, req *dto.TrackerRequest) (*dto.TrackerResponse, error)
	Certificate(ctx context.Context, actorID, role, applicationID string) (*dto.CertificateResponse, error)
	Delete(ctx context.Context, actorID, role, applicationID string) (*dto.DeleteResponse, error)
	DeleteAll(ctx context.Context, actorID, role string, req *dto.DeleteAllRequest) (*dto.DeleteResponse, error)
}

type applicationService struct {
	repo     *repository.Repository
	notifier NotificationService
	timeout  time.Duration
	logger   *zap.Logger
}

// NewApplicationService creates the ApplicationService.
func NewApplicationService(repo *repository.Repository, notifier NotificationService, timeout time.Duration, logger *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, notifier: notifier, timeout: timeout, logger: logger}
}

// ── submit ──

func (s *applicationService) Submit(ctx context.Context, studentID string, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	if !model.ValidDepartment(req.Department) {
		return nil, ErrInvalidDepartment
	}
	if !batchPattern.MatchString(req.Batch) {
		return nil, ErrInvalidBatch
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	student, err := s.repo.Student.GetByID(sctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, storageErr(err)
	}
	if !student.ProfileCompleted {
		return nil, ErrProfileIncomplete
	}

	// One application per student per semester+batch.
	if _, err := s.repo.Application.GetByStudentSemesterBatch(sctx, studentID, req.Semester, req.Batch); err == nil {
		return nil, ErrDuplicateApplication
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err)
	}

	if err := s.checkSubjectFaculty(sctx, req.Subjects); err != nil {
		return nil, err
	}

	app := &model.Application{
		StudentID:  studentID,
		Department: req.Department,
		Semester:   req.Semester,
		Batch:      req.Batch,
		Status:     model.StatusPending,
	}

	tx, err := s.repo.BeginTx(sctx)
	if err != nil {
		return nil, storageErr(err)
	}
	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Application.Create(sctx, app); err != nil {
		rollback(tx)
		return nil, storageErr(err)
	}

	assignments := make([]model.SubjectFacultyAssignment, 0, len(req.Subjects))
	for _, pair := range req.Subjects {
		assignments = append(assignments, model.SubjectFacultyAssignment{
			ApplicationID: app.ID,
			SubjectID:     pair.SubjectID,
			FacultyID:     pair.FacultyID,
		})
	}
	if err := txRepo.Assignment.BatchCreate(sctx, assignments); err != nil {
		rollback(tx)
		return nil, storageErr(err)
	}

	s.audit(sctx, txRepo, model.AuditCreateApplication, &studentID, app.ID, map[string]any{
		"department": app.Department,
		"semester":   app.Semester,
		"batch":      app.Batch,
		"subjects":   len(assignments),
	})

	if err := commit(tx); err != nil {
		return nil, storageErr(err)
	}

	s.notifyRole(ctx, model.RoleLibrary, "",
		"New No Due Application",
		fmt.Sprintf("%s (%s) submitted a no due application for semester %d.", student.Name, student.USN, app.Semester),
		model.NotificationInfo, app.ID)

	app.Student = student
	resp := toApplicationResponse(app)
	return &resp, nil
}

// checkSubjectFaculty validates every subject-faculty pair: subjects
// must exist, faculty must be active staff holding the faculty role,
// and no subject may appear twice.
func (s *applicationService) checkSubjectFaculty(ctx context.Context, pairs []dto.SubjectFacultyPair) error {
	subjectIDs := make([]string, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	facultySet := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if seen[p.SubjectID] {
			return ErrInvalidSubject
		}
		seen[p.SubjectID] = true
		subjectIDs = append(subjectIDs, p.SubjectID)
		facultySet[p.FacultyID] = true
	}

	subjects, err := s.repo.Subject.ListByIDs(ctx, subjectIDs)
	if err != nil {
		return storageErr(err)
	}
	if len(subjects) != len(subjectIDs) {
		return ErrInvalidSubject
	}

	facultyIDs := make([]string, 0, len(facultySet))
	for id := range facultySet {
		facultyIDs = append(facultyIDs, id)
	}
	staff, err := s.repo.Staff.ListByIDs(ctx, facultyIDs, true)
	if err != nil {
		return storageErr(err)
	}
	if len(staff) != len(facultyIDs) {
		return ErrInvalidFaculty
	}
	for _, id := range facultyIDs {
		ok, err := s.repo.Role.HasRole(ctx, id, model.RoleFaculty)
		if err != nil {
			return storageErr(err)
		}
		if !ok {
			return ErrInvalidFaculty
		}
	}
	return nil
}

// ── reads ──

func (s *applicationService) Get(ctx context.Context, actorID, role, id string) (*dto.ApplicationResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	app, err := s.getApp(sctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardOwner(app, actorID, role); err != nil {
		return nil, err
	}
	resp := toApplicationResponse(app)
	return &resp, nil
}

// guardOwner keeps students out of other students' applications.
// Staff roles pass; their routes are already role-gated.
func guardOwner(app *model.Application, actorID, role string) error {
	if role == model.RoleStudent && app.StudentID != actorID {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *applicationService) ListByStudent(ctx context.Context, studentID string) ([]dto.ApplicationResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	student, err := s.repo.Student.GetByID(sctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, storageErr(err)
	}

	apps, err := s.repo.Application.ListByStudent(sctx, studentID)
	if err != nil {
		return nil, storageErr(err)
	}

	result := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		apps[i].Student = student
		result = append(result, toApplicationResponse(&apps[i]))
	}
	return result, nil
}

func (s *applicationService) Assignments(ctx context.Context, actorID, role, applicationID string) ([]dto.AssignmentView, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	app, err := s.getApp(sctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := guardOwner(app, actorID, role); err != nil {
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByApplication(sctx, applicationID)
	if err != nil {
		return nil, storageErr(err)
	}
	return toAssignmentViews(assignments), nil
}

func (s *applicationService) FacultyQueue(ctx context.Context, facultyID string) ([]dto.AssignmentView, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	assignments, err := s.repo.Assignment.ListByFaculty(sctx, facultyID)
	if err != nil {
		return nil, storageErr(err)
	}
	return toAssignmentViews(assignments), nil
}

// ListQueue returns the applications waiting for the verifier's role.
// The status filter is deliberately coarse; the dashboard shows stage
// flags and lets the verifier pick actionable rows.
func (s *applicationService) ListQueue(ctx context.Context, role string, req *dto.StageQueueRequest) ([]dto.ApplicationResponse, int64, error) {
	if _, err := workflow.StagesForRole(role); err != nil {
		return nil, 0, err
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	filters := &repository.ApplicationListFilters{
		Department: req.Department,
		Semester:   req.Semester,
	}
	// Lab instructors act only after payment submission. The other
	// stages can still be pending while the payment is in flight, so
	// their queues keep payment_pending rows.
	if role == model.RoleLabInstructor {
		filters.Statuses = []string{model.StatusPaymentPending}
	} else {
		filters.Statuses = []string{model.StatusPending, model.StatusPaymentPending}
	}

	apps, total, err := s.repo.Application.List(sctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, storageErr(err)
	}

	result := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		result = append(result, toApplicationResponse(&apps[i]))
	}
	return result, total, nil
}

// ── verify ──

func (s *applicationService) Verify(ctx context.Context, verifierID, role, applicationID string, req *dto.VerifyRequest) (*dto.VerifyResponse, error) {
	var lastErr error
	for attempt := 0; attempt < verifyRetries; attempt++ {
		resp, err := s.verifyOnce(ctx, verifierID, role, applicationID, req)
		if errors.Is(err, apperrors.ErrOptimisticLock) {
			lastErr = err
			continue
		}
		return resp, err
	}
	s.logger.Warn("verification lost the write race repeatedly",
		zap.String("application_id", applicationID),
		zap.String("role", role))
	return nil, lastErr
}

func (s *applicationService) verifyOnce(ctx context.Context, verifierID, role, applicationID string, req *dto.VerifyRequest) (*dto.VerifyResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	app, err := s.getApp(sctx, applicationID)
	if err != nil {
		return nil, err
	}
	studentType := model.StudentTypeLocal
	if app.Student != nil {
		studentType = app.Student.StudentType
	}

	in := workflow.Input{
		App:         app,
		StudentType: studentType,
		Role:        role,
		Decision:    workflow.Decision(req.Decision),
		Comment:     req.Comment,
	}

	// Faculty approvals clear the acting faculty's assignment rows;
	// the application-level flag flips once every row is verified.
	var ownPending []model.SubjectFacultyAssignment
	if role == model.RoleFaculty {
		own, err := s.repo.Assignment.ListByApplicationAndFaculty(sctx, applicationID, verifierID)
		if err != nil {
			return nil, storageErr(err)
		}
		if len(own) == 0 {
			return nil, ErrNoAssignedSubjects
		}
		total, verified, err := s.repo.Assignment.Counts(sctx, applicationID)
		if err != nil {
			return nil, storageErr(err)
		}
		for i := range own {
			if !own[i].FacultyVerified {
				ownPending = append(ownPending, own[i])
			}
		}
		in.SubjectsTotal = int(total)
		in.SubjectsVerified = int(verified) + len(ownPending)
	}

	res, err := workflow.Evaluate(in)
	if err != nil {
		return nil, err
	}

	// A faculty approval with no pending rows of its own changes
	// nothing either; it gets the same silent treatment as a
	// re-approved stage flag.
	if res.FacultyPartial && in.Decision == workflow.DecisionApprove && len(ownPending) == 0 {
		res.Idempotent = true
	}

	if res.Idempotent {
		// Nothing changed; no audit, no notification.
		return &dto.VerifyResponse{
			ApplicationID: app.ID,
			Status:        res.Status,
			Progress:      res.Progress,
			Idempotent:    true,
		}, nil
	}

	// Assignment rows and the application row move together, so a
	// lost optimistic write cannot strand verified rows behind an
	// unchanged stage flag.
	tx, err := s.repo.BeginTx(sctx)
	if err != nil {
		return nil, storageErr(err)
	}
	txRepo := s.repo.WithTx(tx)

	if in.Decision == workflow.DecisionApprove {
		for i := range ownPending {
			ownPending[i].FacultyVerified = true
			if res.Comment != "" {
				c := res.Comment
				ownPending[i].Comment = &c
			}
			if err := txRepo.Assignment.Update(sctx, &ownPending[i]); err != nil {
				rollback(tx)
				return nil, storageErr(err)
			}
		}
	}

	if !res.FacultyPartial {
		applyResult(app, role, verifierID, res)
		if err := txRepo.Application.UpdateOptimistic(sctx, app); err != nil {
			rollback(tx)
			return nil, storageErr(err)
		}
	}

	if err := commit(tx); err != nil {
		return nil, storageErr(err)
	}

	action := model.AuditVerifyStage
	if in.Decision == workflow.DecisionReject {
		action = model.AuditRejectStage
	}
	s.audit(sctx, s.repo, action, &verifierID, app.ID, map[string]any{
		"role":     role,
		"decision": req.Decision,
		"status":   res.Status,
		"progress": res.Progress,
		"partial":  res.FacultyPartial,
	})

	s.notifyVerdict(ctx, app, role, res, in.Decision)

	return &dto.VerifyResponse{
		ApplicationID:  app.ID,
		Status:         res.Status,
		Progress:       res.Progress,
		PartialFaculty: res.FacultyPartial,
	}, nil
}

// notifyVerdict sends the student exactly one notification per
// effective verification action. Best effort; a failed notification
// never fails the verification.
func (s *applicationService) notifyVerdict(ctx context.Context, app *model.Application, role string, res *workflow.Result, decision workflow.Decision) {
	label := stageLabel(role)
	var p NotifyParams
	switch {
	case decision == workflow.DecisionReject:
		p = NotifyParams{
			UserID:  app.StudentID,
			Title:   "Application Rejected",
			Message: fmt.Sprintf("Your no due application was rejected at the %s stage: %s", label, res.Comment),
			Type:    model.NotificationRejection,
		}
	case res.Status == model.StatusCompleted:
		p = NotifyParams{
			UserID:  app.StudentID,
			Title:   "No Due Certificate Approved!",
			Message: "All verifications are complete. Your no due certificate is ready to download.",
			Type:    model.NotificationSuccess,
		}
	default:
		p = NotifyParams{
			UserID:  app.StudentID,
			Title:   fmt.Sprintf("%s Verification Approved", label),
			Message: fmt.Sprintf("The %s stage of your no due application was approved.", label),
			Type:    model.NotificationApproval,
		}
	}
	p.RelatedEntityType = "application"
	p.RelatedEntityID = app.ID
	if _, err := s.notifier.Notify(ctx, p); err != nil {
		s.logger.Warn("verdict notification failed",
			zap.String("application_id", app.ID), zap.Error(err))
	}
}

// applyResult writes the engine's verdict onto the application row:
// stage flags, the acting verifier's comment and identity, status.
func applyResult(app *model.Application, role, verifierID string, res *workflow.Result) {
	for st, v := range res.Flags {
		val := v
		switch st {
		case workflow.StageLibrary:
			app.LibraryVerified = &val
			app.LibraryVerifiedBy = &verifierID
			app.LibraryComment = optComment(res.Comment)
		case workflow.StageHostel:
			app.HostelVerified = &val
			app.HostelVerifiedBy = &verifierID
			app.HostelComment = optComment(res.Comment)
		case workflow.StageCollegeOffice:
			app.CollegeOfficeVerified = &val
			app.CollegeOfficeVerifiedBy = &verifierID
			app.CollegeOfficeComment = optComment(res.Comment)
		case workflow.StageFaculty:
			app.FacultyVerified = &val
			app.FacultyComment = optComment(res.Comment)
		case workflow.StageCounsellor:
			app.CounsellorVerified = &val
			app.CounsellorVerifiedBy = &verifierID
			app.CounsellorComment = optComment(res.Comment)
		case workflow.StageClassAdvisor:
			app.ClassAdvisorVerified = &val
			app.ClassAdvisorVerifiedBy = &verifierID
			app.ClassAdvisorComment = optComment(res.Comment)
		case workflow.StageHOD:
			app.HODVerified = &val
			app.HODVerifiedBy = &verifierID
			app.HODComment = optComment(res.Comment)
		case workflow.StagePayment:
			app.PaymentVerified = &val
		case workflow.StageLab:
			app.LabVerified = &val
			app.LabVerifiedBy = &verifierID
			app.LabComment = optComment(res.Comment)
		}
	}
	app.Status = res.Status
}

func optComment(c string) *string {
	if c == "" {
		return nil
	}
	return &c
}

// ── payment ──

func (s *applicationService) SubmitPayment(ctx context.Context, studentID, applicationID string, req *dto.SubmitPaymentRequest) (*dto.ApplicationResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	var app *model.Application
	var lastErr error
	for attempt := 0; attempt < verifyRetries; attempt++ {
		var err error
		app, err = s.getApp(sctx, applicationID)
		if err != nil {
			return nil, err
		}
		if app.StudentID != studentID {
			return nil, apperrors.ErrForbidden
		}
		if app.Status == model.StatusCompleted || app.Status == model.StatusRejected {
			return nil, workflow.ErrApplicationClosed
		}
		hodDone := app.HODVerified != nil && *app.HODVerified
		payDone := app.PaymentVerified != nil && *app.PaymentVerified
		if !hodDone || payDone {
			return nil, ErrPaymentNotReady
		}

		txn := strings.TrimSpace(req.TransactionID)
		app.TransactionID = &txn
		app.Status = model.StatusPaymentPending

		if err := s.repo.Application.UpdateOptimistic(sctx, app); err != nil {
			if errors.Is(err, apperrors.ErrOptimisticLock) {
				lastErr = err
				continue
			}
			return nil, storageErr(err)
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, lastErr
	}

	s.audit(sctx, s.repo, model.AuditSubmitPayment, &studentID, app.ID, map[string]any{
		"transaction_id": req.TransactionID,
	})

	if _, err := s.notifier.Notify(ctx, NotifyParams{
		UserID:            studentID,
		Title:             "Payment Details Submitted",
		Message:           "Your payment details were submitted and are awaiting verification.",
		Type:              model.NotificationInfo,
		RelatedEntityType: "application",
		RelatedEntityID:   app.ID,
	}); err != nil {
		s.logger.Warn("payment notification failed", zap.Error(err))
	}
	s.notifyRole(ctx, model.RoleLabInstructor, app.Department,
		"New Payment Verification Request",
		fmt.Sprintf("A payment on a %s no due application is waiting for verification.", app.Department),
		model.NotificationInfo, app.ID)

	resp := toApplicationResponse(app)
	return &resp, nil
}

// ── tracker and certificate ──

func (s *applicationService) Track(ctx context.Context, req *dto.TrackerRequest) (*dto.TrackerResponse, error) {
	if !model.ValidDepartment(req.Department) {
		return nil, ErrInvalidDepartment
	}
	if !batchPattern.MatchString(req.Batch) {
		return nil, ErrInvalidBatch
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	apps, _, err := s.repo.Application.List(sctx, &repository.ApplicationListFilters{
		Batch:      req.Batch,
		Department: req.Department,
	}, 0, trackerLimit)
	if err != nil {
		return nil, storageErr(err)
	}

	resp := &dto.TrackerResponse{
		Applications: make([]dto.ApplicationResponse, 0, len(apps)),
	}
	for i := range apps {
		resp.Applications = append(resp.Applications, toApplicationResponse(&apps[i]))
		resp.Stats.Total++
		switch apps[i].Status {
		case model.StatusCompleted:
			resp.Stats.Completed++
		case model.StatusRejected:
			resp.Stats.Rejected++
		default:
			resp.Stats.InProgress++
		}
	}
	return resp, nil
}

func (s *applicationService) Certificate(ctx context.Context, actorID, role, applicationID string) (*dto.CertificateResponse, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	app, err := s.getApp(sctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := guardOwner(app, actorID, role); err != nil {
		return nil, err
	}
	if app.Status != model.StatusCompleted {
		return nil, ErrNotCompleted
	}

	resp := &dto.CertificateResponse{
		ApplicationID: app.ID,
		Department:    app.Department,
		Semester:      app.Semester,
		Batch:         app.Batch,
		Stages:        stageViews(app),
		VerifiedOn:    app.UpdatedAt.Format(time.RFC3339),
		IssuedAt:      time.Now().Format(time.RFC3339),
	}
	if app.Student != nil {
		resp.StudentName = app.Student.Name
		resp.USN = app.Student.USN
	}
	return resp, nil
}

// ── delete ──

func (s *applicationService) Delete(ctx context.Context, actorID, role, applicationID string) (*dto.DeleteResponse, error) {
	if role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.getApp(sctx, applicationID); err != nil {
		return nil, err
	}
	return s.cascadeDelete(sctx, actorID, model.AuditDeleteApplication, []string{applicationID}, nil)
}

func (s *applicationService) DeleteAll(ctx context.Context, actorID, role string, req *dto.DeleteAllRequest) (*dto.DeleteResponse, error) {
	if role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !model.ValidDepartment(req.Department) {
		return nil, ErrInvalidDepartment
	}
	if !batchPattern.MatchString(req.Batch) {
		return nil, ErrInvalidBatch
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	ids, err := s.repo.Application.ListIDs(sctx, req.Batch, req.Department)
	if err != nil {
		return nil, storageErr(err)
	}
	if len(ids) == 0 {
		return &dto.DeleteResponse{}, nil
	}
	return s.cascadeDelete(sctx, actorID, model.AuditDeleteAllApplications, ids, map[string]any{
		"batch":      req.Batch,
		"department": req.Department,
	})
}

// cascadeDelete removes assignments first, then the notifications that
// reference the applications, then the applications themselves, all in
// one transaction, and reports exact row counts.
func (s *applicationService) cascadeDelete(ctx context.Context, actorID, action string, ids []string, extra map[string]any) (*dto.DeleteResponse, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	txRepo := s.repo.WithTx(tx)

	assignments, err := txRepo.Assignment.DeleteByApplicationIDs(ctx, ids)
	if err != nil {
		rollback(tx)
		return nil, storageErr(err)
	}
	notifications, err := txRepo.Notification.DeleteByRelated(ctx, "application", ids)
	if err != nil {
		rollback(tx)
		return nil, storageErr(err)
	}
	apps, err := txRepo.Application.DeleteByIDs(ctx, ids)
	if err != nil {
		rollback(tx)
		return nil, storageErr(err)
	}

	meta := map[string]any{
		"deleted_applications":  apps,
		"deleted_assignments":   assignments,
		"deleted_notifications": notifications,
	}
	for k, v := range extra {
		meta[k] = v
	}
	recordID := ""
	if len(ids) == 1 {
		recordID = ids[0]
	}
	s.audit(ctx, txRepo, action, &actorID, recordID, meta)

	if err := commit(tx); err != nil {
		return nil, storageErr(err)
	}

	return &dto.DeleteResponse{
		DeletedApplications:       apps,
		DeletedFacultyAssignments: assignments,
		DeletedNotifications:      notifications,
	}, nil
}

// ── helpers ──

func (s *applicationService) getApp(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, storageErr(err)
	}
	return app, nil
}

// audit writes one append-only trail entry. Failures are logged and
// swallowed: the trail must never break the workflow.
func (s *applicationService) audit(ctx context.Context, repo *repository.Repository, action string, actorID *string, recordID string, meta map[string]any) {
	entry := &model.AuditLogEntry{
		Action:  action,
		ActorID: actorID,
		Table:   "applications",
	}
	if recordID != "" {
		id := recordID
		entry.RecordID = &id
	}
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if err := repo.Audit.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

// notifyRole fans a notification out to every active holder of a role,
// optionally scoped to a department. Best effort.
func (s *applicationService) notifyRole(ctx context.Context, role, department, title, message, ntype, appID string) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	staff, err := s.repo.Staff.ListActiveByRole(sctx, role, department)
	if err != nil {
		s.logger.Warn("role fan-out listing failed", zap.String("role", role), zap.Error(err))
		return
	}
	params := make([]NotifyParams, 0, len(staff))
	for _, member := range staff {
		params = append(params, NotifyParams{
			UserID:            member.ID,
			Title:             title,
			Message:           message,
			Type:              ntype,
			RelatedEntityType: "application",
			RelatedEntityID:   appID,
		})
	}
	if _, err := s.notifier.NotifyBulk(ctx, params); err != nil {
		s.logger.Warn("role fan-out failed", zap.String("role", role), zap.Error(err))
	}
}

// stageLabel renders a verifier role for student-facing messages.
var stageLabels = map[string]string{
	model.RoleLibrary:       "Library",
	model.RoleHostel:        "Hostel",
	model.RoleCollegeOffice: "College Office",
	model.RoleFaculty:       "Faculty",
	model.RoleCounsellor:    "Counsellor",
	model.RoleClassAdvisor:  "Class Advisor",
	model.RoleHOD:           "HOD",
	model.RoleLabInstructor: "Payment & Lab",
}

func stageLabel(role string) string {
	if l, ok := stageLabels[role]; ok {
		return l
	}
	return role
}

func stageViews(app *model.Application) []dto.StageView {
	studentType := model.StudentTypeLocal
	if app.Student != nil {
		studentType = app.Student.StudentType
	}
	stages := workflow.ApplicableStages(studentType)
	views := make([]dto.StageView, 0, len(stages))
	for _, st := range stages {
		views = append(views, dto.StageView{
			Stage:    string(st),
			Verified: workflow.StageFlag(app, st),
			Comment:  stageComment(app, st),
		})
	}
	return views
}

func stageComment(app *model.Application, st workflow.Stage) *string {
	switch st {
	case workflow.StageLibrary:
		return app.LibraryComment
	case workflow.StageHostel:
		return app.HostelComment
	case workflow.StageCollegeOffice:
		return app.CollegeOfficeComment
	case workflow.StageFaculty:
		return app.FacultyComment
	case workflow.StageCounsellor:
		return app.CounsellorComment
	case workflow.StageClassAdvisor:
		return app.ClassAdvisorComment
	case workflow.StageHOD:
		return app.HODComment
	case workflow.StageLab:
		return app.LabComment
	}
	return nil
}

func toApplicationResponse(app *model.Application) dto.ApplicationResponse {
	studentType := model.StudentTypeLocal
	if app.Student != nil {
		studentType = app.Student.StudentType
	}
	resp := dto.ApplicationResponse{
		ID:            app.ID,
		StudentID:     app.StudentID,
		Department:    app.Department,
		Semester:      app.Semester,
		Batch:         app.Batch,
		Status:        app.Status,
		Progress:      workflow.Progress(app, studentType),
		Stages:        stageViews(app),
		TransactionID: app.TransactionID,
		CreatedAt:     app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     app.UpdatedAt.Format(time.RFC3339),
	}
	if app.Student != nil {
		resp.StudentName = app.Student.Name
		resp.USN = app.Student.USN
	}
	return resp
}

func toAssignmentViews(assignments []model.SubjectFacultyAssignment) []dto.AssignmentView {
	views := make([]dto.AssignmentView, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		view := dto.AssignmentView{
			ID:            a.ID,
			ApplicationID: a.ApplicationID,
			SubjectID:     a.SubjectID,
			FacultyID:     a.FacultyID,
			Verified:      a.FacultyVerified,
		}
		if a.Subject != nil {
			view.SubjectCode = a.Subject.Code
			view.SubjectName = a.Subject.Name
		}
		if a.Faculty != nil {
			view.FacultyName = a.Faculty.Name
		}
		views = append(views, view)
	}
	return views
}
