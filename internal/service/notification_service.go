package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/model"
	"nodex/backend/internal/repository"
	"nodex/backend/pkg/redis"
)

var ErrNotificationNotFound = errors.New("notification not found")

// dashboardRoutes maps each role to its dashboard path, used for
// notification deep links. Explicit table; no substring matching on
// role names.
var dashboardRoutes = map[string]string{
	model.RoleStudent:       "/dashboard/student",
	model.RoleAdmin:         "/dashboard/admin",
	model.RoleLibrary:       "/dashboard/library",
	model.RoleHostel:        "/dashboard/hostel",
	model.RoleCollegeOffice: "/dashboard/college-office",
	model.RoleFaculty:       "/dashboard/faculty",
	model.RoleCounsellor:    "/dashboard/counsellor",
	model.RoleClassAdvisor:  "/dashboard/class-advisor",
	model.RoleHOD:           "/dashboard/hod",
	model.RoleLabInstructor: "/dashboard/lab-instructor",
}

// DashboardRoute returns the dashboard path for a role, empty when
// the role is unknown.
func DashboardRoute(role string) string {
	return dashboardRoutes[role]
}

// NotifyParams describes one notification to create.
type NotifyParams struct {
	UserID            string
	Title             string
	Message           string
	Type              string
	RelatedEntityType string
	RelatedEntityID   string
}

// NotificationService persists notifications and pushes them live.
type NotificationService interface {
	Notify(ctx context.Context, p NotifyParams) (*model.Notification, error)
	NotifyBulk(ctx context.Context, params []NotifyParams) ([]model.Notification, error)
	List(ctx context.Context, userID, role string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	repo    *repository.Repository
	rdb     *redis.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewNotificationService creates the NotificationService. rdb may be
// nil when Redis is unavailable.
func NewNotificationService(repo *repository.Repository, rdb *redis.Client, timeout time.Duration, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, rdb: rdb, timeout: timeout, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, p NotifyParams) (*model.Notification, error) {
	notification := toModel(p)

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Notification.Create(sctx, notification); err != nil {
		return nil, storageErr(err)
	}

	s.publish(ctx, notification)
	return notification, nil
}

func (s *notificationService) NotifyBulk(ctx context.Context, params []NotifyParams) ([]model.Notification, error) {
	if len(params) == 0 {
		return nil, nil
	}

	notifications := make([]model.Notification, 0, len(params))
	for _, p := range params {
		notifications = append(notifications, *toModel(p))
	}

	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Notification.BatchCreate(sctx, notifications); err != nil {
		return nil, storageErr(err)
	}

	for i := range notifications {
		s.publish(ctx, &notifications[i])
	}
	return notifications, nil
}

// publish pushes the stored notification to the recipient's channel.
// Best effort: the row is already committed.
func (s *notificationService) publish(ctx context.Context, n *model.Notification) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.PublishNotification(ctx, n.UserID, n); err != nil {
		s.logger.Warn("realtime notification push failed",
			zap.String("notification_id", n.ID),
			zap.String("user_id", n.UserID),
			zap.Error(err))
	}
}

func (s *notificationService) List(ctx context.Context, userID, role string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	notifications, total, err := s.repo.Notification.ListByUser(sctx, userID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list notifications failed", zap.Error(err))
		return nil, 0, storageErr(err)
	}

	route := DashboardRoute(role)
	result := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resp := toNotificationResponse(&notifications[i])
		resp.Route = route
		result = append(result, resp)
	}
	return result, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	count, err := s.repo.Notification.CountUnread(sctx, userID)
	return count, storageErr(err)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	notification, err := s.repo.Notification.GetByID(sctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return storageErr(err)
	}
	// recipients may only touch their own feed
	if notification.UserID != userID {
		return ErrNotificationNotFound
	}

	return storageErr(s.repo.Notification.MarkRead(sctx, notificationID))
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	sctx, cancel := storageCtx(ctx, s.timeout)
	defer cancel()

	n, err := s.repo.Notification.MarkAllRead(sctx, userID)
	return n, storageErr(err)
}

// ── helpers ──

func toModel(p NotifyParams) *model.Notification {
	n := &model.Notification{
		UserID:  p.UserID,
		Title:   p.Title,
		Message: p.Message,
		Type:    p.Type,
	}
	if p.RelatedEntityType != "" {
		t := p.RelatedEntityType
		n.RelatedEntityType = &t
	}
	if p.RelatedEntityID != "" {
		id := p.RelatedEntityID
		n.RelatedEntityID = &id
	}
	return n
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:                n.ID,
		Title:             n.Title,
		Message:           n.Message,
		Type:              n.Type,
		Read:              n.Read,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		CreatedAt:         n.CreatedAt.Format(time.RFC3339),
	}
}
