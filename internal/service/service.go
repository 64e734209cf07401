package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nodex/backend/config"
	"nodex/backend/internal/repository"
	"nodex/backend/pkg/apperrors"
	"nodex/backend/pkg/redis"
)

// Service aggregates every business-logic entry point.
type Service struct {
	Application  ApplicationService
	Student      StudentService
	Staff        StaffService
	Subject      SubjectService
	Notification NotificationService
	Export       ExportService
}

// NewService builds the service aggregate. rdb may be nil; realtime
// push then degrades to store-only notifications.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	timeout := cfg.Database.StorageTimeout
	notification := NewNotificationService(repo, rdb, timeout, logger)
	return &Service{
		Application:  NewApplicationService(repo, notification, timeout, logger),
		Student:      NewStudentService(repo, timeout, logger),
		Staff:        NewStaffService(repo, timeout, logger),
		Subject:      NewSubjectService(repo, timeout, logger),
		Notification: notification,
		Export:       NewExportService(repo, timeout, logger),
	}
}

// storageCtx derives the per-call entity-store deadline.
func storageCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// commit and rollback tolerate the nil tx a database-less repository
// aggregate hands out.
func commit(tx *gorm.DB) error {
	if tx == nil {
		return nil
	}
	return tx.Commit().Error
}

func rollback(tx *gorm.DB) {
	if tx != nil {
		tx.Rollback()
	}
}

// storageErr maps a deadline miss to the storage-timeout sentinel so
// callers can treat it as transient.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrStorageTimeout
	}
	return err
}
