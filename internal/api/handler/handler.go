package handler

import "nodex/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Application  *ApplicationHandler
	Student      *StudentHandler
	Staff        *StaffHandler
	Subject      *SubjectHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler builds the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Application:  NewApplicationHandler(svc.Application),
		Student:      NewStudentHandler(svc.Student),
		Staff:        NewStaffHandler(svc.Staff),
		Subject:      NewSubjectHandler(svc.Subject),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
