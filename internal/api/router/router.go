package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nodex/backend/config"
	"nodex/backend/internal/api/handler"
	"nodex/backend/internal/api/middleware"
	"nodex/backend/internal/model"
	"nodex/backend/pkg/jwt"
	"nodex/backend/pkg/redis"
)

// maxRequestBody leaves headroom over the import upload cap.
const maxRequestBody = 12 << 20

// verifierRoles are the roles that act on verification stages.
var verifierRoles = []string{
	model.RoleLibrary,
	model.RoleHostel,
	model.RoleCollegeOffice,
	model.RoleFaculty,
	model.RoleCounsellor,
	model.RoleClassAdvisor,
	model.RoleHOD,
	model.RoleLabInstructor,
}

// Setup builds the Gin engine with all routes wired.
func Setup(cfg *config.Config, h *handler.Handler, verifier *jwt.Verifier, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxRequestBody))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1, all authenticated ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(rdb, 120, time.Minute))
	v1.Use(middleware.JWTAuth(verifier))
	{
		applications := v1.Group("/applications")
		{
			applications.POST("", middleware.RoleAuth(model.RoleStudent), h.Application.Submit)
			applications.GET("/mine", middleware.RoleAuth(model.RoleStudent), h.Application.ListMine)
			applications.GET("/queue", middleware.RoleAuth(verifierRoles...), h.Application.Queue)
			applications.GET("/faculty-queue", middleware.RoleAuth(model.RoleFaculty), h.Application.FacultyQueue)
			applications.GET("/tracker", middleware.RoleAuth(model.RoleAdmin), h.Application.Track)
			applications.POST("/delete-all", middleware.RoleAuth(model.RoleAdmin), h.Application.DeleteAll)
			applications.GET("/:id", h.Application.Get)
			applications.GET("/:id/subjects", h.Application.Assignments)
			applications.GET("/:id/certificate", h.Application.Certificate)
			applications.POST("/:id/verify", middleware.RoleAuth(verifierRoles...), h.Application.Verify)
			applications.POST("/:id/payment", middleware.RoleAuth(model.RoleStudent), h.Application.SubmitPayment)
			applications.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Application.Delete)
		}

		students := v1.Group("/students")
		{
			students.GET("/me", middleware.RoleAuth(model.RoleStudent), h.Student.Me)
			students.PUT("/me/profile", middleware.RoleAuth(model.RoleStudent), h.Student.CompleteProfile)
			students.GET("", middleware.RoleAuth(model.RoleAdmin), h.Student.List)
			students.POST("", middleware.RoleAuth(model.RoleAdmin), h.Student.Create)
			students.POST("/import", middleware.RoleAuth(model.RoleAdmin), h.Student.Import)
			students.POST("/bump-semester", middleware.RoleAuth(model.RoleAdmin), h.Student.BumpSemester)
			students.GET("/:id", middleware.RoleAuth(model.RoleAdmin), h.Student.Get)
		}

		staff := v1.Group("/staff")
		{
			staff.GET("/me", h.Staff.Me)
			// Students pull faculty lists when composing an application.
			staff.GET("/by-role/:role", h.Staff.ListByRole)
			staff.GET("", middleware.RoleAuth(model.RoleAdmin), h.Staff.List)
			staff.POST("", middleware.RoleAuth(model.RoleAdmin), h.Staff.Create)
			staff.GET("/:id", middleware.RoleAuth(model.RoleAdmin), h.Staff.Get)
			staff.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Staff.Update)
			staff.PUT("/:id/roles/:role", middleware.RoleAuth(model.RoleAdmin), h.Staff.AssignRole)
			staff.DELETE("/:id/roles/:role", middleware.RoleAuth(model.RoleAdmin), h.Staff.RevokeRole)
		}

		subjects := v1.Group("/subjects")
		{
			subjects.GET("", h.Subject.List)
			subjects.GET("/:id", h.Subject.Get)
			subjects.POST("", middleware.RoleAuth(model.RoleAdmin), h.Subject.Create)
			subjects.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Subject.Update)
			subjects.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Subject.Delete)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.GET("/unread-count", h.Notification.UnreadCount)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}

		export := v1.Group("/export")
		{
			export.GET("/tracker", middleware.RoleAuth(model.RoleAdmin), h.Export.ExportTracker)
		}
	}

	return r
}
