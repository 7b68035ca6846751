package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/classforge/report-card-api/internal/middleware"
	"github.com/classforge/report-card-api/internal/models"
	"github.com/classforge/report-card-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	ReportCards *ReportCardHandler
	Attendance  *AttendanceHandler
	GradeScales *GradeScaleHandler
	ExamResults *ExamResultHandler
}

// RegisterRoutes mounts the versioned API onto the engine. Ownership rules
// for students and parents live in the services; the route level only gates
// by role.
func RegisterRoutes(r *gin.Engine, h Handlers, authService *service.AuthService) {
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWT(authService), h.Auth.Me)
	}

	protected := v1.Group("")
	protected.Use(middleware.JWT(authService))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleBursar)
	anyReader := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleBursar, models.RoleStudent, models.RoleParent)
	editors := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	reports := protected.Group("/report-cards")
	{
		reports.GET("/student/:studentId", anyReader, h.ReportCards.StudentReportCard)
		reports.GET("/student/:studentId/export", anyReader, h.ReportCards.ExportStudentReportCard)
		reports.GET("/class/:classId", staff, h.ReportCards.ClassReportSummary)
	}

	attendance := protected.Group("/attendance")
	{
		attendance.POST("", editors, h.Attendance.Record)
		attendance.GET("/summary/:studentId", anyReader, h.ReportCards.AttendanceSummary)
	}

	scales := protected.Group("/grade-scales")
	{
		scales.GET("", editors, h.GradeScales.List)
		scales.POST("", middleware.RequireRoles(models.RoleAdmin), h.GradeScales.Create)
		scales.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.GradeScales.Update)
		scales.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.GradeScales.Delete)
	}

	results := protected.Group("/exam-results")
	{
		results.POST("", editors, h.ExamResults.Upsert)
		results.POST("/bulk", editors, h.ExamResults.BulkUpsert)
	}
}
