package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acadify/acadify-api/internal/middleware"
	"github.com/acadify/acadify-api/internal/models"
	"github.com/acadify/acadify-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Class      *ClassHandler
	Formula    *FormulaHandler
	Assessment *AssessmentHandler
	Grade      *GradeHandler
	Enrollment *EnrollmentHandler
	GPA        *GPAHandler
	Student    *StudentHandler
	Report     *ReportHandler
	Term       *TermHandler
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, metrics *service.MetricsService) {
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := r.Group(prefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", middleware.JWT(auth), h.Auth.Logout)
		authGroup.GET("/me", middleware.JWT(auth), h.Auth.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStudent)

	classes := protected.Group("/classes")
	{
		classes.POST("", staff, h.Class.Create)
		classes.GET("", anyRole, h.Class.List)
		classes.GET("/:id", anyRole, h.Class.Get)

		classes.GET("/:id/formula", anyRole, h.Formula.Get)
		classes.GET("/:id/formula/editable", staff, h.Formula.Editable)
		classes.PUT("/:id/formula", staff, h.Formula.Update)
		classes.GET("/:id/conversion-table", anyRole, h.Formula.GetConversionTable)
		classes.PUT("/:id/conversion-table", staff, h.Formula.SetConversionTable)
		classes.DELETE("/:id/conversion-table", staff, h.Formula.ClearConversionTable)

		classes.POST("/:id/assessments", staff, h.Assessment.Create)
		classes.GET("/:id/assessments", anyRole, h.Assessment.ListByClass)

		classes.POST("/:id/enrollments", staff, h.Enrollment.Enroll)
		classes.GET("/:id/enrollments", staff, h.Enrollment.ListByClass)
		classes.DELETE("/:id/enrollments/:studentId", staff, h.Enrollment.Drop)
	}

	assessments := protected.Group("/assessments")
	{
		assessments.DELETE("/:id", staff, h.Assessment.Delete)

		grades := assessments.Group("/:id/grades/:studentId")
		{
			grades.GET("", anyRole, h.Grade.Get)
			grades.POST("/items", staff, h.Grade.RecordItem)
			grades.PUT("/components/:component/items/:index", staff, h.Grade.UpdateItem)
			grades.DELETE("/components/:component/items/:index", staff, h.Grade.DeleteItem)
			grades.GET("/components/:component/summary", anyRole, h.Grade.ComponentSummary)
			grades.POST("/override", staff, h.Grade.SetOverride)
			grades.DELETE("/override", staff, h.Grade.ClearOverride)
			grades.POST("/recalculate", staff, h.Grade.Recalculate)
		}
	}

	students := protected.Group("/students")
	{
		students.GET("", staff, h.Student.List)
		students.GET("/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.Student.Get)
		students.GET("/:id/enrollments", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.Enrollment.ListByStudent)
		students.GET("/:id/gpa/semester", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.GPA.Semester)
		students.GET("/:id/gpa/cumulative", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.GPA.Cumulative)
		students.DELETE("/:id/gpa/cache", staff, h.GPA.Invalidate)
		students.GET("/:id/report-card", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.Report.ReportCard)
	}

	term := protected.Group("/term")
	{
		term.GET("/current", anyRole, h.Term.Current)
		term.PUT("/current", middleware.RequireRoles(models.RoleAdmin), h.Term.SetCurrent)
	}
}
