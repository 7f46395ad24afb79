package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-portal-api/internal/middleware"
	"github.com/noah-isme/college-portal-api/internal/models"
	"github.com/noah-isme/college-portal-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Admin        *AdminHandler
	Taxonomy     *TaxonomyHandler
	Notes        *NoteHandler
	Projects     *ProjectHandler
	QuestionBank *QuestionBankHandler
	Assignments  *AssignmentHandler
	Dashboards   *DashboardHandler
}

// RegisterRoutes mounts all portal endpoints under the API prefix.
// Uploads and listings stay usable for any authenticated account;
// only the dashboards additionally require admin approval.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", middleware.JWT(auth), h.Auth.Logout)
		authGroup.GET("/me", middleware.JWT(auth), h.Auth.Me)
	}

	admin := api.Group("/admin", middleware.JWT(auth), middleware.Superuser())
	{
		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/users/:id/approve", h.Admin.Approve)
		admin.POST("/users/:id/reject", h.Admin.Reject)
	}

	taxonomy := api.Group("", middleware.JWT(auth))
	{
		taxonomy.POST("/semesters", middleware.RequireRoles(models.RoleAdmin), h.Taxonomy.CreateSemester)
		taxonomy.GET("/semesters", h.Taxonomy.ListSemesters)
		taxonomy.POST("/subjects", middleware.RequireRoles(models.RoleAdmin), h.Taxonomy.CreateSubject)
		taxonomy.GET("/subjects", h.Taxonomy.ListSubjects)
		taxonomy.GET("/subjects/options", h.Taxonomy.SubjectsBySemester)
	}

	notes := api.Group("/notes")
	{
		notes.POST("", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Notes.Upload)
		notes.GET("/mine", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Notes.ListMine)
		notes.GET("", middleware.JWT(auth), h.Notes.List)
		notes.GET("/download", h.Notes.Download)
	}

	projects := api.Group("/projects")
	{
		projects.POST("/main", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Projects.CreateMain)
		projects.PUT("/main/:id", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Projects.UpdateMain)
		projects.GET("/main", middleware.JWT(auth), h.Projects.ListMain)
		projects.GET("/main/export", middleware.JWT(auth), h.Projects.ExportMain)
		projects.GET("/main/:id", middleware.JWT(auth), h.Projects.GetMain)
		projects.POST("/main/:id/files", middleware.JWT(auth), h.Projects.AttachMainFile)
		projects.POST("/mini", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Projects.CreateMini)
		projects.GET("/mini", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Projects.ListMini)
		projects.GET("/mini/:id", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Projects.GetMini)
		projects.POST("/mini/:id/files", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Projects.AttachMiniFile)
		projects.GET("/files/download", h.Projects.DownloadFile)
	}

	questionBanks := api.Group("/question-banks")
	{
		questionBanks.POST("", middleware.JWT(auth), h.QuestionBank.Upload)
		questionBanks.GET("", middleware.JWT(auth), h.QuestionBank.List)
		questionBanks.GET("/download", h.QuestionBank.Download)
	}

	assignments := api.Group("/assignments")
	{
		assignments.POST("", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Assignments.Create)
		assignments.GET("/mine", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Assignments.ListMine)
		assignments.GET("", middleware.JWT(auth), h.Assignments.List)
		assignments.GET("/submissions/download", h.Assignments.DownloadSubmission)
		assignments.GET("/submissions/:id/link", middleware.JWT(auth), h.Assignments.SubmissionLink)
		assignments.GET("/:id", middleware.JWT(auth), middleware.RequireRoles(models.RoleFaculty), h.Assignments.Get)
		assignments.POST("/:id/submissions", middleware.JWT(auth), middleware.RequireRoles(models.RoleStudent), h.Assignments.Submit)
	}

	dashboards := api.Group("/dashboards", middleware.JWT(auth))
	{
		dashboards.GET("/faculty", middleware.RequireRoles(models.RoleFaculty), middleware.Approved(), h.Dashboards.Faculty)
		dashboards.GET("/student", middleware.RequireRoles(models.RoleStudent), middleware.Approved(), h.Dashboards.Student)
		dashboards.GET("/admin", middleware.Superuser(), h.Dashboards.Admin)
	}
}
