package api

import (
	"github.com/EDU-jjkr/EDUAI/internal/auth"
	"github.com/EDU-jjkr/EDUAI/internal/models"
	"github.com/EDU-jjkr/EDUAI/internal/services"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the route handlers need.
type Services struct {
	Users    *services.UserService
	Content  *services.ContentService
	Chapters *services.ChapterService
	Doubts   *services.DoubtService
	Export   *services.ExportService
	Roster   *services.RosterService
}

func SetupRoutes(r *gin.Engine, issuer *auth.TokenIssuer, svc Services) {
	api := r.Group("/api", auth.AuthMiddleware(issuer, svc.Users))
	{
		api.POST("/content/generate", generateContentHandler(svc.Content))
		api.GET("/content", listContentHandler(svc.Content))
		api.GET("/content/:id", getContentHandler(svc.Content))
		api.GET("/content/:id/export", exportContentHandler(svc.Content, svc.Export))

		staff := api.Group("", auth.RequireRole(models.RoleTeacher, models.RoleAdmin))
		{
			staff.PUT("/content/:id/revise", reviseContentHandler(svc.Content))
			staff.DELETE("/content/:id", deleteContentHandler(svc.Content))
			staff.POST("/chapters", uploadChapterHandler(svc.Chapters))
		}
		api.GET("/chapters", listChaptersHandler(svc.Chapters))

		students := api.Group("", auth.RequireRole(models.RoleStudent))
		{
			students.POST("/doubts", askDoubtHandler(svc.Doubts))
			students.GET("/doubts", doubtHistoryHandler(svc.Doubts))
		}

		admin := api.Group("/admin", auth.RequireRole(models.RoleAdmin))
		{
			admin.POST("/schools", createSchoolHandler(svc.Users))
			admin.POST("/users", createUserHandler(svc.Users))
			admin.GET("/users", listUsersHandler(svc.Users))
			admin.POST("/students/import", importRosterHandler(svc.Roster))
		}
	}
}
