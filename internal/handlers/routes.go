package handlers

import (
	"task_analytics/internal/auth"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Health    *HealthHandler
	Tasks     *TaskHandler
	Projects  *ProjectHandler
	Tags      *TagHandler
	Analytics *AnalyticsHandler
	Goals     *GoalHandler
	Profile   *ProfileHandler
}

// RegisterRoutes mounts the API under /api. Only /api/health is reachable
// without a bearer token.
func RegisterRoutes(r *gin.Engine, h Handlers, verifier auth.Verifier) {
	api := r.Group("/api")
	api.GET("/health", h.Health.CheckHealth)

	secured := api.Group("")
	secured.Use(auth.Middleware(verifier))
	{
		secured.GET("/me", h.Profile.Me)
		secured.POST("/auth/logout", h.Profile.Logout)

		secured.GET("/tasks", h.Tasks.ListTasks)
		secured.POST("/tasks", h.Tasks.CreateTask)
		secured.PUT("/tasks", h.Tasks.UpdateTask)
		secured.DELETE("/tasks", h.Tasks.DeleteTask)

		secured.GET("/tasks/tags", h.Tags.ListTaskTags)
		secured.POST("/tasks/tags", h.Tags.AttachTag)
		secured.DELETE("/tasks/tags", h.Tags.DetachTag)

		secured.GET("/projects", h.Projects.ListProjects)
		secured.POST("/projects", h.Projects.CreateProject)
		secured.PUT("/projects", h.Projects.UpdateProject)
		secured.DELETE("/projects", h.Projects.DeleteProject)

		secured.GET("/tags", h.Tags.ListTags)
		secured.POST("/tags", h.Tags.CreateTag)
		secured.PUT("/tags", h.Tags.UpdateTag)
		secured.DELETE("/tags", h.Tags.DeleteTag)

		secured.GET("/analytics/activities", h.Analytics.ListActivities)
		secured.POST("/analytics/activities", h.Analytics.RecordActivity)
		secured.GET("/analytics/dashboard", h.Analytics.Dashboard)
		secured.GET("/analytics/reports", h.Analytics.Report)
		secured.GET("/analytics/preferences", h.Analytics.GetPreferences)
		secured.PUT("/analytics/preferences", h.Analytics.UpdatePreferences)

		secured.GET("/goals", h.Goals.ListGoals)
		secured.POST("/goals", h.Goals.CreateGoal)
		secured.PUT("/goals", h.Goals.UpdateGoal)
		secured.DELETE("/goals", h.Goals.DeleteGoal)
	}
}
