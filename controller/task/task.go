package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/middleware"
	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
	"teamhub/store"
)

func TaskController(router *gin.RouterGroup, env *services.Env) {
	routes := router.Group("/teams/:teamId/tasks",
		middleware.AccessTokenMiddleware(env.Tokens),
		middleware.ActiveAccount(env.Store, env.Logger),
		middleware.TeamMember(env.Store, env.Logger),
	)
	{
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, env)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, env)
		})
		routes.GET("/:taskId", func(c *gin.Context) {
			GetTask(c, env)
		})
		routes.PUT("/:taskId", func(c *gin.Context) {
			UpdateTask(c, env)
		})
		routes.DELETE("/:taskId", func(c *gin.Context) {
			DeleteTask(c, env)
		})
	}
}

func ListTasks(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	tasks, err := env.Store.ListTasks(c.Request.Context(), team.TeamID)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to list tasks", err)
		return
	}

	now := env.Now()
	for i := range tasks {
		services.RefreshProgress(&tasks[i], now)
	}
	services.SortTasks(tasks)
	if tasks == nil {
		tasks = []model.ProjectTask{}
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"tasks": tasks})
}

func loadTask(c *gin.Context, env *services.Env) (*model.ProjectTask, bool) {
	team := middleware.CurrentTeam(c)
	task, err := env.Store.GetTask(c.Request.Context(), team.TeamID, c.Param("taskId"))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Task not found")
		return nil, false
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load task", err)
		return nil, false
	}
	return task, true
}

func GetTask(c *gin.Context, env *services.Env) {
	task, ok := loadTask(c, env)
	if !ok {
		return
	}
	services.RefreshProgress(task, env.Now())
	response.Success(c, http.StatusOK, "OK", gin.H{"task": task})
}

// DeleteTask removes the task and drops it from the dependencies of the
// remaining tasks of the team.
func DeleteTask(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	taskID := c.Param("taskId")
	ctx := c.Request.Context()

	err := env.Store.DeleteTask(ctx, team.TeamID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to delete task", err)
		return
	}

	remaining, err := env.Store.ListTasks(ctx, team.TeamID)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to update task dependencies", err)
		return
	}
	now := env.Now()
	for _, dependent := range services.StripDependency(remaining, taskID) {
		dependent.UpdatedAt = now
		if err := env.Store.SaveTask(ctx, dependent); err != nil {
			response.Internal(c, env.Logger, "Failed to update task dependencies", err)
			return
		}
	}
	response.Success(c, http.StatusOK, "Task deleted successfully", nil)
}
