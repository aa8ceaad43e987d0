package task

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamhub/dto"
	"teamhub/middleware"
	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
)

func validProgress(c *gin.Context, progress *int) bool {
	if progress != nil && (*progress < 0 || *progress > 100) {
		response.Error(c, http.StatusBadRequest, "progress must be between 0 and 100")
		return false
	}
	return true
}

func parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	t, err := services.ParseTaskDate(value)
	if err != nil {
		response.Error(c, http.StatusBadRequest, field+": "+err.Error())
		return time.Time{}, false
	}
	return t, true
}

func scheduleError(c *gin.Context, env *services.Env, err error) {
	switch {
	case errors.Is(err, services.ErrEndBeforeStart),
		errors.Is(err, services.ErrSelfDependency),
		errors.Is(err, services.ErrUnknownDependency):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.Internal(c, env.Logger, "Failed to save task", err)
	}
}

func CreateTask(c *gin.Context, env *services.Env) {
	var request dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}
	name := strings.TrimSpace(request.Name)
	if name == "" {
		response.Error(c, http.StatusBadRequest, "name is required")
		return
	}
	if !validProgress(c, request.Progress) {
		return
	}

	taskType := request.Type
	if taskType == "" {
		taskType = model.TaskTypeTask
	}

	start, ok := parseDate(c, "start", request.Start)
	if !ok {
		return
	}
	end := start
	switch {
	case request.End != "":
		if end, ok = parseDate(c, "end", request.End); !ok {
			return
		}
	case taskType != model.TaskTypeMilestone:
		response.Error(c, http.StatusBadRequest, "end is required")
		return
	}
	if err := services.ValidateSchedule(start, end); err != nil {
		scheduleError(c, env, err)
		return
	}

	team := middleware.CurrentTeam(c)
	if request.AssigneeID != "" && !team.HasUser(request.AssigneeID) {
		response.Error(c, http.StatusBadRequest, "Assignee must be a member of this team")
		return
	}

	ctx := c.Request.Context()
	existing, err := env.Store.ListTasks(ctx, team.TeamID)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load tasks", err)
		return
	}

	taskID := uuid.New().String()
	dependencies, err := services.NormalizeDependencies(taskID, request.Dependencies, existing)
	if err != nil {
		scheduleError(c, env, err)
		return
	}

	displayOrder := len(existing)
	if request.DisplayOrder != nil {
		displayOrder = *request.DisplayOrder
	}

	now := env.Now()
	task := &model.ProjectTask{
		TaskID:       taskID,
		TeamID:       team.TeamID,
		Name:         name,
		Start:        start,
		End:          end,
		Type:         taskType,
		AssigneeID:   request.AssigneeID,
		Dependencies: dependencies,
		DisplayOrder: displayOrder,
		CreatedBy:    middleware.CurrentUserID(c),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if request.Progress != nil {
		task.Progress = *request.Progress
	} else {
		task.AutoProgress = true
	}
	services.RefreshProgress(task, now)

	if err := env.Store.SaveTask(ctx, task); err != nil {
		response.Internal(c, env.Logger, "Failed to create task", err)
		return
	}
	response.Success(c, http.StatusCreated, "Task created successfully", gin.H{"task": task})
}

func UpdateTask(c *gin.Context, env *services.Env) {
	var request dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}
	if !validProgress(c, request.Progress) {
		return
	}

	task, ok := loadTask(c, env)
	if !ok {
		return
	}
	now := env.Now()
	services.RefreshProgress(task, now)

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			response.Error(c, http.StatusBadRequest, "name must not be empty")
			return
		}
		task.Name = name
	}
	if request.Type != nil {
		task.Type = *request.Type
	}
	if request.Start != nil {
		if task.Start, ok = parseDate(c, "start", *request.Start); !ok {
			return
		}
	}
	if request.End != nil {
		switch {
		case *request.End != "":
			if task.End, ok = parseDate(c, "end", *request.End); !ok {
				return
			}
		case task.Type == model.TaskTypeMilestone:
			task.End = task.Start
		default:
			response.Error(c, http.StatusBadRequest, "end is required")
			return
		}
	}
	if err := services.ValidateSchedule(task.Start, task.End); err != nil {
		scheduleError(c, env, err)
		return
	}

	team := middleware.CurrentTeam(c)
	if request.AssigneeID != nil {
		if *request.AssigneeID != "" && !team.HasUser(*request.AssigneeID) {
			response.Error(c, http.StatusBadRequest, "Assignee must be a member of this team")
			return
		}
		task.AssigneeID = *request.AssigneeID
	}

	ctx := c.Request.Context()
	if request.Dependencies != nil {
		teamTasks, err := env.Store.ListTasks(ctx, team.TeamID)
		if err != nil {
			response.Internal(c, env.Logger, "Failed to load tasks", err)
			return
		}
		dependencies, err := services.NormalizeDependencies(task.TaskID, *request.Dependencies, teamTasks)
		if err != nil {
			scheduleError(c, env, err)
			return
		}
		task.Dependencies = dependencies
	}
	if request.DisplayOrder != nil {
		task.DisplayOrder = *request.DisplayOrder
	}

	switch {
	case request.Progress != nil:
		task.Progress = *request.Progress
		task.AutoProgress = false
	case request.AutoProgress != nil:
		task.AutoProgress = *request.AutoProgress
	}
	services.RefreshProgress(task, now)
	task.UpdatedAt = now

	if err := env.Store.SaveTask(ctx, task); err != nil {
		response.Internal(c, env.Logger, "Failed to update task", err)
		return
	}
	response.Success(c, http.StatusOK, "Task updated successfully", gin.H{"task": task})
}
