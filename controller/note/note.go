package note

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamhub/dto"
	"teamhub/middleware"
	"teamhub/model"
	"teamhub/response"
	"teamhub/services"
	"teamhub/store"
)

func NoteController(router *gin.RouterGroup, env *services.Env) {
	routes := router.Group("/teams/:teamId/notes",
		middleware.AccessTokenMiddleware(env.Tokens),
		middleware.ActiveAccount(env.Store, env.Logger),
		middleware.TeamMember(env.Store, env.Logger),
	)
	{
		routes.GET("", func(c *gin.Context) {
			ListNotes(c, env)
		})
		routes.POST("", func(c *gin.Context) {
			CreateNote(c, env)
		})
		routes.GET("/:noteId", func(c *gin.Context) {
			GetNote(c, env)
		})
		routes.PUT("/:noteId", func(c *gin.Context) {
			UpdateNote(c, env)
		})
		routes.DELETE("/:noteId", func(c *gin.Context) {
			DeleteNote(c, env)
		})
	}
}

// cleanTags trims tags and drops empty and repeated ones.
func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !slices.Contains(cleaned, tag) {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

func ListNotes(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	notes, err := env.Store.ListNotes(c.Request.Context(), team.TeamID)
	if err != nil {
		response.Internal(c, env.Logger, "Failed to list notes", err)
		return
	}

	if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
		notes = slices.DeleteFunc(notes, func(n model.Note) bool {
			return !slices.Contains(n.Tags, tag)
		})
	}
	if notes == nil {
		notes = []model.Note{}
	}
	slices.SortStableFunc(notes, func(a, b model.Note) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	response.Success(c, http.StatusOK, "OK", gin.H{"notes": notes})
}

func CreateNote(c *gin.Context, env *services.Env) {
	var request dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}
	title := strings.TrimSpace(request.Title)
	if title == "" {
		response.Error(c, http.StatusBadRequest, "title is required")
		return
	}

	team := middleware.CurrentTeam(c)
	userID := middleware.CurrentUserID(c)
	now := env.Now()
	note := &model.Note{
		NoteID:       uuid.New().String(),
		TeamID:       team.TeamID,
		Title:        title,
		Content:      request.Content,
		Tags:         cleanTags(request.Tags),
		CreatedBy:    userID,
		LastEditedBy: userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := env.Store.SaveNote(c.Request.Context(), note); err != nil {
		response.Internal(c, env.Logger, "Failed to create note", err)
		return
	}
	response.Success(c, http.StatusCreated, "Note created successfully", gin.H{"note": note})
}

func loadNote(c *gin.Context, env *services.Env) (*model.Note, bool) {
	team := middleware.CurrentTeam(c)
	note, err := env.Store.GetNote(c.Request.Context(), team.TeamID, c.Param("noteId"))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Note not found")
		return nil, false
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to load note", err)
		return nil, false
	}
	return note, true
}

func GetNote(c *gin.Context, env *services.Env) {
	note, ok := loadNote(c, env)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"note": note})
}

func UpdateNote(c *gin.Context, env *services.Env) {
	var request dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.Error(c, http.StatusBadRequest, dto.ValidationMessage(err))
		return
	}
	if request.Title == nil && request.Content == nil && request.Tags == nil {
		response.Error(c, http.StatusBadRequest, "No data to update")
		return
	}

	note, ok := loadNote(c, env)
	if !ok {
		return
	}
	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			response.Error(c, http.StatusBadRequest, "title must not be empty")
			return
		}
		note.Title = title
	}
	if request.Content != nil {
		note.Content = *request.Content
	}
	if request.Tags != nil {
		note.Tags = cleanTags(*request.Tags)
	}
	note.LastEditedBy = middleware.CurrentUserID(c)
	note.UpdatedAt = env.Now()

	if err := env.Store.SaveNote(c.Request.Context(), note); err != nil {
		response.Internal(c, env.Logger, "Failed to update note", err)
		return
	}
	response.Success(c, http.StatusOK, "Note updated successfully", gin.H{"note": note})
}

func DeleteNote(c *gin.Context, env *services.Env) {
	team := middleware.CurrentTeam(c)
	err := env.Store.DeleteNote(c.Request.Context(), team.TeamID, c.Param("noteId"))
	if errors.Is(err, store.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		response.Internal(c, env.Logger, "Failed to delete note", err)
		return
	}
	response.Success(c, http.StatusOK, "Note deleted successfully", nil)
}
