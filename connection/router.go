package connection

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"teamhub/controller/auth"
	"teamhub/controller/note"
	"teamhub/controller/task"
	"teamhub/controller/team"
	"teamhub/controller/user"
	"teamhub/controller/video"
	"teamhub/dto"
	"teamhub/services"
)

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter assembles the gin engine with every API route under /api.
func NewRouter(env *services.Env) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.Default()
	if err := router.SetTrustedProxies(env.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(cors.New(corsConfig(env.Config.Origins)))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	api := router.Group("/api")
	auth.AuthController(api, env)
	user.UserController(api, env)
	team.TeamController(api, env)
	note.NoteController(api, env)
	task.TaskController(api, env)
	video.VideoController(api, env)

	return router, nil
}
