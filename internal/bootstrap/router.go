package bootstrap

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/projectpilot/orchestrator-backend/internal/agent"
	httpapi "github.com/projectpilot/orchestrator-backend/internal/api/http"
	"github.com/projectpilot/orchestrator-backend/internal/conversations"
	"github.com/projectpilot/orchestrator-backend/internal/github"
	"github.com/projectpilot/orchestrator-backend/internal/projects"
	"github.com/projectpilot/orchestrator-backend/internal/telegram"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Environment string
	APIKey      string

	DB    *pgxpool.Pool
	Redis *redis.Client

	Projects      *projects.Service
	Conversations *conversations.Repo
	Orchestrator  *agent.Orchestrator
	GitHub        *github.Client   // nil when unconfigured
	Telegram      *telegram.Client // nil when unconfigured
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	SetGinMode(dep.Environment)

	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(apiKeyMiddleware(dep.APIKey))

	projectsGroup := api.Group("/projects")
	projects.Register(projectsGroup, dep.Projects, dep.Conversations)
	agent.RegisterTurnRoutes(projectsGroup, dep.Orchestrator)
	github.Register(projectsGroup, dep.GitHub, dep.Projects)

	if dep.Telegram != nil {
		telegram.RegisterWebhook(r, dep.Telegram, dep.Orchestrator, dep.Projects)
	}

	return r
}

// apiKeyMiddleware rejects API requests without the configured key. An empty
// configured key disables the check (local development).
func apiKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key != "" && c.GetHeader("X-API-Key") != key {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid api key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
