package main

import (
	"context"
	"log"

	"github.com/projectpilot/orchestrator-backend/config"
	"github.com/projectpilot/orchestrator-backend/internal/agent"
	"github.com/projectpilot/orchestrator-backend/internal/bootstrap"
	"github.com/projectpilot/orchestrator-backend/internal/conversations"
	"github.com/projectpilot/orchestrator-backend/internal/github"
	"github.com/projectpilot/orchestrator-backend/internal/projects"
	"github.com/projectpilot/orchestrator-backend/internal/telegram"
)

const serviceName = "orchestrator-backend"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if redisClient == nil {
		log.Println("REDIS_URL not set, project cache disabled")
	}

	projectSvc := projects.NewService(projects.NewRepo(db), projects.NewCache(redisClient))
	ledger := conversations.NewRepo(db)

	reasoner, err := agent.NewGeminiReasoner(ctx, cfg.Agent.GeminiAPIKey, cfg.Agent.Model)
	if err != nil {
		log.Fatalf("reasoner: %v", err)
	}

	orch := agent.NewOrchestrator(projectSvc, ledger, reasoner, agent.Config{
		RetryBudget:       cfg.Agent.RetryBudget,
		RequestsPerMinute: cfg.Agent.RequestsPerMinute,
	})

	var ghClient *github.Client
	if cfg.GitHub.Token != "" {
		ghClient, err = github.NewClient(ctx, cfg.GitHub.Token, cfg.GitHub.Owner)
		if err != nil {
			log.Fatalf("github: %v", err)
		}
	} else {
		log.Println("GITHUB_ACCESS_TOKEN not set, repository provisioning disabled")
	}

	var tgClient *telegram.Client
	if cfg.Telegram.BotToken != "" {
		tgClient = telegram.NewClient(cfg.Telegram.BotToken)
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, webhook disabled")
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   serviceName,
		Version:       cfg.App.Version,
		Environment:   cfg.App.Environment,
		APIKey:        cfg.Server.APIKey,
		DB:            db,
		Redis:         redisClient,
		Projects:      projectSvc,
		Conversations: ledger,
		Orchestrator:  orch,
		GitHub:        ghClient,
		Telegram:      tgClient,
	})

	log.Printf("%s %s listening on :%s", serviceName, cfg.App.Version, cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
