package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"finsight/internal/agent"
	"finsight/internal/config"
	"finsight/internal/handler"
	"finsight/internal/inspect"
	"finsight/internal/port"
	"finsight/internal/query"
	"finsight/internal/repository/postgres"
	"finsight/internal/router"
	"finsight/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Best-effort: a .env file is a development convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	reportStore := postgres.NewReportStore(db)
	conversationRepo := postgres.NewConversationRepo(db)

	// Initialize query tools
	inspector := inspect.New(db, cfg.DB.DSN())
	executor := query.NewExecutor(db, cfg.Query)
	tools := query.NewTools(inspector, executor)

	// Initialize the chat agent; the server still serves reports and direct
	// queries when no model is configured.
	geminiAgent, err := agent.NewGemini(context.Background(), cfg.Agent, tools)
	if err != nil {
		log.Printf("chat agent disabled: %v", err)
	}

	// Initialize services
	reportSvc := service.NewReportService(reportStore)
	var chatAgent port.Agent
	if geminiAgent != nil {
		chatAgent = geminiAgent
	}
	chatSvc := service.NewChatService(conversationRepo, chatAgent)

	// Initialize handlers
	healthH := handler.NewHealthHandler(db)
	reportH := handler.NewReportHandler(reportSvc)
	chatH := handler.NewChatHandler(chatSvc)
	queryH := handler.NewQueryHandler(tools)

	// Setup router
	r := router.Setup(healthH, reportH, chatH, queryH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
