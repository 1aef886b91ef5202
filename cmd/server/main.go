package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/adforge/adforge/internal/config"
	"github.com/adforge/adforge/internal/core"
	"github.com/adforge/adforge/internal/core/expand"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/llm"
	"github.com/adforge/adforge/internal/logger"
	"github.com/adforge/adforge/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using built-in defaults", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	zl, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	clients, err := llm.NewClients(context.Background(), cfg.LLM)
	if err != nil {
		zl.Fatal("failed to initialize llm clients", "error", err)
	}

	generator := gen.NewAIGenerator(clients, cfg.Prompts, cfg.Generation)
	session := core.NewSession(generator, zl, expand.Options{
		PersonaVariations:      cfg.Generation.PersonaVariations,
		CreativeCount:          cfg.Generation.CreativeCount,
		AllowVisualExploration: cfg.Generation.AllowVisualExploration,
		BulkFanout:             cfg.Concurrency.BulkFanout,
	})

	srv := server.New(session, cfg, zl)
	r := srv.SetupRouter()

	zl.Info("starting server", "port", cfg.Server.Port, "provider", cfg.LLM.Provider)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zl.Fatal("server exited", "error", err)
	}
}
