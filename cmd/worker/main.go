package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/resume-analyzer/internal/bootstrap"
	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()

	clients, err := bootstrap.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize clients: %v", err)
	}
	defer clients.Close()

	if err := clients.WithGenerator(ctx, cfg); err != nil {
		log.Fatalf("❌ Failed to initialize inference client: %v", err)
	}

	analyzer := services.NewAnalyzerService(
		clients.Resumes,
		clients.Storage,
		services.NewTextExtractor(),
		clients.Generator,
		clients.Profile,
	)
	log.Println("✅ Analyzer service initialized")

	worker := services.NewWorker(clients.Queue, analyzer, cfg.Worker.Concurrency)
	worker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Shutting down worker...")
	worker.Stop()
}
