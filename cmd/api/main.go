package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"


	"alfredoptarigan/resume-analyzer/internal/bootstrap"
	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()

	clients, err := bootstrap.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize clients: %v", err)
	}
	defer clients.Close()

	// Initialize services
	intakeService := services.NewIntakeService(
		clients.Resumes,
		clients.Storage,
		clients.Queue,
		cfg.Storage.BucketName,
		cfg.Storage.MaxFileSize,
	)
	statusService := services.NewStatusService(clients.Resumes)
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(intakeService)
	statusHandler := handlers.NewStatusHandler(statusService)
	log.Println("✅ Handlers initialized")

	app := handlers.NewApp(handlers.AppConfig{
		Name:        "Resume Analyzer API",
		MaxFileSize: cfg.Storage.MaxFileSize,
	}, uploadHandler, statusHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
