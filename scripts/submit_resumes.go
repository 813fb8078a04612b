package main

import (
	"context"
	"encoding/base64"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/bootstrap"
	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

var submitExtensions = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

func main() {
	dir := flag.String("dir", "./resumes", "directory holding the resumes to submit")
	flag.Parse()

	log.Println("🚀 Starting resume submission...")

	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	clients, err := bootstrap.NewClients(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize clients: %v", err)
	}
	defer clients.Close()

	intakeService := services.NewIntakeService(
		clients.Resumes,
		clients.Storage,
		clients.Queue,
		cfg.Storage.BucketName,
		cfg.Storage.MaxFileSize,
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *dir, err)
	}

	successCount := 0
	failCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		contentType, ok := submitExtensions[ext]
		if !ok {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		log.Printf("\n📄 Submitting: %s", path)

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("   ❌ Failed to read file: %v", err)
			failCount++
			continue
		}

		resp, err := intakeService.Submit(ctx, models.UploadRequest{
			FileContentBase64: base64.StdEncoding.EncodeToString(data),
			FileName:          entry.Name(),
			ContentType:       contentType,
		})
		if err != nil {
			log.Printf("   ❌ Failed to submit: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ %s -> %s", entry.Name(), resp.ResumeID)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Submission Summary:")
	log.Printf("   ✅ Submitted: %d resumes", successCount)
	log.Printf("   ❌ Failed: %d resumes", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some resumes failed to submit. Please check the logs above.")
		os.Exit(1)
	}
}
