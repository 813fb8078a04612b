package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type ItemOutcome int

const (
	// OutcomeCompleted means the record was written as completed.
	OutcomeCompleted ItemOutcome = iota
	// OutcomeFailed means the record was written as failed.
	OutcomeFailed
	// OutcomeMissing means no record exists for the item.
	OutcomeMissing
	// OutcomeUnrecorded means the terminal write itself did not succeed.
	OutcomeUnrecorded
)

// Settled reports whether the queue message behind the item can be dropped.
func (o ItemOutcome) Settled() bool {
	return o != OutcomeUnrecorded
}

type AnalyzerService interface {
	ProcessItem(ctx context.Context, item models.WorkItem) ItemOutcome
	ProcessBatch(ctx context.Context, items []models.WorkItem) ([]ItemOutcome, models.BatchResult)
	// RecordFailure writes the failed state for a resume that cannot be analyzed.
	RecordFailure(ctx context.Context, resumeID string, cause error) ItemOutcome
}

type analyzerService struct {
	resumeRepo    repositories.ResumeRepository
	storage       ObjectStorage
	extractor     TextExtractor
	generator     TextGenerator
	promptBuilder *PromptBuilder
	profile       InferenceProfile
	now           func() time.Time
}

func NewAnalyzerService(
	resumeRepo repositories.ResumeRepository,
	storage ObjectStorage,
	extractor TextExtractor,
	generator TextGenerator,
	profile InferenceProfile,
) AnalyzerService {
	return &analyzerService{
		resumeRepo:    resumeRepo,
		storage:       storage,
		extractor:     extractor,
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		profile:       profile,
		now:           time.Now,
	}
}

// ProcessBatch handles items one after another. A failing item never stops
// the rest of the batch.
func (a *analyzerService) ProcessBatch(ctx context.Context, items []models.WorkItem) ([]ItemOutcome, models.BatchResult) {
	outcomes := make([]ItemOutcome, len(items))
	result := models.BatchResult{Message: "Processing complete for batch."}

	for i, item := range items {
		outcomes[i] = a.ProcessItem(ctx, item)
		result.Processed++

		switch outcomes[i] {
		case OutcomeCompleted:
			result.Completed++
		case OutcomeFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}

	return outcomes, result
}

func (a *analyzerService) ProcessItem(ctx context.Context, item models.WorkItem) ItemOutcome {
	log.Printf("🔄 Starting analysis for resume ID: %s\n", item.ResumeID)

	update, err := a.analyze(ctx, item)
	if err == nil {
		err = a.resumeRepo.UpdateAnalysis(ctx, item.ResumeID, update)
		if err == nil {
			log.Printf("✅ Analysis completed for resume ID: %s\n", item.ResumeID)
			return OutcomeCompleted
		}
		if errors.Is(err, repositories.ErrResumeNotFound) {
			log.Printf("⚠️  No record for resume ID %s, dropping work item\n", item.ResumeID)
			return OutcomeMissing
		}
	}

	return a.RecordFailure(ctx, item.ResumeID, err)
}

func (a *analyzerService) RecordFailure(ctx context.Context, resumeID string, cause error) ItemOutcome {
	log.Printf("❌ Analysis failed for resume ID %s: %v\n", resumeID, cause)

	if err := a.resumeRepo.UpdateAnalysis(ctx, resumeID, FailedUpdate(cause, a.now())); err != nil {
		if errors.Is(err, repositories.ErrResumeNotFound) {
			log.Printf("⚠️  No record for resume ID %s, dropping work item\n", resumeID)
			return OutcomeMissing
		}
		log.Printf("❌ Failed to record failure for resume ID %s: %v\n", resumeID, err)
		return OutcomeUnrecorded
	}

	return OutcomeFailed
}

// analyze runs retrieval, extraction and inference and returns the completed
// write. Model output that does not validate still yields a completed write.
func (a *analyzerService) analyze(ctx context.Context, item models.WorkItem) (update *repositories.AnalysisUpdate, err error) {
	defer func() {
		if r := recover(); r != nil {
			update = nil
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	log.Printf("📥 Downloading %s from %s\n", item.S3Key, item.S3Bucket)
	data, err := a.storage.Get(ctx, item.S3Bucket, item.S3Key)
	if err != nil {
		return nil, err
	}
	log.Printf("📄 Downloaded %d bytes\n", len(data))

	text, err := a.extractor.Extract(FileExtension(item.S3Key), data)
	if err != nil {
		return nil, err
	}
	log.Printf("📄 Extracted %d characters from %s\n", len(text), item.S3Key)

	if a.profile.Reducer != nil {
		text = a.profile.Reducer.Reduce(text)
	}

	prompt := a.promptBuilder.BuildAnalysisPrompt(a.profile.Template, text)
	log.Printf("📝 Analysis prompt length: %d characters", len(prompt))

	response, err := a.generator.Generate(ctx, prompt, a.profile)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Model response received: %d characters", len(response))

	outcome := ValidateAnalysis(response)
	if !outcome.Valid {
		log.Printf("⚠️  Model output for resume ID %s did not validate: %v\n", item.ResumeID, outcome.Payload["error"])
	}

	return CompletedUpdate(outcome, a.now())
}
