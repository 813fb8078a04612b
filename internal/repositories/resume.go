package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	FindByID(ctx context.Context, id string) (*models.Resume, error)
	UpdateAnalysis(ctx context.Context, id string, update *AnalysisUpdate) error
}

// AnalysisUpdate is the terminal write applied by the worker. Nil pointers and
// nil slices mean "leave the attribute untouched".
type AnalysisUpdate struct {
	Status            models.ResumeStatus
	AnalysisTimestamp int64
	AnalysisResults   *string
	ErrorMessage      *string

	CompatibilityScore       *float64
	TopTechnicalSkillsFound  []string
	CompatibilityExplanation *string
	SuggestedKeywords        []string
}

func (u *AnalysisUpdate) Validate() error {
	if !u.Status.IsTerminal() {
		return fmt.Errorf("invalid analysis update: status %q is not terminal", u.Status)
	}
	if u.Status == models.StatusCompleted && u.AnalysisResults == nil {
		return errors.New("invalid analysis update: completed without analysis results")
	}
	if u.Status == models.StatusFailed && u.ErrorMessage == nil {
		return errors.New("invalid analysis update: failed without error message")
	}
	if u.AnalysisTimestamp <= 0 {
		return errors.New("invalid analysis update: missing analysis timestamp")
	}
	return nil
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(ctx context.Context, id string) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).Where("resume_id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) UpdateAnalysis(ctx context.Context, id string, update *AnalysisUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":             update.Status,
		"analysis_timestamp": update.AnalysisTimestamp,
	}

	if update.AnalysisResults != nil {
		updates["analysis_results"] = *update.AnalysisResults
	}
	if update.ErrorMessage != nil {
		updates["error_message"] = *update.ErrorMessage
	}
	if update.CompatibilityScore != nil {
		updates["compatibility_score"] = *update.CompatibilityScore
	}
	if update.TopTechnicalSkillsFound != nil {
		updates["top_technical_skills_found"] = datatypes.NewJSONSlice(update.TopTechnicalSkillsFound)
	}
	if update.CompatibilityExplanation != nil {
		updates["compatibility_explanation"] = *update.CompatibilityExplanation
	}
	if update.SuggestedKeywords != nil {
		updates["suggested_keywords"] = datatypes.NewJSONSlice(update.SuggestedKeywords)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("resume_id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}

	return nil
}
