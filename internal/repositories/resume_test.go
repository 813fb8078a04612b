package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "resumes.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Resume{}))
	return db
}

func newProcessingResume(id string) *models.Resume {
	return &models.Resume{
		ResumeID:        id,
		S3Bucket:        "resume-uploads",
		S3Key:           id + ".pdf",
		Status:          models.StatusProcessing,
		FileName:        "cv.pdf",
		UploadTimestamp: 1700000000000,
	}
}

func strPtr(s string) *string { return &s }

func TestResumeRepositoryCreateFind(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProcessingResume("r1")))

	got, err := repo.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
	assert.Equal(t, "r1.pdf", got.S3Key)
	assert.Equal(t, int64(1700000000000), got.UploadTimestamp)
	assert.Nil(t, got.AnalysisResults)
	assert.Nil(t, got.TopTechnicalSkillsFound)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestResumeRepositoryCompleted(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newProcessingResume("r1")))

	score := 82.5
	err := repo.UpdateAnalysis(ctx, "r1", &AnalysisUpdate{
		Status:                   models.StatusCompleted,
		AnalysisTimestamp:        1700000005000,
		AnalysisResults:          strPtr(`{"compatibility_score":82.5}`),
		CompatibilityScore:       &score,
		TopTechnicalSkillsFound:  []string{"Go", "AWS"},
		CompatibilityExplanation: strPtr("solid"),
		SuggestedKeywords:        []string{},
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.AnalysisTimestamp)
	assert.Equal(t, int64(1700000005000), *got.AnalysisTimestamp)
	assert.Equal(t, `{"compatibility_score":82.5}`, *got.AnalysisResults)
	assert.Equal(t, 82.5, *got.CompatibilityScore)
	assert.Equal(t, []string{"Go", "AWS"}, got.TopTechnicalSkillsFound)
	assert.Equal(t, "solid", *got.CompatibilityExplanation)
	assert.Empty(t, got.SuggestedKeywords)
	assert.Nil(t, got.ErrorMessage)
}

func TestResumeRepositoryLastWriterWins(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newProcessingResume("r1")))

	require.NoError(t, repo.UpdateAnalysis(ctx, "r1", &AnalysisUpdate{
		Status:            models.StatusCompleted,
		AnalysisTimestamp: 1,
		AnalysisResults:   strPtr(`{}`),
	}))
	require.NoError(t, repo.UpdateAnalysis(ctx, "r1", &AnalysisUpdate{
		Status:            models.StatusFailed,
		AnalysisTimestamp: 2,
		ErrorMessage:      strPtr("duplicate delivery failed"),
	}))

	got, err := repo.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, "duplicate delivery failed", *got.ErrorMessage)
	assert.Equal(t, int64(2), *got.AnalysisTimestamp)
}

func TestResumeRepositoryUpdateMissing(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))

	err := repo.UpdateAnalysis(context.Background(), "missing", &AnalysisUpdate{
		Status:            models.StatusFailed,
		AnalysisTimestamp: 1,
		ErrorMessage:      strPtr("boom"),
	})
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestAnalysisUpdateValidate(t *testing.T) {
	cases := map[string]*AnalysisUpdate{
		"non-terminal":          {Status: models.StatusProcessing, AnalysisTimestamp: 1},
		"completed w/o results": {Status: models.StatusCompleted, AnalysisTimestamp: 1},
		"failed w/o error":      {Status: models.StatusFailed, AnalysisTimestamp: 1},
		"missing timestamp":     {Status: models.StatusFailed, ErrorMessage: strPtr("x")},
	}
	for name, update := range cases {
		assert.Error(t, update.Validate(), name)
	}

	assert.NoError(t, (&AnalysisUpdate{Status: models.StatusFailed, AnalysisTimestamp: 1, ErrorMessage: strPtr("x")}).Validate())
}
