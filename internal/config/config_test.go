package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MAX_FILE_SIZE", "AWS_MAX_ATTEMPTS", "AWS_RETRY_MODE", "AWS_CONNECT_TIMEOUT",
		"AWS_READ_TIMEOUT", "QUEUE_BATCH_SIZE", "BEDROCK_MODEL_ID", "ANALYSIS_PROFILE", "WORKER_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
	assert.Equal(t, 3, cfg.AWS.MaxAttempts)
	assert.Equal(t, "adaptive", cfg.AWS.RetryMode)
	assert.Equal(t, 2*time.Second, cfg.AWS.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.AWS.ReadTimeout)
	assert.Equal(t, 10, cfg.Queue.BatchSize)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", cfg.LLM.BedrockModelID)
	assert.Equal(t, "fast", cfg.LLM.Profile)
	assert.Equal(t, 1, cfg.Worker.Concurrency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUEUE_DRIVER", "rabbitmq")
	t.Setenv("QUEUE_BATCH_SIZE", "4")
	t.Setenv("AWS_READ_TIMEOUT", "45s")
	t.Setenv("AWS_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("ANALYSIS_PROFILE", "thorough")

	cfg := Load()

	assert.Equal(t, "rabbitmq", cfg.Queue.Driver)
	assert.Equal(t, 4, cfg.Queue.BatchSize)
	assert.Equal(t, 45*time.Second, cfg.AWS.ReadTimeout)
	assert.Equal(t, 3, cfg.AWS.MaxAttempts)
	assert.Equal(t, "thorough", cfg.LLM.Profile)
}

func TestInitDatabaseSQLite(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Env: "test"},
		Records:  RecordsConfig{Driver: "sqlite"},
		Database: DatabaseConfig{SQLitePath: filepath.Join(t.TempDir(), "resumes.db")},
	}

	db, err := InitDatabase(cfg)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("resumes"))
}

func TestInitDatabaseRejectsKeyValueStore(t *testing.T) {
	_, err := InitDatabase(&Config{Records: RecordsConfig{Driver: "dynamodb"}})
	assert.Error(t, err)
}

func TestLoadAWSConfig(t *testing.T) {
	awsCfg, err := LoadAWSConfig(context.Background(), AWSConfig{
		Region:             "eu-west-1",
		AccessKeyID:        "AKIDEXAMPLE",
		SecretAccessKey:    "secret",
		EndpointURL:        "http://localhost:4566",
		MaxAttempts:        5,
		RetryMode:          "standard",
		ConnectTimeout:     time.Second,
		ReadTimeout:        time.Second,
		MaxPoolConnections: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", awsCfg.Region)
	assert.Equal(t, 5, awsCfg.RetryMaxAttempts)
	require.NotNil(t, awsCfg.BaseEndpoint)
	assert.Equal(t, "http://localhost:4566", *awsCfg.BaseEndpoint)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
}

func TestLoadAWSConfigInvalidRetryMode(t *testing.T) {
	_, err := LoadAWSConfig(context.Background(), AWSConfig{RetryMode: "sometimes"})
	assert.Error(t, err)
}
