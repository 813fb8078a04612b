// Package bootstrap turns configuration into the shared clients used by the
// api process, the worker process and the submit script.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// Clients holds the process-wide service handles.
type Clients struct {
	Resumes   repositories.ResumeRepository
	Storage   services.ObjectStorage
	Queue     services.WorkQueue
	Generator services.TextGenerator
	Profile   services.InferenceProfile

	awsCfg *aws.Config
}

// awsConfig loads the SDK configuration once and shares it between clients.
func (c *Clients) awsConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	if c.awsCfg != nil {
		return *c.awsCfg, nil
	}
	awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return aws.Config{}, err
	}
	c.awsCfg = &awsCfg
	return awsCfg, nil
}

// NewClients builds the record store, object storage and work queue.
// Inference is only needed by the worker, see WithGenerator.
func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	c := &Clients{}

	resumes, err := c.newResumeRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Resumes = resumes
	log.Printf("✅ Record store initialized (%s)\n", cfg.Records.Driver)

	storage, err := c.newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Storage = storage
	log.Printf("✅ Object storage initialized (%s)\n", cfg.Storage.Driver)

	queue, err := c.newQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Queue = queue
	log.Printf("✅ Work queue initialized (%s)\n", cfg.Queue.Driver)

	return c, nil
}

// WithGenerator adds the inference client and analysis profile.
func (c *Clients) WithGenerator(ctx context.Context, cfg *config.Config) error {
	profile, err := services.ProfileByName(cfg.LLM.Profile)
	if err != nil {
		return err
	}

	var generator services.TextGenerator
	switch cfg.LLM.Provider {
	case "bedrock":
		awsCfg, err := c.awsConfig(ctx, cfg)
		if err != nil {
			return err
		}
		generator = services.NewBedrockService(bedrockruntime.NewFromConfig(awsCfg), cfg.LLM.BedrockModelID)
	case "gemini":
		generator, err = services.NewGeminiService(
			cfg.LLM.GeminiAPIKey,
			cfg.LLM.GeminiModel,
			cfg.AWS.ConnectTimeout+cfg.AWS.ReadTimeout,
		)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	c.Generator = generator
	c.Profile = profile
	log.Printf("✅ Inference client initialized (%s, profile %s)\n", cfg.LLM.Provider, profile.Name)
	return nil
}

func (c *Clients) Close() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Printf("⚠️  Failed to close work queue: %v\n", err)
		}
	}
}

func (c *Clients) newResumeRepository(ctx context.Context, cfg *config.Config) (repositories.ResumeRepository, error) {
	switch cfg.Records.Driver {
	case "dynamodb":
		awsCfg, err := c.awsConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewDynamoResumeRepository(dynamodb.NewFromConfig(awsCfg), cfg.Records.TableName), nil
	case "postgres", "sqlite":
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewResumeRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown RECORD_STORE %q", cfg.Records.Driver)
	}
}

func (c *Clients) newStorage(ctx context.Context, cfg *config.Config) (services.ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		awsCfg, err := c.awsConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// Local S3 emulators do not serve virtual-hosted buckets.
			o.UsePathStyle = cfg.AWS.EndpointURL != ""
		})
		return services.NewS3Storage(client), nil
	case "local":
		return services.NewLocalStorage(cfg.Storage.UploadPath), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}

func (c *Clients) newQueue(ctx context.Context, cfg *config.Config) (services.WorkQueue, error) {
	switch cfg.Queue.Driver {
	case "sqs":
		if cfg.Queue.SQSQueueURL == "" {
			return nil, fmt.Errorf("SQS_QUEUE_URL is required for the sqs queue driver")
		}
		awsCfg, err := c.awsConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return services.NewSQSQueue(sqs.NewFromConfig(awsCfg), services.SQSQueueOptions{
			QueueURL:          cfg.Queue.SQSQueueURL,
			BatchSize:         int32(cfg.Queue.BatchSize),
			WaitSeconds:       int32(cfg.Queue.WaitSeconds),
			VisibilityTimeout: int32(cfg.Queue.VisibilityTimeout),
		}), nil
	case "rabbitmq":
		return services.NewRabbitQueue(services.RabbitQueueOptions{
			URL:       cfg.Queue.RabbitMQURL,
			QueueName: cfg.Queue.RabbitMQQueue,
			BatchSize: cfg.Queue.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown QUEUE_DRIVER %q", cfg.Queue.Driver)
	}
}
