package config

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LoadAWSConfig builds the shared SDK configuration used by every AWS client
// in the process. Static credentials are used only when both keys are set.
func LoadAWSConfig(ctx context.Context, cfg AWSConfig) (aws.Config, error) {
	retryMode, err := aws.ParseRetryMode(cfg.RetryMode)
	if err != nil {
		return aws.Config{}, fmt.Errorf("invalid AWS_RETRY_MODE: %w", err)
	}

	httpClient := awshttp.NewBuildableClient().
		WithTimeout(cfg.ConnectTimeout + cfg.ReadTimeout).
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = cfg.ConnectTimeout
		}).
		WithTransportOptions(func(t *http.Transport) {
			t.MaxIdleConnsPerHost = cfg.MaxPoolConnections
			t.MaxConnsPerHost = cfg.MaxPoolConnections
			t.ResponseHeaderTimeout = cfg.ReadTimeout
		})

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMode(retryMode),
		awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts),
		awsconfig.WithHTTPClient(httpClient),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if cfg.EndpointURL != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(cfg.EndpointURL))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return awsCfg, nil
}
