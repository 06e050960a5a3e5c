package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"s3bridge/storage/types"
)

// Factory builds an S3 handle for one invocation
type Factory func(cfg types.StoreConfig) (API, error)

// NewClient creates a new S3 client from the per-call store configuration.
// It performs no network I/O.
func NewClient(cfg types.StoreConfig) (API, error) {
	awsCfg, err := buildAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// buildAWSConfig builds the AWS configuration from the store config
func buildAWSConfig(cfg types.StoreConfig) (aws.Config, error) {
	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		// Payload checksums on every request that supports them
		awsconfig.WithRequestChecksumCalculation(aws.RequestChecksumCalculationWhenSupported),
	}

	if cfg.Endpoint != "" {
		optFns = append(optFns, awsconfig.WithBaseEndpoint(cfg.Endpoint))
	}
	if cfg.MaxAttempts > 0 {
		// 1 disables retries
		optFns = append(optFns, awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts))
	}
	if cfg.Timeout > 0 {
		optFns = append(optFns, awsconfig.WithHTTPClient(
			awshttp.NewBuildableClient().WithTimeout(cfg.Timeout),
		))
	}

	return awsconfig.LoadDefaultConfig(context.Background(), optFns...)
}
