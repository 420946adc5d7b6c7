package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// The Price List API is only served out of a few regions; us-east-1 is the
// conventional one.
const pricingAPIRegion = "us-east-1"

// AWSClients bundles the AWS service clients kalusto uses.
type AWSClients struct {
	Pricing    *pricing.Client
	CloudWatch *cloudwatch.Client
	STS        *sts.Client
	Config     aws.Config
}

// AWSConfig holds settings for AWS client creation.
type AWSConfig struct {
	Region     string
	Profile    string
	MaxRetries int
}

// NewAWSClients creates the service clients from the shared AWS config
// chain, with profile/region overrides and a bounded standard retryer.
func NewAWSClients(ctx context.Context, awsCfg AWSConfig) (*AWSClients, error) {
	if awsCfg.MaxRetries == 0 {
		awsCfg.MaxRetries = 3
	}

	var opts []func(*config.LoadOptions) error
	if awsCfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(awsCfg.Profile))
	}
	if awsCfg.Region != "" {
		opts = append(opts, config.WithRegion(awsCfg.Region))
	}
	opts = append(opts, config.WithRetryer(func() aws.Retryer {
		return retry.AddWithMaxAttempts(retry.NewStandard(), awsCfg.MaxRetries)
	}))

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if err := validateCredentials(ctx, cfg); err != nil {
		return nil, err
	}

	return &AWSClients{
		Pricing: pricing.NewFromConfig(cfg, func(o *pricing.Options) {
			o.Region = pricingAPIRegion
		}),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
		STS:        sts.NewFromConfig(cfg),
		Config:     cfg,
	}, nil
}

// Region returns the configured region.
func (c *AWSClients) Region() string {
	return c.Config.Region
}

// ValidateIdentity confirms the credentials work by calling STS
// GetCallerIdentity.
func (c *AWSClients) ValidateIdentity(ctx context.Context) error {
	result, err := c.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("AWS credential validation failed (%s): %w", apiErr.ErrorCode(), err)
		}
		return fmt.Errorf("failed to validate AWS credentials: %w", err)
	}
	if result.Account == nil || result.Arn == nil {
		return fmt.Errorf("received invalid identity information from AWS")
	}
	return nil
}

func validateCredentials(ctx context.Context, cfg aws.Config) error {
	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return fmt.Errorf("AWS credentials are incomplete")
	}
	if !creds.Expires.IsZero() && time.Now().After(creds.Expires) {
		return fmt.Errorf("AWS credentials have expired (expired at: %v)", creds.Expires)
	}
	return nil
}
