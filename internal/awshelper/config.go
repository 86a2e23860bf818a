// Package awshelper builds AWS SDK configuration and clients for casper.
package awshelper

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/gruntwork-io/go-commons/version"
)

const (
	// DefaultRegion is used when neither the session config nor the environment names one.
	DefaultRegion = "us-east-1"

	defaultAssumeRoleDuration = time.Hour
)

// SessionConfig is a representation of the configuration options for an AWS Config.
type SessionConfig struct {
	Region           string
	Profile          string
	CredsFilename    string
	CustomS3Endpoint string
	RoleArn          string
	ExternalID       string
	SessionName      string
	S3ForcePathStyle bool
}

// AWSConfigBuilder builds an AWS config using the builder pattern.
// Use NewAWSConfigBuilder to create, chain With* methods for optional parameters, then call Build().
type AWSConfigBuilder struct {
	sessionConfig *SessionConfig
	env           map[string]string
}

// NewAWSConfigBuilder creates a new builder for AWS config.
func NewAWSConfigBuilder() *AWSConfigBuilder {
	return &AWSConfigBuilder{
		env: make(map[string]string),
	}
}

// WithSessionConfig sets the AWS session configuration (region, profile, credentials file, etc.).
func (b *AWSConfigBuilder) WithSessionConfig(cfg *SessionConfig) *AWSConfigBuilder {
	b.sessionConfig = cfg
	return b
}

// WithEnv sets environment variables used for credential and region resolution.
func (b *AWSConfigBuilder) WithEnv(env map[string]string) *AWSConfigBuilder {
	b.env = env
	return b
}

// Build creates the AWS config from the builder's configuration.
func (b *AWSConfigBuilder) Build(ctx context.Context, l log.Logger) (aws.Config, error) {
	var configOptions []func(*config.LoadOptions) error

	configOptions = append(configOptions, config.WithAppID("casper/"+version.GetVersion()))

	envCreds := createCredentialsFromEnv(b.env)
	if envCreds != nil {
		l.Debugf("Using AWS credentials from environment")

		configOptions = append(configOptions, config.WithCredentialsProvider(envCreds))
	} else if b.sessionConfig != nil && b.sessionConfig.CredsFilename != "" {
		configOptions = append(configOptions,
			config.WithSharedConfigFiles([]string{b.sessionConfig.CredsFilename}),
			config.WithSharedCredentialsFiles([]string{b.sessionConfig.CredsFilename}),
		)
	}

	configOptions = append(configOptions, config.WithRegion(b.region()))

	if b.sessionConfig != nil && b.sessionConfig.Profile != "" && envCreds == nil {
		configOptions = append(configOptions, config.WithSharedConfigProfile(b.sessionConfig.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return aws.Config{}, errors.Errorf("Error loading AWS config: %w", err)
	}

	if envCreds != nil || b.sessionConfig == nil || b.sessionConfig.RoleArn == "" {
		return cfg, nil
	}

	l.Debugf("Assuming role %s", b.sessionConfig.RoleArn)
	cfg.Credentials = aws.NewCredentialsCache(assumeRoleProvider(cfg, b.sessionConfig))

	return cfg, nil
}

// NewS3Client creates an S3 client, applying the custom endpoint and path style of sessionConfig.
func NewS3Client(cfg aws.Config, sessionConfig *SessionConfig) *s3.Client {
	if sessionConfig == nil {
		return s3.NewFromConfig(cfg)
	}

	customFN := make([]func(*s3.Options), 0, 2) //nolint:mnd

	if sessionConfig.CustomS3Endpoint != "" {
		customFN = append(customFN, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(sessionConfig.CustomS3Endpoint)
		})
	}

	if sessionConfig.S3ForcePathStyle {
		customFN = append(customFN, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(cfg, customFN...)
}

// region prioritizes the configured region over environment variables.
func (b *AWSConfigBuilder) region() string {
	if b.sessionConfig != nil && b.sessionConfig.Region != "" {
		return b.sessionConfig.Region
	}

	if region := b.env["AWS_REGION"]; region != "" {
		return region
	}

	if region := b.env["AWS_DEFAULT_REGION"]; region != "" {
		return region
	}

	return DefaultRegion
}

//nolint:gocritic // hugeParam: intentionally pass by value to avoid recursive credential resolution
func assumeRoleProvider(cfg aws.Config, sessionConfig *SessionConfig) aws.CredentialsProviderFunc {
	return func(ctx context.Context) (aws.Credentials, error) {
		stsClient := sts.NewFromConfig(cfg)

		roleSessionName := sessionConfig.SessionName
		if roleSessionName == "" {
			roleSessionName = strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		}

		input := &sts.AssumeRoleInput{
			RoleArn:         aws.String(sessionConfig.RoleArn),
			RoleSessionName: aws.String(roleSessionName),
			DurationSeconds: aws.Int32(int32(defaultAssumeRoleDuration.Seconds())),
		}

		if sessionConfig.ExternalID != "" {
			input.ExternalId = aws.String(sessionConfig.ExternalID)
		}

		result, err := stsClient.AssumeRole(ctx, input)
		if err != nil {
			return aws.Credentials{}, errors.Errorf("Error assuming role %s: %w", sessionConfig.RoleArn, err)
		}

		return aws.Credentials{
			AccessKeyID:     aws.ToString(result.Credentials.AccessKeyId),
			SecretAccessKey: aws.ToString(result.Credentials.SecretAccessKey),
			SessionToken:    aws.ToString(result.Credentials.SessionToken),
			CanExpire:       true,
			Expires:         aws.ToTime(result.Credentials.Expiration),
		}, nil
	}
}

// createCredentialsFromEnv creates AWS credentials from environment variables.
func createCredentialsFromEnv(env map[string]string) aws.CredentialsProvider {
	accessKeyID := env["AWS_ACCESS_KEY_ID"]
	secretAccessKey := env["AWS_SECRET_ACCESS_KEY"]

	if accessKeyID == "" || secretAccessKey == "" {
		return nil
	}

	return credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, env["AWS_SESSION_TOKEN"])
}
