package awshelper

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/gruntwork-io/casper/internal/errors"
)

// Clients are the AWS service clients casper talks to.
type Clients struct {
	S3    *s3.Client
	EC2   *ec2.Client
	ELBv2 *elasticloadbalancingv2.Client
	IAM   *iam.Client
	STS   *sts.Client
}

// NewClients creates all clients from one config.
//
//nolint:gocritic // hugeParam: aws.Config is passed by value throughout the SDK
func NewClients(cfg aws.Config, sessionConfig *SessionConfig) *Clients {
	return &Clients{
		S3:    NewS3Client(cfg, sessionConfig),
		EC2:   ec2.NewFromConfig(cfg),
		ELBv2: elasticloadbalancingv2.NewFromConfig(cfg),
		IAM:   iam.NewFromConfig(cfg),
		STS:   sts.NewFromConfig(cfg),
	}
}

// CallerIdentityAPI is the part of the STS client used to identify the account.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// GetAWSAccountID returns the account the credentials belong to. It also validates the credentials.
func GetAWSAccountID(ctx context.Context, client CallerIdentityAPI) (string, error) {
	result, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.Errorf("Error validating AWS credentials: %w", err)
	}

	return aws.ToString(result.Account), nil
}
