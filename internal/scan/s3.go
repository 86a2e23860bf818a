package scan

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3ServiceName = "s3"

// S3API is the part of the S3 client used by the s3 service.
type S3API interface {
	s3.ListBucketsAPIClient
}

type s3Service struct {
	client S3API
	family
}

func newS3Service(client S3API) *s3Service {
	return &s3Service{
		client: client,
		family: family{
			supported: []string{"aws_s3_bucket"},
			owned:     []string{"aws_s3_bucket_policy", "aws_s3_bucket_versioning", "aws_s3_object"},
		},
	}
}

func (service *s3Service) Name() string {
	return s3ServiceName
}

func (service *s3Service) Scan(ctx context.Context, group string) ([]string, error) {
	if group != "aws_s3_bucket" {
		return nil, unsupportedGroup(s3ServiceName, group)
	}

	var names []string

	paginator := s3.NewListBucketsPaginator(service.client, &s3.ListBucketsInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, bucket := range page.Buckets {
			names = append(names, aws.ToString(bucket.Name))
		}
	}

	return names, nil
}
