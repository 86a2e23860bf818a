package scan

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

const iamServiceName = "iam"

// IAMAPI is the part of the IAM client used by the iam service.
type IAMAPI interface {
	iam.ListUsersAPIClient
	iam.ListRolesAPIClient
	iam.ListGroupsAPIClient
}

type iamService struct {
	client IAMAPI
	family
}

func newIAMService(client IAMAPI) *iamService {
	return &iamService{
		client: client,
		family: family{
			supported: []string{"aws_iam_group", "aws_iam_role", "aws_iam_user"},
			owned:     []string{"aws_iam_policy", "aws_iam_instance_profile", "aws_iam_role_policy_attachment"},
		},
	}
}

func (service *iamService) Name() string {
	return iamServiceName
}

func (service *iamService) Scan(ctx context.Context, group string) ([]string, error) {
	var names []string

	switch group {
	case "aws_iam_user":
		paginator := iam.NewListUsersPaginator(service.client, &iam.ListUsersInput{})

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}

			for _, user := range page.Users {
				names = append(names, aws.ToString(user.UserName))
			}
		}
	case "aws_iam_role":
		paginator := iam.NewListRolesPaginator(service.client, &iam.ListRolesInput{})

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}

			for _, role := range page.Roles {
				names = append(names, aws.ToString(role.RoleName))
			}
		}
	case "aws_iam_group":
		paginator := iam.NewListGroupsPaginator(service.client, &iam.ListGroupsInput{})

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}

			for _, iamGroup := range page.Groups {
				names = append(names, aws.ToString(iamGroup.GroupName))
			}
		}
	default:
		return nil, unsupportedGroup(iamServiceName, group)
	}

	return names, nil
}
