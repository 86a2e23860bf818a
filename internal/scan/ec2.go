package scan

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

const ec2ServiceName = "ec2"

// EC2API is the part of the EC2 client used by the ec2 service.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
}

// ELBv2API is the part of the ELBv2 client used by the ec2 service.
type ELBv2API interface {
	elasticloadbalancingv2.DescribeLoadBalancersAPIClient
}

type ec2Service struct {
	ec2   EC2API
	elbv2 ELBv2API
	family
}

func newEC2Service(ec2Client EC2API, elbv2Client ELBv2API) *ec2Service {
	return &ec2Service{
		ec2:   ec2Client,
		elbv2: elbv2Client,
		family: family{
			supported: []string{"aws_alb", "aws_instance"},
			owned:     []string{"aws_autoscaling_group", "aws_elb", "aws_security_group"},
		},
	}
}

func (service *ec2Service) Name() string {
	return ec2ServiceName
}

func (service *ec2Service) Scan(ctx context.Context, group string) ([]string, error) {
	switch group {
	case "aws_instance":
		return service.instances(ctx)
	case "aws_alb":
		return service.loadBalancers(ctx)
	}

	return nil, unsupportedGroup(ec2ServiceName, group)
}

// instances returns the ids of all instances that are not terminated.
func (service *ec2Service) instances(ctx context.Context) ([]string, error) {
	var ids []string

	paginator := ec2.NewDescribeInstancesPaginator(service.ec2, &ec2.DescribeInstancesInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				if instance.State != nil && instance.State.Name == ec2types.InstanceStateNameTerminated {
					continue
				}

				ids = append(ids, aws.ToString(instance.InstanceId))
			}
		}
	}

	return ids, nil
}

// loadBalancers returns the names of the application load balancers.
func (service *ec2Service) loadBalancers(ctx context.Context) ([]string, error) {
	var names []string

	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(service.elbv2, &elasticloadbalancingv2.DescribeLoadBalancersInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, lb := range page.LoadBalancers {
			if lb.Type != elbtypes.LoadBalancerTypeEnumApplication {
				continue
			}

			names = append(names, aws.ToString(lb.LoadBalancerName))
		}
	}

	return names, nil
}
