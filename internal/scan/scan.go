// Package scan compares the inventory against what actually runs in the cloud account
// and reports ghosts: resources that no Terraform state knows about.
package scan

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/gruntwork-io/casper/internal/awshelper"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/pkg/log"
	"golang.org/x/sync/errgroup"
)

// Service lists the cloud identifiers of the resource groups it supports.
type Service interface {
	// Name is the service name accepted by Lookup.
	Name() string
	// Groups returns the resource groups the service can scan.
	Groups() []string
	// Owns reports whether group belongs to the service, supported or not.
	Owns(group string) bool
	// Scan returns the cloud identifiers of group.
	Scan(ctx context.Context, group string) ([]string, error)
}

// Finding is the scan result of one resource group.
type Finding struct {
	Service string   `json:"service"`
	Group   string   `json:"group"`
	Ghosts  []string `json:"ghosts"`
	Managed int      `json:"managed"`
	Total   int      `json:"total"`
}

// Clients are the parts of the AWS SDK clients the services call.
type Clients struct {
	EC2   EC2API
	ELBv2 ELBv2API
	IAM   IAMAPI
	S3    S3API
}

// NewClients narrows the SDK clients.
func NewClients(clients *awshelper.Clients) *Clients {
	return &Clients{
		EC2:   clients.EC2,
		ELBv2: clients.ELBv2,
		IAM:   clients.IAM,
		S3:    clients.S3,
	}
}

// SupportedServices returns the names accepted by Lookup.
func SupportedServices() []string {
	return []string{ec2ServiceName, iamServiceName, s3ServiceName}
}

// Lookup returns the service with the given name.
func Lookup(name string, clients *Clients) (Service, error) {
	switch name {
	case ec2ServiceName:
		return newEC2Service(clients.EC2, clients.ELBv2), nil
	case iamServiceName:
		return newIAMService(clients.IAM), nil
	case s3ServiceName:
		return newS3Service(clients.S3), nil
	}

	return nil, errors.New(UnsupportedServiceError{Name: name})
}

// Scanner runs services against an inventory.
type Scanner struct {
	logger log.Logger
}

// NewScanner returns a Scanner logging through l.
func NewScanner(l log.Logger) *Scanner {
	return &Scanner{logger: l}
}

// Run scans every service concurrently and returns the findings sorted by service and group.
// The first failing call cancels the others.
func (scanner *Scanner) Run(ctx context.Context, state *inventory.State, services ...Service) ([]Finding, error) {
	var (
		findings []Finding
		mu       sync.Mutex
	)

	group, ctx := errgroup.WithContext(ctx)

	for _, service := range services {
		for _, name := range state.Groups() {
			if service.Owns(name) && !slices.Contains(service.Groups(), name) {
				scanner.logger.Debugf("Service Handler for %s is not currently supported", name)
			}
		}

		for _, name := range service.Groups() {
			group.Go(func() error {
				ids, err := service.Scan(ctx, name)
				if err != nil {
					return errors.Errorf("unable to scan %s %s: %w", service.Name(), name, err)
				}

				finding := newFinding(service.Name(), name, ids, state)

				mu.Lock()
				findings = append(findings, finding)
				mu.Unlock()

				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(findings, func(a, b Finding) int {
		return cmp.Or(cmp.Compare(a.Service, b.Service), cmp.Compare(a.Group, b.Group))
	})

	return findings, nil
}

func newFinding(service, group string, ids []string, state *inventory.State) Finding {
	finding := Finding{
		Service: service,
		Group:   group,
		Ghosts:  []string{},
		Total:   len(ids),
	}

	for _, id := range ids {
		if state.Has(group, id) {
			finding.Managed++
			continue
		}

		finding.Ghosts = append(finding.Ghosts, id)
	}

	slices.Sort(finding.Ghosts)

	return finding
}

// family implements Owns and Groups for the services.
type family struct {
	supported []string
	owned     []string
}

func (f family) Groups() []string {
	return slices.Clone(f.supported)
}

func (f family) Owns(group string) bool {
	return slices.Contains(f.supported, group) || slices.Contains(f.owned, group)
}

func unsupportedGroup(service, group string) error {
	return errors.Errorf("group %s is not supported by the %s service", group, service)
}
