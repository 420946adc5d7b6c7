package catalog

import (
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// OrderSource supplies the authoritative instance-type ordering.
type OrderSource interface {
	InstanceTypeOrder() []string
}

// APIModelOrder orders instance types the way the EC2 API model enumerates
// them. The SDK regenerates this enum from AWS's own service metadata, so
// it doubles as the "does AWS know about this type" check behind the
// unlisted-types report.
type APIModelOrder struct{}

func (APIModelOrder) InstanceTypeOrder() []string {
	values := ec2types.InstanceType("").Values()
	order := make([]string, len(values))
	for i, v := range values {
		order[i] = string(v)
	}
	return order
}

// StaticOrder is a fixed ordering, used by tests and offline runs.
type StaticOrder []string

func (s StaticOrder) InstanceTypeOrder() []string {
	return []string(s)
}
