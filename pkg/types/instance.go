package types

// Architecture tags used in the catalog.
const (
	ArchI386  = "i386"
	ArchX8664 = "x86_64"
)

// Network performance tier assigned to anything advertised as
// "<n> Gigabit"; other tiers are the normalized upstream wording.
const NetworkVeryHigh = "very_high"

// Storage describes the instance-store geometry of an instance type.
// EBS-only types have zero volumes and a nil medium.
type Storage struct {
	Volumes    int     `json:"volumes" yaml:"volumes"`
	PerVolume  float64 `json:"per_volume_gb" yaml:"per_volume_gb"`
	TotalGB    float64 `json:"total_gb" yaml:"total_gb"`
	Medium     *string `json:"medium" yaml:"medium"`
	EBSOnly    bool    `json:"ebs_only" yaml:"ebs_only"`
}

// InstanceType is the normalized descriptor for one EC2 instance type.
//
// Boolean features are tri-state on purpose: a *bool holding true means the
// feature is present, nil means known-absent. Serializers emit true or an
// explicit null, never false, so consumers can tell "absent" from "field
// not produced".
type InstanceType struct {
	Name        string  `json:"name" yaml:"name"`
	Family      string  `json:"family" yaml:"family"`
	Multiplier  int     `json:"multiplier" yaml:"multiplier"`
	Size        string  `json:"size" yaml:"size"`
	Description string  `json:"description" yaml:"description"`
	MemoryGiB   float64 `json:"memory_gib" yaml:"memory_gib"`
	VCPU        int     `json:"vcpu" yaml:"vcpu"`
	Storage     Storage `json:"storage" yaml:"storage"`

	Architectures  []string `json:"architectures" yaml:"architectures"`
	Virtualization string   `json:"virtualization" yaml:"virtualization"`
	NetworkTier    string   `json:"network_tier" yaml:"network_tier"`

	AESNI              *bool `json:"aes_ni" yaml:"aes_ni"`
	AVX                *bool `json:"avx" yaml:"avx"`
	AVX2               *bool `json:"avx2" yaml:"avx2"`
	Turbo              *bool `json:"turbo" yaml:"turbo"`
	EBSOptimized       *bool `json:"ebs_optimized" yaml:"ebs_optimized"`
	EnhancedNetworking *bool `json:"enhanced_networking" yaml:"enhanced_networking"`
	ClusterNetworking  *bool `json:"cluster_networking" yaml:"cluster_networking"`
	VPCOnly            *bool `json:"vpc_only" yaml:"vpc_only"`

	Deprecated bool `json:"deprecated" yaml:"deprecated"`
}

// Flag converts a parsed boolean into the tri-state representation:
// a true pointer when set, nil when known-absent.
func Flag(set bool) *bool {
	if !set {
		return nil
	}
	t := true
	return &t
}

// FlagSet reports whether a tri-state flag is present.
func FlagSet(f *bool) bool {
	return f != nil && *f
}
