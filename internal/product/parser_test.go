package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/kalusto/pkg/types"
)

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		name        string
		family      string
		multiplier  int
		size        string
		description string
	}{
		{name: "m5.2xlarge", family: "m5", multiplier: 2, size: "xlarge", description: "M5 2XL"},
		{name: "m5.24xlarge", family: "m5", multiplier: 24, size: "xlarge", description: "M5 24XL"},
		{name: "c5.large", family: "c5", multiplier: 1, size: "large", description: "C5 Large"},
		{name: "t1.micro", family: "t1", multiplier: 1, size: "micro", description: "T1 Micro"},
		{name: "m1.small", family: "m1", multiplier: 1, size: "small", description: "M1 General Purpose Small"},
		{name: "m5.metal", family: "m5", multiplier: 1, size: "metal", description: "M5 Metal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, unknown := Parse(tt.name, types.FoldedRecord{})
			assert.Empty(t, unknown[FieldInstanceType])
			assert.Equal(t, tt.family, it.Family)
			assert.Equal(t, tt.multiplier, it.Multiplier)
			assert.Equal(t, tt.size, it.Size)
			assert.Equal(t, tt.description, it.Description)
		})
	}
}

func TestParseTypeNameUnparseable(t *testing.T) {
	it, unknown := Parse("???", types.FoldedRecord{})
	assert.Equal(t, []string{"???"}, unknown[FieldInstanceType])
	assert.Empty(t, it.Family)
	assert.Empty(t, it.Size)
	assert.Zero(t, it.Multiplier)
	assert.Empty(t, it.Description)
}

func TestParseMemory(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		unknown bool
	}{
		{name: "plain", raw: "16 GiB", want: 16},
		{name: "fractional", raw: "0.5 GiB", want: 0.5},
		{name: "thousands separator", raw: "3,904 GiB", want: 3904},
		{name: "lowercase unit", raw: "8 gib", want: 8},
		{name: "bogus", raw: "bogus", unknown: true},
		{name: "missing", raw: "", unknown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, unknown := Parse("m5.large", types.FoldedRecord{AttrMemory: tt.raw})
			if tt.unknown {
				assert.Equal(t, []string{tt.raw}, unknown[FieldMemory])
				assert.Zero(t, it.MemoryGiB)
				return
			}
			assert.Empty(t, unknown[FieldMemory])
			assert.Equal(t, tt.want, it.MemoryGiB)
		})
	}
}

func TestParseStorage(t *testing.T) {
	ssd := "SSD"
	hdd := "HDD"

	tests := []struct {
		name    string
		raw     string
		want    types.Storage
		unknown bool
	}{
		{
			name: "two ssd volumes",
			raw:  "2 x 80 SSD",
			want: types.Storage{Volumes: 2, PerVolume: 80, TotalGB: 160, Medium: &ssd},
		},
		{
			name: "ebs only",
			raw:  "EBS only",
			want: types.Storage{EBSOnly: true},
		},
		{
			name: "no medium",
			raw:  "1 x 420",
			want: types.Storage{Volumes: 1, PerVolume: 420, TotalGB: 420},
		},
		{
			name: "thousands separator",
			raw:  "24 x 2,000 HDD",
			want: types.Storage{Volumes: 24, PerVolume: 2000, TotalGB: 48000, Medium: &hdd},
		},
		{
			name: "fractional size",
			raw:  "1 x 0.475 NVMe SSD",
			want: types.Storage{Volumes: 1, PerVolume: 0.475, TotalGB: 0.475, Medium: strPtr("NVMe SSD")},
		},
		{name: "bogus", raw: "lots of disks", unknown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, unknown := Parse("i3.large", types.FoldedRecord{AttrStorage: tt.raw})
			if tt.unknown {
				assert.Equal(t, []string{tt.raw}, unknown[FieldStorage])
				assert.Zero(t, it.Storage)
				return
			}
			assert.Empty(t, unknown[FieldStorage])
			assert.Equal(t, tt.want, it.Storage)
		})
	}
}

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		unknown bool
	}{
		{name: "both", raw: "32-bit or 64-bit", want: []string{types.ArchI386, types.ArchX8664}},
		{name: "64 only", raw: "64-bit", want: []string{types.ArchX8664}},
		{name: "unrecognized", raw: "quantum", unknown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, unknown := Parse("m5.large", types.FoldedRecord{AttrArchitecture: tt.raw})
			if tt.unknown {
				assert.Equal(t, []string{tt.raw}, unknown[FieldArchitecture])
				assert.Nil(t, it.Architectures)
				return
			}
			assert.Equal(t, tt.want, it.Architectures)
		})
	}
}

func TestNetworkTier(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "10 Gigabit", want: types.NetworkVeryHigh},
		{raw: "100 Gigabit", want: types.NetworkVeryHigh},
		{raw: "Low to Moderate", want: "low_to_moderate"},
		{raw: "High", want: "high"},
		{raw: "Up to 25 Gigabit", want: "up_to_25_gigabit"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			it, unknown := Parse("m5.large", types.FoldedRecord{AttrNetwork: tt.raw})
			assert.Equal(t, tt.want, it.NetworkTier)
			// Network normalization never produces unknowns.
			assert.NotContains(t, unknown, AttrNetwork)
		})
	}
}

func TestCPUFeatureFlags(t *testing.T) {
	tests := []struct {
		name string
		rec  types.FoldedRecord
		avx  bool
		avx2 bool
	}{
		{
			name: "dedicated attributes",
			rec:  types.FoldedRecord{AttrAVX: "Yes", AttrAVX2: "Yes"},
			avx:  true, avx2: true,
		},
		{
			name: "processor features text",
			rec:  types.FoldedRecord{AttrProcessorFeatures: "Intel AVX; Intel Turbo"},
			avx:  true, avx2: false,
		},
		{
			name: "avx2 does not imply avx word match",
			rec:  types.FoldedRecord{AttrProcessorFeatures: "AVX2"},
			avx:  false, avx2: true,
		},
		{
			name: "absent everywhere",
			rec:  types.FoldedRecord{},
			avx:  false, avx2: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, _ := Parse("m5.large", tt.rec)
			assert.Equal(t, tt.avx, types.FlagSet(it.AVX))
			assert.Equal(t, tt.avx2, types.FlagSet(it.AVX2))
		})
	}
}

func TestTriStateFlagsNeverFalse(t *testing.T) {
	it, _ := Parse("m1.small", types.FoldedRecord{})
	// Absent features are nil, not a false pointer.
	assert.Nil(t, it.AVX)
	assert.Nil(t, it.AVX2)
	assert.Nil(t, it.Turbo)
	assert.Nil(t, it.EBSOptimized)
	assert.Nil(t, it.EnhancedNetworking)
}

func TestAESNIFollowsGeneration(t *testing.T) {
	current, _ := Parse("m5.large", types.FoldedRecord{AttrCurrentGeneration: "Yes"})
	require.NotNil(t, current.AESNI)
	assert.True(t, *current.AESNI)
	assert.False(t, current.Deprecated)

	old, _ := Parse("m1.small", types.FoldedRecord{AttrCurrentGeneration: "No"})
	assert.Nil(t, old.AESNI)
	assert.True(t, old.Deprecated)

	missing, _ := Parse("m1.small", types.FoldedRecord{})
	assert.True(t, missing.Deprecated)
}

func TestVirtualizationAndFamilySets(t *testing.T) {
	para, _ := Parse("m1.small", types.FoldedRecord{})
	assert.Equal(t, "paravirtual", para.Virtualization)

	hvm, _ := Parse("m5.large", types.FoldedRecord{})
	assert.Equal(t, "hvm", hvm.Virtualization)
	assert.True(t, types.FlagSet(hvm.ClusterNetworking))
	assert.True(t, types.FlagSet(hvm.VPCOnly))

	classic, _ := Parse("m1.small", types.FoldedRecord{})
	assert.Nil(t, classic.ClusterNetworking)
	assert.Nil(t, classic.VPCOnly)
}

func TestParseVCPU(t *testing.T) {
	it, unknown := Parse("m5.large", types.FoldedRecord{AttrVCPU: "2"})
	assert.Equal(t, 2, it.VCPU)
	assert.Empty(t, unknown[FieldVCPU])

	it, unknown = Parse("m5.large", types.FoldedRecord{AttrVCPU: "two"})
	assert.Zero(t, it.VCPU)
	assert.Equal(t, []string{"two"}, unknown[FieldVCPU])
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	rec := types.FoldedRecord{
		AttrMemory:       "\x00\xff",
		AttrStorage:      "x x x",
		AttrVCPU:         "-",
		AttrArchitecture: "",
		AttrNetwork:      "   ",
	}
	it, unknown := Parse("!!!", rec)
	assert.NotNil(t, it)
	assert.GreaterOrEqual(t, unknown.Total(), 4)
}

func strPtr(s string) *string {
	return &s
}
