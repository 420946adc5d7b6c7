package product

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yairfalse/kalusto/pkg/types"
)

// Price-list attribute names consumed by the parser.
const (
	AttrInstanceType       = "instanceType"
	AttrMemory             = "memory"
	AttrStorage            = "storage"
	AttrVCPU               = "vcpu"
	AttrArchitecture       = "processorArchitecture"
	AttrNetwork            = "networkPerformance"
	AttrCurrentGeneration  = "currentGeneration"
	AttrProcessorFeatures  = "processorFeatures"
	AttrAVX                = "intelAvxAvailable"
	AttrAVX2               = "intelAvx2Available"
	AttrTurbo              = "intelTurboAvailable"
	AttrEBSOptimized       = "ebsOptimized"
	AttrEnhancedNetworking = "enhancedNetworkingSupported"
)

// Logical field names used as UnknownSet keys.
const (
	FieldInstanceType = "instance_type"
	FieldMemory       = "memory"
	FieldStorage      = "storage"
	FieldVCPU         = "vcpu"
	FieldArchitecture = "architecture"
)

var (
	typeNameRe = regexp.MustCompile(`^(?:([a-z0-9-]+)\.)?(\d*)([a-z][a-z-]*)$`)
	memoryRe   = regexp.MustCompile(`(?i)^\s*([0-9,]+(?:\.[0-9]+)?)\s*GiB\s*$`)
	storageRe  = regexp.MustCompile(`(?i)^\s*([0-9]+)\s*x\s*([0-9,]+(?:\.[0-9]+)?)\s*(.*?)\s*$`)
	gigabitRe  = regexp.MustCompile(`(?i)^\s*[0-9]+\s+Gigabit\s*$`)
	spaceRunRe = regexp.MustCompile(`\s+`)

	avxWordRe   = regexp.MustCompile(`\bAVX\b`)
	avx2WordRe  = regexp.MustCompile(`\bAVX2\b`)
	turboWordRe = regexp.MustCompile(`\bTurbo\b`)
)

// architectures maps the upstream architecture label to concrete tags.
var architectures = map[string][]string{
	"32-bit or 64-bit": {types.ArchI386, types.ArchX8664},
	"64-bit":           {types.ArchX8664},
}

// familyNames holds informal family names included in descriptions.
// Families missing here describe themselves well enough.
var familyNames = map[string]string{
	"m1":  "general purpose",
	"m2":  "high memory",
	"c1":  "high CPU",
	"cc2": "cluster compute",
	"cr1": "high memory cluster",
	"cg1": "cluster GPU",
	"g2":  "GPU",
	"hi1": "high I/O",
	"hs1": "high storage",
	"i2":  "high I/O",
	"d2":  "dense storage",
	"x1":  "extra large memory",
}

// popularFamilies suppress the informal name even when one exists; the
// family code alone is how people refer to these.
var popularFamilies = map[string]bool{
	"t2": true, "t3": true,
	"m3": true, "m4": true, "m5": true,
	"c3": true, "c4": true, "c5": true,
	"r3": true, "r4": true, "r5": true,
}

// paravirtualFamilies are the generations that never supported HVM.
var paravirtualFamilies = map[string]bool{
	"m1": true, "m2": true, "c1": true, "t1": true,
	"hi1": true, "hs1": true,
}

const defaultVirtualization = "hvm"

// clusterFamilies support cluster (placement-group) networking.
var clusterFamilies = map[string]bool{
	"cc2": true, "cr1": true, "cg1": true,
	"c3": true, "c4": true, "c5": true,
	"d2": true, "g2": true, "g3": true, "i2": true, "i3": true,
	"m4": true, "m5": true, "p2": true, "p3": true,
	"r3": true, "r4": true, "r5": true, "x1": true,
}

// vpcOnlyFamilies cannot launch in EC2-Classic.
var vpcOnlyFamilies = map[string]bool{
	"t2": true, "t3": true,
	"m4": true, "m5": true,
	"c4": true, "c5": true,
	"r4": true, "r5": true,
	"g3": true, "i3": true, "p2": true, "p3": true,
	"x1": true, "f1": true, "h1": true,
}

// Parse derives a typed instance descriptor from a folded record. It never
// fails: each extraction that rejects its input records the raw string in
// the returned UnknownSet under the logical field name and leaves the
// descriptor field at its zero default, so one malformed attribute never
// costs the whole record.
func Parse(name string, rec types.FoldedRecord) (types.InstanceType, types.UnknownSet) {
	unknown := make(types.UnknownSet)

	it := types.InstanceType{
		Name:       name,
		Deprecated: rec[AttrCurrentGeneration] != "Yes",
	}

	parseTypeName(&it, unknown)
	parseMemory(&it, rec, unknown)
	parseStorage(&it, rec, unknown)
	parseVCPU(&it, rec, unknown)
	parseArchitecture(&it, rec, unknown)

	it.NetworkTier = networkTier(rec[AttrNetwork])
	it.Virtualization = virtualization(it.Family)

	it.AVX = types.Flag(cpuFeature(rec, AttrAVX, avxWordRe))
	it.AVX2 = types.Flag(cpuFeature(rec, AttrAVX2, avx2WordRe))
	it.Turbo = types.Flag(cpuFeature(rec, AttrTurbo, turboWordRe))

	// Every non-deprecated generation ships AES-NI; this is a domain
	// assumption rather than a published attribute.
	it.AESNI = types.Flag(!it.Deprecated)

	it.EBSOptimized = types.Flag(rec[AttrEBSOptimized] == "Yes")
	it.EnhancedNetworking = types.Flag(rec[AttrEnhancedNetworking] == "Yes")
	it.ClusterNetworking = types.Flag(clusterFamilies[it.Family])
	it.VPCOnly = types.Flag(vpcOnlyFamilies[it.Family])

	return it, unknown
}

// parseTypeName splits "m5.2xlarge" into family, multiplier, and size and
// builds the human description. A name that does not fit the shape at all
// goes to the unknown set with all three sub-fields left empty. A missing
// multiplier (a bare "large") counts as 1.
func parseTypeName(it *types.InstanceType, unknown types.UnknownSet) {
	m := typeNameRe.FindStringSubmatch(it.Name)
	if m == nil {
		unknown.Add(FieldInstanceType, it.Name)
		return
	}

	it.Family = m[1]
	it.Size = m[3]
	it.Multiplier = 1
	if m[2] != "" {
		it.Multiplier, _ = strconv.Atoi(m[2])
	}

	var parts []string
	if it.Family != "" {
		parts = append(parts, strings.ToUpper(it.Family))
	}
	if informal, ok := familyNames[it.Family]; ok && !popularFamilies[it.Family] {
		parts = append(parts, titleCase(informal))
	}
	parts = append(parts, sizeLabel(it.Multiplier, it.Size))
	it.Description = strings.Join(parts, " ")
}

func sizeLabel(multiplier int, size string) string {
	if size == "xlarge" {
		return fmt.Sprintf("%dXL", multiplier)
	}
	return capitalize(size)
}

func parseMemory(it *types.InstanceType, rec types.FoldedRecord, unknown types.UnknownSet) {
	raw := rec[AttrMemory]
	m := memoryRe.FindStringSubmatch(raw)
	if m == nil {
		unknown.Add(FieldMemory, raw)
		return
	}
	it.MemoryGiB, _ = strconv.ParseFloat(stripCommas(m[1]), 64)
}

// parseStorage understands the "EBS only" sentinel and the
// "<count> x <size> [medium]" geometry. Commas inside the size are
// thousands separators, never decimals.
func parseStorage(it *types.InstanceType, rec types.FoldedRecord, unknown types.UnknownSet) {
	raw := rec[AttrStorage]
	if strings.EqualFold(strings.TrimSpace(raw), "EBS only") {
		it.Storage = types.Storage{EBSOnly: true}
		return
	}

	m := storageRe.FindStringSubmatch(raw)
	if m == nil {
		unknown.Add(FieldStorage, raw)
		return
	}

	volumes, _ := strconv.Atoi(m[1])
	perVolume, _ := strconv.ParseFloat(stripCommas(m[2]), 64)

	var medium *string
	if m[3] != "" {
		medium = &m[3]
	}

	it.Storage = types.Storage{
		Volumes:   volumes,
		PerVolume: perVolume,
		TotalGB:   perVolume * float64(volumes),
		Medium:    medium,
	}
}

func parseVCPU(it *types.InstanceType, rec types.FoldedRecord, unknown types.UnknownSet) {
	raw := rec[AttrVCPU]
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		unknown.Add(FieldVCPU, raw)
		return
	}
	it.VCPU = n
}

func parseArchitecture(it *types.InstanceType, rec types.FoldedRecord, unknown types.UnknownSet) {
	raw := rec[AttrArchitecture]
	arches, ok := architectures[strings.TrimSpace(raw)]
	if !ok {
		unknown.Add(FieldArchitecture, raw)
		return
	}
	it.Architectures = append([]string(nil), arches...)
}

// networkTier normalizes the advertised network performance. "<n> Gigabit"
// collapses to the very_high tier; any other wording becomes a tier tag of
// its own, lower-cased with whitespace runs replaced by underscores. This
// is a normalization, so nothing here is ever recorded as unknown.
func networkTier(raw string) string {
	if gigabitRe.MatchString(raw) {
		return types.NetworkVeryHigh
	}
	return spaceRunRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "_")
}

func virtualization(family string) string {
	if paravirtualFamilies[family] {
		return "paravirtual"
	}
	return defaultVirtualization
}

// cpuFeature reports a CPU feature as present when the dedicated
// boolean-ish attribute says "Yes" or the free-text processor features
// mention it as a whole word. The two signals are independent; absence of
// both is a valid "not present", never a parse failure.
func cpuFeature(rec types.FoldedRecord, attr string, word *regexp.Regexp) bool {
	if rec[attr] == "Yes" {
		return true
	}
	return word.MatchString(rec[AttrProcessorFeatures])
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
