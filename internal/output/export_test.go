package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/kalusto/pkg/types"
)

func sampleCatalog() *types.Catalog {
	return &types.Catalog{Entries: []types.CatalogEntry{
		{Name: "m5.large", InstanceType: types.InstanceType{
			Name:      "m5.large",
			MemoryGiB: 8,
			AVX:       types.Flag(true),
			AVX2:      types.Flag(false),
		}},
	}}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		f, err := NewFormatter(format)
		require.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := NewFormatter("xml")
	assert.Error(t, err)
}

func TestYAMLTriStateFlags(t *testing.T) {
	f := &YAMLFormatter{}
	data, err := f.FormatCatalog(sampleCatalog())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "avx: true")
	// Absent features serialize as explicit null, never false.
	assert.Contains(t, text, "avx2: null")
	assert.NotContains(t, text, "avx2: false")
}

func TestJSONTriStateFlags(t *testing.T) {
	f := &JSONFormatter{}
	data, err := f.FormatCatalog(sampleCatalog())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"avx": true`)
	assert.Contains(t, text, `"avx2": null`)
}

func TestFormatDeterministic(t *testing.T) {
	f := &YAMLFormatter{}
	first, err := f.FormatCatalog(sampleCatalog())
	require.NoError(t, err)
	second, err := f.FormatCatalog(sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteToWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", []byte("hello")))
	assert.Equal(t, "hello", buf.String())
}

func TestReportRenderer(t *testing.T) {
	report := &types.CollectReport{
		RunID:         "run-1",
		InstanceCount: 2,
		Conflicts: []types.Conflict{
			{Key: "m5.large", Attribute: "memory", Values: []string{"8 GiB", "16 GiB"}},
		},
		Unknown:  types.UnknownSet{"storage": {"lots of disks"}},
		Unlisted: []string{"mystery.large"},
	}

	var buf bytes.Buffer
	NewReportRenderer(&buf, true).Render(report)
	out := buf.String()

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "m5.large.memory")
	assert.Contains(t, out, "lots of disks")
	assert.Contains(t, out, "mystery.large")
	assert.False(t, strings.Contains(out, "\x1b["), "colors disabled")
}

func TestReportRendererClean(t *testing.T) {
	report := &types.CollectReport{RunID: "run-2", Unknown: make(types.UnknownSet)}

	var buf bytes.Buffer
	NewReportRenderer(&buf, true).Render(report)
	assert.Contains(t, buf.String(), "no conflicts")
}
