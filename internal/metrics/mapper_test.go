package metrics

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/kalusto/pkg/types"
)

func TestMapDatapointsKnownMetric(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(5 * time.Minute)

	// Out of order on purpose; samples must come back sorted.
	datapoints := []cwtypes.Datapoint{
		{Timestamp: aws.Time(t1), Average: aws.Float64(42.5)},
		{Timestamp: aws.Time(t0), Average: aws.Float64(12.5)},
	}

	unknown := make(types.UnknownSet)
	series, ok := MapDatapoints("CPUUtilization", datapoints, unknown)
	require.True(t, ok)
	assert.True(t, unknown.Empty())

	assert.Equal(t, "cpu_usage", series.Counter)
	assert.Equal(t, "Average", series.Statistic)
	require.Len(t, series.Samples, 2)
	assert.Equal(t, Sample{Timestamp: t0, Value: 12.5}, series.Samples[0])
	assert.Equal(t, Sample{Timestamp: t1, Value: 42.5}, series.Samples[1])
}

func TestMapDatapointsSumStatistic(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	datapoints := []cwtypes.Datapoint{
		{Timestamp: aws.Time(t0), Sum: aws.Float64(1024), Average: aws.Float64(99)},
	}

	unknown := make(types.UnknownSet)
	series, ok := MapDatapoints("NetworkIn", datapoints, unknown)
	require.True(t, ok)
	assert.Equal(t, "net_in", series.Counter)
	// Sum feeds the counter, not Average.
	assert.Equal(t, 1024.0, series.Samples[0].Value)
}

func TestMapDatapointsUnknownMetric(t *testing.T) {
	unknown := make(types.UnknownSet)
	_, ok := MapDatapoints("StatusCheckFailed", nil, unknown)
	assert.False(t, ok)
	assert.Equal(t, []string{"StatusCheckFailed"}, unknown[FieldMetric])

	// A repeat does not duplicate the entry.
	_, _ = MapDatapoints("StatusCheckFailed", nil, unknown)
	assert.Equal(t, []string{"StatusCheckFailed"}, unknown[FieldMetric])
}

func TestMapDatapointsSkipsNilTimestamps(t *testing.T) {
	unknown := make(types.UnknownSet)
	series, ok := MapDatapoints("DiskReadOps", []cwtypes.Datapoint{{Sum: aws.Float64(7)}}, unknown)
	require.True(t, ok)
	assert.Empty(t, series.Samples)
}

func TestSchemaMetricsStable(t *testing.T) {
	first := SchemaMetrics()
	second := SchemaMetrics()
	assert.Equal(t, first, second)
	assert.Contains(t, first, "CPUUtilization")
	assert.Contains(t, first, "NetworkOut")
}

func TestWindowAlign(t *testing.T) {
	w := Window{
		Start:  time.Date(2026, 8, 1, 12, 3, 17, 0, time.UTC),
		End:    time.Date(2026, 8, 1, 13, 2, 44, 0, time.UTC),
		Period: 5 * time.Minute,
	}.Align()

	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC), w.End)
}

func TestWindowAlignDefaultsPeriod(t *testing.T) {
	w := Window{Start: time.Now(), End: time.Now().Add(time.Hour)}.Align()
	assert.Equal(t, 5*time.Minute, w.Period)
}
