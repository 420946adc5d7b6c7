// Package metrics captures CloudWatch statistics for EC2 instances and
// maps them onto the fixed internal counter schema.
package metrics

import (
	"sort"
	"time"

	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/yairfalse/kalusto/pkg/types"
)

// FieldMetric is the UnknownSet key for unmapped CloudWatch metric names.
const FieldMetric = "metric"

// counterSpec ties an internal counter to the CloudWatch metric and
// statistic that feed it.
type counterSpec struct {
	Counter   string
	Statistic cwtypes.Statistic
	Unit      cwtypes.StandardUnit
}

// counterSchema is the fixed internal counter schema. Metric names outside
// this table are reported as unknown, never fatal.
var counterSchema = map[string]counterSpec{
	"CPUUtilization": {Counter: "cpu_usage", Statistic: cwtypes.StatisticAverage, Unit: cwtypes.StandardUnitPercent},
	"NetworkIn":      {Counter: "net_in", Statistic: cwtypes.StatisticSum, Unit: cwtypes.StandardUnitBytes},
	"NetworkOut":     {Counter: "net_out", Statistic: cwtypes.StatisticSum, Unit: cwtypes.StandardUnitBytes},
	"DiskReadBytes":  {Counter: "disk_read_bytes", Statistic: cwtypes.StatisticSum, Unit: cwtypes.StandardUnitBytes},
	"DiskWriteBytes": {Counter: "disk_write_bytes", Statistic: cwtypes.StatisticSum, Unit: cwtypes.StandardUnitBytes},
	"DiskReadOps":    {Counter: "disk_read_ops", Statistic: cwtypes.StatisticSum, Unit: cwtypes.StandardUnitCount},
	"DiskWriteOps":   {Counter: "disk_write_ops", Statistic: cwtypes.StatisticSum, Unit: cwtypes.StandardUnitCount},
}

// Sample is one datapoint of an internal counter.
type Sample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Value     float64   `json:"value" yaml:"value"`
}

// CounterSeries is the captured time series for one internal counter.
type CounterSeries struct {
	Counter   string   `json:"counter" yaml:"counter"`
	Statistic string   `json:"statistic" yaml:"statistic"`
	Unit      string   `json:"unit" yaml:"unit"`
	Samples   []Sample `json:"samples" yaml:"samples"`
}

// SchemaMetrics returns the CloudWatch metric names the schema covers, in
// a fixed order.
func SchemaMetrics() []string {
	names := make([]string, 0, len(counterSchema))
	for name := range counterSchema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MapDatapoints converts CloudWatch datapoints for one metric into an
// internal counter series. A metric outside the schema records the name in
// unknown and returns false; its datapoints are dropped from the capture
// but never abort it.
func MapDatapoints(metric string, datapoints []cwtypes.Datapoint, unknown types.UnknownSet) (CounterSeries, bool) {
	spec, ok := counterSchema[metric]
	if !ok {
		unknown.Add(FieldMetric, metric)
		return CounterSeries{}, false
	}

	samples := make([]Sample, 0, len(datapoints))
	for _, dp := range datapoints {
		if dp.Timestamp == nil {
			continue
		}
		samples = append(samples, Sample{
			Timestamp: *dp.Timestamp,
			Value:     statisticValue(spec.Statistic, dp),
		})
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	return CounterSeries{
		Counter:   spec.Counter,
		Statistic: string(spec.Statistic),
		Unit:      string(spec.Unit),
		Samples:   samples,
	}, true
}

func statisticValue(stat cwtypes.Statistic, dp cwtypes.Datapoint) float64 {
	var v *float64
	switch stat {
	case cwtypes.StatisticAverage:
		v = dp.Average
	case cwtypes.StatisticSum:
		v = dp.Sum
	case cwtypes.StatisticMaximum:
		v = dp.Maximum
	case cwtypes.StatisticMinimum:
		v = dp.Minimum
	case cwtypes.StatisticSampleCount:
		v = dp.SampleCount
	}
	if v == nil {
		return 0
	}
	return *v
}
