package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/yairfalse/kalusto/internal/logger"
	"github.com/yairfalse/kalusto/pkg/types"
)

const ec2Namespace = "AWS/EC2"

// CloudWatchAPI is the slice of the CloudWatch API the capturer uses.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// Window is the capture time window. Start and end are aligned down to the
// period so repeated captures over the same wall-clock range ask
// CloudWatch for identical buckets.
type Window struct {
	Start  time.Time
	End    time.Time
	Period time.Duration
}

// Align returns the window with start and end truncated to period
// boundaries.
func (w Window) Align() Window {
	if w.Period <= 0 {
		w.Period = 5 * time.Minute
	}
	w.Start = w.Start.Truncate(w.Period)
	w.End = w.End.Truncate(w.Period)
	return w
}

// Capture is the per-instance capture result.
type Capture struct {
	InstanceID string                   `json:"instance_id" yaml:"instance_id"`
	Start      time.Time                `json:"start" yaml:"start"`
	End        time.Time                `json:"end" yaml:"end"`
	Period     time.Duration            `json:"period" yaml:"period"`
	Counters   map[string]CounterSeries `json:"counters" yaml:"counters"`
}

// Capturer pulls EC2 statistics from CloudWatch.
type Capturer struct {
	api CloudWatchAPI
	log logger.Logger
}

// NewCapturer creates a CloudWatch capturer.
func NewCapturer(api CloudWatchAPI, log logger.Logger) *Capturer {
	return &Capturer{api: api, log: log}
}

// CaptureInstance fetches every schema metric for one instance over the
// window. Individual metric failures are logged and skipped so one
// throttled call does not lose the whole capture; the returned UnknownSet
// carries any metric names the schema rejected.
func (c *Capturer) CaptureInstance(ctx context.Context, instanceID string, window Window) (*Capture, types.UnknownSet, error) {
	window = window.Align()
	if !window.Start.Before(window.End) {
		return nil, nil, fmt.Errorf("capture window start %s is not before end %s", window.Start, window.End)
	}

	unknown := make(types.UnknownSet)
	capture := &Capture{
		InstanceID: instanceID,
		Start:      window.Start,
		End:        window.End,
		Period:     window.Period,
		Counters:   make(map[string]CounterSeries),
	}

	for _, metric := range SchemaMetrics() {
		spec := counterSchema[metric]
		out, err := c.api.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
			Namespace:  aws.String(ec2Namespace),
			MetricName: aws.String(metric),
			Dimensions: []cwtypes.Dimension{
				{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
			},
			StartTime:  aws.Time(window.Start),
			EndTime:    aws.Time(window.End),
			Period:     aws.Int32(int32(window.Period / time.Second)),
			Statistics: []cwtypes.Statistic{spec.Statistic},
		})
		if err != nil {
			if c.log != nil {
				c.log.WithField("metric", metric).Error("failed to fetch metric statistics", err)
			}
			continue
		}

		series, ok := MapDatapoints(metric, out.Datapoints, unknown)
		if !ok {
			continue
		}
		capture.Counters[series.Counter] = series
	}

	return capture, unknown, nil
}
