package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yairfalse/kalusto/internal/clients"
	kerrors "github.com/yairfalse/kalusto/internal/errors"
	"github.com/yairfalse/kalusto/internal/logger"
	"github.com/yairfalse/kalusto/internal/metrics"
	"github.com/yairfalse/kalusto/internal/output"
)

func newMetricsCommand() *cobra.Command {
	var (
		lookback time.Duration
		period   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "metrics <instance-id>",
		Short: "Capture CloudWatch counters for an EC2 instance",
		Long: `Metrics pulls the schema counters (CPU, network, disk) for one instance
over the lookback window and prints them in the internal counter layout.
CloudWatch metrics that do not map onto the schema are listed, not fatal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.New(cfg.LogLevel)

			if lookback == 0 {
				lookback = cfg.Metrics.Lookback
			}
			if period == 0 {
				period = cfg.Metrics.Period
			}

			aws, err := clients.NewAWSClients(ctx, clients.AWSConfig{
				Region:  cfg.AWS.Region,
				Profile: cfg.AWS.Profile,
			})
			if err != nil {
				return err
			}
			if err := aws.ValidateIdentity(ctx); err != nil {
				return kerrors.New(kerrors.ErrorTypeAuthentication, kerrors.StageCapture, "AWS credentials rejected").
					WithCause(err.Error()).
					WithSolutions("Check AWS credentials and region", "Set --profile to pick a different profile").
					WithVerify("aws sts get-caller-identity")
			}

			capturer := metrics.NewCapturer(aws.CloudWatch, log)
			now := time.Now()
			capture, unknown, err := capturer.CaptureInstance(ctx, args[0], metrics.Window{
				Start:  now.Add(-lookback),
				End:    now,
				Period: period,
			})
			if err != nil {
				return kerrors.New(kerrors.ErrorTypeValidation, kerrors.StageCapture, "metrics capture failed").
					WithCause(err.Error()).
					WithSolutions("Check the --lookback and --period values", "Confirm the instance id exists in the configured region")
			}

			data, err := yaml.Marshal(capture)
			if err != nil {
				return fmt.Errorf("failed to serialize capture: %w", err)
			}
			if err := output.Write(cmd.OutOrStdout(), "", data); err != nil {
				return err
			}

			for _, name := range unknown[metrics.FieldMetric] {
				fmt.Fprintf(os.Stderr, "unmapped metric: %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&lookback, "lookback", 0, "how far back to capture (default from config)")
	cmd.Flags().DurationVar(&period, "period", 0, "datapoint period (default from config)")

	return cmd
}
