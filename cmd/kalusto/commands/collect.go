package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yairfalse/kalusto/internal/cache"
	"github.com/yairfalse/kalusto/internal/catalog"
	"github.com/yairfalse/kalusto/internal/clients"
	"github.com/yairfalse/kalusto/internal/collect"
	kerrors "github.com/yairfalse/kalusto/internal/errors"
	"github.com/yairfalse/kalusto/internal/logger"
	"github.com/yairfalse/kalusto/internal/output"
	"github.com/yairfalse/kalusto/internal/pricelist"
	"github.com/yairfalse/kalusto/internal/product"
)

func newCollectCommand() *cobra.Command {
	var (
		outPath     string
		reportPath  string
		maxVersions int
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Build the instance-type catalog from price-list data",
		Long: `Collect folds all published EC2 price-list versions into one record per
instance type, parses the attribute strings into typed fields, and writes
the catalog ordered by the EC2 API model. Cross-version conflicts,
unparseable values, and types unknown to the API model are summarized on
stderr and included in the report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.New(cfg.LogLevel)

			var blobs cache.BlobCache
			if cfg.Cache.Enabled && !noCache {
				var err error
				blobs, err = cache.NewDiskCache(cache.Config{Dir: cfg.Cache.Dir, TTL: cfg.Cache.TTL})
				if err != nil {
					return kerrors.New(kerrors.ErrorTypeConfiguration, kerrors.StageFetch, "cannot set up price-list cache").
						WithCause(err.Error()).
						WithSolutions("Check that the cache directory is writable", "Run with --no-cache to skip caching")
				}
			}

			source := pricelist.NewClient(nil, clients.NewBulkHTTPClient(0), blobs, log, pricelist.Config{
				BaseURL:     cfg.PriceList.BaseURL,
				ServiceCode: cfg.PriceList.ServiceCode,
				Region:      cfg.AWS.Region,
			})

			opts := collect.DefaultOptions()
			opts.Families = cfg.PriceList.FamilySet()
			opts.MaxVersions = cfg.PriceList.MaxVersions
			if maxVersions > 0 {
				opts.MaxVersions = maxVersions
			}

			pipeline := collect.New(source, catalog.APIModelOrder{}, log, opts)
			cat, report, err := pipeline.Run(ctx)
			if err != nil {
				return classifyRunError(err)
			}

			formatter, err := output.NewFormatter(cfg.Output.Format)
			if err != nil {
				return err
			}

			data, err := formatter.FormatCatalog(cat)
			if err != nil {
				return kerrors.New(kerrors.ErrorTypeData, kerrors.StageExport, "cannot serialize catalog").
					WithCause(err.Error())
			}
			if outPath == "" {
				outPath = cfg.Output.Path
			}
			if err := output.Write(os.Stdout, outPath, data); err != nil {
				return err
			}

			if reportPath != "" {
				data, err := formatter.FormatReport(report)
				if err != nil {
					return fmt.Errorf("failed to serialize report: %w", err)
				}
				if err := output.Write(os.Stdout, reportPath, data); err != nil {
					return err
				}
			}

			output.NewReportRenderer(os.Stderr, cfg.Output.NoColor).Render(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write catalog to file instead of stdout")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the diagnostic report to file")
	cmd.Flags().IntVar(&maxVersions, "max-versions", 0, "fold only the newest N versions (0 = all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the offer document cache")

	return cmd
}

// classifyRunError turns pipeline failures into operator-facing errors with
// the stage that broke and something actionable to do about it.
func classifyRunError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrEmptyOrder):
		return kerrors.New(kerrors.ErrorTypeData, kerrors.StageBuild, "cannot order the catalog").
			WithCause(err.Error()).
			WithSolutions("Upgrade the AWS SDK dependency so the EC2 API model lists instance types")
	case errors.Is(err, product.ErrMissingFoldKey):
		return kerrors.New(kerrors.ErrorTypeData, kerrors.StageFold, "price list contains a record without an instance type").
			WithCause(err.Error()).
			WithSolutions("Run with --max-versions to skip older, malformed offer versions")
	default:
		return kerrors.New(kerrors.ErrorTypeNetwork, kerrors.StageFetch, "collection failed").
			WithCause(err.Error()).
			WithSolutions("Check network access to the price-list endpoint", "Retry; transient endpoint errors are common").
			WithVerify("curl -sI " + pricelist.DefaultBaseURL + "/offers/v1.0/aws/AmazonEC2/index.json")
	}
}
