package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/kalusto/internal/clients"
	"github.com/yairfalse/kalusto/internal/logger"
	"github.com/yairfalse/kalusto/internal/pricelist"
)

func newVersionsCommand() *cobra.Command {
	var current bool

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List published price-list versions, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.New(cfg.LogLevel)

			var api pricelist.PricingAPI
			if current {
				aws, err := clients.NewAWSClients(ctx, clients.AWSConfig{
					Region:  cfg.AWS.Region,
					Profile: cfg.AWS.Profile,
				})
				if err != nil {
					return err
				}
				api = aws.Pricing
			}

			source := pricelist.NewClient(api, clients.NewBulkHTTPClient(0), nil, log, pricelist.Config{
				BaseURL:     cfg.PriceList.BaseURL,
				ServiceCode: cfg.PriceList.ServiceCode,
				Region:      cfg.AWS.Region,
			})

			versions, err := source.ListVersions(ctx)
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}

			if current {
				url, err := source.CurrentPriceListURL(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "current (%s): %s\n", cfg.AWS.Region, url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&current, "current", false, "also resolve the current region-scoped price list via the Price List API")

	return cmd
}
