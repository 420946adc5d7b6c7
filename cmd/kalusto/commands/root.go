package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yairfalse/kalusto/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kalusto",
	Short: "EC2 instance-type catalog collector",
	Long: `KALUSTO builds a canonical EC2 instance-type catalog from AWS
price-list data.

It folds every published offer version into one record per instance type,
reports attributes that disagree across versions, parses the free-text
attribute strings (memory, storage, network tier, CPU features) into typed
fields, and orders the result by the EC2 API model. Values that fail
parsing are collected for review, never silently dropped.

  kalusto collect             # build the catalog
  kalusto versions            # list published price-list versions
  kalusto metrics i-0abc...   # capture CloudWatch counters for an instance`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kalusto/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("output", "yaml", "output format (yaml, json)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("region", "", "AWS region")
	rootCmd.PersistentFlags().String("profile", "", "AWS profile")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("output.no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("aws.region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("aws.profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.AddCommand(newCollectCommand())
	rootCmd.AddCommand(newVersionsCommand())
	rootCmd.AddCommand(newMetricsCommand())
	rootCmd.AddCommand(newVersionCommand())
}
