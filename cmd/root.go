package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loomops/spool/internal/config"
	"github.com/loomops/spool/internal/logging"
	"github.com/loomops/spool/internal/ui"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
	noColor      bool
	quiet        bool

	// render is the global renderer for all output
	render *ui.Renderer
)

var rootCmd = &cobra.Command{
	Use:   "spool",
	Short: "Wind a workflow run's logs back off the cluster",
	Long: `spool - wind the thread of a workflow run back onto one spool.

Loom runs workflow steps as Kubernetes jobs and ships their container logs
to OpenSearch through Fluent Bit. spool queries those indices and
reassembles the log stream for a job, for a workflow run's batch pod, or
for the Dask cluster serving a run.

Configuration:
  Create ~/.spool/config.yaml (or run 'spool init'):

    enabled: true
    host: opensearch.example.org
    port: 9200
    tls: true
    username: loom
    password: secret

  Every setting can also be supplied as a SPOOL_* environment variable
  (SPOOL_HOST, SPOOL_PASSWORD, SPOOL_ENABLED, ...).

Examples:
  # Logs of one workflow step's Kubernetes job
  spool job loom-run-job-9adf19cb

  # Engine-level logs of a workflow run
  spool workflow 4f0b0bcf-f2a7-4658-a4a4-978b2f0b24a1

  # Scheduler logs of the run's Dask cluster
  spool dask scheduler 4f0b0bcf-f2a7-4658-a4a4-978b2f0b24a1

  # Check engine reachability and index health
  spool health`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version string for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initConfig, initLogging, initRenderer)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.spool/config.yaml)")
	rootCmd.PersistentFlags().String("host", "", "Engine host (overrides config)")
	rootCmd.PersistentFlags().Int("port", 0, "Engine port (overrides config)")
	rootCmd.PersistentFlags().String("aws-profile", "", "AWS profile for SigV4 request signing")
	rootCmd.PersistentFlags().String("aws-region", "", "AWS region for SigV4 request signing")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress status messages")

	// Bind flags to viper
	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("aws_profile", rootCmd.PersistentFlags().Lookup("aws-profile"))
	_ = viper.BindPFlag("aws_region", rootCmd.PersistentFlags().Lookup("aws-region"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initRenderer initializes the global renderer with current settings.
func initRenderer() {
	render = ui.NewRendererWithOptions(
		ui.WithNoColor(noColor || os.Getenv("NO_COLOR") != ""),
		ui.WithQuiet(quiet),
	)
}

// initLogging configures the global logger before any command runs.
func initLogging() {
	logging.Setup(IsVerbose(), quiet)
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose || viper.GetBool("verbose")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".spool"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("SPOOL")
	viper.AutomaticEnv()

	// Defaults
	config.SetDefaults(viper.GetViper())
	viper.SetDefault("output", "text")

	// Read config file (ignore if not found, warn on other errors)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}
}

// getOutputFormat returns the output format from flags or config.
func getOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	return viper.GetString("output")
}
