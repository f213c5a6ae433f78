package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/loomops/spool/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize spool configuration",
	Long: `Write a starter config file to ~/.spool/config.yaml.

The starter config turns log retrieval on against a local engine; edit
the connection settings to point at your cluster. Without a config (or
SPOOL_ENABLED=true), spool stays disabled.

Examples:
  # Create default config (won't overwrite existing)
  spool init

  # Force overwrite existing config
  spool init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.Path()
	if configPath == "" {
		return fmt.Errorf("failed to locate home directory")
	}

	if err := createFileIfNotExists(configPath, generateDefaultConfig(), initForce); err != nil {
		return err
	}

	fmt.Println("Initialized spool configuration:")
	fmt.Printf("  Config: %s\n", configPath)
	fmt.Printf("\nEdit %s to point spool at your engine.\n", configPath)

	return nil
}

func generateDefaultConfig() string {
	return fmt.Sprintf(`# spool configuration

# Gate for log retrieval. spool does nothing until this is true.
enabled: true

# Engine connection
host: localhost
port: 9200
# url_prefix: /os
# tls: true
# ca_cert: /etc/ssl/certs/opensearch-ca.pem

# Basic auth
# username: loom
# password: secret

# SigV4 signing for Amazon OpenSearch Service domains
# aws_signing: true
# aws_profile: default
# aws_region: us-east-1

# Query tuning (defaults shown)
# max_rows: %d
# order: asc
# timeout: %s

# Index layout, only needed with a customized Fluent Bit setup
# job_index: %s
# workflow_index: %s
# dask_index: %s

# Default output format: text, json
output: text
`,
		config.DefaultMaxRows,
		config.DefaultTimeout,
		config.DefaultJobIndex,
		config.DefaultWorkflowIndex,
		config.DefaultDaskIndex,
	)
}

func createFileIfNotExists(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("  %s already exists (use --force to overwrite)\n", path)
			return nil
		}
	}

	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// 0600: the config may carry the engine password
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("  Created %s\n", path)
	return nil
}
