// Package opensearch connects to the OpenSearch cluster holding Loom's run
// logs and retrieves them per job, workflow, or Dask cluster component.
package opensearch

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/signer/awsv2"

	"github.com/loomops/spool/internal/config"
)

// signingService is the SigV4 service name for managed OpenSearch domains.
const signingService = "es"

// BuildClient constructs the engine client from settings. Construction only
// assembles configuration; the connection is opened by the first request.
// Request bodies are gzip-compressed and server certificates are always
// verified.
func BuildClient(s config.Settings) (*opensearchgo.Client, error) {
	cfg := opensearchgo.Config{
		Addresses:           []string{s.Address()},
		CompressRequestBody: true,
		MaxRetries:          s.MaxRetries,
		DisableRetry:        s.DisableRetry,
	}

	if s.AWSSigning {
		awsCfg, err := loadAWSConfig(s.AWSProfile, s.AWSRegion)
		if err != nil {
			return nil, err
		}
		signer, err := awsv2.NewSignerWithService(awsCfg, signingService)
		if err != nil {
			return nil, fmt.Errorf("failed to build request signer: %w", err)
		}
		cfg.Signer = signer
	} else if s.Username != "" {
		cfg.Username = s.Username
		cfg.Password = s.Password
	}

	if s.CACertPath != "" {
		pem, err := os.ReadFile(s.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		cfg.CACert = pem
	}

	client, err := opensearchgo.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine client: %w", err)
	}
	return client, nil
}

// loadAWSConfig loads the AWS configuration with optional profile and region.
func loadAWSConfig(profile, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}
