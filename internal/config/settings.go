// Package config defines the settings for the OpenSearch connection and the
// log queries issued over it, and materializes them from viper.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Sort orders accepted for log queries.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Index and matcher defaults match what the Fluent Bit forwarders stamp on
// Loom's Kubernetes pods. Changing them only makes sense against a cluster
// with a customized forwarder config.
const (
	DefaultJobIndex      = "fluentbit-job_log"
	DefaultWorkflowIndex = "fluentbit-workflow_log"
	DefaultDaskIndex     = "fluentbit-dask_log"

	DefaultJobMatcher      = "kubernetes.labels.job-name.keyword"
	DefaultWorkflowMatcher = "kubernetes.labels.loom-run-batch-workflow-uuid.keyword"
	DefaultDaskMatcher     = "kubernetes.labels.dask.org/cluster-name.keyword"

	DefaultMaxRows = 5000
	DefaultLogKey  = "log"
	DefaultTimeout = 5 * time.Second
)

// Settings holds every knob for the OpenSearch connection. Construct via
// FromViper (CLI) or fill the fields directly (library use). The zero value
// has the integration disabled.
type Settings struct {
	// Enabled gates the whole integration. When false, BuildLogFetcher
	// returns no fetcher and callers fall back to whatever other log
	// source they have.
	Enabled bool

	Host       string
	Port       int
	URLPrefix  string
	UseTLS     bool
	CACertPath string

	Username string
	Password string

	// SigV4 request signing for Amazon OpenSearch Service domains. Takes
	// precedence over basic auth when both are configured.
	AWSSigning bool
	AWSProfile string
	AWSRegion  string

	MaxRetries   int
	DisableRetry bool

	Fetcher FetcherSettings
}

// FetcherSettings parameterizes the queries themselves: which indices hold
// which log domain, which document fields identify a job, a workflow run, or
// a Dask cluster, and how results are capped and ordered.
type FetcherSettings struct {
	JobIndex      string
	WorkflowIndex string
	DaskIndex     string

	JobMatcher      string
	WorkflowMatcher string
	DaskMatcher     string

	MaxRows int
	LogKey  string
	Order   string
	Timeout time.Duration
}

// Address returns the engine base URL, including the optional path prefix
// for setups that serve OpenSearch behind a reverse proxy.
func (s Settings) Address() string {
	scheme := "http"
	if s.UseTLS {
		scheme = "https"
	}
	addr := scheme + "://" + net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	if s.URLPrefix != "" {
		if s.URLPrefix[0] != '/' {
			addr += "/"
		}
		addr += s.URLPrefix
	}
	return addr
}

// Validate reports the first problem that would make the settings unusable.
func (s Settings) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	return s.Fetcher.validate()
}

func (f FetcherSettings) validate() error {
	if f.Order != OrderAsc && f.Order != OrderDesc {
		return fmt.Errorf("order must be %q or %q, got %q", OrderAsc, OrderDesc, f.Order)
	}
	if f.MaxRows <= 0 {
		return fmt.Errorf("max_rows must be positive, got %d", f.MaxRows)
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", f.Timeout)
	}
	for _, index := range []struct{ key, val string }{
		{"job_index", f.JobIndex},
		{"workflow_index", f.WorkflowIndex},
		{"dask_index", f.DaskIndex},
	} {
		if index.val == "" {
			return fmt.Errorf("%s must not be empty", index.key)
		}
	}
	return nil
}

// Indices returns the three configured log indices in a stable order.
func (f FetcherSettings) Indices() []string {
	return []string{f.JobIndex, f.WorkflowIndex, f.DaskIndex}
}

// Dir returns the spool config directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".spool")
}

// Path returns the path to the spool config file.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// SetDefaults registers every setting's default so config files, SPOOL_*
// environment variables, and bound flags all resolve against the same keys.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("enabled", false)
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 9200)
	v.SetDefault("url_prefix", "")
	v.SetDefault("tls", false)
	v.SetDefault("ca_cert", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("aws_signing", false)
	v.SetDefault("aws_profile", "")
	v.SetDefault("aws_region", "")
	v.SetDefault("max_retries", 0)
	v.SetDefault("disable_retry", false)

	v.SetDefault("job_index", DefaultJobIndex)
	v.SetDefault("workflow_index", DefaultWorkflowIndex)
	v.SetDefault("dask_index", DefaultDaskIndex)
	v.SetDefault("job_matcher", DefaultJobMatcher)
	v.SetDefault("workflow_matcher", DefaultWorkflowMatcher)
	v.SetDefault("dask_matcher", DefaultDaskMatcher)
	v.SetDefault("max_rows", DefaultMaxRows)
	v.SetDefault("log_key", DefaultLogKey)
	v.SetDefault("order", OrderAsc)
	v.SetDefault("timeout", DefaultTimeout)
}

// FromViper materializes Settings from the given viper instance.
func FromViper(v *viper.Viper) Settings {
	return Settings{
		Enabled:      v.GetBool("enabled"),
		Host:         v.GetString("host"),
		Port:         v.GetInt("port"),
		URLPrefix:    v.GetString("url_prefix"),
		UseTLS:       v.GetBool("tls"),
		CACertPath:   v.GetString("ca_cert"),
		Username:     v.GetString("username"),
		Password:     v.GetString("password"),
		AWSSigning:   v.GetBool("aws_signing"),
		AWSProfile:   v.GetString("aws_profile"),
		AWSRegion:    v.GetString("aws_region"),
		MaxRetries:   v.GetInt("max_retries"),
		DisableRetry: v.GetBool("disable_retry"),
		Fetcher: FetcherSettings{
			JobIndex:        v.GetString("job_index"),
			WorkflowIndex:   v.GetString("workflow_index"),
			DaskIndex:       v.GetString("dask_index"),
			JobMatcher:      v.GetString("job_matcher"),
			WorkflowMatcher: v.GetString("workflow_matcher"),
			DaskMatcher:     v.GetString("dask_matcher"),
			MaxRows:         v.GetInt("max_rows"),
			LogKey:          v.GetString("log_key"),
			Order:           v.GetString("order"),
			Timeout:         v.GetDuration("timeout"),
		},
	}
}

// Defaults returns Settings carrying every default. The integration stays
// disabled until the caller opts in by setting Enabled.
func Defaults() Settings {
	v := viper.New()
	SetDefaults(v)
	return FromViper(v)
}
