package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to the remote service.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "get-papers-list/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// PubMedConfig holds settings for the E-utilities search and fetch client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root, ending in "/eutils/".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Email identifies the caller to NCBI. Optional.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// APIKey raises the NCBI rate-limit tier. Optional.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Tool names the calling software in the "tool" parameter. Optional.
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`

	// BatchSize is the number of identifiers per efetch request (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
}

// ClassifierConfig holds settings for the affiliation classifier.
type ClassifierConfig struct {
	// RulesFile is an optional YAML file overriding the keyword sets.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty" mapstructure:"rules_file"`
}

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Output is the destination file; empty means standard output.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Format selects csv, json, or yaml.
	Format string `json:"format" yaml:"format"`
}

// RunConfig groups all stage configurations for one invocation.
type RunConfig struct {
	PubMed     PubMedConfig     `json:"pubmed" yaml:"pubmed"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Report     ReportConfig     `json:"report" yaml:"report"`
}
