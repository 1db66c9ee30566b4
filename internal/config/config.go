package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all wandb-compare configuration.
type Config struct {
	// Experiment tracking service access
	WandB WandBConfig `yaml:"wandb"`

	// Report artifact settings
	Report ReportConfig `yaml:"report"`
}

// WandBConfig configures API access and names the runs to compare.
type WandBConfig struct {
	APIKey      string `yaml:"api_key"`
	Entity      string `yaml:"entity"`
	Project     string `yaml:"project"`
	RunID       string `yaml:"run_id"`
	BaseURL     string `yaml:"base_url"`
	BaselineTag string `yaml:"baseline_tag"`
	Timeout     string `yaml:"timeout"`
}

// ReportConfig configures the output artifact.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		WandB: WandBConfig{
			BaseURL:     "https://api.wandb.ai",
			BaselineTag: "baseline",
			Timeout:     "30s",
		},
		Report: ReportConfig{
			Path: "report_url.txt",
		},
	}
}

// Load loads configuration from a YAML file. The file is optional; in CI the
// environment carries all required values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("WANDB_API_KEY"); key != "" {
		c.WandB.APIKey = key
	}
	if v := os.Getenv("WANDB_ENTITY"); v != "" {
		c.WandB.Entity = v
	}
	if v := os.Getenv("WANDB_PROJECT"); v != "" {
		c.WandB.Project = v
	}
	if v := os.Getenv("RUN_ID"); v != "" {
		c.WandB.RunID = v
	}
	if v := os.Getenv("WANDB_BASE_URL"); v != "" {
		c.WandB.BaseURL = v
	}
	if v := os.Getenv("WANDB_BASELINE_TAG"); v != "" {
		c.WandB.BaselineTag = v
	}
	if v := os.Getenv("WANDB_REPORT_FILE"); v != "" {
		c.Report.Path = v
	}
}

// Validate checks that every value the comparison needs is present. Each
// message names the environment variable that supplies the value.
func (c *Config) Validate() error {
	if c.WandB.APIKey == "" {
		return fmt.Errorf("API key not configured (set WANDB_API_KEY)")
	}
	if c.WandB.Entity == "" {
		return fmt.Errorf("entity not configured (set WANDB_ENTITY)")
	}
	if c.WandB.Project == "" {
		return fmt.Errorf("project not configured (set WANDB_PROJECT)")
	}
	if c.WandB.RunID == "" {
		return fmt.Errorf("run ID not configured (set RUN_ID)")
	}
	return nil
}

// GetTimeout returns the API timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.WandB.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
