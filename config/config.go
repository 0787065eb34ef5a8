package config

import (
	"fmt"
	"os"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/logger"
	"gopkg.in/yaml.v2"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Filter    FilterConfig    `yaml:"filter"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Uploaders []Uploader      `yaml:"uploaders"`
}

type AppConfig struct {
	LogLevel logger.LogLevel `yaml:"log_level"`
	// ListenAddr is the address the HTTP API binds to.
	ListenAddr string `yaml:"listen_addr"`
	// StatusTable enables the periodic task table on stdout.
	StatusTable bool `yaml:"status_table"`
	// StatusTableInterval is the minimum delay between two renders.
	StatusTableInterval Duration `yaml:"status_table_interval"`
	// TaskRetention is how long terminal task records are kept before the
	// retention sweep drops them.
	TaskRetention Duration `yaml:"task_retention"`
}

type ExtractorConfig struct {
	// ExecPath is the path to the yt-dlp executable.
	ExecPath string `yaml:"executable_path"`
	// CookiesPath points at a Netscape-format cookies file passed to every
	// invocation.
	CookiesPath string `yaml:"cookies_path"`
	// UserAgent is the fixed identifying user agent.
	UserAgent string `yaml:"user_agent"`
	// ExtraArgs are extractor-site-specific bypass arguments appended to
	// every invocation.
	ExtraArgs []string `yaml:"extra_args"`
	// TempDir is the staging directory for downloaded assets.
	TempDir string `yaml:"temp_dir"`
	// Pacing is the delay between consecutive downloads within a batch.
	Pacing Duration `yaml:"pacing"`
}

type FilterConfig struct {
	// RequiredCategory must appear in the item's category set when the set
	// is declared. Items without category information pass.
	RequiredCategory string `yaml:"required_category"`
	// MinDuration and MaxDuration bound accepted items, inclusive.
	MinDuration int `yaml:"min_duration"`
	MaxDuration int `yaml:"max_duration"`
}

type CatalogConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
	// ExistsCacheTTL is how long a remote existence answer is memoized.
	ExistsCacheTTL Duration `yaml:"exists_cache_ttl"`
}

type Uploader struct {
	// Name is an arbitrary human-readable identifier for the uploader.
	Name string `yaml:"name"`
	// Type defines what uploader to instantiate.
	Type string `yaml:"type"`
	// Config is the uploader-specific configuration.
	Config map[string]string `yaml:"config"`
}

// Duration wraps time.Duration so config values read like "5s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) D() time.Duration {
	return time.Duration(d)
}

func LoadConfig(path string) (*Config, error) {
	var config Config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return nil, err
	}
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() error {
	if c.App.ListenAddr == "" {
		c.App.ListenAddr = ":8080"
	}
	if c.App.StatusTableInterval == 0 {
		c.App.StatusTableInterval = Duration(5 * time.Second)
	}
	if c.App.TaskRetention == 0 {
		c.App.TaskRetention = Duration(7 * 24 * time.Hour)
	}
	if c.Extractor.ExecPath == "" {
		c.Extractor.ExecPath = "yt-dlp"
	}
	if c.Extractor.TempDir == "" {
		c.Extractor.TempDir = os.TempDir()
	}
	if c.Extractor.Pacing == 0 {
		c.Extractor.Pacing = Duration(5 * time.Second)
	}
	if c.Filter.RequiredCategory == "" {
		c.Filter.RequiredCategory = "Music"
	}
	if c.Filter.MinDuration == 0 {
		c.Filter.MinDuration = 120
	}
	if c.Filter.MaxDuration == 0 {
		c.Filter.MaxDuration = 480
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = Duration(30 * time.Second)
	}
	if c.Catalog.ExistsCacheTTL == 0 {
		c.Catalog.ExistsCacheTTL = Duration(10 * time.Minute)
	}
	if len(c.Uploaders) == 0 {
		return fmt.Errorf("at least one uploader must be configured")
	}
	return nil
}
