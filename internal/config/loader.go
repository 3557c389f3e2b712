package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrSettingsNotFound is returned when the settings file does not exist.
// Callers should treat this as "use defaults" unless the path was
// explicitly specified by the user.
var ErrSettingsNotFound = errors.New("settings file not found")

// Settings is the structure of the optional settings.yaml file.
// Every field is optional; zero values leave the built-in default
// untouched.
type Settings struct {
	// DataDir overrides the XDG data directory.
	DataDir string `yaml:"data_dir,omitempty"`

	// CrawlDepth overrides the default crawl depth.
	CrawlDepth int `yaml:"crawl_depth,omitempty"`

	// MaxPages overrides the default page budget.
	MaxPages int `yaml:"max_pages,omitempty"`

	// RateLimit overrides the default per-domain request rate.
	RateLimit float64 `yaml:"rate_limit,omitempty"`

	// Workers overrides the default worker count.
	Workers int `yaml:"workers,omitempty"`

	// FetchTimeout overrides the per-request timeout.
	FetchTimeout Duration `yaml:"fetch_timeout,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`
}

// LoadSettings reads settings from a YAML file.
// If the file does not exist it returns ErrSettingsNotFound.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided settings path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply overlays the settings onto a config, leaving fields the
// settings file did not set untouched.
func (s *Settings) Apply(cfg *Config) {
	if s == nil || cfg == nil {
		return
	}
	if s.DataDir != "" {
		cfg.DataDir = s.DataDir
	}
	if s.CrawlDepth > 0 {
		cfg.CrawlDepth = s.CrawlDepth
	}
	if s.MaxPages > 0 {
		cfg.MaxPages = s.MaxPages
	}
	if s.RateLimit > 0 {
		cfg.RateLimit = s.RateLimit
	}
	if s.Workers > 0 {
		cfg.Workers = s.Workers
	}
	if s.FetchTimeout.Duration > 0 {
		cfg.FetchTimeout = s.FetchTimeout.Duration
	}
	if s.UserAgent != "" {
		cfg.UserAgent = s.UserAgent
	}
}
