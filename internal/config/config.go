package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen to keep crawls polite toward documentation hosts
// while still finishing a typical docs site in minutes.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "bablib"

	// DefaultCrawlDepth of 3 covers the index, section, and article
	// levels of most documentation sites without wandering into
	// archives or version history.
	DefaultCrawlDepth = 3

	// DefaultMaxPages is the maximum number of pages to crawl per
	// session. It prevents runaway crawling on large or
	// infinitely-generating sites. Users can override this per box or
	// via the --max-pages CLI flag.
	DefaultMaxPages = 100

	// DefaultRateLimit is the per-domain request rate in requests per
	// second. One request per second is conservative and respectful of
	// server resources; robots.txt crawl delays tighten it further.
	DefaultRateLimit = 1.0

	// DefaultWorkers is the number of concurrent crawl workers.
	// Parallelism only pays off across domains because requests to one
	// domain are serialized by the throttle, so a small pool suffices.
	DefaultWorkers = 4

	// DefaultFetchTimeout is the timeout for each page fetch.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultRobotsTimeout is the timeout for robots.txt fetches.
	// Shorter than the page timeout because an unreachable robots
	// endpoint should not stall the whole crawl; failures are cached
	// as allow-all.
	DefaultRobotsTimeout = 10 * time.Second

	// DefaultUserAgent identifies bablib in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "bablib/1.0 (+https://github.com/behemotion/bablib)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is sufficient for documentation pages while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds runtime options for bablib. It is populated from
// defaults, the optional settings file, and CLI flags, then passed
// through the application by dependency injection rather than global
// state so tests can build isolated instances.
type Config struct {
	// DataDir is the directory for the SQLite database and box content.
	// Defaults to the XDG data directory.
	DataDir string

	// CrawlDepth is the default maximum link depth for crawls.
	CrawlDepth int

	// MaxPages is the default page budget per crawl session.
	// Zero means unbounded.
	MaxPages int

	// RateLimit is the default per-domain request rate in requests
	// per second.
	RateLimit float64

	// Workers is the number of concurrent crawl workers.
	Workers int

	// FetchTimeout is the timeout for each page fetch.
	FetchTimeout time.Duration

	// RobotsTimeout is the timeout for robots.txt fetches.
	RobotsTimeout time.Duration

	// UserAgent is the User-Agent header for all HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero
// values because most defaults are non-zero; the constructor also
// documents what the defaults are in one place.
func NewConfig() *Config {
	return &Config{
		DataDir:       DataDir(),
		CrawlDepth:    DefaultCrawlDepth,
		MaxPages:      DefaultMaxPages,
		RateLimit:     DefaultRateLimit,
		Workers:       DefaultWorkers,
		FetchTimeout:  DefaultFetchTimeout,
		RobotsTimeout: DefaultRobotsTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
	}
}

// Validate checks if the configuration is usable.
// It returns the first problem found; fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrNoDataDir
	}
	if c.CrawlDepth < 0 {
		return ErrInvalidDepth
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.RateLimit <= 0 {
		return ErrInvalidRateLimit
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.FetchTimeout <= 0 || c.RobotsTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}

// DataDir returns the XDG data directory for bablib.
// On Linux: ~/.local/share/bablib
// On macOS: ~/Library/Application Support/bablib
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir returns the XDG config directory for bablib.
// On Linux: ~/.config/bablib
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// CacheDir returns the XDG cache directory for bablib.
// On Linux: ~/.cache/bablib
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// BoxDataDir returns the content directory for a box under the data
// directory. Imported files for rag and bag boxes are stored here.
func BoxDataDir(dataDir, boxName string) string {
	return filepath.Join(dataDir, "boxes", boxName)
}

// SettingsPath returns the path to the global settings file.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.yaml")
}
