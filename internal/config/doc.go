// Package config provides configuration structures and utilities for
// bablib. It defines crawl defaults, the optional YAML settings file,
// and the XDG-compliant directory layout used for persistent data.
package config
