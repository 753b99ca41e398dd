// Package config resolves denyfilter settings from .env files and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ochairo/denyfilter/internal/domain/interfaces"
)

// DefaultListName is the denylist file looked up next to the executable
const DefaultListName = "deniedAssembliesList.txt"

// Environment variables read by Load
const (
	EnvList        = "DENYFILTER_LIST"
	EnvSearchPaths = "DENYFILTER_SEARCH_PATHS"
	EnvLogLevel    = "DENYFILTER_LOG_LEVEL"
	EnvListSHA256  = "DENYFILTER_LIST_SHA256"
)

// Config holds the settings shared by every command. Flags override it.
type Config struct {
	ListPath    string
	SearchPaths []string
	ListSHA256  string
	LogLevel    interfaces.Level
}

// Load reads the given dotenv files (".env" when none are given), then the
// environment. Missing dotenv files are not an error, and variables that
// are already set win over dotenv values.
func Load(dotenvFiles ...string) *Config {
	_ = godotenv.Load(dotenvFiles...)

	return &Config{
		ListPath:    firstNonEmpty(strings.TrimSpace(os.Getenv(EnvList)), DefaultListPath()),
		SearchPaths: splitPathList(os.Getenv(EnvSearchPaths)),
		ListSHA256:  strings.TrimSpace(os.Getenv(EnvListSHA256)),
		LogLevel:    interfaces.ParseLevel(os.Getenv(EnvLogLevel)),
	}
}

// DefaultListPath returns the denylist location beside the running binary
func DefaultListPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultListName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultListName)
}

func splitPathList(raw string) []string {
	var out []string
	for _, p := range filepath.SplitList(raw) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
