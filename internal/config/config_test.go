package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/denyfilter/internal/domain/interfaces"
)

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}
}

func clearEnv(t *testing.T) {
	for _, key := range []string{EnvList, EnvSearchPaths, EnvLogLevel, EnvListSHA256} {
		unsetEnv(t, key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if filepath.Base(cfg.ListPath) != DefaultListName {
		t.Errorf("ListPath = %v, want a %s default", cfg.ListPath, DefaultListName)
	}
	if len(cfg.SearchPaths) != 0 {
		t.Errorf("SearchPaths = %v, want none", cfg.SearchPaths)
	}
	if cfg.LogLevel != interfaces.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvList, "/lists/denied.txt")
	t.Setenv(EnvSearchPaths, strings.Join([]string{"/safe/a", " ", "/safe/b"}, string(os.PathListSeparator)))
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvListSHA256, " abc ")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.ListPath != "/lists/denied.txt" {
		t.Errorf("ListPath = %v", cfg.ListPath)
	}
	if len(cfg.SearchPaths) != 2 || cfg.SearchPaths[1] != "/safe/b" {
		t.Errorf("SearchPaths = %v, want [/safe/a /safe/b]", cfg.SearchPaths)
	}
	if cfg.LogLevel != interfaces.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.ListSHA256 != "abc" {
		t.Errorf("ListSHA256 = %q, want abc", cfg.ListSHA256)
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "error")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := EnvList + "=/from/dotenv.txt\n" + EnvLogLevel + "=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Load(envFile)

	if cfg.ListPath != "/from/dotenv.txt" {
		t.Errorf("ListPath = %v, want value from dotenv", cfg.ListPath)
	}
	if cfg.LogLevel != interfaces.LevelError {
		t.Errorf("LogLevel = %v, environment must win over dotenv", cfg.LogLevel)
	}
}
