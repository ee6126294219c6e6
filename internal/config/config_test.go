package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "TABLE_PREFIX", "TAVILY_API_KEY", "RESEARCH_ENABLED", "CACHE_TTL_MINUTES", "RETRY_MAX_ATTEMPTS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("TablePrefix = %q, want dev_", cfg.TablePrefix)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.ResearchEnabled {
		t.Error("research should be disabled without a search key")
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want 3", cfg.RetryMaxAttempts)
	}
}

func TestLoadResearchFollowsSearchKey(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "tvly-test")
	t.Setenv("RESEARCH_ENABLED", "")

	if !Load().ResearchEnabled {
		t.Error("research should default on when a search key is configured")
	}

	t.Setenv("RESEARCH_ENABLED", "false")
	if Load().ResearchEnabled {
		t.Error("explicit RESEARCH_ENABLED=false should win")
	}
}

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{env: "prod", want: "prod_"},
		{env: "test", want: "test_"},
		{env: "dev", want: "dev_"},
		{env: "staging", want: "dev_"},
		{env: "prod", override: "custom_", want: "custom_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.override, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", tt.override)
			if got := getTablePrefix(tt.env); got != tt.want {
				t.Errorf("getTablePrefix(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	if got := getEnvInt("SOME_INT", 7); got != 7 {
		t.Errorf("getEnvInt = %d, want 7", got)
	}
	t.Setenv("SOME_INT", "12")
	if got := getEnvInt("SOME_INT", 7); got != 12 {
		t.Errorf("getEnvInt = %d, want 12", got)
	}
}

func TestSetupLogFile_PrunesOnlyItsOwnLogs(t *testing.T) {
	dir := t.TempDir()
	old := []string{
		"server-2025-01-01T00-00-00.log",
		"server-2025-01-02T00-00-00.log",
		"server-2025-01-03T00-00-00.log",
		"plan-cli-2025-01-01T00-00-00.log",
	}
	for _, name := range old {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, "server", 2)
	if err != nil {
		t.Fatalf("SetupLogFile: %v", err)
	}
	defer f.Close()

	servers, _ := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if len(servers) != 2 {
		t.Errorf("kept %d server logs, want 2: %v", len(servers), servers)
	}
	for _, s := range servers {
		if filepath.Base(s) == "server-2025-01-01T00-00-00.log" {
			t.Errorf("oldest server log was not pruned")
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "plan-cli-2025-01-01T00-00-00.log")); err != nil {
		t.Errorf("plan-cli log should survive: %v", err)
	}
}

func TestSetupLogFile_KeepAll(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"server-2025-01-01T00-00-00.log", "server-2025-01-02T00-00-00.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, "server", 0)
	if err != nil {
		t.Fatalf("SetupLogFile: %v", err)
	}
	defer f.Close()

	files, _ := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if len(files) != 3 {
		t.Errorf("got %d logs, want 3", len(files))
	}
}
