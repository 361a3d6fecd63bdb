package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Handle != "tijs.org" {
		t.Fatalf("unexpected default handle: %s", cfg.Handle)
	}
	if cfg.CacheTTL.Std() != time.Hour {
		t.Fatalf("unexpected default ttl: %v", cfg.CacheTTL)
	}
	if len(cfg.PinnedRepos) != 6 {
		t.Fatalf("expected 6 default pinned repos, got %d", len(cfg.PinnedRepos))
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
handle: file.example
feedUrl: https://file.example/json
cacheTtl: 30m
`), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HOMEFEED_CONFIG", path)
	t.Setenv("HOMEFEED_HANDLE", "env.example")
	t.Setenv("HOMEFEED_PINNED_REPOS", "a/one,b/two")

	cfg := Load()

	if cfg.Handle != "env.example" {
		t.Fatalf("env must override file, got %s", cfg.Handle)
	}
	if cfg.FeedURL != "https://file.example/json" {
		t.Fatalf("file must override default, got %s", cfg.FeedURL)
	}
	if cfg.CacheTTL.Std() != 30*time.Minute {
		t.Fatalf("unexpected ttl: %v", cfg.CacheTTL)
	}
	if len(cfg.PinnedRepos) != 2 || cfg.PinnedRepos[1] != "b/two" {
		t.Fatalf("unexpected pinned repos: %v", cfg.PinnedRepos)
	}
}
