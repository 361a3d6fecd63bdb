package config

import (
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "HOMEFEED_CONFIG"

// Duration accepts values like "1h" or "30m" from both the YAML file and
// environment overrides.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for env overrides.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for the config file.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(raw))
}

// Std converts back to a stdlib duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds high-level settings required across the application.
type Config struct {
	Handle       string        `yaml:"handle" env:"HOMEFEED_HANDLE"`
	FeedURL      string        `yaml:"feedUrl" env:"HOMEFEED_FEED_URL"`
	DirectoryURL string        `yaml:"directoryUrl" env:"HOMEFEED_DIRECTORY_URL"`
	GitHubAPIURL string        `yaml:"githubApiUrl" env:"HOMEFEED_GITHUB_API_URL"`
	PinnedRepos  []string      `yaml:"pinnedRepos" env:"HOMEFEED_PINNED_REPOS" envSeparator:","`
	CacheTTL     Duration      `yaml:"cacheTtl" env:"HOMEFEED_CACHE_TTL"`
	HTTP         HTTPConfig    `yaml:"http"`
	Logging      LoggingConfig `yaml:"logging"`
}

// HTTPConfig describes the listening socket for the rendered site.
type HTTPConfig struct {
	Addr string `yaml:"addr" env:"HOMEFEED_ADDR"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level" env:"HOMEFEED_LOG_LEVEL"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides on top of defaults.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		log.Printf("config: env overrides: %v (keeping file/default values)", err)
	}

	return cfg
}

func mergeConfig(base, override Config) Config {
	if override.Handle != "" {
		base.Handle = override.Handle
	}
	if override.FeedURL != "" {
		base.FeedURL = override.FeedURL
	}
	if override.DirectoryURL != "" {
		base.DirectoryURL = override.DirectoryURL
	}
	if override.GitHubAPIURL != "" {
		base.GitHubAPIURL = override.GitHubAPIURL
	}
	if len(override.PinnedRepos) > 0 {
		base.PinnedRepos = override.PinnedRepos
	}
	if override.CacheTTL > 0 {
		base.CacheTTL = override.CacheTTL
	}
	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Handle:       "tijs.org",
		FeedURL:      "https://tijs.leaflet.pub/json",
		DirectoryURL: "https://slingshot.microcosm.blue",
		GitHubAPIURL: "https://api.github.com",
		PinnedRepos: []string{
			"dropanchorapp/Anchor",
			"tijs/atproto-to-fediverse",
			"tijs/oauth-client-deno",
			"dropanchorapp/location-feed-generator",
			"tijs/book-explorer",
			"tijs/hono-oauth-sessions",
		},
		CacheTTL: Duration(time.Hour),
		HTTP:     HTTPConfig{Addr: ":8080"},
		Logging:  LoggingConfig{Level: "info"},
	}
}
