package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the resolved agent configuration
type Config struct {
	StashHost    string
	StashAPIKey  string
	Debug        bool
	CacheTTL     time.Duration
	AgentBaseURL string
	PosterMode   bool
	PlexURL      string
	PlexToken    string
	ListenHost   string
	ListenPort   int
}

// fileConfig mirrors stashplexagent.toml. Every value can be overridden by
// an environment variable.
type fileConfig struct {
	Stash struct {
		IP       string `toml:"ip"`
		Port     string `toml:"port"`
		APIKey   string `toml:"api_key"`
		Debug    bool   `toml:"debug"`
		CacheTTL *int   `toml:"cache_ttl"`
	} `toml:"stash"`
	Server struct {
		Host         string `toml:"host"`
		Port         int    `toml:"port"`
		AgentBaseURL string `toml:"agent_base_url"`
		PosterMode   bool   `toml:"poster_mode"`
	} `toml:"plexagentserver"`
	Plex struct {
		URL   string `toml:"url"`
		Token string `toml:"token"`
	} `toml:"plex"`
}

// DefaultPath is the config file looked up next to the working directory
const DefaultPath = "stashplexagent.toml"

// Load reads the config file (if present) and applies env overrides.
// A missing file is fine; everything has a default or an env var.
func Load(path string) *Config {
	var fc fileConfig
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &fc); err != nil {
			log.Printf("⚠️ Could not parse %s: %v (ignoring file)", path, err)
			fc = fileConfig{}
		}
	} else if !os.IsNotExist(err) {
		log.Printf("⚠️ Could not read %s: %v", path, err)
	}

	cfg := &Config{}

	// Stash connection
	stashIP := fallback(fc.Stash.IP, "192.168.1.71")
	stashPort := fallback(fc.Stash.Port, "9999")
	cfg.StashHost = strings.TrimRight(
		env("STASH_HOST", fmt.Sprintf("http://%s:%s", stashIP, stashPort)), "/")
	cfg.StashAPIKey = env("STASH_API_KEY", fc.Stash.APIKey)

	cfg.Debug = envBool("DEBUG") || fc.Stash.Debug

	ttlSeconds := 300
	if fc.Stash.CacheTTL != nil {
		ttlSeconds = *fc.Stash.CacheTTL
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ttlSeconds = n
		} else {
			log.Printf("⚠️ Invalid CACHE_TTL %q, keeping %d", v, ttlSeconds)
		}
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	// Listen address
	cfg.ListenHost = fallback(fc.Server.Host, "0.0.0.0")
	cfg.ListenPort = fc.Server.Port
	if cfg.ListenPort == 0 {
		cfg.ListenPort = 7979
	}

	// Base URL that Plex uses to reach this agent's image endpoints
	baseURL := fc.Server.AgentBaseURL
	if baseURL == "" {
		host := cfg.ListenHost
		if host == "0.0.0.0" {
			host = "127.0.0.1"
		}
		baseURL = fmt.Sprintf("http://%s:%d", host, cfg.ListenPort)
	}
	cfg.AgentBaseURL = strings.TrimRight(env("AGENT_BASE_URL", baseURL), "/")

	cfg.PosterMode = envBool("POSTER_MODE") || fc.Server.PosterMode

	cfg.PlexURL = strings.TrimRight(env("PLEX_URL", fc.Plex.URL), "/")
	cfg.PlexToken = env("PLEX_TOKEN", fc.Plex.Token)

	return cfg
}

// UploadEnabled reports whether posters are pushed directly into PMS.
// Requires poster mode plus a reachable, authenticated server.
func (c *Config) UploadEnabled() bool {
	return c.PosterMode && c.PlexURL != "" && c.PlexToken != ""
}

func env(key, fallbackValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallbackValue
}

func envBool(key string) bool {
	return strings.ToLower(os.Getenv(key)) == "true"
}

func fallback(value, fallbackValue string) string {
	if value != "" {
		return value
	}
	return fallbackValue
}
