package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cesargomez89/mdlookup/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port        string            `koanf:"port"`
	DBPath      string            `koanf:"db_path"`
	LogLevel    string            `koanf:"log_level"`
	LogFormat   string            `koanf:"log_format"`
	MusicBrainz MusicBrainzConfig `koanf:"musicbrainz"`
	HTTP        HTTPConfig        `koanf:"http"`
	Journal     JournalConfig     `koanf:"journal"`
}

// MusicBrainzConfig holds MusicBrainz-related configuration.
type MusicBrainzConfig struct {
	BaseURL string `koanf:"base_url"`
	Contact string `koanf:"contact"` // shown in the User-Agent header
}

// HTTPConfig tunes the outbound transport.
type HTTPConfig struct {
	Timeout     time.Duration `koanf:"timeout"`
	MinInterval time.Duration `koanf:"min_interval"`
	MaxAttempts int           `koanf:"max_attempts"`
}

// JournalConfig controls the lookup journal.
type JournalConfig struct {
	Enabled    bool `koanf:"enabled"`
	MaxEntries int  `koanf:"max_entries"` // 0 keeps every lookup
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Port:      constants.DefaultPort,
		DBPath:    constants.DefaultDBPath,
		LogLevel:  constants.DefaultLogLevel,
		LogFormat: constants.DefaultLogFormat,
		MusicBrainz: MusicBrainzConfig{
			BaseURL: constants.DefaultMusicBrainzURL,
			Contact: constants.DefaultContact,
		},
		HTTP: HTTPConfig{
			Timeout:     constants.DefaultHTTPTimeout,
			MinInterval: constants.DefaultMinRequestInterval,
			MaxAttempts: constants.DefaultMaxAttempts,
		},
		Journal: JournalConfig{
			Enabled:    true,
			MaxEntries: constants.DefaultJournalMaxEntries,
		},
	}
}

// Load reads path (or ./mdlookup.toml when path is empty and the file exists)
// and then applies MDLOOKUP_* environment variables. Nested keys use a double
// underscore, e.g. MDLOOKUP_MUSICBRAINZ__BASE_URL.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(constants.DefaultConfigFile); err == nil {
			path = constants.DefaultConfigFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(constants.DefaultEnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.MusicBrainz.BaseURL = strings.TrimSuffix(cfg.MusicBrainz.BaseURL, "/")
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, constants.DefaultEnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var problems []string

	if c.Port == "" {
		problems = append(problems, "port cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			problems = append(problems, fmt.Sprintf("port must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			problems = append(problems, fmt.Sprintf("port must be between 1 and 65535, got: %d", port))
		}
	}

	if c.Journal.Enabled && c.DBPath == "" {
		problems = append(problems, "db_path cannot be empty when the journal is enabled")
	}
	if c.Journal.MaxEntries < 0 {
		problems = append(problems, fmt.Sprintf("journal.max_entries cannot be negative, got: %d", c.Journal.MaxEntries))
	}

	if c.MusicBrainz.BaseURL == "" {
		problems = append(problems, "musicbrainz.base_url cannot be empty")
	} else if u, err := url.Parse(c.MusicBrainz.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("musicbrainz.base_url is not a valid URL: %s", c.MusicBrainz.BaseURL))
	}

	if c.HTTP.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("http.timeout must be positive, got: %s", c.HTTP.Timeout))
	}
	if c.HTTP.MinInterval < 0 {
		problems = append(problems, fmt.Sprintf("http.min_interval cannot be negative, got: %s", c.HTTP.MinInterval))
	}
	if c.HTTP.MaxAttempts < 1 {
		problems = append(problems, fmt.Sprintf("http.max_attempts must be at least 1, got: %d", c.HTTP.MaxAttempts))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		problems = append(problems, fmt.Sprintf("log_level must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		problems = append(problems, fmt.Sprintf("log_format must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(problems, "\n  - "))
	}

	return nil
}

// UserAgent returns the header value sent to metadata services.
func (c *Config) UserAgent() string {
	return constants.UserAgent(c.MusicBrainz.Contact)
}
