// Package config loads the widget configuration from a YAML file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/naka-gawa/github-viewer/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	APIRest    = "rest"
	APIGraphQL = "graphql"
)

// Environment variables read by Load.
const (
	EnvToken   = "GITHUB_TOKEN"
	EnvUser    = "GITHUB_VIEWER_USER"
	EnvBaseURL = "GITHUB_API_URL"
)

var (
	cssDimension = regexp.MustCompile(`^(auto|0|\d+(\.\d+)?(px|em|rem|%|vh|vw))$`)
	githubLogin  = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
)

// Config is the configuration supplied by the embedding application.
type Config struct {
	UserID      string   `yaml:"user_id"`
	Height      string   `yaml:"height"`
	Width       string   `yaml:"width"`
	Exclusions  []string `yaml:"exclusions"`
	API         string   `yaml:"api"`
	BaseURL     string   `yaml:"base_url"`
	Concurrency int      `yaml:"concurrency"`
	Addr        string   `yaml:"addr"`

	// Token never comes from the YAML file so it cannot be committed with it.
	Token string `yaml:"-"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Height:      "500px",
		Width:       "800px",
		Exclusions:  []string{},
		API:         APIRest,
		Concurrency: 1,
		Addr:        ":8080",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then the environment. Variables missing from the
// process environment are looked up in envFiles, or in ./.env when none are
// given; a missing .env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	dotenv, err := godotenv.Read(envFiles...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading env file: %w", err)
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	cfg.Token = strings.TrimSpace(lookup(EnvToken))
	if user := lookup(EnvUser); user != "" {
		cfg.UserID = user
	}
	if baseURL := lookup(EnvBaseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.Exclusions = normalizeExclusions(cfg.Exclusions)
	return &cfg, nil
}

// SetExclusions replaces the exclusions, dropping blanks.
func (c *Config) SetExclusions(names []string) {
	c.Exclusions = normalizeExclusions(names)
}

// Validate checks the configuration. Every error wraps domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	if c.UserID == "" {
		errs = append(errs, errors.New("user id is required"))
	} else if !githubLogin.MatchString(c.UserID) {
		errs = append(errs, fmt.Errorf("user id %q is not a valid GitHub login", c.UserID))
	}
	if !cssDimension.MatchString(c.Height) {
		errs = append(errs, fmt.Errorf("height %q is not a CSS dimension", c.Height))
	}
	if !cssDimension.MatchString(c.Width) {
		errs = append(errs, fmt.Errorf("width %q is not a CSS dimension", c.Width))
	}
	switch c.API {
	case APIRest:
	case APIGraphQL:
		if c.Token == "" {
			errs = append(errs, fmt.Errorf("the graphql API requires %s", EnvToken))
		}
	default:
		errs = append(errs, fmt.Errorf("api must be %q or %q, got %q", APIRest, APIGraphQL, c.API))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func normalizeExclusions(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
