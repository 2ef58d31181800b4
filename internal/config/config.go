// Package config loads the tool's settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultAPIURL is the public GitHub REST API base URL.
const DefaultAPIURL = "https://api.github.com/"

// Config holds all environment-driven settings.
type Config struct {
	// Token authenticates API requests. It is optional: public data is
	// accessible without a token, at a lower rate limit.
	Token string `env:"GITHUB_TOKEN"`

	// APIURL is the base URL of the REST API.
	// Override it to point at a GitHub Enterprise instance.
	APIURL string `env:"GITHUB_API_URL" envDefault:"https://api.github.com/"`

	// GraphQLURL is the GraphQL endpoint.
	// Empty means the public endpoint matching APIURL's default.
	GraphQLURL string `env:"GITHUB_GRAPHQL_URL"`

	// Timeout applies to every HTTP request.
	Timeout time.Duration `env:"REPO_COMMITS_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid GITHUB_API_URL %q", c.APIURL)
	}
	// go-github requires a trailing slash on the base URL.
	if !strings.HasSuffix(c.APIURL, "/") {
		c.APIURL += "/"
	}
	if c.GraphQLURL != "" {
		gu, err := url.Parse(c.GraphQLURL)
		if err != nil || gu.Scheme == "" || gu.Host == "" {
			return fmt.Errorf("invalid GITHUB_GRAPHQL_URL %q", c.GraphQLURL)
		}
	}
	return nil
}
