// Copyright 2026 Nyx Solutions
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package platform

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the document-ingestion platform API.
type Config struct {
	// BaseURL is the base URL of the platform API.
	// Example: "http://localhost:8420/api/v1"
	BaseURL string

	// APIToken is the bearer token sent with every request. Optional for
	// deployments without authentication.
	APIToken string

	// Timeout bounds every outstanding request. A timed-out request is
	// reported as a transport failure.
	// Default: 30s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the platform API base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIToken sets the bearer token.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for a local platform
// instance.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:8420/api/v1",
		Timeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It strips a trailing slash from the base URL so path joining is uniform.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("platform config: BaseURL is required")
	}
	if c.Timeout <= 0 {
		return errors.New("platform config: Timeout must be positive")
	}
	return nil
}
