// Copyright 2025 Autoeth Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the tool configuration: paths to the catalog and
// DUT profile, execution timing knobs and the optional service surfaces.
// The configuration is loaded once at startup and passed down as
// immutable values; nothing reads it ambiently.
package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
)

// Execution are the run timing knobs.
type Execution struct {
	// CaptureTimeoutSeconds bounds the per-case capture window.
	CaptureTimeoutSeconds float64 `toml:"capture_timeout_seconds,omitempty"`
	// AgingWaitCeilingSeconds caps the per-case teardown aging wait.
	AgingWaitCeilingSeconds float64 `toml:"aging_wait_ceiling_seconds,omitempty"`
	// SettleWaitSeconds is the pause after DUT clears and resets during
	// session setup.
	SettleWaitSeconds float64 `toml:"settle_wait_seconds,omitempty"`
	// PassRateThreshold is the statistical acceptance threshold.
	PassRateThreshold float64 `toml:"pass_rate_threshold,omitempty"`
}

// InitDefaults sets the documented defaults on unset fields.
func (e *Execution) InitDefaults() {
	if e.CaptureTimeoutSeconds == 0 {
		e.CaptureTimeoutSeconds = 2
	}
	if e.AgingWaitCeilingSeconds == 0 {
		e.AgingWaitCeilingSeconds = 30
	}
	if e.SettleWaitSeconds == 0 {
		e.SettleWaitSeconds = 5
	}
	if e.PassRateThreshold == 0 {
		e.PassRateThreshold = 0.95
	}
}

// CaptureTimeout returns the capture window as a duration.
func (e Execution) CaptureTimeout() time.Duration {
	return time.Duration(e.CaptureTimeoutSeconds * float64(time.Second))
}

// AgingWaitCeiling returns the aging cap as a duration.
func (e Execution) AgingWaitCeiling() time.Duration {
	return time.Duration(e.AgingWaitCeilingSeconds * float64(time.Second))
}

// SettleWait returns the settle pause as a duration.
func (e Execution) SettleWait() time.Duration {
	return time.Duration(e.SettleWaitSeconds * float64(time.Second))
}

// Paths locate the run inputs and outputs.
type Paths struct {
	// SpecDir is the directory of spec catalog YAML files.
	SpecDir string `toml:"spec_dir,omitempty"`
	// Tiers is the tier policy YAML file.
	Tiers string `toml:"tiers,omitempty"`
	// Profile is the DUT profile YAML file.
	Profile string `toml:"profile,omitempty"`
	// ReportDB is the sqlite report archive.
	ReportDB string `toml:"report_db,omitempty"`
}

// InitDefaults sets the conventional layout on unset fields.
func (p *Paths) InitDefaults() {
	if p.SpecDir == "" {
		p.SpecDir = "specs"
	}
	if p.Tiers == "" {
		p.Tiers = "tiers.yaml"
	}
	if p.ReportDB == "" {
		p.ReportDB = "tc8verify.db"
	}
}

// API configures the optional HTTP report endpoint.
type API struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `toml:"addr,omitempty"`
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `toml:"addr,omitempty"`
}

// Config is the complete tool configuration.
type Config struct {
	Logging   log.Config `toml:"log,omitempty"`
	Paths     Paths      `toml:"paths,omitempty"`
	Execution Execution  `toml:"execution,omitempty"`
	API       API        `toml:"api,omitempty"`
	Metrics   Metrics    `toml:"metrics,omitempty"`
}

// InitDefaults applies defaults to all sections.
func (c *Config) InitDefaults() {
	c.Logging.InitDefaults()
	c.Paths.InitDefaults()
	c.Execution.InitDefaults()
}

// Load reads the TOML configuration at path. A missing path yields the
// defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, serrors.Wrap("reading config file", err, "path", path)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, serrors.Wrap("parsing config file", err, "path", path)
		}
	}
	cfg.InitDefaults()
	return cfg, nil
}
