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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoeth/tc8verify/private/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Execution.CaptureTimeout())
	assert.Equal(t, 30*time.Second, cfg.Execution.AgingWaitCeiling())
	assert.Equal(t, 5*time.Second, cfg.Execution.SettleWait())
	assert.Equal(t, 0.95, cfg.Execution.PassRateThreshold)
	assert.Equal(t, "specs", cfg.Paths.SpecDir)
	assert.Equal(t, "tc8verify.db", cfg.Paths.ReportDB)
	assert.Empty(t, cfg.API.Addr)
}

func TestLoadFile(t *testing.T) {
	raw := `
[log]
level = "debug"
format = "json"

[paths]
spec_dir = "/etc/tc8/specs"
profile = "/etc/tc8/dut.yaml"

[execution]
capture_timeout_seconds = 0.5
pass_rate_threshold = 0.9

[api]
addr = "127.0.0.1:8080"
`
	path := filepath.Join(t.TempDir(), "tc8verify.toml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/tc8/specs", cfg.Paths.SpecDir)
	assert.Equal(t, "/etc/tc8/dut.yaml", cfg.Paths.Profile)
	assert.Equal(t, 500*time.Millisecond, cfg.Execution.CaptureTimeout())
	assert.Equal(t, 0.9, cfg.Execution.PassRateThreshold)
	assert.Equal(t, "127.0.0.1:8080", cfg.API.Addr)
	// Unset fields still get defaults.
	assert.Equal(t, "tiers.yaml", cfg.Paths.Tiers)
	assert.Equal(t, 30*time.Second, cfg.Execution.AgingWaitCeiling())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/tc8verify.toml")
	assert.Error(t, err)
}
