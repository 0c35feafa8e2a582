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

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
)

// State is the lifecycle state of one test session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateSettingUp     State = "setting_up"
	// StateClean means setup succeeded and cases may run.
	StateClean State = "clean"
	// StateDegraded means setup could not establish a known-clean DUT.
	// Cases must not run against a degraded session.
	StateDegraded State = "degraded"
	StateTornDown State = "torn_down"
)

// DefaultAgingWaitCeiling bounds the teardown wait for MAC table aging.
// Profiles with very long aging times would otherwise stall the harness
// for minutes per run.
const DefaultAgingWaitCeiling = 30 * time.Second

// DefaultSettleWait is the pause after DUT state manipulation. Clears and
// resets are not instantaneous on real switches.
const DefaultSettleWait = 5 * time.Second

// Manager drives the session state machine around a suite run.
type Manager struct {
	sessionID string
	profile   *tc8.Profile
	ctrl      Controller

	// AgingWaitCeiling caps the teardown aging wait. Zero skips the wait.
	AgingWaitCeiling time.Duration
	// SettleWait is slept after clears and resets during setup. Zero
	// skips the wait.
	SettleWait time.Duration

	state    State
	warnings []string
}

// NewManager creates a session in the uninitialized state.
func NewManager(profile *tc8.Profile, ctrl Controller) *Manager {
	return &Manager{
		sessionID:        uuid.New().String(),
		profile:          profile,
		ctrl:             ctrl,
		AgingWaitCeiling: DefaultAgingWaitCeiling,
		SettleWait:       DefaultSettleWait,
		state:            StateUninitialized,
	}
}

// SessionID returns the unique id of this session.
func (m *Manager) SessionID() string { return m.sessionID }

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.state }

// Clean reports whether cases may run against this session.
func (m *Manager) Clean() bool { return m.state == StateClean }

// Warnings returns the hygiene warnings accumulated so far.
func (m *Manager) Warnings() []string { return m.warnings }

// Setup brings the DUT to a known-clean state. It may only be called
// once, from the uninitialized state. DUT-communication failures never
// abort setup: they degrade the session instead, and Teardown must still
// be called. The returned error only reports state-machine misuse.
func (m *Manager) Setup(ctx context.Context) error {
	if m.state != StateUninitialized {
		return serrors.New("setup called in wrong state", "state", m.state)
	}
	m.state = StateSettingUp
	logger := log.FromCtx(ctx).New("session_id", m.sessionID)
	logger.Info("Session setup started", "dut", m.profile.Name)

	macTableCleared := m.clearMACTable(ctx, logger)

	if err := m.ctrl.ClearStatistics(ctx); err != nil {
		// Stale counters skew diagnostics, not verdicts.
		m.warn(logger, "statistics clear failed: "+err.Error())
	}

	allLinksVerified := true
	if err := m.ctrl.VerifyLinkState(ctx); err != nil {
		allLinksVerified = false
		m.warn(logger, "link verification failed: "+err.Error())
	}

	m.sleep(ctx, m.SettleWait)

	if macTableCleared && allLinksVerified {
		m.state = StateClean
		logger.Info("Session setup complete")
	} else {
		m.state = StateDegraded
		logger.Error("Session setup incomplete",
			"mac_table_cleared", macTableCleared,
			"links_verified", allLinksVerified)
	}
	return nil
}

// clearMACTable flushes the address table, falling back to a full DUT
// reset where the profile allows one. A successful reset is authoritative
// and counts as cleared without further verification.
func (m *Manager) clearMACTable(ctx context.Context, logger log.Logger) bool {
	err := m.ctrl.ClearMACTable(ctx)
	if err == nil {
		return m.verifyTableEmpty(ctx, logger)
	}
	if !m.profile.CanReset {
		m.warn(logger, "MAC table clear failed: "+err.Error())
		return false
	}
	logger.Info("MAC table clear failed, resetting DUT", "err", err)
	if rerr := m.ctrl.ResetDUT(ctx); rerr != nil {
		m.warn(logger, "DUT reset failed: "+rerr.Error())
		return false
	}
	m.sleep(ctx, m.SettleWait)
	return true
}

// verifyTableEmpty double-checks a clear on DUTs that expose their table.
// A table that cannot be read is assumed clean, with the assumption
// recorded on the session.
func (m *Manager) verifyTableEmpty(ctx context.Context, logger log.Logger) bool {
	count, err := m.ctrl.MACTableEntryCount(ctx)
	switch {
	case err != nil:
		m.warn(logger, "reading MAC table size: "+err.Error())
	case count > 0:
		m.warn(logger, fmt.Sprintf("MAC table not empty after clear: %d entries", count))
		return false
	case count < 0:
		m.warn(logger, "DUT state not verifiable, assuming clean")
	}
	return true
}

func (m *Manager) warn(logger log.Logger, msg string) {
	m.warnings = append(m.warnings, msg)
	logger.Info(msg)
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Teardown clears run residue and ages out learned addresses. It runs
// regardless of how setup or the run went and is idempotent; errors are
// logged and folded into warnings rather than failing the suite.
func (m *Manager) Teardown(ctx context.Context) {
	if m.state == StateTornDown || m.state == StateUninitialized {
		m.state = StateTornDown
		return
	}
	logger := log.FromCtx(ctx).New("session_id", m.sessionID)

	if err := m.ctrl.ClearMACTable(ctx); err != nil {
		m.warnings = append(m.warnings, "teardown: "+err.Error())
		logger.Error("Clearing MAC table during teardown", "err", err)
	}
	if err := m.ctrl.ClearStatistics(ctx); err != nil {
		m.warnings = append(m.warnings, "teardown: "+err.Error())
		logger.Error("Clearing statistics during teardown", "err", err)
	}
	// Without a reset path, residual entries can only leave via aging.
	// A table verified empty needs no wait.
	if !m.profile.CanReset {
		count, err := m.ctrl.MACTableEntryCount(ctx)
		if err != nil || count != 0 {
			if wait := m.agingWait(); wait > 0 {
				logger.Debug("Waiting for MAC table aging",
					"entries", count, "wait", wait)
				m.sleep(ctx, wait)
			}
		}
	}
	m.state = StateTornDown
	logger.Info("Session torn down")
}

// agingWait is the profile's aging time capped at the ceiling. The cap
// trades perfect isolation for bounded teardown latency.
func (m *Manager) agingWait() time.Duration {
	aging := m.profile.MACAgingTime()
	if aging < m.AgingWaitCeiling {
		return aging
	}
	return m.AgingWaitCeiling
}
