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

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/dut"
	"github.com/autoeth/tc8verify/private/session"
)

func testProfile(t *testing.T) *tc8.Profile {
	t.Helper()
	p := &tc8.Profile{
		Name:  "test-sw",
		Model: "TEST",
		Ports: []tc8.Port{
			{ID: 0, InterfaceName: "eth0", VLANMembership: []uint16{1}, PVID: 1},
			{ID: 1, InterfaceName: "eth1", VLANMembership: []uint16{1}, PVID: 1},
		},
		MACAgingSeconds: 300,
	}
	require.NoError(t, p.Validate())
	return p
}

// fakeController fails selected hygiene steps and records what setup and
// teardown asked of it.
type fakeController struct {
	session.NullController
	linkErr  error
	clearErr error
	statsErr error
	resetErr error
	entries  int

	macClears   int
	resetCalled bool
	countCalls  int
}

func (c *fakeController) VerifyLinkState(ctx context.Context) error {
	return c.linkErr
}

func (c *fakeController) ClearMACTable(ctx context.Context) error {
	c.macClears++
	return c.clearErr
}

func (c *fakeController) ClearStatistics(ctx context.Context) error {
	return c.statsErr
}

func (c *fakeController) ResetDUT(ctx context.Context) error {
	c.resetCalled = true
	return c.resetErr
}

func (c *fakeController) MACTableEntryCount(ctx context.Context) (int, error) {
	c.countCalls++
	return c.entries, nil
}

func TestSetupClean(t *testing.T) {
	m := session.NewManager(testProfile(t), session.NullController{})
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	assert.Equal(t, session.StateUninitialized, m.State())
	require.NoError(t, m.Setup(context.Background()))
	assert.Equal(t, session.StateClean, m.State())
	assert.True(t, m.Clean())
	// No management access means the clean state is assumed, not proven.
	assert.NotEmpty(t, m.Warnings())
	assert.NotEmpty(t, m.SessionID())

	m.Teardown(context.Background())
	assert.Equal(t, session.StateTornDown, m.State())
}

func TestSetupDegraded(t *testing.T) {
	testCases := map[string]*fakeController{
		"link down":       {linkErr: serrors.New("link down")},
		"clear fails":     {clearErr: serrors.New("no mgmt")},
		"table not empty": {entries: 12},
	}
	for name, ctrl := range testCases {
		t.Run(name, func(t *testing.T) {
			m := session.NewManager(testProfile(t), ctrl)
			m.AgingWaitCeiling = 0
			m.SettleWait = 0

			// Hygiene failures degrade the session, they never raise.
			require.NoError(t, m.Setup(context.Background()))
			assert.Equal(t, session.StateDegraded, m.State())
			assert.False(t, m.Clean())
			assert.NotEmpty(t, m.Warnings())

			// Teardown still completes after a degraded setup.
			m.Teardown(context.Background())
			assert.Equal(t, session.StateTornDown, m.State())
		})
	}
}

// A failed MAC table clear on a resettable DUT falls back to a full
// reset, which is authoritative: the session comes up clean.
func TestSetupResetFallback(t *testing.T) {
	p := testProfile(t)
	p.CanReset = true
	ctrl := &fakeController{clearErr: serrors.New("mac clear unsupported")}

	m := session.NewManager(p, ctrl)
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	assert.True(t, ctrl.resetCalled)
	assert.True(t, m.Clean())
}

func TestSetupResetFallbackFails(t *testing.T) {
	p := testProfile(t)
	p.CanReset = true
	ctrl := &fakeController{
		clearErr: serrors.New("mac clear unsupported"),
		resetErr: serrors.New("reset script missing"),
	}

	m := session.NewManager(p, ctrl)
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	assert.True(t, ctrl.resetCalled)
	assert.False(t, m.Clean())
}

// Statistics are diagnostics only: a failed counter clear stays a
// warning and the session remains clean.
func TestSetupStatisticsBestEffort(t *testing.T) {
	ctrl := &fakeController{statsErr: serrors.New("stats clear unsupported")}

	m := session.NewManager(testProfile(t), ctrl)
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	assert.True(t, m.Clean())
	assert.NotEmpty(t, m.Warnings())
}

// A down link does not abort setup: the table clears still run, and the
// session ends up degraded rather than errored.
func TestSetupLinkDownStillClears(t *testing.T) {
	ctrl := &fakeController{linkErr: serrors.New("port 1 down")}

	m := session.NewManager(testProfile(t), ctrl)
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	assert.False(t, m.Clean())
	assert.Equal(t, 1, ctrl.macClears)
}

// Teardown skips the aging wait when the DUT reports an empty table.
func TestTeardownNoAgingWaitWhenEmpty(t *testing.T) {
	ctrl := &fakeController{entries: 0}
	m := session.NewManager(testProfile(t), ctrl)
	m.AgingWaitCeiling = 500 * time.Millisecond
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	start := time.Now()
	m.Teardown(context.Background())
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// With residual entries and no reset path, teardown waits for aging,
// capped at the ceiling.
func TestTeardownAgingWait(t *testing.T) {
	ctrl := &fakeController{entries: 3}
	m := session.NewManager(testProfile(t), ctrl)
	m.AgingWaitCeiling = 20 * time.Millisecond
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	start := time.Now()
	m.Teardown(context.Background())
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

// A resettable DUT never pays the aging wait and its table is not even
// queried during teardown.
func TestTeardownResettableSkipsAging(t *testing.T) {
	p := testProfile(t)
	p.CanReset = true
	ctrl := &fakeController{entries: 7}
	m := session.NewManager(p, ctrl)
	m.AgingWaitCeiling = 500 * time.Millisecond
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	queries := ctrl.countCalls
	start := time.Now()
	m.Teardown(context.Background())
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, queries, ctrl.countCalls)
}

func TestSetupTwiceFails(t *testing.T) {
	m := session.NewManager(testProfile(t), session.NullController{})
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	assert.Error(t, m.Setup(context.Background()))
}

func TestTeardownIdempotent(t *testing.T) {
	m := session.NewManager(testProfile(t), session.NullController{})
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	m.Teardown(context.Background())
	m.Teardown(context.Background())
	assert.Equal(t, session.StateTornDown, m.State())
}

func TestSimControllerHygiene(t *testing.T) {
	sim := dut.NewSimInterface(testProfile(t))
	require.NoError(t, sim.Initialize(context.Background()))
	ctrl := session.SimController{Sim: sim}

	m := session.NewManager(testProfile(t), ctrl)
	m.AgingWaitCeiling = 0
	m.SettleWait = 0

	require.NoError(t, m.Setup(context.Background()))
	// The model's table is verifiable, so no assumption warning.
	assert.Empty(t, m.Warnings())

	frame, err := dut.BuildFrame(tc8.CaseParams{
		VID:        1,
		FrameClass: tc8.FrameUntagged,
		Protocol:   tc8.ProtocolICMP,
		SrcMAC:     tc8.DefaultSrcMAC,
		DstMAC:     tc8.DefaultDstMAC,
	})
	require.NoError(t, err)
	require.NoError(t, sim.SendFrame(context.Background(), 0, frame))
	require.Equal(t, 1, sim.MACTableEntries())

	m.Teardown(context.Background())
	assert.Equal(t, 0, sim.MACTableEntries())
}

func TestLinkControllerResetPolicy(t *testing.T) {
	p := testProfile(t)
	p.CanReset = false
	ctrl := session.LinkController{Profile: p}
	assert.Error(t, ctrl.ResetDUT(context.Background()))
}
