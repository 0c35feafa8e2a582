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

package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/dut"
	"github.com/autoeth/tc8verify/private/handlers"
)

func testProfile(t *testing.T) *tc8.Profile {
	t.Helper()
	p := &tc8.Profile{
		Name:  "handler-sw",
		Model: "TEST",
		Ports: []tc8.Port{
			{ID: 0, InterfaceName: "veth0", VLANMembership: []uint16{1, 100}, PVID: 1},
			{ID: 1, InterfaceName: "veth1", VLANMembership: []uint16{1, 100}, PVID: 1},
			{ID: 2, InterfaceName: "veth2", VLANMembership: []uint16{1, 200}, PVID: 200},
			{ID: 3, InterfaceName: "veth3", VLANMembership: []uint16{1, 100, 200}, PVID: 1, Trunk: true},
		},
		SupportsGPTP: false,
	}
	require.NoError(t, p.Validate())
	return p
}

func testEnv(t *testing.T) (*handlers.Env, *dut.SimInterface) {
	t.Helper()
	profile := testProfile(t)
	sim := dut.NewSimInterface(profile)
	require.NoError(t, sim.Initialize(context.Background()))
	return &handlers.Env{
		Profile:        profile,
		Frames:         sim,
		CaptureTimeout: 100 * time.Millisecond,
	}, sim
}

func vlanCase(vid uint16, fc tc8.FrameClass) tc8.TestCase {
	params := tc8.CaseParams{
		IngressPort: 0,
		EgressPorts: []int{1},
		VID:         vid,
		FrameClass:  fc,
		TPID:        tc8.TPIDCustomer,
		Protocol:    tc8.ProtocolICMP,
		SrcMAC:      tc8.DefaultSrcMAC,
		DstMAC:      "ff:ff:ff:ff:ff:ff",
		PayloadSize: 64,
	}
	return tc8.TestCase{
		CaseID:  tc8.MakeCaseID("SWITCH_VLAN_001", 0, 1, vid, fc, tc8.TPIDCustomer),
		SpecID:  "SWITCH_VLAN_001",
		Section: tc8.SectionVLAN,
		Params:  params,
	}
}

func membershipSpec() tc8.SpecDefinition {
	return tc8.SpecDefinition{
		SpecID:       "SWITCH_VLAN_001",
		TC8Reference: "TC8 5.3.1",
		Section:      tc8.SectionVLAN,
		Title:        "VLAN membership forwarding",
		ExpectedResult: tc8.ExpectedOutcome{
			ForwardRule: tc8.ForwardRuleMemberPorts,
		},
	}
}

func TestRegistryComplete(t *testing.T) {
	r, err := handlers.DefaultRegistry()
	require.NoError(t, err)
	for _, section := range tc8.AllSections() {
		h, ok := r.Handler(section)
		require.True(t, ok, "section %s", section)
		assert.Equal(t, section, h.Section())
	}
}

func TestRegistryMissingSection(t *testing.T) {
	_, err := handlers.NewRegistry(handlers.VLANHandler{})
	assert.Error(t, err)
}

func TestRegistryDuplicateSection(t *testing.T) {
	_, err := handlers.NewRegistry(
		handlers.VLANHandler{}, handlers.VLANHandler{},
	)
	assert.Error(t, err)
}

func TestResolveExpected(t *testing.T) {
	profile := testProfile(t)
	tcase := vlanCase(100, tc8.FrameSingleTagged)

	testCases := map[string]struct {
		declared    tc8.ExpectedOutcome
		wantForward []int
		wantBlocked []int
		wantAction  tc8.TagAction
	}{
		"member ports only": {
			declared:    tc8.ExpectedOutcome{ForwardRule: tc8.ForwardRuleMemberPorts},
			wantForward: []int{1, 3},
			wantBlocked: []int{2},
		},
		"all ports": {
			declared:    tc8.ExpectedOutcome{ForwardRule: tc8.ForwardRuleAllPorts},
			wantForward: []int{1, 2, 3},
			wantBlocked: nil,
		},
		"as configured on trunk": {
			declared: tc8.ExpectedOutcome{
				ForwardTo: []int{3},
				TagAction: tc8.TagActionAsConfigured,
			},
			wantForward: []int{3},
			wantAction:  tc8.TagActionTagged,
		},
		"as configured on access": {
			declared: tc8.ExpectedOutcome{
				ForwardTo: []int{1},
				TagAction: tc8.TagActionAsConfigured,
			},
			wantForward: []int{1},
			wantAction:  tc8.TagActionUntagged,
		},
		"as configured mixed stays unchecked": {
			declared: tc8.ExpectedOutcome{
				ForwardTo: []int{1, 3},
				TagAction: tc8.TagActionAsConfigured,
			},
			wantForward: []int{1, 3},
			wantAction:  tc8.TagActionNone,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := handlers.ResolveExpected(profile, tcase, tc.declared)
			assert.Equal(t, tc.wantForward, got.ForwardTo)
			assert.Equal(t, tc.wantBlocked, got.Blocked)
			assert.Equal(t, tc.wantAction, got.TagAction)
		})
	}
}

func TestResolveExpectedDefaultsVID(t *testing.T) {
	got := handlers.ResolveExpected(testProfile(t), vlanCase(100, tc8.FrameSingleTagged),
		tc8.ExpectedOutcome{ForwardTo: []int{3}, TagAction: tc8.TagActionTagged})
	require.NotNil(t, got.ExpectedVID)
	assert.Equal(t, uint16(100), *got.ExpectedVID)
}

func TestVLANHandlerMembership(t *testing.T) {
	env, _ := testEnv(t)
	res := handlers.VLANHandler{}.Execute(
		context.Background(), env, vlanCase(100, tc8.FrameSingleTagged), membershipSpec())
	assert.Equal(t, tc8.VerdictPass, res.Verdict, res.Message)
}

func TestVLANHandlerDoubleTagSkip(t *testing.T) {
	env, _ := testEnv(t)
	env.Profile.SupportsDoubleTagging = false

	res := handlers.VLANHandler{}.Execute(
		context.Background(), env, vlanCase(100, tc8.FrameDoubleTagged), membershipSpec())
	assert.Equal(t, tc8.VerdictSkip, res.Verdict)
}

func TestVLANHandlerReservedVID(t *testing.T) {
	env, _ := testEnv(t)
	res := handlers.VLANHandler{}.Execute(
		context.Background(), env, vlanCase(tc8.MaxVID, tc8.FrameSingleTagged), membershipSpec())
	assert.Equal(t, tc8.VerdictPass, res.Verdict, res.Message)
}

func TestAddressHandlerLearnedForwarding(t *testing.T) {
	env, sim := testEnv(t)

	tcase := vlanCase(100, tc8.FrameSingleTagged)
	tcase.SpecID = "SWITCH_ADDR_001"
	tcase.Section = tc8.SectionAddressLearning
	tcase.Params.DstMAC = tc8.DefaultDstMAC

	spec := membershipSpec()
	spec.SpecID = "SWITCH_ADDR_001"
	spec.Section = tc8.SectionAddressLearning

	res := handlers.AddressHandler{}.Execute(context.Background(), env, tcase, spec)
	assert.Equal(t, tc8.VerdictPass, res.Verdict, res.Message)
	// The learning frame left the destination address in the table.
	assert.GreaterOrEqual(t, sim.MACTableEntries(), 1)
}

func TestTimeSyncHandlerSkipsWithoutGPTP(t *testing.T) {
	env, _ := testEnv(t)

	tcase := vlanCase(1, tc8.FrameUntagged)
	tcase.Section = tc8.SectionTimeSync
	res := handlers.TimeSyncHandler{}.Execute(
		context.Background(), env, tcase, tc8.SpecDefinition{TimingTier: tc8.TimingTierA})
	assert.Equal(t, tc8.VerdictSkip, res.Verdict)
}

func TestConfigHandlerSkipsWithoutReset(t *testing.T) {
	env, _ := testEnv(t)

	tcase := vlanCase(1, tc8.FrameUntagged)
	tcase.Section = tc8.SectionConfiguration
	res := handlers.ConfigHandler{}.Execute(
		context.Background(), env, tcase, tc8.SpecDefinition{})
	assert.Equal(t, tc8.VerdictSkip, res.Verdict)
}

func TestQoSHandlerTimingInformational(t *testing.T) {
	env, _ := testEnv(t)

	tcase := vlanCase(100, tc8.FrameSingleTagged)
	tcase.Section = tc8.SectionQoS
	res := handlers.QoSHandler{}.Execute(
		context.Background(), env, tcase, tc8.SpecDefinition{TimingTier: tc8.TimingTierC})
	assert.Equal(t, tc8.VerdictInformational, res.Verdict)
}
