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

package generator_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/catalog"
	"github.com/autoeth/tc8verify/private/generator"
	"github.com/autoeth/tc8verify/private/sampling"
)

func twoPortProfile(t *testing.T) *tc8.Profile {
	t.Helper()
	p := &tc8.Profile{
		Name:  "test-sw",
		Model: "TEST",
		Ports: []tc8.Port{
			{ID: 0, InterfaceName: "eth0", VLANMembership: []uint16{1, 100}, PVID: 1},
			{ID: 1, InterfaceName: "eth1", VLANMembership: []uint16{1, 100}, PVID: 1},
		},
	}
	require.NoError(t, p.Validate())
	return p
}

func TestGenerateCardinality(t *testing.T) {
	spec := tc8.SpecDefinition{
		SpecID:                 "SWITCH_VLAN_001",
		TC8Reference:           "TC8 5.3.1",
		Section:                tc8.SectionVLAN,
		Title:                  "VLAN membership forwarding",
		ApplicableFrameClasses: []tc8.FrameClass{tc8.FrameUntagged, tc8.FrameSingleTagged},
		ApplicableTPIDs:        []tc8.TPID{tc8.TPIDCustomer},
	}
	cfg := catalog.TierConfig{
		VIDs:         catalog.VIDPolicy{Explicit: []uint16{1, 100}},
		PortStrategy: sampling.PortFirstPair,
	}

	gen := generator.New(twoPortProfile(t))
	cases, warnings, err := gen.Generate(spec, tc8.TierSmoke, cfg)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	// 1 pair x 2 VIDs x 2 frame classes x 1 TPID.
	assert.Len(t, cases, 4)
	for _, tc := range cases {
		assert.Equal(t, "SWITCH_VLAN_001", tc.SpecID)
		assert.Equal(t, tc8.TierSmoke, tc.Tier)
		assert.Equal(t, generator.DefaultPayloadSize, tc.Params.PayloadSize)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	spec := tc8.SpecDefinition{
		SpecID:       "SWITCH_VLAN_002",
		TC8Reference: "TC8 5.3.2",
		Section:      tc8.SectionVLAN,
		Title:        "Tag insertion",
	}
	cfg := catalog.TierConfig{
		VIDs:         catalog.VIDPolicy{Strategy: sampling.VIDRandom, Count: 5, Seed: 42},
		PortStrategy: sampling.PortAllCombinations,
	}

	gen := generator.New(twoPortProfile(t))
	first, _, err := gen.Generate(spec, tc8.TierCore, cfg)
	require.NoError(t, err)
	second, _, err := gen.Generate(spec, tc8.TierCore, cfg)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestGenerateUntaggedPinsTPID(t *testing.T) {
	spec := tc8.SpecDefinition{
		SpecID:                 "SWITCH_VLAN_001",
		TC8Reference:           "TC8 5.3.1",
		Section:                tc8.SectionVLAN,
		Title:                  "VLAN membership forwarding",
		ApplicableFrameClasses: []tc8.FrameClass{tc8.FrameUntagged},
		ApplicableTPIDs:        []tc8.TPID{tc8.TPIDCustomer, tc8.TPIDService, tc8.TPIDLegacy},
	}
	cfg := catalog.TierConfig{
		VIDs:         catalog.VIDPolicy{Explicit: []uint16{1}},
		PortStrategy: sampling.PortFirstPair,
	}

	gen := generator.New(twoPortProfile(t))
	cases, _, err := gen.Generate(spec, tc8.TierSmoke, cfg)
	require.NoError(t, err)
	// Untagged frames never multiply across the TPID dimension.
	require.Len(t, cases, 1)
	assert.Equal(t, tc8.TPIDCustomer, cases[0].Params.TPID)
}

func TestGenerateSinglePortWarns(t *testing.T) {
	p := &tc8.Profile{
		Name:  "one-port",
		Model: "TEST",
		Ports: []tc8.Port{
			{ID: 0, InterfaceName: "eth0", VLANMembership: []uint16{1}, PVID: 1},
		},
	}
	require.NoError(t, p.Validate())

	spec := tc8.SpecDefinition{
		SpecID:       "SWITCH_GENERAL_001",
		TC8Reference: "TC8 5.4.1",
		Section:      tc8.SectionGeneral,
		Title:        "Basic forwarding",
	}
	cfg := catalog.TierConfig{
		VIDs:         catalog.VIDPolicy{Explicit: []uint16{1}},
		PortStrategy: sampling.PortFirstPair,
	}

	cases, warnings, err := generator.New(p).Generate(spec, tc8.TierSmoke, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, cases)
	require.Len(t, warnings, 1)
	for _, tc := range cases {
		assert.Equal(t, tc.Params.IngressPort, tc.Params.EgressPorts[0])
	}
}
