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

package dut_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/dut"
)

func baseParams(fc tc8.FrameClass, tpid tc8.TPID) tc8.CaseParams {
	return tc8.CaseParams{
		IngressPort: 0,
		EgressPorts: []int{1},
		VID:         100,
		FrameClass:  fc,
		TPID:        tpid,
		Protocol:    tc8.ProtocolICMP,
		SrcMAC:      tc8.DefaultSrcMAC,
		DstMAC:      tc8.DefaultDstMAC,
		PayloadSize: 64,
		InnerVID:    42,
	}
}

func TestBuildParseRoundtrip(t *testing.T) {
	testCases := map[string]struct {
		params   tc8.CaseParams
		wantTags []tc8.VlanTag
	}{
		"untagged": {
			params:   baseParams(tc8.FrameUntagged, tc8.TPIDCustomer),
			wantTags: nil,
		},
		"single tagged": {
			params: baseParams(tc8.FrameSingleTagged, tc8.TPIDCustomer),
			wantTags: []tc8.VlanTag{
				{VID: 100, TPID: tc8.TPIDCustomer},
			},
		},
		"single tagged legacy tpid": {
			params: baseParams(tc8.FrameSingleTagged, tc8.TPIDLegacy),
			wantTags: []tc8.VlanTag{
				{VID: 100, TPID: tc8.TPIDLegacy},
			},
		},
		"double tagged": {
			params: baseParams(tc8.FrameDoubleTagged, tc8.TPIDService),
			wantTags: []tc8.VlanTag{
				{VID: 100, TPID: tc8.TPIDService},
				{VID: 42, TPID: tc8.TPIDCustomer},
			},
		},
		"double tagged inner defaults to outer": {
			params: func() tc8.CaseParams {
				p := baseParams(tc8.FrameDoubleTagged, tc8.TPIDService)
				p.InnerVID = 0
				return p
			}(),
			wantTags: []tc8.VlanTag{
				{VID: 100, TPID: tc8.TPIDService},
				{VID: 100, TPID: tc8.TPIDCustomer},
			},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			raw, err := dut.BuildFrame(tc.params)
			require.NoError(t, err)

			capture, err := dut.ParseFrame(3, time.Now(), raw)
			require.NoError(t, err)
			assert.Equal(t, 3, capture.PortID)
			assert.Equal(t, tc.params.SrcMAC, capture.SrcMAC)
			assert.Equal(t, tc.params.DstMAC, capture.DstMAC)
			assert.Equal(t, tc.wantTags, capture.VlanTags)
		})
	}
}

func TestBuildFrameARP(t *testing.T) {
	params := baseParams(tc8.FrameUntagged, tc8.TPIDCustomer)
	params.Protocol = tc8.ProtocolARP

	raw, err := dut.BuildFrame(params)
	require.NoError(t, err)
	capture, err := dut.ParseFrame(0, time.Now(), raw)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0806), capture.EtherType)
	assert.False(t, capture.Tagged())
}

func TestBuildFrameBadMAC(t *testing.T) {
	params := baseParams(tc8.FrameUntagged, tc8.TPIDCustomer)
	params.SrcMAC = "not-a-mac"
	_, err := dut.BuildFrame(params)
	assert.Error(t, err)
}
