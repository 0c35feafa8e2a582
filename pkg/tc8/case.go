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

package tc8

import (
	"fmt"
)

// FrameClass is the Ethernet frame tagging classification per TC8.
type FrameClass string

// The frame tagging classes.
const (
	FrameUntagged     FrameClass = "untagged"
	FrameSingleTagged FrameClass = "single_tagged"
	FrameDoubleTagged FrameClass = "double_tagged"
)

// Short returns the two-letter abbreviation used in case ids.
func (f FrameClass) Short() string {
	switch f {
	case FrameUntagged:
		return "UT"
	case FrameSingleTagged:
		return "ST"
	case FrameDoubleTagged:
		return "DT"
	default:
		return "XX"
	}
}

// TPID is a Tag Protocol Identifier.
type TPID uint16

// TPID values used in automotive Ethernet.
const (
	// TPIDCustomer is the IEEE 802.1Q customer VLAN TPID. It is the
	// canonical default: untagged frames always pin this value.
	TPIDCustomer TPID = 0x8100
	// TPIDService is the IEEE 802.1ad service VLAN TPID.
	TPIDService TPID = 0x88A8
	// TPIDLegacy is the legacy vendor double-tag TPID.
	TPIDLegacy TPID = 0x9100
)

// Protocol selects the payload protocol of a test frame.
type Protocol string

// The payload protocols used by TC8 Layer 2 tests.
const (
	ProtocolICMP Protocol = "icmp"
	ProtocolARP  Protocol = "arp"
)

// MaxVID is the largest valid VLAN identifier.
const MaxVID = 4095

// Default MAC addresses of the test station. Locally administered, so they
// never collide with real hardware.
const (
	DefaultSrcMAC = "02:00:00:00:00:01"
	DefaultDstMAC = "02:00:00:00:00:02"
)

// CaseParams are the fully resolved parameters of one test case execution.
type CaseParams struct {
	IngressPort int        `json:"ingress_port" yaml:"ingress_port"`
	EgressPorts []int      `json:"egress_ports" yaml:"egress_ports"`
	VID         uint16     `json:"vid" yaml:"vid"`
	FrameClass  FrameClass `json:"frame_class" yaml:"frame_class"`
	TPID        TPID       `json:"tpid" yaml:"tpid"`
	Protocol    Protocol   `json:"protocol" yaml:"protocol"`
	SrcMAC      string     `json:"src_mac" yaml:"src_mac"`
	DstMAC      string     `json:"dst_mac" yaml:"dst_mac"`
	PayloadSize int        `json:"payload_size" yaml:"payload_size"`
	// InnerVID is the customer tag VID for double-tagged frames. Zero means
	// reuse VID.
	InnerVID uint16 `json:"inner_vid,omitempty" yaml:"inner_vid,omitempty"`
}

// TestCase is a single concrete execution unit produced by the generator.
// It is immutable and consumed exactly once by the orchestrator.
type TestCase struct {
	CaseID       string     `json:"case_id"`
	SpecID       string     `json:"spec_id"`
	TC8Reference string     `json:"tc8_reference"`
	Section      Section    `json:"section"`
	Tier         Tier       `json:"tier"`
	Params       CaseParams `json:"parameters"`
	Description  string     `json:"description"`
}

// MakeCaseID builds the deterministic, human-readable case id. The id is a
// pure function of the parameters; generating the same spec twice yields
// identical ids.
func MakeCaseID(specID string, ingress, egress int, vid uint16, fc FrameClass, tpid TPID) string {
	return fmt.Sprintf("%s_P%d_P%d_V%d_%s_T%04X", specID, ingress, egress, vid, fc.Short(), uint16(tpid))
}
