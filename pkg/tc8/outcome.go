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

// TagAction describes the tag transformation the DUT is expected to apply
// on egress.
type TagAction string

// The tag transformation actions.
const (
	// TagActionNone leaves tag handling unchecked.
	TagActionNone TagAction = ""
	// TagActionTagged requires every received frame to carry a VLAN tag
	// matching the expected VID (and TPID, if asserted).
	TagActionTagged TagAction = "tagged"
	// TagActionUntagged forbids VLAN tags on received frames.
	TagActionUntagged TagAction = "untagged"
	// TagActionDrop requires that no frames are received at all.
	TagActionDrop TagAction = "drop"
	// TagActionAsConfigured defers to the per-port trunk configuration.
	TagActionAsConfigured TagAction = "as_configured"
)

// ForwardRule names a dynamic forwarding expectation that is resolved
// against the DUT profile at run time.
type ForwardRule string

// The dynamic forwarding rules.
const (
	// ForwardRuleNone means the port sets are taken verbatim.
	ForwardRuleNone ForwardRule = ""
	// ForwardRuleMemberPorts resolves to the VLAN member ports of the
	// case's VID, excluding ingress; all other ports become blocked.
	ForwardRuleMemberPorts ForwardRule = "member_ports_only"
	// ForwardRuleAllPorts resolves to every configured port except ingress.
	ForwardRuleAllPorts ForwardRule = "all_ports"
)

// ExpectedOutcome is the structured description of the behavior a test case
// expects from the DUT. It is partly declared in the specification catalog
// and partly computed by a behavior handler from the DUT profile. Optional
// checks stay disabled while their field is nil or zero.
type ExpectedOutcome struct {
	// ForwardTo lists ports that must each see at least one frame.
	ForwardTo []int `json:"forward_to_ports" yaml:"forward_to_ports"`
	// Blocked lists ports that must see no frames.
	Blocked []int `json:"blocked_ports" yaml:"blocked_ports"`
	// ForwardRule, if set, overrides ForwardTo/Blocked dynamically.
	ForwardRule ForwardRule `json:"forward_to,omitempty" yaml:"forward_to,omitempty"`
	// TagAction selects the tag-correctness check.
	TagAction TagAction `json:"tag_action,omitempty" yaml:"tag_action,omitempty"`
	// ExpectedVID is asserted on tagged frames when non-nil.
	ExpectedVID *uint16 `json:"expected_vid,omitempty" yaml:"expected_vid,omitempty"`
	// ExpectedTPID is asserted on tagged frames when non-nil.
	ExpectedTPID *TPID `json:"expected_tpid,omitempty" yaml:"expected_tpid,omitempty"`
	// ExpectedFrameCount enables the exact frame-count check when non-nil.
	ExpectedFrameCount *int `json:"expected_frame_count,omitempty" yaml:"expected_frame_count,omitempty"`
	// StrictForwarding escalates leakage from informational to fail.
	StrictForwarding bool `json:"strict_forwarding,omitempty" yaml:"strict_forwarding,omitempty"`
}

// WithPorts returns a copy of the outcome with the resolved port sets and
// the dynamic rule cleared.
func (e ExpectedOutcome) WithPorts(forward, blocked []int) ExpectedOutcome {
	e.ForwardTo = forward
	e.Blocked = blocked
	e.ForwardRule = ForwardRuleNone
	return e
}
