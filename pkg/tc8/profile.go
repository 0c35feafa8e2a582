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
	"time"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
)

// Port is the configuration of a single DUT-facing test station port.
type Port struct {
	ID             int      `json:"port_id" yaml:"port_id"`
	InterfaceName  string   `json:"interface_name" yaml:"interface_name"`
	MACAddress     string   `json:"mac_address" yaml:"mac_address"`
	SpeedMbps      int      `json:"speed_mbps" yaml:"speed_mbps"`
	VLANMembership []uint16 `json:"vlan_membership" yaml:"vlan_membership"`
	PVID           uint16   `json:"pvid" yaml:"pvid"`
	Trunk          bool     `json:"is_trunk" yaml:"is_trunk"`
}

// Member reports whether the port is a member of the given VLAN.
func (p Port) Member(vid uint16) bool {
	for _, v := range p.VLANMembership {
		if v == vid {
			return true
		}
	}
	return false
}

// Profile is the complete DUT configuration profile, populated from the
// questionnaire YAML. It is immutable for the duration of a run.
type Profile struct {
	Name            string `json:"name" yaml:"name"`
	Model           string `json:"model" yaml:"model"`
	FirmwareVersion string `json:"firmware_version" yaml:"firmware_version"`
	Ports           []Port `json:"ports" yaml:"ports"`
	MaxMACTableSize int    `json:"max_mac_table_size" yaml:"max_mac_table_size"`
	// MACAgingSeconds is the DUT's MAC aging timer.
	MACAgingSeconds int `json:"mac_aging_time_s" yaml:"mac_aging_time_s"`
	// Capability flags.
	SupportsDoubleTagging bool `json:"supports_double_tagging" yaml:"supports_double_tagging"`
	SupportsGPTP          bool `json:"supports_gptp" yaml:"supports_gptp"`
	CanReset              bool `json:"can_reset" yaml:"can_reset"`
	// ResetCommand is the shell command that power-cycles the DUT, if any.
	ResetCommand string `json:"reset_command,omitempty" yaml:"reset_command,omitempty"`
	Notes        string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate checks the profile for internal consistency.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return serrors.New("profile name must be set")
	}
	if len(p.Ports) == 0 {
		return serrors.New("profile declares no ports", "profile", p.Name)
	}
	seen := map[int]bool{}
	for _, port := range p.Ports {
		if seen[port.ID] {
			return serrors.New("duplicate port id", "port", port.ID)
		}
		seen[port.ID] = true
		if port.PVID > MaxVID {
			return serrors.New("pvid out of range", "port", port.ID, "pvid", port.PVID)
		}
	}
	return nil
}

// MACAgingTime returns the DUT's MAC aging timer as a duration.
func (p *Profile) MACAgingTime() time.Duration {
	return time.Duration(p.MACAgingSeconds) * time.Second
}

// PortIDs returns the ids of all configured ports, in configuration order.
func (p *Profile) PortIDs() []int {
	ids := make([]int, 0, len(p.Ports))
	for _, port := range p.Ports {
		ids = append(ids, port.ID)
	}
	return ids
}

// Port returns the port with the given id, or false if not configured.
func (p *Profile) Port(id int) (Port, bool) {
	for _, port := range p.Ports {
		if port.ID == id {
			return port, true
		}
	}
	return Port{}, false
}

// MemberPorts returns the ids of the ports that are members of vid,
// excluding the ingress port.
func (p *Profile) MemberPorts(vid uint16, ingress int) []int {
	ids := []int{}
	for _, port := range p.Ports {
		if port.ID != ingress && port.Member(vid) {
			ids = append(ids, port.ID)
		}
	}
	return ids
}

// NonMemberPorts returns the ids of the ports that are not members of vid,
// excluding the ingress port.
func (p *Profile) NonMemberPorts(vid uint16, ingress int) []int {
	ids := []int{}
	for _, port := range p.Ports {
		if port.ID != ingress && !port.Member(vid) {
			ids = append(ids, port.ID)
		}
	}
	return ids
}

// PortsExcept returns all configured port ids except the given one.
func (p *Profile) PortsExcept(ingress int) []int {
	ids := []int{}
	for _, port := range p.Ports {
		if port.ID != ingress {
			ids = append(ids, port.ID)
		}
	}
	return ids
}

// TrunkPorts returns the trunk ports that are members of vid, excluding
// ingress.
func (p *Profile) TrunkPorts(vid uint16, ingress int) []int {
	ids := []int{}
	for _, port := range p.Ports {
		if port.ID != ingress && port.Trunk && port.Member(vid) {
			ids = append(ids, port.ID)
		}
	}
	return ids
}

// AccessPorts returns the non-trunk ports that are members of vid,
// excluding ingress.
func (p *Profile) AccessPorts(vid uint16, ingress int) []int {
	ids := []int{}
	for _, port := range p.Ports {
		if port.ID != ingress && !port.Trunk && port.Member(vid) {
			ids = append(ids, port.ID)
		}
	}
	return ids
}
