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

// Package tc8 contains the shared data model of the conformance engine:
// specification definitions, generated test cases, frame captures, expected
// outcomes, results and reports. All values follow the OPEN Alliance TC8
// Layer 2 v3.0 terminology.
package tc8

import (
	"strings"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
)

// Section identifies a TC8 Layer 2 specification section.
type Section string

// The TC8 Layer 2 sections.
const (
	SectionVLAN            Section = "5.3"
	SectionGeneral         Section = "5.4"
	SectionAddressLearning Section = "5.5"
	SectionFiltering       Section = "5.6"
	SectionTimeSync        Section = "5.7"
	SectionQoS             Section = "5.8"
	SectionConfiguration   Section = "5.9"
)

// AllSections lists every TC8 section in document order.
func AllSections() []Section {
	return []Section{
		SectionVLAN,
		SectionGeneral,
		SectionAddressLearning,
		SectionFiltering,
		SectionTimeSync,
		SectionQoS,
		SectionConfiguration,
	}
}

// Name returns the human-readable section name.
func (s Section) Name() string {
	switch s {
	case SectionVLAN:
		return "VLAN"
	case SectionGeneral:
		return "General"
	case SectionAddressLearning:
		return "Address Learning"
	case SectionFiltering:
		return "Filtering"
	case SectionTimeSync:
		return "Time Sync"
	case SectionQoS:
		return "QoS"
	case SectionConfiguration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// SectionFromReference derives the section from a TC8 reference such as
// "5.3.12". Unknown references map to the general section.
func SectionFromReference(ref string) Section {
	parts := strings.Split(ref, ".")
	if len(parts) >= 2 {
		key := Section(parts[0] + "." + parts[1])
		for _, s := range AllSections() {
			if s == key {
				return s
			}
		}
	}
	return SectionGeneral
}

// Tier identifies an execution scope preset.
type Tier string

// The execution tiers, trading coverage for run time.
const (
	TierSmoke Tier = "smoke"
	TierCore  Tier = "core"
	TierFull  Tier = "full"
)

// ParseTier parses a tier name.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(s)) {
	case TierSmoke:
		return TierSmoke, nil
	case TierCore:
		return TierCore, nil
	case TierFull:
		return TierFull, nil
	default:
		return "", serrors.New("unknown tier", "tier", s)
	}
}

// TimingTier classifies the timing accuracy a specification needs.
type TimingTier string

// Timing accuracy tiers. Tier A is the only one the engine provides itself;
// B and C need NIC hardware timestamps or external PPS/GPS hardware.
const (
	TimingTierA TimingTier = "tier_a"
	TimingTierB TimingTier = "tier_b"
	TimingTierC TimingTier = "tier_c"
)
