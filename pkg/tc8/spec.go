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

// SpecParams are the free parameters a specification declares for its test
// case expansion.
type SpecParams struct {
	// VIDRange is the inclusive [lo, hi] VID domain. Empty means the
	// default domain 1-4095.
	VIDRange []uint16 `json:"vid_range,omitempty" yaml:"vid_range,omitempty"`
	// PayloadSize overrides the default frame payload size.
	PayloadSize int `json:"payload_size,omitempty" yaml:"payload_size,omitempty"`
	// Repeats runs each case this many times and judges the pass rate
	// statistically. Zero or one means a single deterministic trial.
	// Meant for inherently non-deterministic behaviors such as flooding
	// order or aging timing.
	Repeats int `json:"repeats,omitempty" yaml:"repeats,omitempty"`
}

// SpecDefinition is a single TC8 test specification, loaded once per run
// from the catalog and immutable afterwards. It maps 1:1 to a row in the
// TC8 spec document.
type SpecDefinition struct {
	SpecID       string     `json:"spec_id" yaml:"spec_id"`
	TC8Reference string     `json:"tc8_reference" yaml:"tc8_reference"`
	Section      Section    `json:"section" yaml:"section"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description" yaml:"description"`
	Priority     string     `json:"priority" yaml:"priority"`
	TimingTier   TimingTier `json:"timing_tier" yaml:"timing_tier"`
	Parameters   SpecParams `json:"parameters" yaml:"parameters"`
	// ExpectedResult is the statically declared part of the expected
	// outcome; handlers extend it with profile-derived expectations.
	ExpectedResult ExpectedOutcome `json:"expected_result" yaml:"expected_result"`
	// ApplicableFrameClasses defaults to all three classes when empty.
	ApplicableFrameClasses []FrameClass `json:"applicable_frame_types" yaml:"applicable_frame_types"`
	// ApplicableTPIDs defaults to {0x8100, 0x88A8, 0x9100} when empty.
	ApplicableTPIDs []TPID `json:"applicable_tpids" yaml:"applicable_tpids"`
}

// FrameClasses returns the applicable frame classes, falling back to all
// classes for specs that do not restrict them.
func (s SpecDefinition) FrameClasses() []FrameClass {
	if len(s.ApplicableFrameClasses) == 0 {
		return []FrameClass{FrameUntagged, FrameSingleTagged, FrameDoubleTagged}
	}
	return s.ApplicableFrameClasses
}

// TPIDs returns the applicable TPIDs, falling back to the full automotive
// set for specs that do not restrict them.
func (s SpecDefinition) TPIDs() []TPID {
	if len(s.ApplicableTPIDs) == 0 {
		return []TPID{TPIDCustomer, TPIDService, TPIDLegacy}
	}
	return s.ApplicableTPIDs
}

// VIDDomain returns the inclusive VID domain of the spec, defaulting to
// 1-4095.
func (s SpecDefinition) VIDDomain() (uint16, uint16) {
	r := s.Parameters.VIDRange
	switch len(r) {
	case 0:
		return 1, MaxVID
	case 1:
		return r[0], r[0]
	default:
		return r[0], r[1]
	}
}
