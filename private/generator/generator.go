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

// Package generator expands specification definitions into ordered
// sequences of concrete test cases. The expansion is the full cartesian
// product over {port pair} x {VID} x {frame class} x {TPID}; the sampling
// policies of the selected tier are the sole control on combinatorial
// explosion.
package generator

import (
	"errors"
	"fmt"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/catalog"
	"github.com/autoeth/tc8verify/private/sampling"
)

// DefaultPayloadSize is the frame payload size when a spec does not
// override it.
const DefaultPayloadSize = 64

// Generator expands specs into test cases against a fixed DUT profile.
type Generator struct {
	profile *tc8.Profile
}

// New creates a generator for the given profile.
func New(profile *tc8.Profile) *Generator {
	return &Generator{profile: profile}
}

// Generate produces the ordered test case sequence for one spec under the
// given tier policy. Case ids are a deterministic function of the case
// parameters: generating the same spec twice yields identical sequences.
// Warnings carry degenerate-setup notices (e.g. a single-port DUT) that
// the orchestrator surfaces on the results.
func (g *Generator) Generate(
	spec tc8.SpecDefinition,
	tier tc8.Tier,
	cfg catalog.TierConfig,
) ([]tc8.TestCase, []string, error) {

	lo, hi := spec.VIDDomain()
	vids, err := cfg.VIDs.Resolve(sampling.VIDRange{Lo: lo, Hi: hi})
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	pairs, err := sampling.SamplePortPairs(cfg.PortStrategy, g.profile.PortIDs())
	if err != nil {
		if !errors.Is(err, sampling.ErrSinglePort) {
			return nil, nil, err
		}
		warnings = append(warnings, err.Error())
	}

	payloadSize := spec.Parameters.PayloadSize
	if payloadSize == 0 {
		payloadSize = DefaultPayloadSize
	}

	var cases []tc8.TestCase
	for _, pair := range pairs {
		for _, vid := range vids {
			for _, fc := range spec.FrameClasses() {
				for _, tpid := range applicableTPIDs(spec, fc) {
					params := tc8.CaseParams{
						IngressPort: pair.Ingress,
						EgressPorts: []int{pair.Egress},
						VID:         vid,
						FrameClass:  fc,
						TPID:        tpid,
						Protocol:    tc8.ProtocolICMP,
						SrcMAC:      tc8.DefaultSrcMAC,
						DstMAC:      tc8.DefaultDstMAC,
						PayloadSize: payloadSize,
					}
					cases = append(cases, tc8.TestCase{
						CaseID:       tc8.MakeCaseID(spec.SpecID, pair.Ingress, pair.Egress, vid, fc, tpid),
						SpecID:       spec.SpecID,
						TC8Reference: spec.TC8Reference,
						Section:      spec.Section,
						Tier:         tier,
						Params:       params,
						Description: fmt.Sprintf("%s: port %d->%d, VID=%d, %s",
							spec.Title, pair.Ingress, pair.Egress, vid, fc),
					})
				}
			}
		}
	}

	log.Debug("Generated test cases",
		"spec", spec.SpecID, "tier", tier, "cases", len(cases))
	return cases, warnings, nil
}

// applicableTPIDs returns the TPID dimension for a frame class. Tagging a
// TPID onto an untagged frame is meaningless, so untagged frames always
// pin the canonical 802.1Q value.
func applicableTPIDs(spec tc8.SpecDefinition, fc tc8.FrameClass) []tc8.TPID {
	if fc == tc8.FrameUntagged {
		return []tc8.TPID{tc8.TPIDCustomer}
	}
	return spec.TPIDs()
}
