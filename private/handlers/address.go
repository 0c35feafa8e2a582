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

package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/dut"
)

// AddressHandler covers TC8 section 5.5: address learning, unknown
// unicast flooding, aging and table capacity.
type AddressHandler struct{}

func (AddressHandler) Section() tc8.Section { return tc8.SectionAddressLearning }

func (h AddressHandler) Execute(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	started := time.Now()

	// Aging expiry and table exhaustion depend on timers and table sizes
	// that cannot be judged pass/fail within one capture window.
	if strings.Contains(spec.SpecID, "AGING") || strings.Contains(spec.SpecID, "CAPACITY") {
		res := RunGeneric(ctx, env, tcase, spec)
		if res.Verdict == tc8.VerdictPass || res.Verdict == tc8.VerdictFail {
			res.Warnings = append(res.Warnings,
				"aging and capacity behavior observed within a single capture window only")
			res.Verdict = tc8.VerdictInformational
		}
		return res
	}

	// Directed forwarding requires the destination address to be in the
	// DUT's table. Teach it by sending from the expected egress port
	// with the addresses swapped, then run the case proper.
	expected := ResolveExpected(env.Profile, tcase, spec.ExpectedResult)
	if len(expected.ForwardTo) > 0 && tcase.Params.DstMAC != "ff:ff:ff:ff:ff:ff" {
		learnParams := tcase.Params
		learnParams.SrcMAC = tcase.Params.DstMAC
		learnParams.DstMAC = tcase.Params.SrcMAC
		frame, err := dut.BuildFrame(learnParams)
		if err != nil {
			return ErrorResult(tcase, started, "building learning frame", err)
		}
		teach := expected.ForwardTo[0]
		if err := env.Frames.SendFrame(ctx, teach, frame); err != nil {
			return ErrorResult(tcase, started, "injecting learning frame", err)
		}
		// Drain the flood caused by the learning frame so it does not
		// count against the case's own capture.
		drain := env.Profile.PortsExcept(teach)
		if _, err := env.Frames.CaptureFrames(ctx, drain, env.captureTimeout()); err != nil {
			return ErrorResult(tcase, started, "draining learning flood", err)
		}
		// The learned address pins forwarding to the teaching port.
		var blocked []int
		for _, id := range env.Profile.PortIDs() {
			if id != teach && id != tcase.Params.IngressPort {
				blocked = append(blocked, id)
			}
		}
		spec.ExpectedResult = expected.WithPorts([]int{teach}, blocked)
	}
	return RunGeneric(ctx, env, tcase, spec)
}
