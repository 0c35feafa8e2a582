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
)

// minPayloadSize is the smallest payload that still yields a legal
// 64-byte frame. Smaller payloads produce runts.
const minPayloadSize = 46

// GeneralHandler covers TC8 section 5.4: basic unicast, broadcast and
// multicast forwarding, frame sizes and startup behavior.
type GeneralHandler struct{}

func (GeneralHandler) Section() tc8.Section { return tc8.SectionGeneral }

func (h GeneralHandler) Execute(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	started := time.Now()

	// Startup-time measurement needs power control over the DUT, which
	// the harness does not have.
	if strings.Contains(spec.SpecID, "STARTUP") {
		return SkipResult(tcase, started,
			"startup time measurement requires power-control instrumentation")
	}

	res := RunGeneric(ctx, env, tcase, spec)

	// Whether a switch forwards or drops runts is implementation
	// specific under TC8, so a mismatch is a finding, not a failure.
	if tcase.Params.PayloadSize < minPayloadSize && res.Verdict == tc8.VerdictFail {
		res.Verdict = tc8.VerdictInformational
		res.Warnings = append(res.Warnings,
			"undersized frame handling is implementation specific")
	}
	return res
}
