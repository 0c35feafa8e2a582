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
	"time"

	"github.com/autoeth/tc8verify/pkg/tc8"
)

// VLANHandler covers TC8 section 5.3: membership forwarding, tag
// insertion and removal, PVID classification, double tagging and the
// reserved VIDs.
type VLANHandler struct{}

func (VLANHandler) Section() tc8.Section { return tc8.SectionVLAN }

func (h VLANHandler) Execute(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	started := time.Now()

	if tcase.Params.FrameClass == tc8.FrameDoubleTagged && !env.Profile.SupportsDoubleTagging {
		return SkipResult(tcase, started, "DUT does not support double tagging")
	}

	// VID 4095 is reserved by 802.1Q and must never be forwarded,
	// regardless of what the spec's declared outcome says for legal VIDs.
	if tcase.Params.VID == tc8.MaxVID && tcase.Params.FrameClass != tc8.FrameUntagged {
		spec.ExpectedResult = tc8.ExpectedOutcome{
			Blocked:          env.Profile.PortsExcept(tcase.Params.IngressPort),
			TagAction:        tc8.TagActionDrop,
			StrictForwarding: true,
		}
	}
	return RunGeneric(ctx, env, tcase, spec)
}
