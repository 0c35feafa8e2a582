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

// QoSHandler covers TC8 section 5.8: PCP-based priority handling. PCP
// preservation across the switch is judged conclusively; shaping and
// scheduling need precise timing the software capture path cannot
// provide.
type QoSHandler struct{}

func (QoSHandler) Section() tc8.Section { return tc8.SectionQoS }

func (h QoSHandler) Execute(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	started := time.Now()
	if spec.TimingTier != tc8.TimingTierA {
		return InfoResult(tcase, started,
			"shaping and scheduling verification requires hardware timestamping")
	}
	return RunGeneric(ctx, env, tcase, spec)
}
