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

// ConfigHandler covers TC8 section 5.9: configuration persistence across
// resets. Without permission to reset the DUT these cases cannot run.
type ConfigHandler struct{}

func (ConfigHandler) Section() tc8.Section { return tc8.SectionConfiguration }

func (h ConfigHandler) Execute(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	started := time.Now()
	if !env.Profile.CanReset {
		return SkipResult(tcase, started, "DUT reset not permitted by profile")
	}
	res := RunGeneric(ctx, env, tcase, spec)
	if res.Verdict == tc8.VerdictPass {
		res.Warnings = append(res.Warnings,
			"configured behavior verified, persistence across power cycles not exercised")
	}
	return res
}
