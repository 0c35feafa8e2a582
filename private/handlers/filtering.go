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

	"github.com/autoeth/tc8verify/pkg/tc8"
)

// FilteringHandler covers TC8 section 5.6: reserved multicast filtering
// and static filter entries. Filtering violations are isolation bugs, so
// leakage is always escalated to a failure here.
type FilteringHandler struct{}

func (FilteringHandler) Section() tc8.Section { return tc8.SectionFiltering }

func (h FilteringHandler) Execute(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	spec.ExpectedResult.StrictForwarding = true
	return RunGeneric(ctx, env, tcase, spec)
}
