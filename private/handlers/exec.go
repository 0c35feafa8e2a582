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
	"fmt"
	"time"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/dut"
	"github.com/autoeth/tc8verify/private/validator"
)

// ResolveExpected turns the declared expected outcome into a concrete one
// by resolving the dynamic forwarding rule and the as-configured tag
// action against the DUT profile.
func ResolveExpected(profile *tc8.Profile, tcase tc8.TestCase, declared tc8.ExpectedOutcome) tc8.ExpectedOutcome {
	out := declared
	vid := tcase.Params.VID
	ingress := tcase.Params.IngressPort

	switch declared.ForwardRule {
	case tc8.ForwardRuleMemberPorts:
		out = out.WithPorts(
			profile.MemberPorts(vid, ingress),
			profile.NonMemberPorts(vid, ingress),
		)
	case tc8.ForwardRuleAllPorts:
		out = out.WithPorts(profile.PortsExcept(ingress), nil)
	}

	if out.TagAction == tc8.TagActionAsConfigured {
		out.TagAction = resolveTagAction(profile, vid, out.ForwardTo)
	}
	if out.TagAction == tc8.TagActionTagged && out.ExpectedVID == nil {
		v := vid
		out.ExpectedVID = &v
	}
	return out
}

// resolveTagAction maps the per-port trunk configuration to a single tag
// expectation. A mixed trunk/access forwarding set cannot be expressed as
// one action and leaves tagging unchecked.
func resolveTagAction(profile *tc8.Profile, vid uint16, forwardTo []int) tc8.TagAction {
	trunks, access := 0, 0
	for _, id := range forwardTo {
		port, ok := profile.Port(id)
		if !ok {
			continue
		}
		if port.Trunk {
			trunks++
		} else {
			access++
		}
	}
	switch {
	case trunks > 0 && access == 0:
		return tc8.TagActionTagged
	case access > 0 && trunks == 0:
		return tc8.TagActionUntagged
	default:
		return tc8.TagActionNone
	}
}

// RunGeneric is the standard execution flow: resolve expectations, inject
// the case's frame on the ingress port, capture on every other port, and
// validate. Handlers build on it for the common part of their sections.
// Specs that declare repeats are judged statistically over the trials.
func RunGeneric(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	if n := spec.Parameters.Repeats; n > 1 {
		return runRepeated(ctx, env, tcase, spec, n)
	}
	return runOnce(ctx, env, tcase, spec)
}

func runOnce(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult {
	started := time.Now()
	expected := ResolveExpected(env.Profile, tcase, spec.ExpectedResult)

	frame, err := dut.BuildFrame(tcase.Params)
	if err != nil {
		return ErrorResult(tcase, started, "building frame", err)
	}
	if err := env.Frames.SendFrame(ctx, tcase.Params.IngressPort, frame); err != nil {
		return ErrorResult(tcase, started, "injecting frame", err)
	}

	monitored := env.Profile.PortsExcept(tcase.Params.IngressPort)
	received, err := env.Frames.CaptureFrames(ctx, monitored, env.captureTimeout())
	if err != nil {
		return ErrorResult(tcase, started, "capturing frames", err)
	}

	res := validator.Validate(validator.Input{
		Case:     tcase,
		Expected: expected,
		Received: received,
		Started:  started,
		Finished: time.Now(),
	})
	log.FromCtx(ctx).Debug("Case executed",
		"case_id", tcase.CaseID, "verdict", res.Verdict)
	return res
}

// runRepeated executes the case n times and applies the statistical
// acceptance policy to the pass rate. Harness errors abort the trials;
// they say nothing about the DUT.
func runRepeated(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition, n int) tc8.TestResult {
	started := time.Now()
	threshold := env.PassRateThreshold
	if threshold == 0 {
		threshold = validator.DefaultPassRateThreshold
	}

	results := make([]tc8.TestResult, 0, n)
	passed := 0
	for i := 0; i < n; i++ {
		trial := runOnce(ctx, env, tcase, spec)
		if trial.Verdict == tc8.VerdictError {
			return trial
		}
		if trial.Verdict == tc8.VerdictPass {
			passed++
		}
		results = append(results, trial)
	}

	res := results[len(results)-1]
	res.Verdict = validator.ValidateStatistical(results, threshold)
	now := time.Now()
	res.StartedAt = started
	res.FinishedAt = now
	res.Duration = now.Sub(started)
	res.Message = fmt.Sprintf("%d/%d trials passed, threshold %.2f",
		passed, n, threshold)
	log.FromCtx(ctx).Debug("Repeated case executed",
		"case_id", tcase.CaseID, "trials", n, "passed", passed,
		"verdict", res.Verdict)
	return res
}

// ErrorResult converts a framework failure into an error-verdict result.
// Framework errors are attributed to the harness, never to the DUT.
func ErrorResult(tcase tc8.TestCase, started time.Time, msg string, err error) tc8.TestResult {
	now := time.Now()
	return tc8.TestResult{
		CaseID:       tcase.CaseID,
		SpecID:       tcase.SpecID,
		TC8Reference: tcase.TC8Reference,
		Section:      tcase.Section,
		Verdict:      tc8.VerdictError,
		StartedAt:    started,
		FinishedAt:   now,
		Duration:     now.Sub(started),
		Message:      msg,
		ErrorDetail:  err.Error(),
	}
}

// SkipResult marks a case as not applicable to this DUT.
func SkipResult(tcase tc8.TestCase, started time.Time, reason string) tc8.TestResult {
	now := time.Now()
	return tc8.TestResult{
		CaseID:       tcase.CaseID,
		SpecID:       tcase.SpecID,
		TC8Reference: tcase.TC8Reference,
		Section:      tcase.Section,
		Verdict:      tc8.VerdictSkip,
		StartedAt:    started,
		FinishedAt:   now,
		Duration:     now.Sub(started),
		Message:      reason,
	}
}

// InfoResult marks a case that ran but cannot be conclusively judged with
// the available tooling.
func InfoResult(tcase tc8.TestCase, started time.Time, reason string) tc8.TestResult {
	now := time.Now()
	return tc8.TestResult{
		CaseID:       tcase.CaseID,
		SpecID:       tcase.SpecID,
		TC8Reference: tcase.TC8Reference,
		Section:      tcase.Section,
		Verdict:      tc8.VerdictInformational,
		StartedAt:    started,
		FinishedAt:   now,
		Duration:     now.Sub(started),
		Message:      reason,
	}
}
