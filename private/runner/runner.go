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

// Package runner drives one full suite execution: spec resolution, case
// generation, per-case session hygiene, handler dispatch and report
// aggregation. Cases run strictly sequentially; the DUT is the single
// shared mutable resource and exactly one case may touch it at a time.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/metrics"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/catalog"
	"github.com/autoeth/tc8verify/private/generator"
	"github.com/autoeth/tc8verify/private/handlers"
	"github.com/autoeth/tc8verify/private/session"
)

// ProgressFunc is invoked around each case: once with an empty verdict
// when the case starts, once with the final verdict when it completes.
type ProgressFunc func(index, total int, caseID string, verdict tc8.Verdict)

// Metrics are the runner's exported instrumentation. All fields are
// optional.
type Metrics struct {
	// Cases counts completed cases, labeled by verdict.
	Cases *prometheus.CounterVec
	// CaseDuration observes per-case wall-clock seconds.
	CaseDuration metrics.Histogram
}

// Runner executes suites against one DUT.
type Runner struct {
	Catalog  *catalog.Catalog
	Profile  *tc8.Profile
	Registry *handlers.Registry
	Env      *handlers.Env
	Control  session.Controller
	Metrics  Metrics

	// AgingWaitCeiling caps the per-case teardown aging wait. Zero keeps
	// the session default.
	AgingWaitCeiling time.Duration
	// SettleWait overrides the session's settle pause after DUT state
	// manipulation. Zero keeps the session default.
	SettleWait time.Duration
	// Progress, if set, receives per-case progress updates.
	Progress ProgressFunc
}

// Options select what one run executes. Precedence: explicit spec ids
// override the section filter, which overrides the tier's own selection.
type Options struct {
	Tier     tc8.Tier
	SpecIDs  []string
	Sections []tc8.Section
}

// Run executes one suite and returns its report. Cancellation is
// cooperative: it is honored between cases only, so the in-flight case
// always completes including its session teardown. A cancelled run
// returns the partial report and no error.
func (r *Runner) Run(ctx context.Context, opts Options) (*tc8.SuiteReport, error) {
	if r.Profile == nil {
		return nil, serrors.New("no DUT profile configured")
	}
	tierCfg, err := r.Catalog.TierConfig(opts.Tier)
	if err != nil {
		return nil, err
	}
	specs, err := r.resolveSpecs(opts)
	if err != nil {
		return nil, err
	}

	gen := generator.New(r.Profile)
	type genCase struct {
		tcase tc8.TestCase
		spec  tc8.SpecDefinition
	}
	var cases []genCase
	var genWarnings []string
	for _, spec := range specs {
		generated, warnings, err := gen.Generate(spec, opts.Tier, tierCfg)
		if err != nil {
			return nil, serrors.Wrap("generating cases", err, "spec_id", spec.SpecID)
		}
		genWarnings = append(genWarnings, warnings...)
		for _, tcase := range generated {
			cases = append(cases, genCase{tcase: tcase, spec: spec})
		}
	}

	report := &tc8.SuiteReport{
		ReportID:   uuid.New().String(),
		DUTName:    r.Profile.Name,
		Tier:       opts.Tier,
		CreatedAt:  time.Now(),
		TotalCases: len(cases),
	}
	logger := log.FromCtx(ctx).New("report_id", report.ReportID)
	logger.Info("Suite run started",
		"dut", r.Profile.Name, "tier", opts.Tier,
		"specs", len(specs), "cases", len(cases))

	runStart := time.Now()
	for i, c := range cases {
		if ctx.Err() != nil {
			logger.Info("Run cancelled", "executed", i, "total", len(cases))
			break
		}
		if r.Progress != nil {
			r.Progress(i, len(cases), c.tcase.CaseID, "")
		}

		res := r.executeCase(ctx, c.tcase, c.spec)
		res.Warnings = append(res.Warnings, genWarnings...)
		report.Record(res)

		metrics.CounterInc(metrics.NewPromCounter(r.Metrics.Cases, string(res.Verdict)))
		metrics.HistogramObserve(r.Metrics.CaseDuration, res.Duration.Seconds())
		if r.Progress != nil {
			r.Progress(i, len(cases), c.tcase.CaseID, res.Verdict)
		}
	}
	report.Duration = time.Since(runStart)

	logger.Info("Suite run finished",
		"executed", report.Executed(),
		"passed", report.Passed, "failed", report.Failed,
		"informational", report.Informational,
		"skipped", report.Skipped, "errors", report.Errors,
		"duration", report.Duration)
	return report, nil
}

// resolveSpecs applies the selection precedence.
func (r *Runner) resolveSpecs(opts Options) ([]tc8.SpecDefinition, error) {
	if len(opts.SpecIDs) > 0 {
		return r.Catalog.SpecsByID(opts.SpecIDs)
	}
	if len(opts.Sections) > 0 {
		var out []tc8.SpecDefinition
		for _, section := range opts.Sections {
			out = append(out, r.Catalog.SpecsForSection(section)...)
		}
		if len(out) == 0 {
			return nil, serrors.New("no specs in selected sections",
				"sections", opts.Sections)
		}
		return out, nil
	}
	return r.Catalog.SpecsForTier(opts.Tier)
}

// executeCase runs one case inside its own session. Every exit path tears
// the session down, and a panicking handler is converted into an error
// verdict so one bad case never aborts the suite.
func (r *Runner) executeCase(ctx context.Context, tcase tc8.TestCase, spec tc8.SpecDefinition) (res tc8.TestResult) {
	started := time.Now()
	// The in-flight case must finish even when the run is cancelled;
	// cancellation is only honored at case boundaries.
	caseCtx := context.WithoutCancel(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			log.FromCtx(ctx).Error("Case panicked",
				"case_id", tcase.CaseID, "panic", rec)
			res = handlers.ErrorResult(tcase, started, "case execution panicked",
				serrors.New("panic during case execution", "panic", rec))
		}
	}()

	sess := session.NewManager(r.Profile, r.Control)
	if r.AgingWaitCeiling > 0 {
		sess.AgingWaitCeiling = r.AgingWaitCeiling
	}
	if r.SettleWait > 0 {
		sess.SettleWait = r.SettleWait
	}
	defer sess.Teardown(caseCtx)

	if err := sess.Setup(caseCtx); err != nil || !sess.Clean() {
		if err == nil {
			err = serrors.New("session degraded",
				"state", sess.State(), "warnings", sess.Warnings())
		}
		res = handlers.ErrorResult(tcase, started,
			"Session setup failed - DUT not in clean state", err)
		res.Warnings = append(res.Warnings, sess.Warnings()...)
		return res
	}

	handler, ok := r.Registry.Handler(tcase.Section)
	if !ok {
		// The registry guarantees full coverage; this is the generic
		// fallback for custom registries.
		res = handlers.RunGeneric(caseCtx, r.Env, tcase, spec)
	} else {
		res = handler.Execute(caseCtx, r.Env, tcase, spec)
	}
	res.Warnings = append(res.Warnings, sess.Warnings()...)
	return res
}
