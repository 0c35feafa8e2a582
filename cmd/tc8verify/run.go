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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/metrics"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/catalog"
	"github.com/autoeth/tc8verify/private/dut"
	"github.com/autoeth/tc8verify/private/handlers"
	"github.com/autoeth/tc8verify/private/report"
	"github.com/autoeth/tc8verify/private/runner"
	"github.com/autoeth/tc8verify/private/session"
)

func newRunCmd(env *rootEnv) *cobra.Command {
	var flags struct {
		tier     string
		specIDs  []string
		sections []string
		profile  string
		mode     string
		verbose  bool
		noStore  bool
	}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a conformance suite against the DUT",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := tc8.ParseTier(flags.tier)
			if err != nil {
				return err
			}
			profilePath := flags.profile
			if profilePath == "" {
				profilePath = env.cfg.Paths.Profile
			}
			if profilePath == "" {
				return serrors.New("no DUT profile configured")
			}
			profile, err := catalog.LoadProfile(profilePath)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(env.cfg.Paths.SpecDir, env.cfg.Paths.Tiers)
			if err != nil {
				return err
			}
			var sections []tc8.Section
			for _, s := range flags.sections {
				sections = append(sections, tc8.Section(s))
			}
			return runSuite(cmd.Context(), env, runConfig{
				tier:     tier,
				specIDs:  flags.specIDs,
				sections: sections,
				profile:  profile,
				catalog:  cat,
				mode:     flags.mode,
				verbose:  flags.verbose,
				noStore:  flags.noStore,
			})
		},
	}
	cmd.Flags().StringVar(&flags.tier, "tier", "smoke",
		"Execution tier (smoke|core|full)")
	cmd.Flags().StringSliceVar(&flags.specIDs, "spec-ids", nil,
		"Explicit spec ids to run (overrides sections and tier selection)")
	cmd.Flags().StringSliceVar(&flags.sections, "sections", nil,
		"TC8 sections to run, e.g. 5.3,5.5")
	cmd.Flags().StringVar(&flags.profile, "profile", "",
		"DUT profile file (overrides the configured path)")
	cmd.Flags().StringVar(&flags.mode, "mode", "hw",
		"Data plane mode (hw|sim)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"List every non-passing case in the report output")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false,
		"Do not persist the report")
	return cmd
}

type runConfig struct {
	tier     tc8.Tier
	specIDs  []string
	sections []tc8.Section
	profile  *tc8.Profile
	catalog  *catalog.Catalog
	mode     string
	verbose  bool
	noStore  bool
}

func runSuite(ctx context.Context, env *rootEnv, rc runConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var frames dut.FrameInterface
	var control session.Controller
	switch rc.mode {
	case "sim":
		sim := dut.NewSimInterface(rc.profile)
		frames = sim
		control = session.SimController{Sim: sim}
	case "hw":
		frames = dut.NewPcapInterface(rc.profile)
		control = session.LinkController{Profile: rc.profile}
	default:
		return serrors.New("unknown data plane mode", "mode", rc.mode)
	}
	if err := frames.Initialize(ctx); err != nil {
		return err
	}
	defer frames.Shutdown(context.Background())

	if addr := env.cfg.Metrics.Addr; addr != "" {
		go func() {
			defer log.HandlePanic()
			if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
				log.Error("Metrics endpoint failed", "addr", addr, "err", err)
			}
		}()
	}

	registry, err := handlers.DefaultRegistry()
	if err != nil {
		return err
	}
	r := &runner.Runner{
		Catalog:  rc.catalog,
		Profile:  rc.profile,
		Registry: registry,
		Env: &handlers.Env{
			Profile:           rc.profile,
			Frames:            frames,
			CaptureTimeout:    env.cfg.Execution.CaptureTimeout(),
			PassRateThreshold: env.cfg.Execution.PassRateThreshold,
		},
		Control:          control,
		AgingWaitCeiling: env.cfg.Execution.AgingWaitCeiling(),
		SettleWait:       env.cfg.Execution.SettleWait(),
		Metrics: runner.Metrics{
			Cases: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "tc8verify_cases_total",
				Help: "Completed test cases, by verdict.",
			}, []string{"verdict"}),
			CaseDuration: metrics.NewPromHistogram(
				promauto.NewHistogramVec(prometheus.HistogramOpts{
					Name:    "tc8verify_case_duration_seconds",
					Help:    "Per-case wall-clock duration.",
					Buckets: prometheus.DefBuckets,
				}, []string{})),
		},
		Progress: func(index, total int, caseID string, verdict tc8.Verdict) {
			if verdict == "" {
				fmt.Fprintf(os.Stderr, "[%d/%d] %s ...\n", index+1, total, caseID)
			}
		},
	}

	rep, err := r.Run(ctx, runner.Options{
		Tier:     rc.tier,
		SpecIDs:  rc.specIDs,
		Sections: rc.sections,
	})
	if err != nil {
		return err
	}

	if !rc.noStore {
		store, err := report.NewStore(env.cfg.Paths.ReportDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveReport(ctx, rep); err != nil {
			return err
		}
	}

	report.Render(os.Stdout, rep, rc.verbose)
	if rep.Failed > 0 || rep.Errors > 0 {
		return serrors.New("suite not passed",
			"failed", rep.Failed, "errors", rep.Errors)
	}
	return nil
}
