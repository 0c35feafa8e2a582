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
	"os"

	"github.com/spf13/cobra"

	"github.com/autoeth/tc8verify/private/report"
)

func newReportCmd(env *rootEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect stored suite reports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := report.NewStore(env.cfg.Paths.ReportDB)
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			report.RenderRuns(os.Stdout, runs)
			return nil
		},
	}

	var verbose bool
	show := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Show one stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := report.NewStore(env.cfg.Paths.ReportDB)
			if err != nil {
				return err
			}
			defer store.Close()
			rep, err := store.Report(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report.Render(os.Stdout, rep, verbose)
			return nil
		},
	}
	show.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"List every non-passing case")

	cmd.AddCommand(list, show)
	return cmd
}
