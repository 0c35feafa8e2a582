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

package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/autoeth/tc8verify/pkg/tc8"
)

// Render writes a human-readable report to w. Colors are used only when w
// is an interactive terminal. With verbose set, every non-passing case is
// listed individually.
func Render(w io.Writer, report *tc8.SuiteReport, verbose bool) {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	pass := verdictPainter(colorize, color.FgGreen)
	fail := verdictPainter(colorize, color.FgRed)
	info := verdictPainter(colorize, color.FgYellow)

	fmt.Fprintf(w, "Report %s\n", report.ReportID)
	fmt.Fprintf(w, "DUT: %s  Tier: %s  Created: %s\n",
		report.DUTName, report.Tier, report.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Cases: %d generated, %d executed in %s\n\n",
		report.TotalCases, report.Executed(), report.Duration.Round(10*time.Millisecond))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Section", "Pass", "Fail", "Info", "Skip", "Error"})
	table.SetBorder(false)
	sections := report.SectionsSummary()
	for _, section := range tc8.AllSections() {
		s, ok := sections[section]
		if !ok {
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%s %s", section, section.Name()),
			pass(s.Pass), fail(s.Fail), info(s.Info),
			strconv.Itoa(s.Skip), fail(s.Error),
		})
	}
	table.Append([]string{
		"Total",
		pass(report.Passed), fail(report.Failed), info(report.Informational),
		strconv.Itoa(report.Skipped), fail(report.Errors),
	})
	table.Render()
	fmt.Fprintf(w, "\nPass rate: %.1f%%\n", report.PassRate())

	if !verbose {
		return
	}
	for _, res := range report.Results {
		if res.Verdict == tc8.VerdictPass {
			continue
		}
		fmt.Fprintf(w, "\n[%s] %s\n  %s\n", res.Verdict, res.CaseID, res.Message)
		if res.ErrorDetail != "" {
			fmt.Fprintf(w, "  detail: %s\n", res.ErrorDetail)
		}
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	}
}

// verdictPainter colors non-zero counts when writing to a terminal.
func verdictPainter(colorize bool, attr color.Attribute) func(int) string {
	return func(n int) string {
		s := strconv.Itoa(n)
		if !colorize || n == 0 {
			return s
		}
		return color.New(attr).Sprint(s)
	}
}

// RenderRuns writes the stored run listing to w.
func RenderRuns(w io.Writer, runs []RunSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Report ID", "DUT", "Tier", "Created", "Cases", "Passed", "Failed", "Errors"})
	table.SetBorder(false)
	for _, r := range runs {
		table.Append([]string{
			r.ReportID, r.DUTName, string(r.Tier),
			r.CreatedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(r.TotalCases), strconv.Itoa(r.Passed),
			strconv.Itoa(r.Failed), strconv.Itoa(r.Errors),
		})
	}
	table.Render()
}
