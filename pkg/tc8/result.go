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

package tc8

import (
	"time"
)

// Verdict is the outcome classification of a single test case.
type Verdict string

// The verdicts, by descending severity. Fail always dominates
// informational when checks disagree.
const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
	// VerdictInformational marks cases that cannot be conclusively judged
	// with the available tooling.
	VerdictInformational Verdict = "informational"
	// VerdictSkip marks cases not applicable to the DUT configuration.
	VerdictSkip Verdict = "skip"
	// VerdictError marks framework errors, not DUT bugs.
	VerdictError Verdict = "error"
)

// PortSummary condenses the frames observed on one port.
type PortSummary struct {
	PortID     int       `json:"port_id"`
	FrameCount int       `json:"frame_count"`
	VlanTags   []VlanTag `json:"vlan_tags,omitempty"`
}

// TestResult is the immutable outcome of executing one test case.
type TestResult struct {
	CaseID       string          `json:"case_id"`
	SpecID       string          `json:"spec_id"`
	TC8Reference string          `json:"tc8_reference"`
	Section      Section         `json:"section"`
	Verdict      Verdict         `json:"verdict"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	Duration     time.Duration   `json:"duration"`
	Expected     ExpectedOutcome `json:"expected"`
	Actual       []PortSummary   `json:"actual"`
	Message      string          `json:"message,omitempty"`
	ErrorDetail  string          `json:"error_detail,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// SuiteReport is the aggregate of all results for one run, the sole output
// artifact of the orchestrator.
type SuiteReport struct {
	ReportID  string    `json:"report_id"`
	DUTName   string    `json:"dut_name"`
	Tier      Tier      `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
	// TotalCases counts every generated case, including ones never
	// executed because of cancellation.
	TotalCases    int           `json:"total_cases"`
	Passed        int           `json:"passed"`
	Failed        int           `json:"failed"`
	Informational int           `json:"informational"`
	Skipped       int           `json:"skipped"`
	Errors        int           `json:"errors"`
	Duration      time.Duration `json:"duration"`
	Results       []TestResult  `json:"results"`
}

// Record appends the result and updates the verdict counters.
func (r *SuiteReport) Record(res TestResult) {
	r.Results = append(r.Results, res)
	switch res.Verdict {
	case VerdictPass:
		r.Passed++
	case VerdictFail:
		r.Failed++
	case VerdictInformational:
		r.Informational++
	case VerdictSkip:
		r.Skipped++
	case VerdictError:
		r.Errors++
	}
}

// Executed returns the number of cases that produced a result.
func (r *SuiteReport) Executed() int {
	return len(r.Results)
}

// PassRate returns the percentage of passed cases among pass+fail. Skips,
// informational and error results are excluded from the rate.
func (r *SuiteReport) PassRate() float64 {
	evaluated := r.Passed + r.Failed
	if evaluated == 0 {
		return 0
	}
	return float64(r.Passed) / float64(evaluated) * 100
}

// SectionSummary is the per-section verdict rollup.
type SectionSummary struct {
	Pass  int
	Fail  int
	Info  int
	Skip  int
	Error int
}

// SectionsSummary aggregates results per TC8 section.
func (r *SuiteReport) SectionsSummary() map[Section]SectionSummary {
	out := map[Section]SectionSummary{}
	for _, res := range r.Results {
		s := out[res.Section]
		switch res.Verdict {
		case VerdictPass:
			s.Pass++
		case VerdictFail:
			s.Fail++
		case VerdictInformational:
			s.Info++
		case VerdictSkip:
			s.Skip++
		case VerdictError:
			s.Error++
		}
		out[res.Section] = s
	}
	return out
}
