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

// Package validator turns captured frames plus an expected outcome into a
// test verdict. The checks run in a fixed order and are aggregated with a
// strict severity ranking: any failing check fails the case, informational
// findings surface only when nothing failed.
package validator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/autoeth/tc8verify/pkg/tc8"
)

// DefaultPassRateThreshold is the acceptance threshold for statistical
// validation of repeated, non-deterministic cases.
const DefaultPassRateThreshold = 0.95

// Input carries everything one validation needs. Received maps every
// monitored port to its captured frames; a port absent from the map was
// not monitored and is excluded from the leakage check.
type Input struct {
	Case     tc8.TestCase
	Expected tc8.ExpectedOutcome
	Received map[int][]tc8.FrameCapture
	Started  time.Time
	Finished time.Time
}

// checkOutcome is the result of one individual check.
type checkOutcome struct {
	verdict  tc8.Verdict
	messages []string
}

// Validate runs the forwarding, tag-correctness, leakage and frame-count
// checks and aggregates them into a TestResult.
func Validate(in Input) tc8.TestResult {
	res := tc8.TestResult{
		CaseID:       in.Case.CaseID,
		SpecID:       in.Case.SpecID,
		TC8Reference: in.Case.TC8Reference,
		Section:      in.Case.Section,
		StartedAt:    in.Started,
		FinishedAt:   in.Finished,
		Duration:     in.Finished.Sub(in.Started),
		Expected:     in.Expected,
		Actual:       summarize(in.Received),
	}

	checks := []checkOutcome{
		checkForwarding(in),
		checkTags(in),
		checkLeakage(in),
		checkFrameCount(in),
	}

	verdict := tc8.VerdictPass
	var messages []string
	var warnings []string
	for _, c := range checks {
		messages = append(messages, c.messages...)
		switch c.verdict {
		case tc8.VerdictFail:
			verdict = tc8.VerdictFail
		case tc8.VerdictInformational:
			if verdict == tc8.VerdictPass {
				verdict = tc8.VerdictInformational
			}
			warnings = append(warnings, c.messages...)
		}
	}

	res.Verdict = verdict
	res.Message = strings.Join(messages, "; ")
	if res.Message == "" {
		res.Message = "all checks passed"
	}
	res.Warnings = warnings
	return res
}

// checkForwarding verifies that every expected forwarding port saw at
// least one frame and every blocked port saw none.
func checkForwarding(in Input) checkOutcome {
	out := checkOutcome{verdict: tc8.VerdictPass}
	for _, port := range in.Expected.ForwardTo {
		if len(in.Received[port]) == 0 {
			out.verdict = tc8.VerdictFail
			out.messages = append(out.messages,
				fmt.Sprintf("no frames received on expected forwarding port %d", port))
		}
	}
	for _, port := range in.Expected.Blocked {
		if n := len(in.Received[port]); n > 0 {
			out.verdict = tc8.VerdictFail
			out.messages = append(out.messages,
				fmt.Sprintf("%d frame(s) received on blocked port %d", n, port))
		}
	}
	return out
}

// checkTags verifies the tag transformation on the forwarding ports. It
// only runs when the expected outcome asserts a tag action.
func checkTags(in Input) checkOutcome {
	out := checkOutcome{verdict: tc8.VerdictPass}
	switch in.Expected.TagAction {
	case tc8.TagActionTagged:
		for _, port := range in.Expected.ForwardTo {
			for _, frame := range in.Received[port] {
				tag, ok := frame.OuterTag()
				if !ok {
					out.verdict = tc8.VerdictFail
					out.messages = append(out.messages,
						fmt.Sprintf("untagged frame on port %d, expected tagged", port))
					continue
				}
				if vid := in.Expected.ExpectedVID; vid != nil && tag.VID != *vid {
					out.verdict = tc8.VerdictFail
					out.messages = append(out.messages,
						fmt.Sprintf("VID mismatch on port %d: expected=%d, actual=%d",
							port, *vid, tag.VID))
				}
				if tpid := in.Expected.ExpectedTPID; tpid != nil && tag.TPID != *tpid {
					out.verdict = tc8.VerdictFail
					out.messages = append(out.messages,
						fmt.Sprintf("TPID mismatch on port %d: expected=0x%04X, actual=0x%04X",
							port, uint16(*tpid), uint16(tag.TPID)))
				}
			}
		}
	case tc8.TagActionUntagged:
		for _, port := range in.Expected.ForwardTo {
			for _, frame := range in.Received[port] {
				if tag, ok := frame.OuterTag(); ok {
					out.verdict = tc8.VerdictFail
					out.messages = append(out.messages,
						fmt.Sprintf("tagged frame on port %d (VID %d), expected untagged",
							port, tag.VID))
				}
			}
		}
	case tc8.TagActionDrop:
		for port, frames := range in.Received {
			if port == in.Case.Params.IngressPort {
				continue
			}
			if len(frames) > 0 {
				out.verdict = tc8.VerdictFail
				out.messages = append(out.messages,
					fmt.Sprintf("%d frame(s) on port %d, expected drop", len(frames), port))
			}
		}
	}
	return out
}

// checkLeakage flags frames on ports outside the ingress and expected
// forwarding sets. Non-strict specs only get downgraded to informational;
// the leak is still always recorded.
func checkLeakage(in Input) checkOutcome {
	allowed := map[int]bool{in.Case.Params.IngressPort: true}
	for _, port := range in.Expected.ForwardTo {
		allowed[port] = true
	}

	out := checkOutcome{verdict: tc8.VerdictPass}
	ports := make([]int, 0, len(in.Received))
	for port := range in.Received {
		ports = append(ports, port)
	}
	sort.Ints(ports)
	for _, port := range ports {
		if allowed[port] || len(in.Received[port]) == 0 {
			continue
		}
		msg := fmt.Sprintf("leakage: %d unexpected frame(s) on port %d",
			len(in.Received[port]), port)
		out.messages = append(out.messages, msg)
		if in.Expected.StrictForwarding {
			out.verdict = tc8.VerdictFail
		} else if out.verdict == tc8.VerdictPass {
			out.verdict = tc8.VerdictInformational
		}
	}
	return out
}

// checkFrameCount verifies exact per-port counts when the expected
// outcome asserts one.
func checkFrameCount(in Input) checkOutcome {
	out := checkOutcome{verdict: tc8.VerdictPass}
	want := in.Expected.ExpectedFrameCount
	if want == nil {
		return out
	}
	for _, port := range in.Expected.ForwardTo {
		if got := len(in.Received[port]); got != *want {
			out.verdict = tc8.VerdictFail
			out.messages = append(out.messages,
				fmt.Sprintf("frame count mismatch on port %d: expected=%d, actual=%d",
					port, *want, got))
		}
	}
	return out
}

// ValidateStatistical judges a set of repeated results for logically the
// same case. The pass rate over all results must reach the threshold; an
// empty set cannot be judged and is skipped.
func ValidateStatistical(results []tc8.TestResult, threshold float64) tc8.Verdict {
	if len(results) == 0 {
		return tc8.VerdictSkip
	}
	if threshold == 0 {
		threshold = DefaultPassRateThreshold
	}
	passed := 0
	for _, r := range results {
		if r.Verdict == tc8.VerdictPass {
			passed++
		}
	}
	if float64(passed)/float64(len(results)) >= threshold {
		return tc8.VerdictPass
	}
	return tc8.VerdictFail
}

// summarize condenses the received frames into per-port summaries, ordered
// by port id.
func summarize(received map[int][]tc8.FrameCapture) []tc8.PortSummary {
	ports := make([]int, 0, len(received))
	for port := range received {
		ports = append(ports, port)
	}
	sort.Ints(ports)

	out := make([]tc8.PortSummary, 0, len(ports))
	for _, port := range ports {
		summary := tc8.PortSummary{PortID: port, FrameCount: len(received[port])}
		for _, frame := range received[port] {
			if tag, ok := frame.OuterTag(); ok {
				summary.VlanTags = append(summary.VlanTags, tag)
			}
		}
		out = append(out, summary)
	}
	return out
}
