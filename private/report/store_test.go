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

package report_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/report"
)

func sampleReport() *tc8.SuiteReport {
	now := time.Now().Truncate(time.Millisecond)
	r := &tc8.SuiteReport{
		ReportID:   "11111111-2222-3333-4444-555555555555",
		DUTName:    "store-sw",
		Tier:       tc8.TierSmoke,
		CreatedAt:  now,
		TotalCases: 2,
		Duration:   3 * time.Second,
	}
	r.Record(tc8.TestResult{
		CaseID:       "SWITCH_VLAN_001_P0_P1_V100_ST_T8100",
		SpecID:       "SWITCH_VLAN_001",
		TC8Reference: "TC8 5.3.1",
		Section:      tc8.SectionVLAN,
		Verdict:      tc8.VerdictPass,
		StartedAt:    now,
		FinishedAt:   now.Add(time.Second),
		Message:      "all checks passed",
		Actual:       []tc8.PortSummary{{PortID: 1, FrameCount: 1}},
	})
	r.Record(tc8.TestResult{
		CaseID:       "SWITCH_VLAN_003_P0_P2_V200_ST_T8100",
		SpecID:       "SWITCH_VLAN_003",
		TC8Reference: "TC8 5.3.3",
		Section:      tc8.SectionVLAN,
		Verdict:      tc8.VerdictFail,
		StartedAt:    now.Add(time.Second),
		FinishedAt:   now.Add(2 * time.Second),
		Message:      "1 frame(s) received on blocked port 2",
		Warnings:     []string{"leakage: 1 unexpected frame(s) on port 3"},
	})
	return r
}

func TestStoreRoundtrip(t *testing.T) {
	store, err := report.NewStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	saved := sampleReport()
	require.NoError(t, store.SaveReport(ctx, saved))

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, saved.ReportID, runs[0].ReportID)
	assert.Equal(t, 1, runs[0].Passed)
	assert.Equal(t, 1, runs[0].Failed)

	loaded, err := store.Report(ctx, saved.ReportID)
	require.NoError(t, err)
	assert.Equal(t, saved.DUTName, loaded.DUTName)
	assert.Equal(t, saved.Tier, loaded.Tier)
	require.Len(t, loaded.Results, 2)
	assert.Equal(t, saved.Results[0].CaseID, loaded.Results[0].CaseID)
	assert.Equal(t, saved.Results[0].Actual, loaded.Results[0].Actual)
	assert.Equal(t, saved.Results[1].Warnings, loaded.Results[1].Warnings)
}

func TestStoreReportNotFound(t *testing.T) {
	store, err := report.NewStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Report(context.Background(), "missing")
	assert.Error(t, err)
}

func TestStoreDuplicateReport(t *testing.T) {
	store, err := report.NewStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveReport(ctx, sampleReport()))
	assert.Error(t, store.SaveReport(ctx, sampleReport()))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	report.Render(&buf, sampleReport(), true)

	out := buf.String()
	assert.Contains(t, out, "store-sw")
	assert.Contains(t, out, "5.3 VLAN")
	assert.Contains(t, out, "Pass rate: 50.0%")
	// Verbose mode lists the failing case.
	assert.Contains(t, out, "SWITCH_VLAN_003_P0_P2_V200_ST_T8100")
	assert.Contains(t, out, "blocked port 2")
}
