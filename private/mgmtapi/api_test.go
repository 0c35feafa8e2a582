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

package mgmtapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/mgmtapi"
	"github.com/autoeth/tc8verify/private/report"
)

func testServer(t *testing.T) (*mgmtapi.Server, *report.Store) {
	t.Helper()
	store, err := report.NewStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return &mgmtapi.Server{Store: store}, store
}

func storedReport(t *testing.T, store *report.Store) *tc8.SuiteReport {
	t.Helper()
	rep := &tc8.SuiteReport{
		ReportID:   "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
		DUTName:    "api-sw",
		Tier:       tc8.TierSmoke,
		CreatedAt:  time.Now(),
		TotalCases: 1,
	}
	rep.Record(tc8.TestResult{
		CaseID:  "SWITCH_VLAN_001_P0_P1_V1_UT_T8100",
		SpecID:  "SWITCH_VLAN_001",
		Section: tc8.SectionVLAN,
		Verdict: tc8.VerdictPass,
	})
	require.NoError(t, store.SaveReport(context.Background(), rep))
	return rep
}

func TestHealth(t *testing.T) {
	server, _ := testServer(t)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListRuns(t *testing.T) {
	server, store := testServer(t)
	rep := storedReport(t, store)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []report.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, rep.ReportID, runs[0].ReportID)
}

func TestListRunsEmpty(t *testing.T) {
	server, _ := testServer(t)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetReport(t *testing.T) {
	server, store := testServer(t)
	rep := storedReport(t, store)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec,
		httptest.NewRequest("GET", "/api/v1/runs/"+rep.ReportID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got tc8.SuiteReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, rep.DUTName, got.DUTName)
	require.Len(t, got.Results, 1)

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec,
		httptest.NewRequest("GET", "/api/v1/runs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
