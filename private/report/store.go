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

// Package report persists and renders suite reports. Reports are stored
// in a local sqlite database so runs can be compared across firmware
// versions.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
)

// SchemaVersion tracks the sqlite schema.
const SchemaVersion = 1

// Schema is the sqlite schema of the report store.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	report_id TEXT PRIMARY KEY,
	dut_name TEXT NOT NULL,
	tier TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	total_cases INTEGER NOT NULL,
	passed INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	informational INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	errors INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	report_id TEXT NOT NULL,
	case_id TEXT NOT NULL,
	spec_id TEXT NOT NULL,
	tc8_reference TEXT NOT NULL,
	section TEXT NOT NULL,
	verdict TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	message TEXT NOT NULL,
	error_detail TEXT NOT NULL,
	detail_json BLOB NOT NULL,
	PRIMARY KEY (report_id, case_id),
	FOREIGN KEY (report_id) REFERENCES runs(report_id)
);
CREATE INDEX IF NOT EXISTS idx_results_verdict ON results(report_id, verdict);
`

// RunSummary is one row of the stored run listing.
type RunSummary struct {
	ReportID   string        `json:"report_id"`
	DUTName    string        `json:"dut_name"`
	Tier       tc8.Tier      `json:"tier"`
	CreatedAt  time.Time     `json:"created_at"`
	TotalCases int           `json:"total_cases"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Errors     int           `json:"errors"`
	Duration   time.Duration `json:"duration"`
}

// resultDetail is the JSON-encoded part of a stored result.
type resultDetail struct {
	Expected tc8.ExpectedOutcome `json:"expected"`
	Actual   []tc8.PortSummary   `json:"actual"`
	Warnings []string            `json:"warnings,omitempty"`
}

// Store is a sqlite-backed report archive.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the report database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, serrors.Wrap("opening report database", err, "path", path)
	}
	// sqlite handles a single writer only.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, serrors.Wrap("applying schema", err, "path", path)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport writes a report and all its results in one transaction.
func (s *Store) SaveReport(ctx context.Context, report *tc8.SuiteReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return serrors.Wrap("starting transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (report_id, dut_name, tier, created_at, total_cases,
			passed, failed, informational, skipped, errors, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ReportID, report.DUTName, string(report.Tier),
		report.CreatedAt.UnixMilli(), report.TotalCases,
		report.Passed, report.Failed, report.Informational,
		report.Skipped, report.Errors, report.Duration.Milliseconds(),
	)
	if err != nil {
		return serrors.Wrap("inserting run", err, "report_id", report.ReportID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (report_id, case_id, spec_id, tc8_reference,
			section, verdict, started_at, finished_at, message, error_detail,
			detail_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return serrors.Wrap("preparing result insert", err)
	}
	defer stmt.Close()

	for _, res := range report.Results {
		detail, err := json.Marshal(resultDetail{
			Expected: res.Expected,
			Actual:   res.Actual,
			Warnings: res.Warnings,
		})
		if err != nil {
			return serrors.Wrap("encoding result detail", err, "case_id", res.CaseID)
		}
		_, err = stmt.ExecContext(ctx,
			report.ReportID, res.CaseID, res.SpecID, res.TC8Reference,
			string(res.Section), string(res.Verdict),
			res.StartedAt.UnixMilli(), res.FinishedAt.UnixMilli(),
			res.Message, res.ErrorDetail, detail,
		)
		if err != nil {
			return serrors.Wrap("inserting result", err, "case_id", res.CaseID)
		}
	}
	if err := tx.Commit(); err != nil {
		return serrors.Wrap("committing report", err, "report_id", report.ReportID)
	}
	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report_id, dut_name, tier, created_at, total_cases,
			passed, failed, errors, duration_ms
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, serrors.Wrap("querying runs", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var created, duration int64
		if err := rows.Scan(&r.ReportID, &r.DUTName, &r.Tier, &created,
			&r.TotalCases, &r.Passed, &r.Failed, &r.Errors, &duration); err != nil {
			return nil, serrors.Wrap("scanning run", err)
		}
		r.CreatedAt = time.UnixMilli(created)
		r.Duration = time.Duration(duration) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// Report loads one full report including all results.
func (s *Store) Report(ctx context.Context, reportID string) (*tc8.SuiteReport, error) {
	report := &tc8.SuiteReport{}
	var created, duration int64
	err := s.db.QueryRowContext(ctx,
		`SELECT report_id, dut_name, tier, created_at, total_cases,
			passed, failed, informational, skipped, errors, duration_ms
		 FROM runs WHERE report_id = ?`, reportID).
		Scan(&report.ReportID, &report.DUTName, &report.Tier, &created,
			&report.TotalCases, &report.Passed, &report.Failed,
			&report.Informational, &report.Skipped, &report.Errors, &duration)
	if err == sql.ErrNoRows {
		return nil, serrors.New("report not found", "report_id", reportID)
	}
	if err != nil {
		return nil, serrors.Wrap("querying run", err, "report_id", reportID)
	}
	report.CreatedAt = time.UnixMilli(created)
	report.Duration = time.Duration(duration) * time.Millisecond

	rows, err := s.db.QueryContext(ctx,
		`SELECT case_id, spec_id, tc8_reference, section, verdict,
			started_at, finished_at, message, error_detail, detail_json
		 FROM results WHERE report_id = ? ORDER BY started_at`, reportID)
	if err != nil {
		return nil, serrors.Wrap("querying results", err, "report_id", reportID)
	}
	defer rows.Close()

	for rows.Next() {
		var res tc8.TestResult
		var started, finished int64
		var detailJSON []byte
		if err := rows.Scan(&res.CaseID, &res.SpecID, &res.TC8Reference,
			&res.Section, &res.Verdict, &started, &finished,
			&res.Message, &res.ErrorDetail, &detailJSON); err != nil {
			return nil, serrors.Wrap("scanning result", err)
		}
		res.StartedAt = time.UnixMilli(started)
		res.FinishedAt = time.UnixMilli(finished)
		res.Duration = res.FinishedAt.Sub(res.StartedAt)
		var detail resultDetail
		if err := json.Unmarshal(detailJSON, &detail); err != nil {
			return nil, serrors.Wrap("decoding result detail", err,
				"case_id", res.CaseID)
		}
		res.Expected = detail.Expected
		res.Actual = detail.Actual
		res.Warnings = detail.Warnings
		report.Results = append(report.Results, res)
	}
	return report, rows.Err()
}
