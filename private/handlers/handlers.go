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

// Package handlers contains the per-section behavior handlers. A handler
// executes one test case end to end for its TC8 section: it derives the
// concrete expected outcome from the case and the DUT profile, injects
// the frame, captures the responses and judges the result. Every section
// must have a registered handler; a section without one is a
// configuration error.
package handlers

import (
	"context"
	"time"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/dut"
)

// DefaultCaptureTimeout bounds the per-case capture window.
const DefaultCaptureTimeout = 2 * time.Second

// Env is the shared execution environment handed to every handler.
type Env struct {
	Profile        *tc8.Profile
	Frames         dut.FrameInterface
	CaptureTimeout time.Duration
	// PassRateThreshold is the acceptance rate for repeated-trial specs.
	// Zero means the validator default.
	PassRateThreshold float64
}

func (e *Env) captureTimeout() time.Duration {
	if e.CaptureTimeout == 0 {
		return DefaultCaptureTimeout
	}
	return e.CaptureTimeout
}

// Handler executes and judges cases of one TC8 section.
type Handler interface {
	// Section returns the TC8 section this handler covers.
	Section() tc8.Section
	// Execute runs one case to completion and returns its result. Errors
	// are folded into the result's verdict, never returned.
	Execute(ctx context.Context, env *Env, tcase tc8.TestCase, spec tc8.SpecDefinition) tc8.TestResult
}

// Registry is the section-to-handler capability lookup.
type Registry struct {
	handlers map[tc8.Section]Handler
}

// NewRegistry builds a registry and verifies full section coverage. A
// missing or duplicated section fails construction: every section must be
// testable, and silent gaps would surface as silently skipped cases.
func NewRegistry(hs ...Handler) (*Registry, error) {
	m := make(map[tc8.Section]Handler, len(hs))
	for _, h := range hs {
		if _, ok := m[h.Section()]; ok {
			return nil, serrors.New("duplicate handler for section",
				"section", h.Section())
		}
		m[h.Section()] = h
	}
	for _, section := range tc8.AllSections() {
		if _, ok := m[section]; !ok {
			return nil, serrors.New("no handler registered for section",
				"section", section, "name", section.Name())
		}
	}
	return &Registry{handlers: m}, nil
}

// DefaultRegistry wires up the standard handler set.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(
		VLANHandler{},
		GeneralHandler{},
		AddressHandler{},
		FilteringHandler{},
		TimeSyncHandler{},
		QoSHandler{},
		ConfigHandler{},
	)
}

// Handler returns the handler for the given section.
func (r *Registry) Handler(section tc8.Section) (Handler, bool) {
	h, ok := r.handlers[section]
	return h, ok
}
