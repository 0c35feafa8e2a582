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

// Package catalog holds the specification catalog and the per-tier sampling
// policies. The catalog is loaded once per run and treated as immutable for
// the run's duration.
package catalog

import (
	"sort"
	"strings"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/sampling"
)

// VIDPolicy is a tier's VID sampling policy: either a named strategy with a
// budget, or an explicit VID list.
type VIDPolicy struct {
	// Strategy is empty when Explicit is set.
	Strategy sampling.VIDStrategy
	// Count is the sample budget for the representative and random
	// strategies.
	Count int
	// Seed makes the random strategy reproducible.
	Seed int64
	// Explicit lists the exact VIDs to use, bypassing sampling.
	Explicit []uint16
}

// Resolve applies the policy to the given VID range.
func (p VIDPolicy) Resolve(r sampling.VIDRange) ([]uint16, error) {
	if len(p.Explicit) > 0 {
		out := make([]uint16, 0, len(p.Explicit))
		for _, v := range p.Explicit {
			if v >= r.Lo && v <= r.Hi {
				out = append(out, v)
			}
		}
		if len(out) == 0 {
			return nil, serrors.New("explicit VID list disjoint from spec range",
				"lo", r.Lo, "hi", r.Hi)
		}
		return out, nil
	}
	count := p.Count
	if count == 0 {
		count = 10
	}
	return sampling.SampleVIDs(p.Strategy, count, r, p.Seed)
}

// SpecSelector names the specs a tier runs: "all", a "+"-joined list of
// section wildcards such as "all_5.4 + all_5.5", or an explicit id list.
type SpecSelector struct {
	Expression string
	IDs        []string
}

// TierConfig is the sampling policy of one execution tier. Immutable,
// selected by tier name.
type TierConfig struct {
	Description  string
	Specs        SpecSelector
	VIDs         VIDPolicy
	PortStrategy sampling.PortStrategy
	// MaxDuration bounds the run in hours; zero means unbounded.
	MaxDurationHours float64
}

// Catalog is the read-only specification catalog plus the tier policy
// lookup.
type Catalog struct {
	specs map[string]tc8.SpecDefinition
	tiers map[tc8.Tier]TierConfig
}

// New assembles a catalog from loaded specs and tiers.
func New(specs map[string]tc8.SpecDefinition, tiers map[tc8.Tier]TierConfig) *Catalog {
	return &Catalog{specs: specs, tiers: tiers}
}

// Spec returns the definition for the given id.
func (c *Catalog) Spec(id string) (tc8.SpecDefinition, bool) {
	s, ok := c.specs[id]
	return s, ok
}

// Len returns the number of loaded specs.
func (c *Catalog) Len() int {
	return len(c.specs)
}

// AllSpecs returns every spec, ordered by id for deterministic runs.
func (c *Catalog) AllSpecs() []tc8.SpecDefinition {
	out := make([]tc8.SpecDefinition, 0, len(c.specs))
	for _, s := range c.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpecID < out[j].SpecID })
	return out
}

// SpecsForSection returns the specs of one TC8 section, ordered by id.
func (c *Catalog) SpecsForSection(section tc8.Section) []tc8.SpecDefinition {
	out := []tc8.SpecDefinition{}
	for _, s := range c.AllSpecs() {
		if s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

// SpecsByID resolves an explicit spec id list. Unknown ids are an error:
// a typo in a run invocation must not silently shrink the suite.
func (c *Catalog) SpecsByID(ids []string) ([]tc8.SpecDefinition, error) {
	out := make([]tc8.SpecDefinition, 0, len(ids))
	for _, id := range ids {
		s, ok := c.specs[id]
		if !ok {
			return nil, serrors.New("unknown spec id", "spec_id", id)
		}
		out = append(out, s)
	}
	return out, nil
}

// TierConfig returns the policy for the given tier.
func (c *Catalog) TierConfig(tier tc8.Tier) (TierConfig, error) {
	cfg, ok := c.tiers[tier]
	if !ok {
		return TierConfig{}, serrors.New("tier not configured", "tier", tier)
	}
	return cfg, nil
}

// SpecsForTier resolves the tier's spec selector.
func (c *Catalog) SpecsForTier(tier tc8.Tier) ([]tc8.SpecDefinition, error) {
	cfg, err := c.TierConfig(tier)
	if err != nil {
		return nil, err
	}
	sel := cfg.Specs
	if len(sel.IDs) > 0 {
		return c.SpecsByID(sel.IDs)
	}
	expr := strings.TrimSpace(sel.Expression)
	if expr == "" || expr == "all" {
		return c.AllSpecs(), nil
	}
	// Section wildcard expressions, e.g. "all_5.4 + all_5.5".
	out := []tc8.SpecDefinition{}
	for _, part := range strings.Split(expr, "+") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, "all_") {
			return nil, serrors.New("unsupported spec selector", "selector", part)
		}
		section := tc8.Section(strings.TrimPrefix(part, "all_"))
		if section.Name() == "Unknown" {
			return nil, serrors.New("unknown section in spec selector", "selector", part)
		}
		out = append(out, c.SpecsForSection(section)...)
	}
	return out, nil
}
