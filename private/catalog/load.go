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

package catalog

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/sampling"
)

// rawSpec mirrors the on-disk spec document. The section is derived from
// the TC8 reference, not stored.
type rawSpec struct {
	TC8Reference    string              `yaml:"tc8_reference"`
	Title           string              `yaml:"title"`
	Description     string              `yaml:"description"`
	Priority        string              `yaml:"priority"`
	TimingTier      string              `yaml:"timing_tier"`
	Parameters      tc8.SpecParams      `yaml:"parameters"`
	ExpectedResult  tc8.ExpectedOutcome `yaml:"expected_result"`
	FrameClasses    []tc8.FrameClass    `yaml:"applicable_frame_types"`
	ApplicableTPIDs []uint16            `yaml:"applicable_tpids"`
}

func (r rawSpec) toSpec(id string) tc8.SpecDefinition {
	timing := tc8.TimingTier(r.TimingTier)
	switch timing {
	case tc8.TimingTierA, tc8.TimingTierB, tc8.TimingTierC:
	default:
		timing = tc8.TimingTierA
	}
	priority := r.Priority
	if priority == "" {
		priority = "medium"
	}
	tpids := make([]tc8.TPID, 0, len(r.ApplicableTPIDs))
	for _, t := range r.ApplicableTPIDs {
		tpids = append(tpids, tc8.TPID(t))
	}
	return tc8.SpecDefinition{
		SpecID:                 id,
		TC8Reference:           r.TC8Reference,
		Section:                tc8.SectionFromReference(r.TC8Reference),
		Title:                  r.Title,
		Description:            r.Description,
		Priority:               priority,
		TimingTier:             timing,
		Parameters:             r.Parameters,
		ExpectedResult:         r.ExpectedResult,
		ApplicableFrameClasses: r.FrameClasses,
		ApplicableTPIDs:        tpids,
	}
}

// LoadSpecs reads all spec definition YAML files from dir. Files may
// contain multiple documents separated by "---"; every document is a map
// from spec id to definition.
func LoadSpecs(dir string) (map[string]tc8.SpecDefinition, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, serrors.Wrap("listing spec definitions", err, "dir", dir)
	}
	sort.Strings(entries)
	specs := map[string]tc8.SpecDefinition{}
	for _, path := range entries {
		if err := loadSpecFile(path, specs); err != nil {
			return nil, err
		}
	}
	log.Debug("Loaded spec definitions", "count", len(specs), "dir", dir)
	return specs, nil
}

func loadSpecFile(path string, specs map[string]tc8.SpecDefinition) error {
	f, err := os.Open(path)
	if err != nil {
		return serrors.Wrap("opening spec file", err, "file", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	for {
		var doc map[string]rawSpec
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				return nil
			}
			return serrors.Wrap("parsing spec file", err, "file", path)
		}
		for id, raw := range doc {
			if _, ok := specs[id]; ok {
				return serrors.New("duplicate spec id", "spec_id", id, "file", path)
			}
			specs[id] = raw.toSpec(id)
		}
	}
}

// rawTier mirrors the on-disk tier definition. vid_sampling accepts either
// a strategy name or an explicit VID list; specs accepts either a selector
// expression or an explicit id list.
type rawTier struct {
	Description      string      `yaml:"description"`
	Specs            interface{} `yaml:"specs"`
	VIDSampling      interface{} `yaml:"vid_sampling"`
	VIDCount         int         `yaml:"vid_count"`
	Seed             int64       `yaml:"seed"`
	PortSampling     string      `yaml:"port_sampling"`
	MaxDurationHours float64     `yaml:"max_duration_hours"`
}

func (r rawTier) toConfig() (TierConfig, error) {
	cfg := TierConfig{
		Description:      r.Description,
		MaxDurationHours: r.MaxDurationHours,
	}
	switch v := r.Specs.(type) {
	case nil:
		cfg.Specs.Expression = "all"
	case string:
		cfg.Specs.Expression = v
	case []interface{}:
		for _, id := range v {
			s, ok := id.(string)
			if !ok {
				return TierConfig{}, serrors.New("spec id must be a string", "value", id)
			}
			cfg.Specs.IDs = append(cfg.Specs.IDs, s)
		}
	default:
		return TierConfig{}, serrors.New("invalid specs selector", "value", r.Specs)
	}
	switch v := r.VIDSampling.(type) {
	case nil:
		cfg.VIDs.Strategy = sampling.VIDRepresentative
	case string:
		strategy, err := sampling.ParseVIDStrategy(v)
		if err != nil {
			return TierConfig{}, err
		}
		cfg.VIDs.Strategy = strategy
	case []interface{}:
		for _, raw := range v {
			vid, ok := raw.(int)
			if !ok || vid < 0 || vid > tc8.MaxVID {
				return TierConfig{}, serrors.New("invalid explicit VID", "value", raw)
			}
			cfg.VIDs.Explicit = append(cfg.VIDs.Explicit, uint16(vid))
		}
	default:
		return TierConfig{}, serrors.New("invalid vid_sampling", "value", r.VIDSampling)
	}
	cfg.VIDs.Count = r.VIDCount
	cfg.VIDs.Seed = r.Seed
	portStrategy, err := sampling.ParsePortStrategy(r.PortSampling)
	if err != nil {
		return TierConfig{}, err
	}
	cfg.PortStrategy = portStrategy
	return cfg, nil
}

// LoadTiers reads the tier definitions from a YAML file with a top-level
// "tiers" map. Every tier named by tc8 must be present: a run cannot fall
// back to an unconfigured tier.
func LoadTiers(path string) (map[tc8.Tier]TierConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap("reading tier definitions", err, "file", path)
	}
	var doc struct {
		Tiers map[string]rawTier `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, serrors.Wrap("parsing tier definitions", err, "file", path)
	}
	tiers := map[tc8.Tier]TierConfig{}
	for name, rt := range doc.Tiers {
		tier, err := tc8.ParseTier(name)
		if err != nil {
			return nil, err
		}
		cfg, err := rt.toConfig()
		if err != nil {
			return nil, serrors.WithCtx(err, "tier", name)
		}
		tiers[tier] = cfg
	}
	for _, tier := range []tc8.Tier{tc8.TierSmoke, tc8.TierCore, tc8.TierFull} {
		if _, ok := tiers[tier]; !ok {
			return nil, serrors.New("tier missing from definitions", "tier", tier, "file", path)
		}
	}
	return tiers, nil
}

// LoadProfile reads and validates a DUT profile from a YAML file.
func LoadProfile(path string) (*tc8.Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap("reading DUT profile", err, "file", path)
	}
	var profile tc8.Profile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return nil, serrors.Wrap("parsing DUT profile", err, "file", path)
	}
	if err := profile.Validate(); err != nil {
		return nil, serrors.Wrap("validating DUT profile", err, "file", path)
	}
	log.Debug("Loaded DUT profile", "name", profile.Name, "ports", len(profile.Ports))
	return &profile, nil
}

// Load assembles the full catalog from a spec definitions directory and a
// tier definitions file.
func Load(specDir, tiersPath string) (*Catalog, error) {
	specs, err := LoadSpecs(specDir)
	if err != nil {
		return nil, err
	}
	tiers, err := LoadTiers(tiersPath)
	if err != nil {
		return nil, err
	}
	return New(specs, tiers), nil
}
