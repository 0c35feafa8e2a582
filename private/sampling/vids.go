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

// Package sampling reduces the unbounded test parameter domains (VLAN ids,
// port pairs) to representative finite sets per execution tier. All
// strategies are pure functions: the same inputs always yield the same
// ordered sample.
package sampling

import (
	"math/rand"
	"sort"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
)

// VIDStrategy selects how VLAN ids are sampled from a range.
type VIDStrategy string

// The VID sampling strategies.
const (
	// VIDEdge samples only the domain boundary values.
	VIDEdge VIDStrategy = "edge"
	// VIDRepresentative samples boundary values plus evenly spaced
	// interior values. This is the default.
	VIDRepresentative VIDStrategy = "representative"
	// VIDRandom samples boundary values plus a seeded uniform sample of
	// the interior. Reproducible for a fixed seed.
	VIDRandom VIDStrategy = "random"
	// VIDAll samples the complete range.
	VIDAll VIDStrategy = "all"
)

// ParseVIDStrategy parses a VID strategy name. The empty string maps to the
// representative default.
func ParseVIDStrategy(s string) (VIDStrategy, error) {
	switch VIDStrategy(s) {
	case "":
		return VIDRepresentative, nil
	case VIDEdge, VIDRepresentative, VIDRandom, VIDAll:
		return VIDStrategy(s), nil
	default:
		return "", serrors.New("unknown VID sampling strategy", "strategy", s)
	}
}

// VIDRange is an inclusive VID interval.
type VIDRange struct {
	Lo uint16
	Hi uint16
}

// Size returns the number of values in the range.
func (r VIDRange) Size() int {
	return int(r.Hi) - int(r.Lo) + 1
}

// edgeValues returns the boundary values of the range: lo, hi, and their
// immediate interior neighbors when they exist. Boundary coverage is a
// safety property, so every strategy includes these.
func edgeValues(r VIDRange) []uint16 {
	set := map[uint16]struct{}{r.Lo: {}, r.Hi: {}}
	if r.Lo+1 <= r.Hi {
		set[r.Lo+1] = struct{}{}
	}
	if r.Hi >= 1 && r.Hi-1 >= r.Lo {
		set[r.Hi-1] = struct{}{}
	}
	return sortedVIDs(set)
}

func sortedVIDs(set map[uint16]struct{}) []uint16 {
	out := make([]uint16, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func fullRange(r VIDRange) []uint16 {
	out := make([]uint16, 0, r.Size())
	for v := int(r.Lo); v <= int(r.Hi); v++ {
		out = append(out, uint16(v))
	}
	return out
}

// SampleVIDs samples VLAN ids from r using the given strategy. count bounds
// the sample size for the representative and random strategies; for very
// small ranges the sample is clamped to the full range rather than padded
// with duplicates. seed makes the random strategy reproducible.
func SampleVIDs(strategy VIDStrategy, count int, r VIDRange, seed int64) ([]uint16, error) {
	if r.Lo > r.Hi {
		return nil, serrors.New("invalid VID range", "lo", r.Lo, "hi", r.Hi)
	}
	switch strategy {
	case VIDAll:
		return fullRange(r), nil
	case VIDEdge:
		return edgeValues(r), nil
	case VIDRandom:
		return sampleRandom(count, r, seed), nil
	case VIDRepresentative, "":
		return sampleRepresentative(count, r), nil
	default:
		return nil, serrors.New("unknown VID sampling strategy", "strategy", strategy)
	}
}

// sampleRepresentative keeps the edges and fills the remaining budget with
// evenly spaced interior values. Edges are never sacrificed for interior
// density.
func sampleRepresentative(count int, r VIDRange) []uint16 {
	if count >= r.Size() {
		return fullRange(r)
	}
	edges := edgeValues(r)
	remaining := count - len(edges)
	if remaining <= 0 {
		return edges
	}
	set := map[uint16]struct{}{}
	for _, v := range edges {
		set[v] = struct{}{}
	}
	step := r.Size() / remaining
	if step < 1 {
		step = 1
	}
	added := 0
	for v := int(r.Lo) + step; v < int(r.Hi) && added < remaining; v += step {
		if _, ok := set[uint16(v)]; ok {
			continue
		}
		set[uint16(v)] = struct{}{}
		added++
	}
	return sortedVIDs(set)
}

// sampleRandom keeps the edges and fills the remaining budget with a seeded
// uniform sample without replacement from the rest of the domain.
func sampleRandom(count int, r VIDRange, seed int64) []uint16 {
	if count >= r.Size() {
		return fullRange(r)
	}
	edges := edgeValues(r)
	set := map[uint16]struct{}{}
	for _, v := range edges {
		set[v] = struct{}{}
	}
	remaining := count - len(set)
	if remaining > 0 {
		pool := make([]uint16, 0, r.Size()-len(set))
		for v := int(r.Lo); v <= int(r.Hi); v++ {
			if _, ok := set[uint16(v)]; !ok {
				pool = append(pool, uint16(v))
			}
		}
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		if remaining > len(pool) {
			remaining = len(pool)
		}
		for _, v := range pool[:remaining] {
			set[v] = struct{}{}
		}
	}
	return sortedVIDs(set)
}
