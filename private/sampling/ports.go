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

package sampling

import (
	"github.com/autoeth/tc8verify/pkg/private/serrors"
)

// PortStrategy selects how ingress/egress port pairs are formed.
type PortStrategy string

// The port pairing strategies.
const (
	// PortFirstPair uses only the first two configured ports.
	PortFirstPair PortStrategy = "first_pair"
	// PortDiagonal uses each port once as ingress, paired with the
	// cyclically next port. Linear in port count.
	PortDiagonal PortStrategy = "diagonal"
	// PortAllPairs uses every ordered pair with distinct ports.
	PortAllPairs PortStrategy = "all_pairs"
	// PortAllCombinations uses every unordered pair, half the cost of
	// all_pairs, for behaviors where direction does not matter.
	PortAllCombinations PortStrategy = "all_combinations"
)

// ParsePortStrategy parses a port strategy name. The empty string maps to
// the all_combinations default.
func ParsePortStrategy(s string) (PortStrategy, error) {
	switch PortStrategy(s) {
	case "":
		return PortAllCombinations, nil
	case PortFirstPair, PortDiagonal, PortAllPairs, PortAllCombinations:
		return PortStrategy(s), nil
	default:
		return "", serrors.New("unknown port sampling strategy", "strategy", s)
	}
}

// PortPair is a directed ingress/egress pairing.
type PortPair struct {
	Ingress int
	Egress  int
}

// ErrSinglePort is returned alongside the degenerate self-pair of a 1-port
// DUT: forwarding cannot be verified, the caller must surface a warning.
var ErrSinglePort = serrors.New("single port DUT, forwarding cannot be verified")

// SamplePortPairs forms ingress/egress pairs from the configured port ids.
// A single physical port yields one self-paired entry together with
// ErrSinglePort; an empty port list is invalid.
func SamplePortPairs(strategy PortStrategy, portIDs []int) ([]PortPair, error) {
	if len(portIDs) == 0 {
		return nil, serrors.New("no ports configured")
	}
	if len(portIDs) == 1 {
		return []PortPair{{Ingress: portIDs[0], Egress: portIDs[0]}}, ErrSinglePort
	}

	switch strategy {
	case PortFirstPair:
		return []PortPair{{Ingress: portIDs[0], Egress: portIDs[1]}}, nil
	case PortDiagonal:
		pairs := make([]PortPair, 0, len(portIDs))
		for i, ingress := range portIDs {
			pairs = append(pairs, PortPair{Ingress: ingress, Egress: portIDs[(i+1)%len(portIDs)]})
		}
		return pairs, nil
	case PortAllPairs:
		pairs := make([]PortPair, 0, len(portIDs)*(len(portIDs)-1))
		for _, ingress := range portIDs {
			for _, egress := range portIDs {
				if ingress != egress {
					pairs = append(pairs, PortPair{Ingress: ingress, Egress: egress})
				}
			}
		}
		return pairs, nil
	case PortAllCombinations, "":
		pairs := make([]PortPair, 0, len(portIDs)*(len(portIDs)-1)/2)
		for i := range portIDs {
			for j := i + 1; j < len(portIDs); j++ {
				pairs = append(pairs, PortPair{Ingress: portIDs[i], Egress: portIDs[j]})
			}
		}
		return pairs, nil
	default:
		return nil, serrors.New("unknown port sampling strategy", "strategy", strategy)
	}
}
