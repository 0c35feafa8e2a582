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

package dut

import (
	"context"
	"sync"
	"time"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
)

const broadcastMAC = "ff:ff:ff:ff:ff:ff"

// SimInterface is an in-process model of a correctly behaving 802.1Q
// switch. It forwards by VLAN membership with ingress filtering, learns
// source addresses, floods unknown unicast and broadcast, and applies
// trunk/access tagging on egress. Dry runs and the test suite use it in
// place of hardware.
type SimInterface struct {
	profile *tc8.Profile

	mu          sync.Mutex
	initialized bool
	macTable    map[string]int
	captured    map[int][]tc8.FrameCapture
	linkDown    map[int]bool
}

// NewSimInterface creates a simulated data plane for the given profile.
func NewSimInterface(profile *tc8.Profile) *SimInterface {
	return &SimInterface{
		profile:  profile,
		macTable: map[string]int{},
		captured: map[int][]tc8.FrameCapture{},
		linkDown: map[int]bool{},
	}
}

func (s *SimInterface) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	log.FromCtx(ctx).Debug("Simulated interface initialized",
		"ports", len(s.profile.Ports))
	return nil
}

func (s *SimInterface) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	return nil
}

// SendFrame runs the frame through the switch model and records the
// resulting egress frames for later capture.
func (s *SimInterface) SendFrame(ctx context.Context, port int, frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return serrors.New("interface not initialized")
	}
	ingress, ok := s.profile.Port(port)
	if !ok {
		return serrors.New("unknown port", "port", port)
	}
	capture, err := ParseFrame(port, time.Now(), frame)
	if err != nil {
		return err
	}

	vid := ingress.PVID
	if tag, ok := capture.OuterTag(); ok && tag.VID != 0 {
		vid = tag.VID
	}
	// Reserved VIDs never forward; VID 0 is priority tagging and falls
	// back to the PVID above.
	if vid == tc8.MaxVID {
		return nil
	}
	// Ingress filtering: tagged frames for VLANs the port is not a member
	// of are dropped at the ingress port.
	if capture.Tagged() && !ingress.Member(vid) {
		return nil
	}

	s.macTable[capture.SrcMAC] = port

	for _, egress := range s.egressPorts(capture, vid, port) {
		out := s.applyEgressTagging(capture, vid, egress)
		out.PortID = egress.ID
		s.captured[egress.ID] = append(s.captured[egress.ID], out)
	}
	return nil
}

// egressPorts resolves the forwarding decision: known unicast goes to the
// learned port, everything else floods to the VLAN's member set.
func (s *SimInterface) egressPorts(capture tc8.FrameCapture, vid uint16, ingressID int) []tc8.Port {
	if capture.DstMAC != broadcastMAC {
		if learned, ok := s.macTable[capture.DstMAC]; ok && learned != ingressID {
			p, found := s.profile.Port(learned)
			if found && p.Member(vid) && !s.linkDown[p.ID] {
				return []tc8.Port{p}
			}
			return nil
		}
	}
	var out []tc8.Port
	for _, p := range s.profile.Ports {
		if p.ID == ingressID || !p.Member(vid) || s.linkDown[p.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// applyEgressTagging models trunk ports as tagged members and access
// ports as untagged members.
func (s *SimInterface) applyEgressTagging(capture tc8.FrameCapture, vid uint16, egress tc8.Port) tc8.FrameCapture {
	out := capture
	if egress.Trunk {
		if !out.Tagged() {
			out.VlanTags = []tc8.VlanTag{{VID: vid, TPID: tc8.TPIDCustomer}}
			out.EtherType = uint16(tc8.TPIDCustomer)
		}
		return out
	}
	out.VlanTags = nil
	return out
}

// CaptureFrames drains and returns the frames recorded on the given
// ports. Every requested port is present in the result.
func (s *SimInterface) CaptureFrames(ctx context.Context, ports []int, timeout time.Duration) (map[int][]tc8.FrameCapture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, serrors.New("interface not initialized")
	}
	out := make(map[int][]tc8.FrameCapture, len(ports))
	for _, p := range ports {
		out[p] = s.captured[p]
		if out[p] == nil {
			out[p] = []tc8.FrameCapture{}
		}
		delete(s.captured, p)
	}
	return out, nil
}

func (s *SimInterface) CheckLink(ctx context.Context, port int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profile.Port(port); !ok {
		return false, serrors.New("unknown port", "port", port)
	}
	return !s.linkDown[port], nil
}

// SetLinkState flips a port's simulated link, for fault-injection tests.
func (s *SimInterface) SetLinkState(port int, up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linkDown[port] = !up
}

// ClearMACTable drops all learned addresses.
func (s *SimInterface) ClearMACTable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.macTable = map[string]int{}
}

// MACTableEntries reports the number of learned addresses.
func (s *SimInterface) MACTableEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.macTable)
}

// ClearCaptures drops all recorded egress frames.
func (s *SimInterface) ClearCaptures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured = map[int][]tc8.FrameCapture{}
}
