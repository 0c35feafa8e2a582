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

	"github.com/gopacket/gopacket/pcap"
	"github.com/vishvananda/netlink"
	"golang.org/x/sync/errgroup"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
)

const (
	snapLen     = 9216
	readTimeout = 50 * time.Millisecond
)

// PcapInterface drives real DUT ports over libpcap handles, one per test
// harness interface named in the profile. Capture fans out to one
// goroutine per port.
type PcapInterface struct {
	profile *tc8.Profile

	mu      sync.Mutex
	handles map[int]*pcap.Handle
}

// NewPcapInterface creates an uninitialized pcap data plane for the
// profile. Initialize opens the handles.
func NewPcapInterface(profile *tc8.Profile) *PcapInterface {
	return &PcapInterface{profile: profile}
}

func (p *PcapInterface) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handles != nil {
		return nil
	}
	handles := make(map[int]*pcap.Handle, len(p.profile.Ports))
	for _, port := range p.profile.Ports {
		h, err := pcap.OpenLive(port.InterfaceName, snapLen, true, readTimeout)
		if err != nil {
			for _, open := range handles {
				open.Close()
			}
			return serrors.Wrap("opening capture handle", err,
				"port", port.ID, "interface", port.InterfaceName)
		}
		handles[port.ID] = h
	}
	p.handles = handles
	log.FromCtx(ctx).Info("Capture handles opened", "ports", len(handles))
	return nil
}

func (p *PcapInterface) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range p.handles {
		h.Close()
	}
	p.handles = nil
	return nil
}

func (p *PcapInterface) handle(port int) (*pcap.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handles == nil {
		return nil, serrors.New("interface not initialized")
	}
	h, ok := p.handles[port]
	if !ok {
		return nil, serrors.New("unknown port", "port", port)
	}
	return h, nil
}

func (p *PcapInterface) SendFrame(ctx context.Context, port int, frame []byte) error {
	h, err := p.handle(port)
	if err != nil {
		return err
	}
	if err := h.WritePacketData(frame); err != nil {
		return serrors.Wrap("injecting frame", err, "port", port)
	}
	return nil
}

// CaptureFrames captures on all requested ports concurrently until the
// timeout elapses or the context is cancelled.
func (p *PcapInterface) CaptureFrames(ctx context.Context, ports []int, timeout time.Duration) (map[int][]tc8.FrameCapture, error) {
	deadline := time.Now().Add(timeout)
	results := make(map[int][]tc8.FrameCapture, len(ports))
	var resultsMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, port := range ports {
		port := port
		h, err := p.handle(port)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			frames, err := capturePort(ctx, h, port, deadline)
			if err != nil {
				return err
			}
			resultsMu.Lock()
			results[port] = frames
			resultsMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// capturePort polls one handle until the deadline. The short pcap read
// timeout keeps the loop responsive to context cancellation.
func capturePort(ctx context.Context, h *pcap.Handle, port int, deadline time.Time) ([]tc8.FrameCapture, error) {
	frames := []tc8.FrameCapture{}
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, ci, err := h.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired {
			continue
		}
		if err != nil {
			return nil, serrors.Wrap("reading captured frame", err, "port", port)
		}
		capture, err := ParseFrame(port, ci.Timestamp, data)
		if err != nil {
			log.Debug("Discarding unparseable frame", "port", port, "err", err)
			continue
		}
		frames = append(frames, capture)
	}
	return frames, nil
}

// CheckLink reads the interface operational state from the kernel.
func (p *PcapInterface) CheckLink(ctx context.Context, port int) (bool, error) {
	prt, ok := p.profile.Port(port)
	if !ok {
		return false, serrors.New("unknown port", "port", port)
	}
	link, err := netlink.LinkByName(prt.InterfaceName)
	if err != nil {
		return false, serrors.Wrap("looking up link", err,
			"interface", prt.InterfaceName)
	}
	return link.Attrs().OperState == netlink.OperUp, nil
}
