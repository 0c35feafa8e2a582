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

// Package dut abstracts the device under test's data plane. Frame
// injection and capture go through the FrameInterface so that the same
// orchestration code drives real hardware over pcap handles and the
// in-process switch model used for dry runs.
package dut

import (
	"context"
	"time"

	"github.com/autoeth/tc8verify/pkg/tc8"
)

// FrameInterface is the data-plane contract. Implementations must be safe
// for sequential use from a single goroutine; CaptureFrames may fan out
// internally.
type FrameInterface interface {
	// Initialize opens all port handles. Must be called before any other
	// method.
	Initialize(ctx context.Context) error
	// Shutdown releases all port handles. Idempotent.
	Shutdown(ctx context.Context) error
	// SendFrame injects one frame on the given DUT port.
	SendFrame(ctx context.Context, port int, frame []byte) error
	// CaptureFrames collects frames observed on the given ports within the
	// timeout window. Ports with no traffic map to empty slices, not
	// missing keys.
	CaptureFrames(ctx context.Context, ports []int, timeout time.Duration) (map[int][]tc8.FrameCapture, error)
	// CheckLink reports whether the port's link is up.
	CheckLink(ctx context.Context, port int) (bool, error)
}
