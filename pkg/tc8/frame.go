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

package tc8

import (
	"time"
)

// VlanTag is a single VLAN tag observed on a captured frame, outermost
// first in FrameCapture.VlanTags.
type VlanTag struct {
	VID  uint16 `json:"vid"`
	PCP  uint8  `json:"pcp"`
	DEI  bool   `json:"dei"`
	TPID TPID   `json:"tpid"`
}

// FrameCapture is what was observed on a port at a point in time. It is
// produced only by the DUT frame interface; the engine treats it as an
// opaque read-only value.
type FrameCapture struct {
	PortID     int       `json:"port_id"`
	Timestamp  time.Time `json:"timestamp"`
	SrcMAC     string    `json:"src_mac"`
	DstMAC     string    `json:"dst_mac"`
	EtherType  uint16    `json:"ethertype"`
	VlanTags   []VlanTag `json:"vlan_tags,omitempty"`
	PayloadLen int       `json:"payload_len"`
}

// Tagged reports whether the frame carries at least one VLAN tag.
func (f FrameCapture) Tagged() bool {
	return len(f.VlanTags) > 0
}

// OuterTag returns the outermost VLAN tag, if any.
func (f FrameCapture) OuterTag() (VlanTag, bool) {
	if len(f.VlanTags) == 0 {
		return VlanTag{}, false
	}
	return f.VlanTags[0], true
}
