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
	"bytes"
	"net"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
)

// BuildFrame serializes a test frame from case parameters. Tagged frames
// carry the requested TPID on the outer tag; double-tagged frames carry a
// customer (0x8100) inner tag with the inner VID.
func BuildFrame(params tc8.CaseParams) ([]byte, error) {
	srcMAC, err := net.ParseMAC(params.SrcMAC)
	if err != nil {
		return nil, serrors.Wrap("parsing source MAC", err, "mac", params.SrcMAC)
	}
	dstMAC, err := net.ParseMAC(params.DstMAC)
	if err != nil {
		return nil, serrors.Wrap("parsing destination MAC", err, "mac", params.DstMAC)
	}

	eth := &layers.Ethernet{
		SrcMAC: srcMAC,
		DstMAC: dstMAC,
	}

	stack := []gopacket.SerializableLayer{eth}
	payloadType := layers.EthernetTypeIPv4
	if params.Protocol == tc8.ProtocolARP {
		payloadType = layers.EthernetTypeARP
	}

	switch params.FrameClass {
	case tc8.FrameUntagged:
		eth.EthernetType = payloadType
	case tc8.FrameSingleTagged:
		eth.EthernetType = layers.EthernetType(params.TPID)
		stack = append(stack, &layers.Dot1Q{
			VLANIdentifier: params.VID,
			Type:           payloadType,
		})
	case tc8.FrameDoubleTagged:
		inner := params.InnerVID
		if inner == 0 {
			inner = params.VID
		}
		eth.EthernetType = layers.EthernetType(params.TPID)
		stack = append(stack,
			&layers.Dot1Q{
				VLANIdentifier: params.VID,
				Type:           layers.EthernetType(tc8.TPIDCustomer),
			},
			&layers.Dot1Q{
				VLANIdentifier: inner,
				Type:           payloadType,
			},
		)
	default:
		return nil, serrors.New("unknown frame class", "class", params.FrameClass)
	}

	switch params.Protocol {
	case tc8.ProtocolARP:
		stack = append(stack, &layers.ARP{
			AddrType:          layers.LinkTypeEthernet,
			Protocol:          layers.EthernetTypeIPv4,
			HwAddressSize:     6,
			ProtAddressSize:   4,
			Operation:         layers.ARPRequest,
			SourceHwAddress:   srcMAC,
			SourceProtAddress: []byte{10, 0, 0, 1},
			DstHwAddress:      make([]byte, 6),
			DstProtAddress:    []byte{10, 0, 0, 2},
		})
	default:
		ip := &layers.IPv4{
			Version:  4,
			IHL:      5,
			TTL:      64,
			Protocol: layers.IPProtocolICMPv4,
			SrcIP:    net.IPv4(10, 0, 0, 1),
			DstIP:    net.IPv4(10, 0, 0, 2),
		}
		icmp := &layers.ICMPv4{
			TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
			Id:       1,
			Seq:      1,
		}
		stack = append(stack, ip, icmp,
			gopacket.Payload(bytes.Repeat([]byte{0x5a}, params.PayloadSize)))
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, stack...); err != nil {
		return nil, serrors.Wrap("serializing frame", err)
	}
	return buf.Bytes(), nil
}

// ParseFrame decodes a raw frame into the capture summary the validator
// consumes. VLAN tags are listed outermost first.
func ParseFrame(port int, ts time.Time, raw []byte) (tc8.FrameCapture, error) {
	pkt := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)
	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	if ethLayer == nil {
		return tc8.FrameCapture{}, serrors.New("frame has no ethernet layer",
			"port", port, "len", len(raw))
	}
	eth := ethLayer.(*layers.Ethernet)

	capture := tc8.FrameCapture{
		PortID:    port,
		Timestamp: ts,
		SrcMAC:    eth.SrcMAC.String(),
		DstMAC:    eth.DstMAC.String(),
		EtherType: uint16(eth.EthernetType),
	}

	// The ethernet layer's type is the TPID of the first tag; each tag's
	// embedded type is the TPID of the next.
	tpid := uint16(eth.EthernetType)
	for _, l := range pkt.Layers() {
		dot1q, ok := l.(*layers.Dot1Q)
		if !ok {
			continue
		}
		capture.VlanTags = append(capture.VlanTags, tc8.VlanTag{
			VID:  dot1q.VLANIdentifier,
			PCP:  dot1q.Priority,
			DEI:  dot1q.DropEligible,
			TPID: tc8.TPID(tpid),
		})
		tpid = uint16(dot1q.Type)
	}
	if app := pkt.ApplicationLayer(); app != nil {
		capture.PayloadLen = len(app.Payload())
	}
	return capture, nil
}
