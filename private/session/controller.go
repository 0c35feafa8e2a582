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

// Package session isolates test cases from one another: before a suite
// runs the DUT is brought to a known-clean state, and after it the
// residue of the run is cleared again. The Controller abstracts the
// management access to the switch; most automotive DUTs expose none, which
// the NullController models.
package session

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/vishvananda/netlink"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/dut"
)

// Controller is the DUT management contract used for session hygiene.
type Controller interface {
	// ClearMACTable flushes the DUT's address table.
	ClearMACTable(ctx context.Context) error
	// ClearStatistics resets the DUT's port counters.
	ClearStatistics(ctx context.Context) error
	// VerifyLinkState checks that all test ports have link.
	VerifyLinkState(ctx context.Context) error
	// MACTableEntryCount reports the number of learned addresses, or -1
	// when the DUT does not expose its table.
	MACTableEntryCount(ctx context.Context) (int, error)
	// ResetDUT power-cycles or reboots the device.
	ResetDUT(ctx context.Context) error
}

// NullController is the no-management-plane controller. It cannot clear
// or inspect anything, so it assumes the DUT is clean and relies on MAC
// aging for isolation between runs.
type NullController struct{}

func (NullController) ClearMACTable(ctx context.Context) error {
	log.FromCtx(ctx).Debug("No management access, relying on MAC aging")
	return nil
}

func (NullController) ClearStatistics(ctx context.Context) error { return nil }

func (NullController) VerifyLinkState(ctx context.Context) error { return nil }

func (NullController) MACTableEntryCount(ctx context.Context) (int, error) {
	return -1, nil
}

func (NullController) ResetDUT(ctx context.Context) error {
	return serrors.New("DUT reset not supported without management access")
}

// SimController manages the in-process switch model.
type SimController struct {
	Sim *dut.SimInterface
}

func (c SimController) ClearMACTable(ctx context.Context) error {
	c.Sim.ClearMACTable()
	return nil
}

func (c SimController) ClearStatistics(ctx context.Context) error {
	c.Sim.ClearCaptures()
	return nil
}

func (c SimController) VerifyLinkState(ctx context.Context) error {
	return nil
}

func (c SimController) MACTableEntryCount(ctx context.Context) (int, error) {
	return c.Sim.MACTableEntries(), nil
}

func (c SimController) ResetDUT(ctx context.Context) error {
	c.Sim.ClearMACTable()
	c.Sim.ClearCaptures()
	return nil
}

// resetTimeout bounds the external reset command. A wedged reset script
// must not hang the whole suite.
const resetTimeout = 2 * time.Minute

// LinkController verifies harness-side link state through the kernel and
// resets the DUT with the profile's external command. Table and counter
// state is not reachable, as with NullController.
type LinkController struct {
	Profile *tc8.Profile
}

func (c LinkController) ClearMACTable(ctx context.Context) error { return nil }

func (c LinkController) ClearStatistics(ctx context.Context) error { return nil }

func (c LinkController) VerifyLinkState(ctx context.Context) error {
	for _, port := range c.Profile.Ports {
		link, err := netlink.LinkByName(port.InterfaceName)
		if err != nil {
			return serrors.Wrap("looking up link", err,
				"port", port.ID, "interface", port.InterfaceName)
		}
		if link.Attrs().OperState != netlink.OperUp {
			return serrors.New("link down",
				"port", port.ID, "interface", port.InterfaceName,
				"state", link.Attrs().OperState)
		}
	}
	return nil
}

func (c LinkController) MACTableEntryCount(ctx context.Context) (int, error) {
	return -1, nil
}

func (c LinkController) ResetDUT(ctx context.Context) error {
	if !c.Profile.CanReset || c.Profile.ResetCommand == "" {
		return serrors.New("profile does not allow DUT reset",
			"dut", c.Profile.Name)
	}
	ctx, cancel := context.WithTimeout(ctx, resetTimeout)
	defer cancel()

	parts := strings.Fields(c.Profile.ResetCommand)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return serrors.Wrap("running reset command", err,
			"command", c.Profile.ResetCommand, "output", string(out))
	}
	log.FromCtx(ctx).Info("DUT reset", "command", c.Profile.ResetCommand)
	return nil
}
