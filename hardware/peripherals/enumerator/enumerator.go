// This file is part of Perichain.
//
// Perichain is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Perichain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Perichain.  If not, see <https://www.gnu.org/licenses/>.

// Package enumerator implements the peripheral in slot zero of every chain.
//
// The enumerator is a small ROM describing the build: eight NUL-terminated
// header strings followed by one NUL-terminated driver name for each
// occupied slot, in slot order. The host reads the ROM a byte at a time to
// discover which drivers to load, which is why the chain needs no
// out-of-band configuration channel.
package enumerator

import (
	"fmt"

	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/logger"
)

// sentinel errors for the enumerator package.
const (
	ROMOverflow = "enumerator: ROM overflow: %v"
)

// ROMSize is the fixed size of the enumerator ROM in bytes.
const ROMSize = 2048

// NumHeaderStrings is the number of header strings at the front of the ROM,
// before the driver names begin.
const NumHeaderStrings = 8

// Enumerator implements the bus.Peripheral interface.
type Enumerator struct {
	slot uint8
	rom  [ROMSize]uint8
}

// NewEnumerator is the preferred method of initialisation for the
// Enumerator type. The header strings describe the build; drivers is the
// list of driver names for every occupied slot in slot order, including the
// enumerator itself.
//
// Fewer than NumHeaderStrings header strings are padded with empty strings.
// More is an error, as is a ROM image larger than ROMSize.
func NewEnumerator(slot uint8, header []string, drivers []bus.PeripheralID) (*Enumerator, error) {
	if len(header) > NumHeaderStrings {
		return nil, curated.Errorf(ROMOverflow, fmt.Sprintf("%d header strings", len(header)))
	}

	enm := &Enumerator{slot: slot}

	idx := 0
	put := func(s string) error {
		if idx+len(s)+1 > ROMSize {
			return curated.Errorf(ROMOverflow, fmt.Sprintf("no room for %q", s))
		}
		copy(enm.rom[idx:], s)
		idx += len(s) + 1
		return nil
	}

	for i := 0; i < NumHeaderStrings; i++ {
		s := ""
		if i < len(header) {
			s = header[i]
		}
		if err := put(s); err != nil {
			return nil, err
		}
	}

	for _, d := range drivers {
		if err := put(string(d)); err != nil {
			return nil, err
		}
	}

	logger.Logf("enumerator", "ROM built: %d drivers, %d bytes", len(drivers), idx)

	return enm, nil
}

// ID implements the bus.Peripheral interface.
func (enm *Enumerator) ID() bus.PeripheralID {
	return "enumerator"
}

// Slot implements the bus.Peripheral interface.
func (enm *Enumerator) Slot() uint8 {
	return enm.slot
}

// Reset implements the bus.Peripheral interface. The ROM is immutable so
// there is nothing to do.
func (enm *Enumerator) Reset() {
}

// Step implements the bus.Peripheral interface. The enumerator is the
// simplest possible slot: reads index the ROM, writes are dropped, it is
// never busy and it never has unsolicited data.
func (enm *Enumerator) Step(cmd bus.Command, in bus.Status, data uint8, _ ticks.Pulses) (bus.Status, uint8) {
	match := cmd.AddressesSlot(enm.slot, ROMSize)

	var local uint8
	if match {
		local = enm.rom[cmd.Offset]
	}

	return bus.Reply(match, false, local, in, data)
}
