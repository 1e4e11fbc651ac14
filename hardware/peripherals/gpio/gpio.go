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

// Package gpio implements a four bit general purpose IO peripheral.
//
// Register map:
//
//	0x00  pin values. writes drive the pins configured as outputs; reads
//	      return the level of every pin
//	0x01  direction. a set bit makes the corresponding pin an output
//	0x02  interrupt-on-change mask
//
// A level change on an input pin whose mask bit is set raises a pending
// update. The pending update is presented through the poll sweep as a one
// byte read and is cleared by a strobed read of the pin value register. The
// handshake is edge-triggered: one change, one report.
package gpio

import (
	"fmt"

	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/ticks"
)

// register offsets.
const (
	RegPins uint8 = iota
	RegDirection
	RegIntrMask
	NumRegisters
)

// only the low four bits of any register are significant.
const pinMask = 0x0f

// GPIO implements the bus.Peripheral interface.
type GPIO struct {
	slot uint8
	regs bus.RegisterFile

	// level of the external input pins, set with SetPins()
	inputs uint8

	// a masked input pin has changed and the host has not read the pin
	// register since
	pending bool
}

// NewGPIO is the preferred method of initialisation for the GPIO type.
func NewGPIO(slot uint8) *GPIO {
	gpo := &GPIO{
		slot: slot,
		regs: bus.NewRegisterFile(uint16(NumRegisters)),
	}
	return gpo
}

// ID implements the bus.Peripheral interface.
func (gpo *GPIO) ID() bus.PeripheralID {
	return "gpio4"
}

// Slot implements the bus.Peripheral interface.
func (gpo *GPIO) Slot() uint8 {
	return gpo.slot
}

// Reset implements the bus.Peripheral interface.
func (gpo *GPIO) Reset() {
	gpo.regs.Reset()
	gpo.inputs = 0
	gpo.pending = false
}

// SetPins sets the level of the external pins. Only pins configured as
// inputs are affected. A change on a pin whose interrupt-on-change mask bit
// is set raises a pending update.
func (gpo *GPIO) SetPins(levels uint8) {
	levels &= pinMask

	dir := gpo.regs.Read(uint16(RegDirection))
	mask := gpo.regs.Read(uint16(RegIntrMask))

	changed := (gpo.inputs ^ levels) & ^dir & pinMask
	gpo.inputs = levels & ^dir

	if changed&mask != 0 {
		gpo.pending = true
	}
}

// Pins returns the level of the external pins: output pins at their driven
// value, input pins at the level most recently set with SetPins().
func (gpo *GPIO) Pins() uint8 {
	dir := gpo.regs.Read(uint16(RegDirection))
	out := gpo.regs.Read(uint16(RegPins))
	return ((out & dir) | (gpo.inputs & ^dir)) & pinMask
}

// Step implements the bus.Peripheral interface.
func (gpo *GPIO) Step(cmd bus.Command, in bus.Status, data uint8, _ ticks.Pulses) (bus.Status, uint8) {
	match := cmd.AddressesSlot(gpo.slot, uint16(NumRegisters))

	var local uint8

	switch {
	case match && cmd.Direction == bus.Write:
		gpo.regs.Write(cmd.Offset, cmd.Data&pinMask)
		local = cmd.Data & pinMask

	case match && cmd.Direction == bus.Read:
		if uint8(cmd.Offset) == RegPins {
			local = gpo.Pins()

			// the strobed read is the acknowledge half of the handshake
			gpo.pending = false
		} else {
			local = gpo.regs.Read(cmd.Offset)
		}

	case !cmd.Strobe && gpo.pending:
		// unsolicited update: present the number of bytes the host should
		// read from this slot
		match = true
		local = 1
	}

	return bus.Reply(match, false, local, in, data)
}

func (gpo *GPIO) String() string {
	return fmt.Sprintf("gpio4: pins=%04b dir=%04b mask=%04b pending=%v",
		gpo.Pins(),
		gpo.regs.Read(uint16(RegDirection)),
		gpo.regs.Read(uint16(RegIntrMask)),
		gpo.pending,
	)
}
