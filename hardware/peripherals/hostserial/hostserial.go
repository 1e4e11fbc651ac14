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

// Package hostserial implements the host-facing serial transmit peripheral.
//
// Register map:
//
//	0x00  transmit FIFO write port. bytes are streamed here with fixed
//	      (non-incrementing) addressing
//	0x01  status. bit 0 is the sticky overflow flag; any write clears it
//	0x02  power state (two bits)
//
// The FIFO drains one byte per 100us pulse, modelling a serial line in the
// 9600 baud region. When the FIFO is full a further write wraps, discarding
// the oldest byte, and sets the sticky overflow flag. Overflow is a lossy
// but observable failure, not a halting error: the host polls and clears
// the flag at its leisure. The overflowing write completes on the bus; a
// busy refusal would make a retrying host wrap the FIFO once per held
// tick, losing far more than the one byte the policy allows.
package hostserial

import (
	"fmt"
	"io"

	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/logger"
)

// register offsets.
const (
	RegFIFO uint8 = iota
	RegStatus
	RegPower
	NumRegisters
)

// status register bits.
const (
	StatusOverflow uint8 = 0x01
)

// FIFOCapacity is the depth of the transmit FIFO.
const FIFOCapacity = 64

// PowerState of the modelled system. The host sets the power state through
// the power register; the system container reads it back and gates the
// timing pulses accordingly.
type PowerState uint8

// List of valid PowerState values. Doze turns off the peripherals that
// require precise timing. Sleep turns off everything except the bus
// interface, which is required to bring the system back out of the sleep
// state. Reset reloads every peripheral's default values and states.
const (
	PowerReset PowerState = iota
	PowerSleep
	PowerDoze
	PowerFullOn
)

func (ps PowerState) String() string {
	switch ps {
	case PowerReset:
		return "reset"
	case PowerSleep:
		return "sleep"
	case PowerDoze:
		return "doze"
	case PowerFullOn:
		return "fullon"
	}
	panic("unknown power state")
}

// HostSerial implements the bus.Peripheral interface.
type HostSerial struct {
	slot uint8

	fifo  [FIFOCapacity]uint8
	head  int
	tail  int
	count int

	overflow bool
	power    PowerState

	// drained bytes are written here. a nil output discards them
	output io.Writer
}

// NewHostSerial is the preferred method of initialisation for the
// HostSerial type.
func NewHostSerial(slot uint8) *HostSerial {
	ser := &HostSerial{slot: slot}
	ser.Reset()
	return ser
}

// ID implements the bus.Peripheral interface.
func (ser *HostSerial) ID() bus.PeripheralID {
	return "hostserial"
}

// Slot implements the bus.Peripheral interface.
func (ser *HostSerial) Slot() uint8 {
	return ser.slot
}

// Reset implements the bus.Peripheral interface.
func (ser *HostSerial) Reset() {
	ser.head = 0
	ser.tail = 0
	ser.count = 0
	ser.overflow = false
	ser.power = PowerFullOn
}

// SetOutput attaches an io.Writer to the far end of the serial line.
// Drained bytes are written to it one at a time.
func (ser *HostSerial) SetOutput(output io.Writer) {
	ser.output = output
}

// Power returns the power state most recently written by the host.
func (ser *HostSerial) Power() PowerState {
	return ser.power
}

// Overflow returns the state of the sticky overflow flag.
func (ser *HostSerial) Overflow() bool {
	return ser.overflow
}

// Pending returns the number of bytes waiting in the transmit FIFO.
func (ser *HostSerial) Pending() int {
	return ser.count
}

func (ser *HostSerial) push(data uint8) {
	if ser.count == FIFOCapacity {
		// wrap: the oldest byte is lost and the loss is observable through
		// the sticky overflow flag
		ser.tail = (ser.tail + 1) % FIFOCapacity
		ser.count--
		if !ser.overflow {
			logger.Log("hostserial", "transmit FIFO overflow")
		}
		ser.overflow = true
	}
	ser.fifo[ser.head] = data
	ser.head = (ser.head + 1) % FIFOCapacity
	ser.count++
}

func (ser *HostSerial) drain() {
	if ser.count == 0 {
		return
	}
	b := ser.fifo[ser.tail]
	ser.tail = (ser.tail + 1) % FIFOCapacity
	ser.count--

	if ser.output != nil {
		ser.output.Write([]byte{b})
	}
}

func (ser *HostSerial) status() uint8 {
	var s uint8
	if ser.overflow {
		s |= StatusOverflow
	}
	return s
}

// Step implements the bus.Peripheral interface.
func (ser *HostSerial) Step(cmd bus.Command, in bus.Status, data uint8, pulses ticks.Pulses) (bus.Status, uint8) {
	// the serial line runs regardless of bus activity
	if pulses.Decade[ticks.U100] {
		ser.drain()
	}

	match := cmd.AddressesSlot(ser.slot, uint16(NumRegisters))

	var local uint8
	var busy bool

	if match {
		switch uint8(cmd.Offset) {
		case RegFIFO:
			if cmd.Direction == bus.Write {
				// a write to a full FIFO completes on the bus. the loss is
				// the wrap inside push, observable through the sticky
				// overflow flag, not a busy refusal: holding the command
				// busy would wrap again on every held tick
				ser.push(cmd.Data)
			}
			local = uint8(ser.count)

		case RegStatus:
			local = ser.status()
			if cmd.Direction == bus.Write {
				ser.overflow = false
				local = 0
			}

		case RegPower:
			local = uint8(ser.power)
			if cmd.Direction == bus.Write {
				ser.power = PowerState(cmd.Data & 0x03)
				logger.Logf("hostserial", "power state: %v", ser.power)
			}
		}
	}

	return bus.Reply(match, busy, local, in, data)
}

func (ser *HostSerial) String() string {
	return fmt.Sprintf("hostserial: fifo=%d/%d overflow=%v power=%v",
		ser.count, FIFOCapacity, ser.overflow, ser.power)
}
