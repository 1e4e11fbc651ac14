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

// Package i2c implements the bit-banged I2C master engine.
//
// The engine is driven by a packet RAM of two bit codes, one code per bit
// cell:
//
//	00  data zero
//	01  data one, or a read cell (the line is released so the target can
//	    drive it)
//	10  start
//	11  stop
//
// The host streams a packet into the RAM, one cell per register offset. A
// write to offset zero while the engine is idle arms the engine; because
// the bit clock is several orders of magnitude slower than the register
// bus, the host always finishes streaming the remaining cells long before
// the engine catches up with them.
//
// Each bit cell is played out over four quarters of the bit clock:
//
//	quarter 0: the data line is driven to the cell's value, or released
//	           for cells that the target may drive
//	quarter 1: the clock line is released (open drain "high"). the engine
//	           then waits until it observes the line actually high: a
//	           target holding the clock low (clock stretching) freezes the
//	           engine's timing until release
//	quarter 2: for data cells, the observed level of the data line is
//	           latched as the cell's authoritative value. start and stop
//	           cells make their data line transition here, while the clock
//	           is high
//	quarter 3: the clock line is driven low. a stop cell instead completes
//	           the packet: both lines are released and dataready is raised
//
// A packet has no fixed length: completion is defined purely by
// encountering a stop cell. After completion the RAM holds the sampled
// values of every read cell until the host acknowledges by reading the
// status register.
//
// Both external lines are open drain: the engine (and the target) either
// drives a line low or releases it. A line is high only when nobody is
// driving it low. Line levels settle for a full tick of the base clock
// before the engine acts on them, which keeps the clock and data edges
// cleanly separated on the physical bus.
//
// Malformed packets (a cell sequence that is not [start, data..., stop])
// are not validated. The host is responsible for never writing them; the
// engine has no error state.
package i2c

import (
	"fmt"

	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/logger"
)

// the two bit codes stored per bit cell in the packet RAM.
const (
	BitZero  uint8 = 0b00
	BitOne   uint8 = 0b01
	BitStart uint8 = 0b10
	BitStop  uint8 = 0b11
)

// PacketRAMSize is the number of bit cells in the packet RAM.
const PacketRAMSize = 64

// register offsets. offsets below PacketRAMSize address the packet RAM
// directly, one bit cell per offset.
const (
	RegConfig uint16 = PacketRAMSize + iota
	RegStatus
	NumRegisters
)

// status register bits.
const (
	StatusDataReady  uint8 = 0x01
	StatusInTransfer uint8 = 0x02
)

// Rate of the bit clock.
type Rate uint8

// List of valid Rate values. The zero value is the conventional 100kHz.
const (
	Rate100k Rate = iota
	Rate400k
	Rate1M
	Rate10k
)

func (r Rate) String() string {
	switch r {
	case Rate100k:
		return "100kHz"
	case Rate400k:
		return "400kHz"
	case Rate1M:
		return "1MHz"
	case Rate10k:
		return "10kHz"
	}
	panic("unknown i2c rate")
}

// ticksPerQuarter returns the length of one bit clock quarter in base clock
// ticks. The faster rates are approximations: the base clock does not
// divide them evenly.
func (r Rate) ticksPerQuarter() int {
	switch r {
	case Rate100k:
		return 25
	case Rate400k:
		return 6
	case Rate1M:
		return 2
	case Rate10k:
		return 250
	}
	panic("unknown i2c rate")
}

// I2C implements the bus.Peripheral interface.
type I2C struct {
	slot uint8

	// the packet RAM. one two bit code per cell
	ram [PacketRAMSize]uint8

	// bit clock configuration
	rate Rate

	// session state. a session begins when the host writes to cell zero
	// while idle and ends when the engine plays a stop cell
	inTransfer bool
	bitIndex   int
	quarter    int
	count      int

	// dataready is raised on completion and cleared by a strobed read of
	// the status register
	dataready bool

	// number of cells in the most recently completed packet
	packetLen int

	// open drain drive state: the engine either drives a line low or
	// releases it
	sdaDriveLow bool
	sclDriveLow bool

	// a target device may also drive either line low. clock stretching is
	// the target holding SCL low
	targetSDALow bool
	targetSCLLow bool

	// the observed line levels. updated every tick from the drive states of
	// the previous tick, so a driven value is always settled for a full
	// tick before the engine acts on it
	SDA Trace
	SCL Trace
}

// NewI2C is the preferred method of initialisation for the I2C type.
func NewI2C(slot uint8) *I2C {
	eng := &I2C{
		slot: slot,
		SDA:  NewTrace("SDA"),
		SCL:  NewTrace("SCL"),
	}
	return eng
}

// ID implements the bus.Peripheral interface.
func (eng *I2C) ID() bus.PeripheralID {
	return "ei2c"
}

// Slot implements the bus.Peripheral interface.
func (eng *I2C) Slot() uint8 {
	return eng.slot
}

// Reset implements the bus.Peripheral interface.
func (eng *I2C) Reset() {
	for i := range eng.ram {
		eng.ram[i] = 0
	}
	eng.rate = Rate100k
	eng.inTransfer = false
	eng.bitIndex = 0
	eng.quarter = 0
	eng.count = 0
	eng.dataready = false
	eng.packetLen = 0
	eng.sdaDriveLow = false
	eng.sclDriveLow = false
	eng.SDA = NewTrace("SDA")
	eng.SCL = NewTrace("SCL")
}

// SetTargetSDA simulates a target device driving (true) or releasing
// (false) the data line.
func (eng *I2C) SetTargetSDA(driveLow bool) {
	eng.targetSDALow = driveLow
}

// SetTargetSCL simulates a target device driving (true) or releasing
// (false) the clock line. Holding the clock low is how a target stretches
// the clock.
func (eng *I2C) SetTargetSCL(driveLow bool) {
	eng.targetSCLLow = driveLow
}

// BitQuarter returns the quarter of the bit clock the engine is currently
// in.
func (eng *I2C) BitQuarter() int {
	return eng.quarter
}

// BitIndex returns the packet RAM cell the engine is currently playing.
func (eng *I2C) BitIndex() int {
	return eng.bitIndex
}

// InTransfer returns true if a session is in progress.
func (eng *I2C) InTransfer() bool {
	return eng.inTransfer
}

// DataReady returns true if a completed session is waiting to be
// acknowledged by the host.
func (eng *I2C) DataReady() bool {
	return eng.dataready
}

// PacketLen returns the number of cells in the most recently completed
// packet.
func (eng *I2C) PacketLen() int {
	return eng.packetLen
}

// Cell returns the code stored in the given packet RAM cell. After a
// completed session, read cells hold the sampled line values.
func (eng *I2C) Cell(idx int) uint8 {
	if idx < 0 || idx >= PacketRAMSize {
		return 0
	}
	return eng.ram[idx]
}

// arm begins a new session. the engine starts at cell zero, quarter zero.
func (eng *I2C) arm() {
	eng.inTransfer = true
	eng.dataready = false
	eng.bitIndex = 0
	eng.quarter = 0
	eng.count = eng.rate.ticksPerQuarter()
	eng.enterQuarter()
}

// complete the session. both lines are released, leaving the bus idle, and
// the packet is presented to the host.
func (eng *I2C) complete() {
	eng.inTransfer = false
	eng.dataready = true
	eng.packetLen = eng.bitIndex + 1
	eng.sdaDriveLow = false
	eng.sclDriveLow = false
	logger.Logf("ei2c", "packet complete: %d cells", eng.packetLen)
}

// enterQuarter performs the actions for the quarter just entered. drive
// state changes made here are not observable on the lines until the next
// tick.
func (eng *I2C) enterQuarter() {
	code := eng.ram[eng.bitIndex] & 0x03

	switch eng.quarter {
	case 0:
		// set up the data line while the clock is low
		switch code {
		case BitZero:
			eng.sdaDriveLow = true
		case BitOne:
			// released: a read cell. the target is free to drive it
			eng.sdaDriveLow = false
		case BitStart:
			eng.sdaDriveLow = false
		case BitStop:
			eng.sdaDriveLow = true
		}

	case 1:
		// release the clock line. the wait for the line to be observed
		// high happens in step(), not here
		eng.sclDriveLow = false

	case 2:
		switch code {
		case BitZero, BitOne:
			// the observed line level is the authoritative value of the
			// cell. for a released cell this is where a target-driven
			// zero is captured
			if eng.SDA.Hi() {
				eng.ram[eng.bitIndex] = BitOne
			} else {
				eng.ram[eng.bitIndex] = BitZero
			}
		case BitStart:
			// data falls while the clock is high
			eng.sdaDriveLow = true
		case BitStop:
			// data rises while the clock is high
			eng.sdaDriveLow = false
		}

	case 3:
		if code == BitStop {
			eng.complete()
		} else {
			eng.sclDriveLow = true
		}
	}
}

// step the engine forward one tick of the base clock.
func (eng *I2C) step() {
	// the clock stretching accommodation: after releasing the clock the
	// engine must observe the line actually high before its timing
	// advances. a target holding the line low freezes the engine in
	// quarter 1
	if eng.quarter == 1 && eng.SCL.Lo() {
		return
	}

	eng.count--
	if eng.count > 0 {
		return
	}

	eng.count = eng.rate.ticksPerQuarter()
	eng.quarter++
	if eng.quarter > 3 {
		eng.quarter = 0
		eng.bitIndex++
		if eng.bitIndex >= PacketRAMSize {
			// ran off the end of the RAM without a stop cell. a host that
			// writes well formed packets never gets here
			eng.bitIndex = PacketRAMSize - 1
			eng.complete()
			return
		}
	}
	eng.enterQuarter()
}

// Step implements the bus.Peripheral interface.
func (eng *I2C) Step(cmd bus.Command, in bus.Status, data uint8, pulses ticks.Pulses) (bus.Status, uint8) {
	// line levels settle from the previous tick's drive states before the
	// engine acts on them
	eng.SDA.Tick(!eng.sdaDriveLow && !eng.targetSDALow)
	eng.SCL.Tick(!eng.sclDriveLow && !eng.targetSCLLow)

	// the engine is paced by the base pulse. in the doze and sleep power
	// states the pulse is gated off and the engine freezes
	if eng.inTransfer && pulses.Decade[ticks.N100] {
		eng.step()
	}

	match := cmd.AddressesSlot(eng.slot, NumRegisters)

	var local uint8
	var busy bool

	switch {
	case match:
		local, busy = eng.access(cmd)

	case !cmd.Strobe && eng.dataready:
		// present the number of cells the host should read back
		match = true
		local = uint8(eng.packetLen)
	}

	return bus.Reply(match, busy, local, in, data)
}

// access performs the register effect of a matched command.
func (eng *I2C) access(cmd bus.Command) (uint8, bool) {
	if cmd.Offset < PacketRAMSize {
		idx := int(cmd.Offset)

		if cmd.Direction == bus.Write {
			// cells the engine has already consumed are owned by the
			// engine until the session ends. the busy line tells the host
			// to hold off
			if eng.inTransfer && idx <= eng.bitIndex {
				return 0, true
			}

			eng.ram[idx] = cmd.Data & 0x03

			// a write to cell zero while idle begins a session
			if idx == 0 && !eng.inTransfer {
				eng.arm()
			}
			return cmd.Data & 0x03, false
		}

		return eng.ram[idx], false
	}

	switch cmd.Offset {
	case RegConfig:
		if cmd.Direction == bus.Write {
			if eng.inTransfer {
				return 0, true
			}
			eng.rate = Rate(cmd.Data & 0x03)
			logger.Logf("ei2c", "bit clock: %v", eng.rate)
		}
		return uint8(eng.rate), false

	case RegStatus:
		s := uint8(0)
		if eng.dataready {
			s |= StatusDataReady
		}
		if eng.inTransfer {
			s |= StatusInTransfer
		}

		// the strobed read is the acknowledge half of the handshake: the
		// packet has been reported and will not be reported again
		if cmd.Direction == bus.Read && cmd.Strobe {
			eng.dataready = false
		}
		return s, false
	}

	return 0, false
}

func (eng *I2C) String() string {
	if !eng.inTransfer {
		if eng.dataready {
			return fmt.Sprintf("ei2c: dataready (%d cells)", eng.packetLen)
		}
		return "ei2c: idle"
	}
	return fmt.Sprintf("ei2c: cell=%d quarter=%d rate=%v", eng.bitIndex, eng.quarter, eng.rate)
}
