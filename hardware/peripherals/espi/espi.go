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

// Package espi implements the SPI-like byte shifter peripheral.
//
// Register map:
//
//	0x00       packet FIFO write port. bytes are streamed here with fixed
//	           addressing, up to MaxPacket bytes per packet
//	0x01       config. bits 0-1 select the chip select mode, bits 2-3 the
//	           shift clock rate
//	0x02-0x0f  reply buffer. after a completed shift sequence, byte i of
//	           the reply is the data sampled from the target while byte i
//	           of the packet was shifted out
//
// The engine starts shifting one bit period after the most recent FIFO
// write; bytes written before the delay expires extend the packet. The
// shift sequence walks the classic four states: idle, fetch next byte,
// shift the byte, send the reply. When the reply is ready it is presented
// through the poll sweep and acknowledged by a strobed read of the first
// reply register.
package espi

import (
	"fmt"

	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/logger"
)

// register offsets.
const (
	RegFIFO   uint16 = 0
	RegConfig uint16 = 1
	RegReply  uint16 = 2
)

// NumRegisters implemented by the peripheral.
const NumRegisters uint16 = 16

// MaxPacket is the largest packet the FIFO can hold.
const MaxPacket = 14

// CSMode selects the behaviour of the chip select line.
type CSMode uint8

// List of valid CSMode values.
const (
	CSActiveLow CSMode = iota
	CSActiveHigh
	CSForcedLow
	CSForcedHigh
)

func (m CSMode) String() string {
	switch m {
	case CSActiveLow:
		return "active-low"
	case CSActiveHigh:
		return "active-high"
	case CSForcedLow:
		return "forced-low"
	case CSForcedHigh:
		return "forced-high"
	}
	panic("unknown chip select mode")
}

// Rate of the shift clock.
type Rate uint8

// List of valid Rate values.
const (
	Rate2M Rate = iota
	Rate1M
	Rate500k
	Rate100k
)

func (r Rate) String() string {
	switch r {
	case Rate2M:
		return "2MHz"
	case Rate1M:
		return "1MHz"
	case Rate500k:
		return "500kHz"
	case Rate100k:
		return "100kHz"
	}
	panic("unknown espi rate")
}

// halfBit returns the length of half a bit period in base clock ticks. The
// 2MHz rate is an approximation: the base clock does not divide it evenly.
func (r Rate) halfBit() int {
	switch r {
	case Rate2M:
		return 2
	case Rate1M:
		return 5
	case Rate500k:
		return 10
	case Rate100k:
		return 50
	}
	panic("unknown espi rate")
}

// state of the shift sequence.
type state int

const (
	stateIdle state = iota
	stateGetByte
	stateSendByte
	stateSendReply
)

// ESPI implements the bus.Peripheral interface.
type ESPI struct {
	slot uint8

	fifo  [MaxPacket]uint8
	count int

	csMode CSMode
	rate   Rate

	state state

	// countdown to the start of the shift sequence. reset by every FIFO
	// write so that a streamed packet is sent as a whole
	startDelay int

	// shift state
	byteIndex int
	bitCount  int
	shift     uint8
	reply     [MaxPacket]uint8
	halfTick  int
	sckHigh   bool

	dataready bool
	replyLen  int

	// external lines
	mosi bool
	miso bool
}

// NewESPI is the preferred method of initialisation for the ESPI type.
func NewESPI(slot uint8) *ESPI {
	shf := &ESPI{slot: slot}
	return shf
}

// ID implements the bus.Peripheral interface.
func (shf *ESPI) ID() bus.PeripheralID {
	return "espi"
}

// Slot implements the bus.Peripheral interface.
func (shf *ESPI) Slot() uint8 {
	return shf.slot
}

// Reset implements the bus.Peripheral interface.
func (shf *ESPI) Reset() {
	*shf = ESPI{slot: shf.slot}
}

// SetMISO sets the level of the line driven by the target device.
func (shf *ESPI) SetMISO(level bool) {
	shf.miso = level
}

// MOSI returns the level of the engine-driven data line.
func (shf *ESPI) MOSI() bool {
	return shf.mosi
}

// SCK returns the level of the shift clock line.
func (shf *ESPI) SCK() bool {
	return shf.sckHigh
}

// CS returns the level of the chip select line.
func (shf *ESPI) CS() bool {
	switch shf.csMode {
	case CSActiveLow:
		return shf.state == stateIdle || shf.state == stateSendReply
	case CSActiveHigh:
		return !(shf.state == stateIdle || shf.state == stateSendReply)
	case CSForcedLow:
		return false
	case CSForcedHigh:
		return true
	}
	panic("unknown chip select mode")
}

// DataReady returns true if a completed reply is waiting to be
// acknowledged by the host.
func (shf *ESPI) DataReady() bool {
	return shf.dataready
}

// ReplyLen returns the number of bytes in the most recent reply.
func (shf *ESPI) ReplyLen() int {
	return shf.replyLen
}

func (shf *ESPI) step() {
	switch shf.state {
	case stateIdle:
		if shf.count == 0 {
			return
		}
		shf.startDelay--
		if shf.startDelay <= 0 {
			// clear any reply left over from the previous packet. a
			// shorter packet must not expose stale bytes beyond its
			// own length
			shf.reply = [MaxPacket]uint8{}
			shf.state = stateGetByte
		}

	case stateGetByte:
		if shf.byteIndex >= shf.count {
			shf.state = stateSendReply
			return
		}
		shf.shift = shf.fifo[shf.byteIndex]
		shf.bitCount = 0
		shf.halfTick = shf.rate.halfBit()
		shf.sckHigh = false
		shf.mosi = shf.shift&0x80 == 0x80
		shf.state = stateSendByte

	case stateSendByte:
		shf.halfTick--
		if shf.halfTick > 0 {
			return
		}
		shf.halfTick = shf.rate.halfBit()

		if !shf.sckHigh {
			// rising edge: the target's data is sampled
			shf.sckHigh = true
			shf.reply[shf.byteIndex] <<= 1
			if shf.miso {
				shf.reply[shf.byteIndex] |= 1
			}
			return
		}

		// falling edge: move to the next bit
		shf.sckHigh = false
		shf.bitCount++
		if shf.bitCount == 8 {
			shf.byteIndex++
			shf.state = stateGetByte
			return
		}
		shf.shift <<= 1
		shf.mosi = shf.shift&0x80 == 0x80

	case stateSendReply:
		shf.replyLen = shf.byteIndex
		shf.dataready = true
		shf.count = 0
		shf.byteIndex = 0
		shf.state = stateIdle
		logger.Logf("espi", "shift complete: %d bytes", shf.replyLen)
	}
}

// Step implements the bus.Peripheral interface.
func (shf *ESPI) Step(cmd bus.Command, in bus.Status, data uint8, pulses ticks.Pulses) (bus.Status, uint8) {
	if pulses.Decade[ticks.N100] {
		shf.step()
	}

	match := cmd.AddressesSlot(shf.slot, NumRegisters)

	var local uint8
	var busy bool

	switch {
	case match:
		local, busy = shf.access(cmd)

	case !cmd.Strobe && shf.dataready:
		match = true
		local = uint8(shf.replyLen)
	}

	return bus.Reply(match, busy, local, in, data)
}

func (shf *ESPI) access(cmd bus.Command) (uint8, bool) {
	shifting := shf.state != stateIdle

	switch {
	case cmd.Offset == RegFIFO:
		if cmd.Direction == bus.Write {
			if shifting {
				return 0, true
			}
			if shf.count == MaxPacket {
				// overflowing packets are a host protocol violation;
				// the byte is dropped
				return uint8(shf.count), false
			}
			shf.fifo[shf.count] = cmd.Data
			shf.count++
			shf.dataready = false
			shf.startDelay = shf.rate.halfBit() * 2
		}
		return uint8(shf.count), false

	case cmd.Offset == RegConfig:
		if cmd.Direction == bus.Write {
			if shifting {
				return 0, true
			}
			shf.csMode = CSMode(cmd.Data & 0x03)
			shf.rate = Rate((cmd.Data >> 2) & 0x03)
		}
		return uint8(shf.csMode) | uint8(shf.rate)<<2, false

	case cmd.Offset >= RegReply && cmd.Offset < NumRegisters:
		idx := int(cmd.Offset - RegReply)
		if cmd.Direction == bus.Read && cmd.Strobe && cmd.Offset == RegReply {
			shf.dataready = false
		}
		return shf.reply[idx], false
	}

	return 0, false
}

func (shf *ESPI) String() string {
	if shf.state == stateIdle {
		if shf.dataready {
			return fmt.Sprintf("espi: reply ready (%d bytes)", shf.replyLen)
		}
		return "espi: idle"
	}
	return fmt.Sprintf("espi: byte=%d bit=%d cs=%v rate=%v", shf.byteIndex, shf.bitCount, shf.csMode, shf.rate)
}
