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

package espi_test

import (
	"testing"

	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/peripherals/espi"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/test"
)

const slot = 5

func basePulse() ticks.Pulses {
	p := ticks.Pulses{}
	p.Decade[ticks.N100] = true
	return p
}

func poke(shf *espi.ESPI, offset uint16, data uint8) bus.Status {
	cmd := bus.Command{Direction: bus.Write, Strobe: true, Slot: slot, Offset: offset, Data: data}
	out, _ := shf.Step(cmd, bus.Status{}, cmd.Data, basePulse())
	return out
}

func peek(shf *espi.ESPI, offset uint16) uint8 {
	cmd := bus.Command{Direction: bus.Read, Strobe: true, Slot: slot, Offset: offset}
	_, data := shf.Step(cmd, bus.Status{}, cmd.Data, basePulse())
	return data
}

func pollTick(shf *espi.ESPI) uint8 {
	cmd := bus.Idle()
	_, data := shf.Step(cmd, bus.Status{}, cmd.Data, basePulse())
	return data
}

// shiftMonitor watches the external lines the way a logic analyser would,
// sampling MOSI at every rising clock edge. loopback optionally ties MISO
// to MOSI so that the engine reads back what it sends.
type shiftMonitor struct {
	bits     []bool
	lastSCK  bool
	loopback bool
}

func (mon *shiftMonitor) tick(shf *espi.ESPI) {
	if shf.SCK() && !mon.lastSCK {
		mon.bits = append(mon.bits, shf.MOSI())
	}
	mon.lastSCK = shf.SCK()
	if mon.loopback {
		shf.SetMISO(shf.MOSI())
	}
}

func (mon *shiftMonitor) bytes(t *testing.T) []uint8 {
	t.Helper()
	if len(mon.bits)%8 != 0 {
		t.Fatalf("captured %d bits, not a whole number of bytes", len(mon.bits))
	}
	b := make([]uint8, 0, len(mon.bits)/8)
	for i := 0; i < len(mon.bits); i += 8 {
		var v uint8
		for _, bit := range mon.bits[i : i+8] {
			v <<= 1
			if bit {
				v |= 1
			}
		}
		b = append(b, v)
	}
	return b
}

// stream a packet into the FIFO and run the engine to completion, feeding
// the monitor on every tick.
func runPacket(t *testing.T, shf *espi.ESPI, mon *shiftMonitor, packet []uint8) {
	t.Helper()

	for _, b := range packet {
		poke(shf, espi.RegFIFO, b)
		if mon != nil {
			mon.tick(shf)
		}
	}

	const timeout = 1000000
	for i := 0; i < timeout; i++ {
		if shf.DataReady() {
			return
		}
		pollTick(shf)
		if mon != nil {
			mon.tick(shf)
		}
	}
	t.Fatal("shift sequence did not complete")
}

func TestShiftOut(t *testing.T) {
	for _, rate := range []espi.Rate{espi.Rate2M, espi.Rate1M, espi.Rate500k, espi.Rate100k} {
		shf := espi.NewESPI(slot)
		poke(shf, espi.RegConfig, uint8(rate)<<2)

		mon := &shiftMonitor{}
		runPacket(t, shf, mon, []uint8{0xa5, 0x3c})

		got := mon.bytes(t)
		test.Equate(t, len(got), 2)
		test.Equate(t, got[0], uint8(0xa5))
		test.Equate(t, got[1], uint8(0x3c))
		test.Equate(t, shf.ReplyLen(), 2)
	}
}

func TestLoopbackReply(t *testing.T) {
	shf := espi.NewESPI(slot)
	mon := &shiftMonitor{loopback: true}
	runPacket(t, shf, mon, []uint8{0x9e, 0x01, 0xff})

	test.Equate(t, peek(shf, espi.RegReply), uint8(0x9e))
	test.Equate(t, peek(shf, espi.RegReply+1), uint8(0x01))
	test.Equate(t, peek(shf, espi.RegReply+2), uint8(0xff))
}

func TestChipSelect(t *testing.T) {
	shf := espi.NewESPI(slot)
	test.Equate(t, shf.CS(), true)

	// arm the engine and wait for the shift to begin
	poke(shf, espi.RegFIFO, 0x55)
	for !shf.SCK() && shf.CS() {
		pollTick(shf)
	}
	test.Equate(t, shf.CS(), false)

	for !shf.DataReady() {
		pollTick(shf)
	}
	test.Equate(t, shf.CS(), true)

	// forced modes hold the line regardless of engine state
	shf = espi.NewESPI(slot)
	poke(shf, espi.RegConfig, uint8(espi.CSForcedHigh))
	poke(shf, espi.RegFIFO, 0x55)
	for !shf.DataReady() {
		test.Equate(t, shf.CS(), true)
		pollTick(shf)
	}
}

func TestBusyWhileShifting(t *testing.T) {
	shf := espi.NewESPI(slot)
	poke(shf, espi.RegFIFO, 0xf0)

	// wait for the shift sequence to start
	for shf.CS() {
		pollTick(shf)
	}

	out := poke(shf, espi.RegFIFO, 0xaa)
	test.Equate(t, out.Match, true)
	test.Equate(t, out.Busy, true)

	out = poke(shf, espi.RegConfig, 0x00)
	test.Equate(t, out.Busy, true)
}

func TestDataReadyHandshake(t *testing.T) {
	shf := espi.NewESPI(slot)

	// nothing to report while idle
	cmd := bus.Idle()
	out, _ := shf.Step(cmd, bus.Status{}, cmd.Data, basePulse())
	test.Equate(t, out.Match, false)

	runPacket(t, shf, nil, []uint8{0x42})

	// the poll sweep presents the reply length
	test.Equate(t, pollTick(shf), uint8(1))

	// a strobed read of the first reply register acknowledges the reply
	peek(shf, espi.RegReply)
	out, _ = shf.Step(cmd, bus.Status{}, cmd.Data, basePulse())
	test.Equate(t, out.Match, false)
}

func TestReplyClearedBetweenPackets(t *testing.T) {
	shf := espi.NewESPI(slot)
	mon := &shiftMonitor{loopback: true}

	runPacket(t, shf, mon, []uint8{0x9e, 0x01, 0xff})
	test.Equate(t, peek(shf, espi.RegReply), uint8(0x9e))

	// a shorter packet must not leave bytes from the longer one readable
	// beyond its own length
	runPacket(t, shf, mon, []uint8{0x42})
	test.Equate(t, shf.ReplyLen(), 1)
	test.Equate(t, peek(shf, espi.RegReply), uint8(0x42))
	test.Equate(t, peek(shf, espi.RegReply+1), uint8(0))
	test.Equate(t, peek(shf, espi.RegReply+2), uint8(0))
}

func TestPacketOverflow(t *testing.T) {
	shf := espi.NewESPI(slot)
	for i := 0; i < espi.MaxPacket; i++ {
		poke(shf, espi.RegFIFO, uint8(i))
	}

	// the fifteenth byte is dropped, not queued
	poke(shf, espi.RegFIFO, 0xee)
	test.Equate(t, peek(shf, espi.RegFIFO), uint8(espi.MaxPacket))
}
