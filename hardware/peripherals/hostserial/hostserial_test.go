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

package hostserial_test

import (
	"testing"

	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/peripherals/hostserial"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/test"
)

const slot = 1

func poke(ser *hostserial.HostSerial, reg uint8, data uint8) bus.Status {
	cmd := bus.Command{Direction: bus.Write, Strobe: true, Slot: slot, Offset: uint16(reg), Data: data}
	out, _ := ser.Step(cmd, bus.Status{}, cmd.Data, ticks.Pulses{})
	return out
}

func peek(ser *hostserial.HostSerial, reg uint8) uint8 {
	cmd := bus.Command{Direction: bus.Read, Strobe: true, Slot: slot, Offset: uint16(reg)}
	_, data := ser.Step(cmd, bus.Status{}, cmd.Data, ticks.Pulses{})
	return data
}

// run the serial line for one 100us period with no bus activity.
func drainTick(ser *hostserial.HostSerial) {
	p := ticks.Pulses{}
	p.Decade[ticks.U100] = true
	ser.Step(bus.Idle(), bus.Status{}, 0, p)
}

func TestTransmit(t *testing.T) {
	ser := hostserial.NewHostSerial(slot)
	tw := &test.CompareWriter{}
	ser.SetOutput(tw)

	for _, b := range []uint8{'h', 'e', 'l', 'l', 'o'} {
		poke(ser, hostserial.RegFIFO, b)
	}
	test.Equate(t, ser.Pending(), 5)

	// one byte leaves per serial line period
	drainTick(ser)
	test.Equate(t, ser.Pending(), 4)

	for i := 0; i < 10; i++ {
		drainTick(ser)
	}
	test.Equate(t, ser.Pending(), 0)
	test.ExpectedSuccess(t, tw.Compare("hello"))
}

func TestOverflow(t *testing.T) {
	ser := hostserial.NewHostSerial(slot)

	for i := 0; i < hostserial.FIFOCapacity; i++ {
		out := poke(ser, hostserial.RegFIFO, uint8(i))
		test.ExpectedFailure(t, out.Busy)
	}
	test.ExpectedFailure(t, ser.Overflow())

	// the write that wraps the FIFO completes on the bus and sets the
	// sticky flag. it must not assert busy: a retrying host would wrap
	// the FIFO again on every tick the command is held
	out := poke(ser, hostserial.RegFIFO, 0xff)
	test.ExpectedFailure(t, out.Busy)
	test.ExpectedSuccess(t, ser.Overflow())
	test.Equate(t, ser.Pending(), hostserial.FIFOCapacity)

	// flag is sticky: still set after the FIFO has drained
	for i := 0; i < hostserial.FIFOCapacity; i++ {
		drainTick(ser)
	}
	test.Equate(t, ser.Pending(), 0)
	test.Equate(t, peek(ser, hostserial.RegStatus), hostserial.StatusOverflow)

	// cleared by a write to the status register
	poke(ser, hostserial.RegStatus, 0)
	test.Equate(t, peek(ser, hostserial.RegStatus), 0x00)
}

// the oldest byte is the one lost on overflow.
func TestOverflowWrap(t *testing.T) {
	ser := hostserial.NewHostSerial(slot)
	tw := &test.CompareWriter{}
	ser.SetOutput(tw)

	for i := 0; i < hostserial.FIFOCapacity; i++ {
		poke(ser, hostserial.RegFIFO, 'a')
	}
	poke(ser, hostserial.RegFIFO, 'z')

	for i := 0; i < hostserial.FIFOCapacity+1; i++ {
		drainTick(ser)
	}

	s := tw.String()
	test.Equate(t, len(s), hostserial.FIFOCapacity)
	test.Equate(t, s[len(s)-1:], "z")
}

func TestPowerRegister(t *testing.T) {
	ser := hostserial.NewHostSerial(slot)

	test.Equate(t, ser.Power().String(), "fullon")

	poke(ser, hostserial.RegPower, uint8(hostserial.PowerDoze))
	test.Equate(t, ser.Power().String(), "doze")
	test.Equate(t, peek(ser, hostserial.RegPower), uint8(hostserial.PowerDoze))

	poke(ser, hostserial.RegPower, uint8(hostserial.PowerFullOn))
	test.Equate(t, ser.Power().String(), "fullon")
}
